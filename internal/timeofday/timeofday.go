// Package timeofday converts between HH:MM[:SS] clock strings and
// seconds-of-day integers in [0, 86400).
package timeofday

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SecondsPerDay is the size of the seconds-of-day domain
const SecondsPerDay = 86400

// ParseError is returned for malformed or out-of-range time-of-day strings
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time of day %q: %s", e.Input, e.Reason)
}

// Parse converts a 24-hour "HH:MM" or "HH:MM:SS" string to seconds of day.
// Hours must be in [0,23], minutes and seconds in [0,59].
func Parse(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, &ParseError{Input: s, Reason: "expected HH:MM or HH:MM:SS"}
	}

	fields := make([]int, len(parts))
	for i, part := range parts {
		if part == "" {
			return 0, &ParseError{Input: s, Reason: "empty component"}
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, &ParseError{Input: s, Reason: "non-numeric component"}
		}
		if n < 0 {
			return 0, &ParseError{Input: s, Reason: "negative component"}
		}
		fields[i] = n
	}

	hour, minute := fields[0], fields[1]
	second := 0
	if len(fields) == 3 {
		second = fields[2]
	}

	if hour > 23 {
		return 0, &ParseError{Input: s, Reason: "hour out of range"}
	}
	if minute > 59 {
		return 0, &ParseError{Input: s, Reason: "minute out of range"}
	}
	if second > 59 {
		return 0, &ParseError{Input: s, Reason: "second out of range"}
	}

	return hour*3600 + minute*60 + second, nil
}

// Format renders seconds of day as "HH:MM:SS". Values are reduced modulo a day.
func Format(seconds int) string {
	seconds = ((seconds % SecondsPerDay) + SecondsPerDay) % SecondsPerDay
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// FromTime returns the seconds of day for a wall-clock instant in its location
func FromTime(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
