package timeofday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"00:00", 0},
		{"00:00:00", 0},
		{"09:30", 34200},
		{"12:00:01", 43201},
		{"23:59", 86340},
		{"23:59:59", 86399},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"12",
		"12:",
		":30",
		"24:00",
		"12:60",
		"12:30:60",
		"ab:cd",
		"-1:00",
		"12:30:15:00",
		"12.30",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)

			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestParse_ResultInRange(t *testing.T) {
	got, err := Parse("23:59:59")
	require.NoError(t, err)
	assert.Less(t, got, SecondsPerDay)
	assert.GreaterOrEqual(t, got, 0)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "00:00:00", Format(0))
	assert.Equal(t, "09:30:00", Format(34200))
	assert.Equal(t, "23:59:59", Format(86399))
	// values outside the domain are reduced
	assert.Equal(t, "00:00:10", Format(SecondsPerDay+10))
	assert.Equal(t, "23:59:50", Format(-10))
}

func TestFormatParse_RoundTrip(t *testing.T) {
	for _, seconds := range []int{0, 1, 3599, 34200, 86399} {
		parsed, err := Parse(Format(seconds))
		require.NoError(t, err)
		assert.Equal(t, seconds, parsed)
	}
}

func TestFromTime(t *testing.T) {
	instant := time.Date(2026, 3, 14, 15, 9, 26, 500_000_000, time.UTC)
	assert.Equal(t, 15*3600+9*60+26, FromTime(instant))
}
