package playersync

import "time"

// Clock supplies the current time. Injecting it lets tests drive the
// synchronization math with fixed instants instead of wall-clock waits.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time
type RealClock struct{}

// Now returns the current system time
func (RealClock) Now() time.Time {
	return time.Now()
}

// Timer is a cancellable pending callback
type Timer interface {
	Stop() bool
}

// Scheduler defers callbacks. The real implementation wraps time.AfterFunc;
// tests substitute a manual scheduler and fire callbacks explicitly.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// NewScheduler returns a Scheduler backed by the runtime timer heap
func NewScheduler() Scheduler {
	return realScheduler{}
}
