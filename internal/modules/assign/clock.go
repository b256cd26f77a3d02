// README: Scheduled-task abstraction so tests can drive virtual time.
package assign

import "time"

// Timer is a cancellable deadline handle. Stop reports whether the timer was
// stopped before firing.
type Timer interface {
	Stop() bool
}

// Scheduler arms deadline timers and supplies the current time. The engine
// owns exactly one timer per open window.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

// RealScheduler returns the wall-clock Scheduler used in production.
func RealScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) Now() time.Time {
	return time.Now().UTC()
}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
