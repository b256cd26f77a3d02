// README: Fake scheduler driving virtual time for window/deadline tests.
package assign

import (
	"sync"
	"time"
)

type fakeTimer struct {
	sched *fakeScheduler
	at    time.Time
	f     func()
	done  bool
}

func (t *fakeTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (s *fakeScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{sched: s, at: s.now.Add(d), f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves virtual time forward and fires due timers synchronously, in
// deadline order, outside the scheduler lock.
func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now = s.now.Add(d)
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.done && !t.at.After(s.now) {
			t.done = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}
