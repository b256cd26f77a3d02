// README: Assignment window registry; mutex-guarded in-memory table of open windows.
package assign

import (
	"errors"
	"sync"

	"boomerang/internal/types"
)

var (
	// ErrNoWindow means no assignment window is open for the order: it was
	// already accepted, cancelled, or expired.
	ErrNoWindow = errors.New("no open assignment window")
	// ErrNotCandidate means the driver is not in the window's candidate set.
	ErrNotCandidate = errors.New("driver is not a candidate for this window")
	// ErrWindowExists guards the one-window-per-order invariant.
	ErrWindowExists = errors.New("assignment window already open")
)

// Registry owns every open assignment window. All window mutation happens
// under one mutex: the accept path's "window exists && driver is a member ->
// stop timer && delete" runs as a single critical section, which is what
// guarantees at-most-one acceptance. Constructed per process (or per test),
// never a package-level singleton.
type Registry struct {
	mu      sync.Mutex
	windows map[types.ID]*Window
	sched   Scheduler
	nextGen uint64
}

func NewRegistry(sched Scheduler) *Registry {
	if sched == nil {
		sched = RealScheduler()
	}
	return &Registry{
		windows: make(map[types.ID]*Window),
		sched:   sched,
	}
}

// Open creates a window for the order and arms its deadline timer. onExpire
// runs once if the deadline fires before acceptance or cancellation; it
// receives the expired window after the registry has already removed it.
func (r *Registry) Open(orderID types.ID, tier Tier, pickup *types.Point, candidates []int64, onExpire func(*Window)) (*Window, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.windows[orderID]; ok {
		return nil, ErrWindowExists
	}

	members := make(map[int64]struct{}, len(candidates))
	for _, id := range candidates {
		members[id] = struct{}{}
	}

	r.nextGen++
	w := &Window{
		OrderID:    orderID,
		Tier:       tier,
		Pickup:     pickup,
		StartedAt:  r.sched.Now(),
		Candidates: candidates,
		members:    members,
		gen:        r.nextGen,
	}
	gen := w.gen
	w.timer = r.sched.AfterFunc(WindowDuration, func() {
		if expired := r.expire(orderID, gen); expired != nil {
			onExpire(expired)
		}
	})
	r.windows[orderID] = w
	return w, nil
}

// Accept closes the window for the accepting driver. The membership check,
// timer stop, and delete happen atomically; once Accept returns the window's
// timer can no longer produce any state change.
func (r *Registry) Accept(orderID types.ID, driverID int64) (*Window, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[orderID]
	if !ok {
		return nil, ErrNoWindow
	}
	if !w.isCandidate(driverID) {
		return nil, ErrNotCandidate
	}
	w.timer.Stop()
	delete(r.windows, orderID)
	return w, nil
}

// Cancel removes the window and its timer if one is open. Cancelling an
// order with no window is a no-op, not an error.
func (r *Registry) Cancel(orderID types.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[orderID]
	if !ok {
		return false
	}
	w.timer.Stop()
	delete(r.windows, orderID)
	return true
}

// Status reports the open window for the order, if any.
func (r *Registry) Status(orderID types.ID) (*Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[orderID]
	if !ok {
		return nil, false
	}
	remaining := WindowDuration - r.sched.Now().Sub(w.StartedAt)
	if remaining < 0 {
		remaining = 0
	}
	drivers := make([]int64, len(w.Candidates))
	copy(drivers, w.Candidates)
	return &Status{
		AssignedDrivers: drivers,
		StartTime:       w.StartedAt,
		PriorityLevel:   w.Tier,
		TimeRemaining:   remaining,
	}, true
}

// expire removes the window when its own timer fires. The generation check
// makes a late-firing timer from a replaced window harmless.
func (r *Registry) expire(orderID types.ID, gen uint64) *Window {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[orderID]
	if !ok || w.gen != gen {
		return nil
	}
	delete(r.windows, orderID)
	return w
}
