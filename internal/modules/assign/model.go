// README: Assignment window model, tiers, and wire-contract constants.
package assign

import (
	"time"

	"boomerang/internal/types"
)

// Tier is one of three widening candidate pools tried in sequence.
type Tier int

const (
	// TierProximity offers the order to the nearest drivers.
	TierProximity Tier = iota
	// TierRating offers the order to the highest-rated drivers.
	TierRating
	// TierOpen offers the order to the entire eligible pool, first come
	// first served.
	TierOpen
)

// These constants form the external contract with deployed clients and must
// not change without a coordinated rollout.
const (
	// WindowDuration is how long one candidate set may accept an order.
	WindowDuration = 60 * time.Second
	// CompletionWindow is the wall-clock limit after acceptance by which
	// the driver must finish the pickup.
	CompletionWindow = 2 * time.Hour

	tier0PoolSize = 5
	tier1PoolSize = 10
)

// Reason codes recorded when an order is handed to human support.
type Reason string

const (
	ReasonNoAvailableDrivers Reason = "no_available_drivers"
	ReasonNoAcceptance       Reason = "no_driver_acceptance"
	ReasonSystemError        Reason = "system_error"
)

// Window is one open assignment attempt. It is ephemeral engine state, never
// persisted; at most one window exists per order id at any time.
type Window struct {
	OrderID    types.ID
	Tier       Tier
	Pickup     *types.Point
	StartedAt  time.Time
	Candidates []int64

	members map[int64]struct{}
	timer   Timer
	gen     uint64
}

func (w *Window) isCandidate(driverID int64) bool {
	_, ok := w.members[driverID]
	return ok
}

// Status is the caller-facing snapshot of an open window.
type Status struct {
	AssignedDrivers []int64
	StartTime       time.Time
	PriorityLevel   Tier
	TimeRemaining   time.Duration
}

// AcceptResult is returned to the accepting driver's client.
type AcceptResult struct {
	Success            bool
	Message            string
	DriverID           int64
	CompletionDeadline time.Time
	Timeline           string
}
