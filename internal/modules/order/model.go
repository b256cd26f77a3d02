// README: Pickup-order aggregate and status definitions.
package order

import (
	"time"

	"boomerang/internal/types"
)

type Status string

const (
	StatusNone            Status = "none"
	StatusCreated         Status = "created"
	StatusFindingDriver   Status = "finding_driver"
	StatusAssigned        Status = "assigned"
	StatusPickedUp        Status = "picked_up"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
	StatusSupportRequired Status = "support_required"
)

type Order struct {
	ID                 types.ID
	CustomerID         types.ID
	Status             Status
	StatusVersion      int
	Pickup             *types.Point
	DriverID           *int64
	DriverAcceptedAt   *time.Time
	CompletionDeadline *time.Time
	CreatedAt          time.Time
	CancelledAt        *time.Time
	CancelReason       *string
}

// Event is one append-only status-history entry. Entries are never mutated
// in place.
type Event struct {
	ID         int64
	OrderID    types.ID
	FromStatus Status
	ToStatus   Status
	Note       string
	Metadata   map[string]any
	CreatedAt  time.Time
}

// AllowedTransitions represents the pickup-order state flow as code.
// support_required -> assigned covers manual assignment by a dispatcher.
var AllowedTransitions = map[Status][]Status{
	StatusCreated:         {StatusFindingDriver, StatusCancelled},
	StatusFindingDriver:   {StatusAssigned, StatusSupportRequired, StatusCancelled},
	StatusAssigned:        {StatusPickedUp, StatusCancelled},
	StatusPickedUp:        {StatusCompleted},
	StatusSupportRequired: {StatusAssigned, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
