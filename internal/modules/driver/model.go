// README: Driver snapshot and approval definitions.
package driver

import "boomerang/internal/types"

type Approval string

const (
	ApprovalPending        Approval = "pending"
	ApprovalApproved       Approval = "approved"
	ApprovalApprovedActive Approval = "approved_active"
	ApprovalSuspended      Approval = "suspended"
)

// defaultRating is assumed when a driver has no rating on record yet.
const defaultRating = 5.0

// Snapshot is a read-only view of a driver at one point in time. Location is
// nil when the driver has not reported a position; such drivers still rank,
// just last.
type Snapshot struct {
	ID        int64
	Name      string
	Phone     string
	Vehicle   string
	Online    bool
	Active    bool
	Approval  Approval
	Location  *types.Point
	Rating    float64
	PushToken string
}

// EffectiveRating returns the stored rating, or the default for unrated drivers.
func (s Snapshot) EffectiveRating() float64 {
	if s.Rating <= 0 {
		return defaultRating
	}
	return s.Rating
}

// Eligible reports whether the driver may be offered orders at all.
func (s Snapshot) Eligible() bool {
	if !s.Online || !s.Active {
		return false
	}
	return s.Approval == ApprovalApproved || s.Approval == ApprovalApprovedActive
}
