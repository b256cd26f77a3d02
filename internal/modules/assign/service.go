// README: Assignment engine; opens windows, handles acceptance, escalates on timeout.
package assign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"boomerang/internal/modules/driver"
	"boomerang/internal/modules/notify"
	ordermod "boomerang/internal/modules/order"
	"boomerang/internal/types"
)

// escalationTimeout bounds the persistence and push work done after a
// deadline fires.
const escalationTimeout = 30 * time.Second

// Orders is the narrow slice of the order store the engine drives.
type Orders interface {
	Get(ctx context.Context, id types.ID) (*ordermod.Order, error)
	MarkFindingDriver(ctx context.Context, id types.ID, tier int, candidateCount int) error
	MarkAssigned(ctx context.Context, id types.ID, driverID int64, acceptedAt, deadline time.Time) error
	MarkSupportRequired(ctx context.Context, id types.ID, reason string) error
}

// Directory supplies read-only driver snapshots.
type Directory interface {
	Available(ctx context.Context) ([]driver.Snapshot, error)
	Get(ctx context.Context, id int64) (*driver.Snapshot, error)
}

// SupportSink receives "needs manual assignment" events.
type SupportSink interface {
	Escalate(ctx context.Context, orderID types.ID, reason, detail string) error
}

// ETAEstimator synthesizes the customer-facing arrival estimate.
type ETAEstimator interface {
	Estimate(ctx context.Context, origin, destination types.Point) time.Duration
}

// Service coordinates the time-boxed, priority-escalating assignment of
// orders to drivers.
type Service struct {
	registry *Registry
	sched    Scheduler
	orders   Orders
	drivers  Directory
	fanout   *notify.Fanout
	support  SupportSink
	eta      ETAEstimator
	log      zerolog.Logger
}

func NewService(sched Scheduler, orders Orders, drivers Directory, fanout *notify.Fanout, support SupportSink, eta ETAEstimator, log zerolog.Logger) *Service {
	if sched == nil {
		sched = RealScheduler()
	}
	return &Service{
		registry: NewRegistry(sched),
		sched:    sched,
		orders:   orders,
		drivers:  drivers,
		fanout:   fanout,
		support:  support,
		eta:      eta,
		log:      log,
	}
}

// AssignOrderToDrivers begins tier-0 assignment for the order. It returns
// false when no eligible drivers exist at all, in which case the order has
// already been escalated to support.
func (s *Service) AssignOrderToDrivers(ctx context.Context, orderID types.ID, pickup *types.Point) (bool, error) {
	if pickup == nil {
		if o, err := s.orders.Get(ctx, orderID); err == nil {
			pickup = o.Pickup
		}
	}

	pool, err := s.drivers.Available(ctx)
	if err != nil {
		return false, fmt.Errorf("fetching driver pool: %w", err)
	}
	eligible := Eligible(pool)
	if len(eligible) == 0 {
		s.escalate(ctx, orderID, ReasonNoAvailableDrivers, "no eligible drivers at tier 0")
		return false, nil
	}

	if err := s.openWindow(ctx, orderID, TierProximity, pickup, eligible); err != nil {
		return false, err
	}
	return true, nil
}

// HandleDriverAcceptance is the acceptance entrypoint. The registry check
// and window close run as one critical section with no suspension point;
// everything after operates on an already-closed window.
func (s *Service) HandleDriverAcceptance(ctx context.Context, orderID types.ID, driverID int64) (AcceptResult, error) {
	w, err := s.registry.Accept(orderID, driverID)
	if errors.Is(err, ErrNoWindow) {
		return AcceptResult{Success: false, Message: "order is no longer available"}, nil
	}
	if errors.Is(err, ErrNotCandidate) {
		return AcceptResult{Success: false, Message: "driver is not eligible for this order"}, nil
	}
	if err != nil {
		return AcceptResult{Success: false, Message: "acceptance failed"}, err
	}

	acceptedAt := s.sched.Now()
	deadline := acceptedAt.Add(CompletionWindow)
	if err := s.orders.MarkAssigned(ctx, orderID, driverID, acceptedAt, deadline); err != nil {
		s.log.Error().Err(err).Str("order_id", string(orderID)).Msg("persisting acceptance failed")
		s.escalate(ctx, orderID, ReasonSystemError, "persisting acceptance: "+err.Error())
		return AcceptResult{Success: false, Message: "assignment could not be recorded"}, err
	}

	losers := make([]int64, 0, len(w.Candidates))
	for _, id := range w.Candidates {
		if id != driverID {
			losers = append(losers, id)
		}
	}
	s.fanout.OrderTaken(ctx, orderID, losers)
	s.notifyCustomer(ctx, orderID, driverID, w.Pickup)

	s.log.Info().
		Str("order_id", string(orderID)).
		Int64("driver_id", driverID).
		Int("tier", int(w.Tier)).
		Msg("driver accepted order")

	return AcceptResult{
		Success:            true,
		Message:            "pickup assigned",
		DriverID:           driverID,
		CompletionDeadline: deadline,
		Timeline:           CompletionWindow.String(),
	}, nil
}

// CancelAssignment closes any open window for the order without touching the
// order record. Safe to call when no window is open.
func (s *Service) CancelAssignment(orderID types.ID) bool {
	cancelled := s.registry.Cancel(orderID)
	if cancelled {
		s.log.Info().Str("order_id", string(orderID)).Msg("assignment window cancelled")
	}
	return cancelled
}

// GetAssignmentStatus reports the open window for the order, or nil.
func (s *Service) GetAssignmentStatus(orderID types.ID) (*Status, bool) {
	return s.registry.Status(orderID)
}

func (s *Service) openWindow(ctx context.Context, orderID types.ID, tier Tier, pickup *types.Point, eligible []driver.Snapshot) error {
	candidates := SelectCandidates(eligible, tier, pickup)
	if len(candidates) == 0 {
		s.escalate(ctx, orderID, ReasonNoAvailableDrivers, fmt.Sprintf("empty candidate set at tier %d", tier))
		return nil
	}

	// Persistence happens before the window opens; once the timer is armed
	// the only mutation paths are the registry's own critical sections.
	if err := s.orders.MarkFindingDriver(ctx, orderID, int(tier), len(candidates)); err != nil {
		return fmt.Errorf("marking order finding_driver: %w", err)
	}

	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	w, err := s.registry.Open(orderID, tier, pickup, ids, s.handleExpiry)
	if err != nil {
		return err
	}

	s.fanout.OrderAvailable(ctx, orderID, candidates, int(tier), w.StartedAt.Add(WindowDuration))
	s.log.Info().
		Str("order_id", string(orderID)).
		Int("tier", int(tier)).
		Int("candidates", len(candidates)).
		Msg("assignment window opened")
	return nil
}

// handleExpiry is the escalation controller: the deadline fired with no
// acceptance, so either reopen one tier wider or hand off to support. Any
// failure on this path becomes a system_error escalation; an order is never
// left with no open window and no escalation record.
func (s *Service) handleExpiry(w *Window) {
	ctx, cancel := context.WithTimeout(context.Background(), escalationTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			s.log.Error().Interface("panic", p).Str("order_id", string(w.OrderID)).Msg("escalation panicked")
			s.escalate(ctx, w.OrderID, ReasonSystemError, fmt.Sprintf("panic during escalation: %v", p))
		}
	}()

	if w.Tier >= TierOpen {
		s.escalate(ctx, w.OrderID, ReasonNoAcceptance, "all tiers exhausted without acceptance")
		return
	}

	// Recompute the pool fresh; driver state may have changed since the
	// previous tier opened.
	pool, err := s.drivers.Available(ctx)
	if err != nil {
		s.escalate(ctx, w.OrderID, ReasonSystemError, "refreshing driver pool: "+err.Error())
		return
	}
	eligible := Eligible(pool)
	if len(eligible) == 0 {
		s.escalate(ctx, w.OrderID, ReasonNoAvailableDrivers, fmt.Sprintf("no eligible drivers at tier %d", w.Tier+1))
		return
	}

	if err := s.openWindow(ctx, w.OrderID, w.Tier+1, w.Pickup, eligible); err != nil {
		s.escalate(ctx, w.OrderID, ReasonSystemError, "reopening window: "+err.Error())
	}
}

// escalate moves the order to support_required and notifies the support
// channel. Side-effect failures are logged, never propagated: the escalation
// record must not be lost to a push failure, and a persistence failure must
// not stop the support broadcast.
func (s *Service) escalate(ctx context.Context, orderID types.ID, reason Reason, detail string) {
	if err := s.orders.MarkSupportRequired(ctx, orderID, string(reason)); err != nil {
		s.log.Error().Err(err).Str("order_id", string(orderID)).Msg("marking support_required failed")
	}
	if err := s.support.Escalate(ctx, orderID, string(reason), detail); err != nil {
		s.log.Error().Err(err).Str("order_id", string(orderID)).Msg("recording support escalation failed")
	}
	s.fanout.SupportEscalation(ctx, orderID, string(reason))
	s.log.Warn().
		Str("order_id", string(orderID)).
		Str("reason", string(reason)).
		Str("detail", detail).
		Msg("order escalated to support")
}

// notifyCustomer pushes the driver_assigned event with a synthesized ETA.
// Best-effort: lookup or push failures cannot undo the assignment.
func (s *Service) notifyCustomer(ctx context.Context, orderID types.ID, driverID int64, pickup *types.Point) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", string(orderID)).Msg("fetching order for customer push failed")
		return
	}
	drv, err := s.drivers.Get(ctx, driverID)
	if err != nil {
		s.log.Warn().Err(err).Int64("driver_id", driverID).Msg("fetching driver for customer push failed")
		return
	}

	var eta time.Duration
	if s.eta != nil && pickup != nil && drv.Location != nil {
		eta = s.eta.Estimate(ctx, *drv.Location, *pickup)
	}
	s.fanout.DriverAssigned(ctx, orderID, o.CustomerID, *drv, eta)
}
