// README: Order service implements state transitions and persistence.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"boomerang/internal/types"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

var (
	ErrInvalidState = errors.New("invalid state transition")
	ErrNotFound     = errors.New("order not found")
	ErrConflict     = errors.New("order state conflict")
	ErrBadRequest   = errors.New("bad request")
)

type CreateCommand struct {
	CustomerID types.ID
	Pickup     *types.Point
}

type CancelCommand struct {
	OrderID types.ID
	Reason  string
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if cmd.CustomerID == "" {
		return "", ErrBadRequest
	}
	if cmd.Pickup != nil && !cmd.Pickup.Valid() {
		cmd.Pickup = nil
	}

	id := types.ID(uuid.NewString())
	now := time.Now().UTC()
	o := &Order{
		ID:            id,
		CustomerID:    cmd.CustomerID,
		Status:        StatusCreated,
		StatusVersion: 0,
		Pickup:        cmd.Pickup,
		CreatedAt:     now,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return "", err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		OrderID:    id,
		FromStatus: StatusNone,
		ToStatus:   StatusCreated,
		Note:       "pickup requested",
		CreatedAt:  now,
	})
	return id, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Events(ctx context.Context, id types.ID) ([]Event, error) {
	return s.store.Events(ctx, id)
}

// MarkFindingDriver records that an assignment window opened for the order.
// The first tier performs the created -> finding_driver transition; later
// tiers only append a history entry since the status does not change.
func (s *Service) MarkFindingDriver(ctx context.Context, id types.ID, tier int, candidateCount int) error {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	event := &Event{
		OrderID:    id,
		FromStatus: o.Status,
		ToStatus:   StatusFindingDriver,
		Note:       fmt.Sprintf("assignment window opened at tier %d", tier),
		Metadata:   map[string]any{"tier": tier, "candidates": candidateCount},
		CreatedAt:  time.Now().UTC(),
	}

	if o.Status == StatusFindingDriver {
		return s.store.AppendEvent(ctx, event)
	}
	if !CanTransition(o.Status, StatusFindingDriver) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, id, o.Status, StatusFindingDriver, o.StatusVersion, nil, nil, nil, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return s.store.AppendEvent(ctx, event)
}

// MarkAssigned binds the accepting driver and stamps the completion deadline.
func (s *Service) MarkAssigned(ctx context.Context, id types.ID, driverID int64, acceptedAt, deadline time.Time) error {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, StatusAssigned) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, id, o.Status, StatusAssigned, o.StatusVersion, &driverID, &acceptedAt, &deadline, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return s.store.AppendEvent(ctx, &Event{
		OrderID:    id,
		FromStatus: o.Status,
		ToStatus:   StatusAssigned,
		Note:       "driver accepted",
		Metadata: map[string]any{
			"driver_id":           driverID,
			"completion_deadline": deadline.UTC().Format(time.RFC3339),
		},
		CreatedAt: acceptedAt,
	})
}

// MarkSupportRequired hands the order to human support with a reason code.
func (s *Service) MarkSupportRequired(ctx context.Context, id types.ID, reason string) error {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, StatusSupportRequired) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, id, o.Status, StatusSupportRequired, o.StatusVersion, nil, nil, nil, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return s.store.AppendEvent(ctx, &Event{
		OrderID:    id,
		FromStatus: o.Status,
		ToStatus:   StatusSupportRequired,
		Note:       "escalated to support",
		Metadata:   map[string]any{"reason": reason},
		CreatedAt:  time.Now().UTC(),
	})
}

func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return ErrInvalidState
	}
	var reason *string
	if cmd.Reason != "" {
		reason = &cmd.Reason
	}
	ok, err := s.store.UpdateStatus(ctx, cmd.OrderID, o.Status, StatusCancelled, o.StatusVersion, nil, nil, nil, reason)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return s.store.AppendEvent(ctx, &Event{
		OrderID:    cmd.OrderID,
		FromStatus: o.Status,
		ToStatus:   StatusCancelled,
		Note:       cmd.Reason,
		CreatedAt:  time.Now().UTC(),
	})
}
