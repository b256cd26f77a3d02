// README: Push fan-out for assignment events; best-effort, never mutates core state.
package notify

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"boomerang/internal/modules/driver"
	"boomerang/internal/types"
)

type Kind string

const (
	KindNewOrderAvailable Kind = "new_order_available"
	KindOrderTaken        Kind = "order_no_longer_available"
	KindDriverAssigned    Kind = "driver_assigned"
	KindSupportEscalation Kind = "support_escalation"
)

// RoleSupport is the broadcast audience for manual-assignment escalations.
const RoleSupport = "support"

// Message is one push payload. Data values are strings so the payload maps
// directly onto FCM data messages.
type Message struct {
	Kind Kind
	Data map[string]string
}

// Pusher is the external push-delivery collaborator. Both calls are
// best-effort; a delivery failure only degrades the client experience.
type Pusher interface {
	SendToUser(ctx context.Context, userID string, msg Message) error
	BroadcastToRole(ctx context.Context, role string, msg Message) error
}

// Fanout dispatches assignment events to drivers, customers, and support.
// Failures are logged and swallowed: pushes are not part of the correctness
// contract.
type Fanout struct {
	pusher Pusher
	log    zerolog.Logger
}

func NewFanout(pusher Pusher, log zerolog.Logger) *Fanout {
	return &Fanout{pusher: pusher, log: log}
}

// OrderAvailable tells every candidate a new order is up for grabs. The
// expires_at stamp lets client UIs render a countdown without polling.
func (f *Fanout) OrderAvailable(ctx context.Context, orderID types.ID, candidates []driver.Snapshot, tier int, expiresAt time.Time) {
	msg := Message{
		Kind: KindNewOrderAvailable,
		Data: map[string]string{
			"order_id":   string(orderID),
			"tier":       strconv.Itoa(tier),
			"expires_at": expiresAt.UTC().Format(time.RFC3339),
		},
	}
	for _, c := range candidates {
		f.send(ctx, driverUserID(c.ID), msg)
	}
}

// OrderTaken tells the losing candidates the order is gone.
func (f *Fanout) OrderTaken(ctx context.Context, orderID types.ID, losers []int64) {
	msg := Message{
		Kind: KindOrderTaken,
		Data: map[string]string{"order_id": string(orderID)},
	}
	for _, id := range losers {
		f.send(ctx, driverUserID(id), msg)
	}
}

// DriverAssigned tells the customer who is coming. Only a synthesized ETA is
// shared, never the driver's raw GPS stream.
func (f *Fanout) DriverAssigned(ctx context.Context, orderID types.ID, customerID types.ID, drv driver.Snapshot, eta time.Duration) {
	f.send(ctx, string(customerID), Message{
		Kind: KindDriverAssigned,
		Data: map[string]string{
			"order_id":     string(orderID),
			"driver_id":    strconv.FormatInt(drv.ID, 10),
			"driver_name":  drv.Name,
			"driver_phone": drv.Phone,
			"vehicle":      drv.Vehicle,
			"rating":       strconv.FormatFloat(drv.EffectiveRating(), 'f', 1, 64),
			"eta_seconds":  strconv.Itoa(int(eta.Seconds())),
		},
	})
}

// SupportEscalation broadcasts a manual-assignment request to dispatchers.
func (f *Fanout) SupportEscalation(ctx context.Context, orderID types.ID, reason string) {
	msg := Message{
		Kind: KindSupportEscalation,
		Data: map[string]string{
			"order_id": string(orderID),
			"reason":   reason,
		},
	}
	if err := f.pusher.BroadcastToRole(ctx, RoleSupport, msg); err != nil {
		f.log.Warn().Err(err).Str("order_id", string(orderID)).Msg("support broadcast failed")
	}
}

func (f *Fanout) send(ctx context.Context, userID string, msg Message) {
	if err := f.pusher.SendToUser(ctx, userID, msg); err != nil {
		f.log.Warn().
			Err(err).
			Str("user_id", userID).
			Str("kind", string(msg.Kind)).
			Msg("push delivery failed")
	}
}

func driverUserID(id int64) string {
	return "driver:" + strconv.FormatInt(id, 10)
}
