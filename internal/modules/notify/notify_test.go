// README: Fan-out tests: payload shape and failure isolation.
package notify

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"boomerang/internal/modules/driver"
	"boomerang/internal/types"
)

type recordingPusher struct {
	mu    sync.Mutex
	users []string
	msgs  []Message
	fail  bool
}

func (p *recordingPusher) SendToUser(_ context.Context, userID string, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return fmt.Errorf("push gateway down")
	}
	p.users = append(p.users, userID)
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPusher) BroadcastToRole(_ context.Context, role string, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return fmt.Errorf("push gateway down")
	}
	p.users = append(p.users, "role:"+role)
	p.msgs = append(p.msgs, msg)
	return nil
}

func TestOrderAvailable_PayloadShape(t *testing.T) {
	p := &recordingPusher{}
	f := NewFanout(p, zerolog.Nop())

	expires := time.Date(2024, 6, 1, 12, 1, 0, 0, time.UTC)
	f.OrderAvailable(context.Background(), "o1", []driver.Snapshot{{ID: 4}, {ID: 9}}, 1, expires)

	if len(p.users) != 2 || p.users[0] != "driver:4" || p.users[1] != "driver:9" {
		t.Fatalf("unexpected recipients: %v", p.users)
	}
	data := p.msgs[0].Data
	if data["order_id"] != "o1" || data["tier"] != "1" {
		t.Fatalf("unexpected payload: %v", data)
	}
	if data["expires_at"] != "2024-06-01T12:01:00Z" {
		t.Fatalf("unexpected expires_at: %q", data["expires_at"])
	}
}

func TestDriverAssigned_UsesDefaultRating(t *testing.T) {
	p := &recordingPusher{}
	f := NewFanout(p, zerolog.Nop())

	drv := driver.Snapshot{ID: 4, Name: "Sam", Phone: "555-0101", Vehicle: "Blue van"}
	f.DriverAssigned(context.Background(), "o1", types.ID("c1"), drv, 7*time.Minute)

	data := p.msgs[0].Data
	if data["rating"] != "5.0" {
		t.Fatalf("expected default rating 5.0, got %q", data["rating"])
	}
	if data["eta_seconds"] != "420" {
		t.Fatalf("expected 420s, got %q", data["eta_seconds"])
	}
}

func TestFanout_DeliveryFailureIsSwallowed(t *testing.T) {
	p := &recordingPusher{fail: true}
	f := NewFanout(p, zerolog.Nop())

	// None of these may panic or propagate an error.
	f.OrderAvailable(context.Background(), "o1", []driver.Snapshot{{ID: 1}}, 0, time.Now())
	f.OrderTaken(context.Background(), "o1", []int64{2, 3})
	f.DriverAssigned(context.Background(), "o1", "c1", driver.Snapshot{ID: 1}, 0)
	f.SupportEscalation(context.Background(), "o1", "no_driver_acceptance")
}
