// README: Order store backed by PostgreSQL.
package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"boomerang/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, o *Order) error {
	var lat, lng *float64
	if o.Pickup != nil {
		lat, lng = &o.Pickup.Lat, &o.Pickup.Lng
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO orders (
			id, customer_id, status, status_version,
			pickup_lat, pickup_lng, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(o.ID),
		string(o.CustomerID),
		string(o.Status),
		o.StatusVersion,
		lat, lng,
		o.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, customer_id, status, status_version,
		       pickup_lat, pickup_lng,
		       driver_id, driver_accepted_at, completion_deadline,
		       created_at, cancelled_at, cancellation_reason
		FROM orders
		WHERE id = $1`, string(id),
	)

	var o Order
	var lat, lng sql.NullFloat64
	var driverID sql.NullInt64
	var acceptedAt, deadline, cancelledAt sql.NullTime
	var cancelReason sql.NullString

	err := row.Scan(
		&o.ID, &o.CustomerID, &o.Status, &o.StatusVersion,
		&lat, &lng,
		&driverID, &acceptedAt, &deadline,
		&o.CreatedAt, &cancelledAt, &cancelReason,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		o.Pickup = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	if driverID.Valid {
		d := driverID.Int64
		o.DriverID = &d
	}
	o.DriverAcceptedAt = toTimePtr(acceptedAt)
	o.CompletionDeadline = toTimePtr(deadline)
	o.CancelledAt = toTimePtr(cancelledAt)
	if cancelReason.Valid {
		o.CancelReason = &cancelReason.String
	}
	return &o, nil
}

// UpdateStatus performs an optimistic compare-and-swap on (status, version).
// Returns false when another writer moved the order first.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, driverID *int64, acceptedAt, deadline *time.Time, cancelReason *string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET status = $1,
		    status_version = status_version + 1,
		    driver_id = COALESCE($2, driver_id),
		    driver_accepted_at = COALESCE($3, driver_accepted_at),
		    completion_deadline = COALESCE($4, completion_deadline),
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END,
		    cancellation_reason = COALESCE($8, cancellation_reason)
		WHERE id = $5 AND status = $6 AND status_version = $7`,
		string(to),
		driverID,
		acceptedAt,
		deadline,
		string(id),
		string(from),
		version,
		cancelReason,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	meta := []byte("{}")
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
		meta = b
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO order_status_events (
			order_id, from_status, to_status, note, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.OrderID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.Note,
		meta,
		e.CreatedAt,
	)
	return err
}

func (s *Store) Events(ctx context.Context, id types.ID) ([]Event, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, order_id, from_status, to_status, note, metadata, created_at
		FROM order_status_events
		WHERE order_id = $1
		ORDER BY id`, string(id),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var meta []byte
		if err := rows.Scan(&e.ID, &e.OrderID, &e.FromStatus, &e.ToStatus, &e.Note, &meta, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &e.Metadata)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func toTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
