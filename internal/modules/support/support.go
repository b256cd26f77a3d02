// README: Support escalation sink; records manual-assignment requests for dispatchers.
package support

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"boomerang/internal/types"
)

// Escalation is one "needs manual assignment" record.
type Escalation struct {
	ID        uuid.UUID
	OrderID   types.ID
	Reason    string
	Detail    string
	CreatedAt time.Time
}

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, e *Escalation) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO support_escalations (id, order_id, reason, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		e.ID, string(e.OrderID), e.Reason, e.Detail, e.CreatedAt,
	)
	return err
}

// Open lists unresolved escalations, oldest first, for the dispatcher backlog.
func (s *Store) Open(ctx context.Context) ([]Escalation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, order_id, reason, detail, created_at
		FROM support_escalations
		WHERE resolved_at IS NULL
		ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Escalation
	for rows.Next() {
		var e Escalation
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Reason, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Resolve(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`UPDATE support_escalations SET resolved_at = NOW() WHERE id = $1 AND resolved_at IS NULL`, id)
	return err
}

// Service receives escalations from the assignment engine.
type Service struct {
	store *Store
	log   zerolog.Logger
}

func NewService(store *Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Escalate persists the record. The engine has already moved the order to
// support_required; a persistence failure here is logged by the caller and
// must not undo that transition.
func (s *Service) Escalate(ctx context.Context, orderID types.ID, reason, detail string) error {
	e := &Escalation{
		ID:        uuid.New(),
		OrderID:   orderID,
		Reason:    reason,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, e); err != nil {
		return err
	}
	s.log.Info().
		Str("order_id", string(orderID)).
		Str("reason", reason).
		Msg("order escalated to support")
	return nil
}

func (s *Service) Backlog(ctx context.Context) ([]Escalation, error) {
	return s.store.Open(ctx)
}
