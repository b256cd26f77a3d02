// README: Postgres-backed device token lookup for push delivery.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenStore resolves user ids to FCM registration tokens. Clients upsert
// their token at login; a missing row means the user has no push-capable
// session right now.
type TokenStore struct {
	db *pgxpool.Pool
}

func NewTokenStore(db *pgxpool.Pool) *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) PushToken(ctx context.Context, userID string) (string, error) {
	row := s.db.QueryRow(ctx, `SELECT token FROM push_tokens WHERE user_id = $1`, userID)
	var token string
	err := row.Scan(&token)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("no push token for %s", userID)
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *TokenStore) SaveToken(ctx context.Context, userID, token string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO push_tokens (user_id, token, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, updated_at = NOW()`,
		userID, token,
	)
	return err
}
