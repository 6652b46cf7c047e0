package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps sessions in the shopify_sessions table.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (r *PostgresStore) Create(ctx context.Context, sessionID string, s Session) error {
	const q = `
INSERT INTO shopify_sessions (id, shop_domain, access_token, scope)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
  shop_domain = EXCLUDED.shop_domain,
  access_token = EXCLUDED.access_token,
  scope = EXCLUDED.scope,
  updated_at = now()
`
	if _, err := r.db.Exec(ctx, q, sessionID, s.Shop, s.AccessToken, s.Scope); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *PostgresStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	const q = `
SELECT id, shop_domain, access_token, scope, created_at, updated_at
FROM shopify_sessions
WHERE id = $1
`
	return r.scanOne(ctx, q, sessionID)
}

func (r *PostgresStore) GetByShop(ctx context.Context, shop string) (*Session, error) {
	const q = `
SELECT id, shop_domain, access_token, scope, created_at, updated_at
FROM shopify_sessions
WHERE shop_domain = $1
ORDER BY updated_at DESC
LIMIT 1
`
	return r.scanOne(ctx, q, shop)
}

func (r *PostgresStore) DeleteShop(ctx context.Context, shop string) error {
	const q = `DELETE FROM shopify_sessions WHERE shop_domain = $1`
	if _, err := r.db.Exec(ctx, q, shop); err != nil {
		return fmt.Errorf("delete shop sessions: %w", err)
	}
	return nil
}

func (r *PostgresStore) scanOne(ctx context.Context, q string, arg string) (*Session, error) {
	s := &Session{}
	err := r.db.QueryRow(ctx, q, arg).Scan(
		&s.ID, &s.Shop, &s.AccessToken, &s.Scope, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s, nil
}
