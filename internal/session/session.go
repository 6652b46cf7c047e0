// Package session persists the shop sessions established by the install flow.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session: not found")

// Session is an installed shop's offline access token, bound to the caller
// that completed the install.
type Session struct {
	ID          string    `json:"id"`
	Shop        string    `json:"shop"`
	AccessToken string    `json:"access_token"`
	Scope       string    `json:"scope"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store keeps sessions keyed by the caller's session id. Create overwrites an
// existing session with the same id. Expiry and eviction are left to the
// backing implementation.
type Store interface {
	Create(ctx context.Context, sessionID string, s Session) error

	// Get returns ErrNotFound when no session exists for sessionID.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// GetByShop returns the most recently written session of a shop.
	GetByShop(ctx context.Context, shop string) (*Session, error)

	// DeleteShop drops every session of a shop, e.g. after an uninstall.
	DeleteShop(ctx context.Context, shop string) error
}
