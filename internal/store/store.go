// Package store holds the session/cart state this layer orchestrates over:
// a durable cart repository, a cache in front of it, and the session store.
// Workflows see it only through the per-session scoped view.
package store

import (
	"context"
	"errors"

	"github.com/fjod/go_checkout/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrCacheMiss    = errors.New("cache miss")
)

// CartRepository is the durable cart storage, keyed by session ID.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Upsert(ctx context.Context, sessionID string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type CartCache interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Set(ctx context.Context, sessionID string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// SessionStore holds the authenticated identity per visitor. A missing
// session reads as anonymous, not as an error.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (domain.Session, error)
	Set(ctx context.Context, sessionID string, user domain.UserInfo) error
	Delete(ctx context.Context, sessionID string) error
}
