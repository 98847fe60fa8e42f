package store

import (
	"context"
	"sync"

	"github.com/fjod/go_checkout/internal/domain"
)

// MemoryStore implements CartRepository and SessionStore in memory. It backs
// single-node deployments and tests; nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	carts    map[string]*domain.Cart
	sessions map[string]domain.UserInfo
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts:    make(map[string]*domain.Cart),
		sessions: make(map[string]domain.UserInfo),
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, exists := s.carts[sessionID]
	if !exists {
		return nil, ErrCartNotFound
	}
	return copyCart(cart), nil
}

func (s *MemoryStore) Upsert(_ context.Context, sessionID string, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[sessionID] = copyCart(cart)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.carts[sessionID]; !exists {
		return ErrCartNotFound
	}
	delete(s.carts, sessionID)
	return nil
}

// SessionGet satisfies nothing by itself; MemoryStore is split over the two
// interfaces by the Sessions accessor below so one instance can back both.
func (s *MemoryStore) Sessions() SessionStore {
	return (*memorySessions)(s)
}

type memorySessions MemoryStore

func (s *memorySessions) Get(_ context.Context, sessionID string) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.sessions[sessionID]
	if !exists {
		return domain.Session{}, nil
	}
	return domain.Session{User: &user}, nil
}

func (s *memorySessions) Set(_ context.Context, sessionID string, user domain.UserInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = user
	return nil
}

func (s *memorySessions) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// copyCart keeps callers from aliasing stored state.
func copyCart(cart *domain.Cart) *domain.Cart {
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	if cart.ShippingAddress != nil {
		addr := *cart.ShippingAddress
		copied.ShippingAddress = &addr
	}
	return &copied
}
