package store

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fjod/go_checkout/internal/domain"
)

// Service combines the durable cart repository, an optional cache in front
// of it, and the session store. cache may be nil; reads then always hit the
// repository.
type Service struct {
	repo     CartRepository
	cache    CartCache
	sessions SessionStore
	sfg      singleflight.Group // Prevents cache stampede
}

func NewService(repo CartRepository, cache CartCache, sessions SessionStore) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		sessions: sessions,
	}
}

// Cart reads the current cart for a session. A session without a stored cart
// reads as an empty cart, never as an error.
func (s *Service) Cart(ctx context.Context, sessionID string) (domain.Cart, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		if s.cache != nil {
			cart, err := s.cache.Get(ctx, sessionID)
			if err == nil {
				return cart, nil
			}
			if !errors.Is(err, ErrCacheMiss) {
				log.Printf("cache get error: %v", err) // log cache error but continue
			}
		}

		cart, err := s.repo.Get(ctx, sessionID)
		if errors.Is(err, ErrCartNotFound) {
			return &domain.Cart{}, nil
		}
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			go func() {
				if err := s.cache.Set(context.Background(), sessionID, cart); err != nil {
					log.Printf("cache set error: %v", err)
				}
			}()
		}

		return cart, nil
	})
	if err != nil {
		return domain.Cart{}, err
	}

	return *v.(*domain.Cart), nil
}

// AddToCart inserts the item, or replaces the quantity of an existing line
// for the same product.
func (s *Service) AddToCart(ctx context.Context, sessionID string, item domain.CartItem) error {
	return s.mutateCart(ctx, sessionID, func(cart *domain.Cart) {
		for i := range cart.Items {
			if cart.Items[i].ProductID == item.ProductID {
				cart.Items[i] = item
				return
			}
		}
		cart.Items = append(cart.Items, item)
	})
}

func (s *Service) SetShippingAddress(ctx context.Context, sessionID string, addr domain.ShippingAddress) error {
	return s.mutateCart(ctx, sessionID, func(cart *domain.Cart) {
		cart.ShippingAddress = &addr
	})
}

func (s *Service) SetPaymentMethod(ctx context.Context, sessionID string, method string) error {
	return s.mutateCart(ctx, sessionID, func(cart *domain.Cart) {
		cart.PaymentMethod = method
	})
}

// ClearCart empties the line items after a placed order. Address and payment
// method stay; the next checkout starts from them.
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	return s.mutateCart(ctx, sessionID, func(cart *domain.Cart) {
		cart.Items = nil
	})
}

func (s *Service) mutateCart(ctx context.Context, sessionID string, mutate func(*domain.Cart)) error {
	cart, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, ErrCartNotFound) {
		cart = &domain.Cart{}
	} else if err != nil {
		return err
	}

	mutate(cart)

	if err := s.repo.Upsert(ctx, sessionID, cart); err != nil {
		return err
	}

	s.invalidateCache(sessionID)
	return nil
}

func (s *Service) invalidateCache(sessionID string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

func (s *Service) Session(ctx context.Context, sessionID string) (domain.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *Service) SetSession(ctx context.Context, sessionID string, user domain.UserInfo) error {
	return s.sessions.Set(ctx, sessionID, user)
}

func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// ForSession returns the one-visitor view the workflows consume.
func (s *Service) ForSession(sessionID string) *Scoped {
	return &Scoped{service: s, sessionID: sessionID}
}

// Scoped pins a Service to one session ID. It satisfies workflow.Store.
type Scoped struct {
	service   *Service
	sessionID string
}

func (sc *Scoped) Session(ctx context.Context) (domain.Session, error) {
	return sc.service.Session(ctx, sc.sessionID)
}

func (sc *Scoped) SetSession(ctx context.Context, user domain.UserInfo) error {
	return sc.service.SetSession(ctx, sc.sessionID, user)
}

func (sc *Scoped) Cart(ctx context.Context) (domain.Cart, error) {
	return sc.service.Cart(ctx, sc.sessionID)
}

func (sc *Scoped) AddToCart(ctx context.Context, item domain.CartItem) error {
	return sc.service.AddToCart(ctx, sc.sessionID, item)
}

func (sc *Scoped) SetShippingAddress(ctx context.Context, addr domain.ShippingAddress) error {
	return sc.service.SetShippingAddress(ctx, sc.sessionID, addr)
}

func (sc *Scoped) SetPaymentMethod(ctx context.Context, method string) error {
	return sc.service.SetPaymentMethod(ctx, sc.sessionID, method)
}

func (sc *Scoped) ClearCart(ctx context.Context) error {
	return sc.service.ClearCart(ctx, sc.sessionID)
}
