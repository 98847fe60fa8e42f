package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_checkout/internal/domain"
)

type mockRepository struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
	gets int
}

func (m *mockRepository) Get(context.Context, string) (*domain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.gets++
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockRepository) Upsert(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cart = cart
	return nil
}

func (m *mockRepository) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cart = nil
	return nil
}

type mockCache struct {
	m       sync.RWMutex
	cart    *domain.Cart
	err     error
	deletes int
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.deletes++
	m.cart = nil
	return m.err
}

func (m *mockCache) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

func testItem() domain.CartItem {
	return domain.CartItem{ProductID: 1, Name: "keyboard", UnitPrice: 50000, Quantity: 2, CountInStock: 9}
}

func TestCart_CacheMissFallsThroughAndPopulates(t *testing.T) {
	repo := &mockRepository{cart: &domain.Cart{Items: []domain.CartItem{testItem()}}}
	cache := &mockCache{}
	svc := NewService(repo, cache, NewMemoryStore().Sessions())

	cart, err := svc.Cart(context.Background(), "sid")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(1), cart.Items[0].ProductID)

	require.Eventually(t, func() bool {
		return cache.getCart() != nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cart was not set in cache")
}

func TestCart_CacheHitSkipsRepo(t *testing.T) {
	repo := &mockRepository{}
	cache := &mockCache{cart: &domain.Cart{Items: []domain.CartItem{testItem()}}}
	svc := NewService(repo, cache, NewMemoryStore().Sessions())

	cart, err := svc.Cart(context.Background(), "sid")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 0, repo.gets)
}

func TestCart_MissingCartReadsEmpty(t *testing.T) {
	svc := NewService(&mockRepository{}, &mockCache{}, NewMemoryStore().Sessions())

	cart, err := svc.Cart(context.Background(), "sid")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.False(t, cart.HasShippingAddress())
	assert.False(t, cart.HasPaymentMethod())
}

func TestCart_RepoError(t *testing.T) {
	repo := &mockRepository{err: fmt.Errorf("database error")}
	svc := NewService(repo, &mockCache{}, NewMemoryStore().Sessions())

	_, err := svc.Cart(context.Background(), "sid")
	require.ErrorContains(t, err, "database error")
}

func TestAddToCart_InvalidatesCache(t *testing.T) {
	repo := &mockRepository{}
	cache := &mockCache{cart: &domain.Cart{}}
	svc := NewService(repo, cache, NewMemoryStore().Sessions())

	require.NoError(t, svc.AddToCart(context.Background(), "sid", testItem()))

	assert.Equal(t, 1, cache.deletes)
	require.NotNil(t, repo.cart)
	assert.Len(t, repo.cart.Items, 1)
}

func TestAddToCart_ReplacesExistingLine(t *testing.T) {
	repo := &mockRepository{cart: &domain.Cart{Items: []domain.CartItem{testItem()}}}
	svc := NewService(repo, &mockCache{}, NewMemoryStore().Sessions())

	updated := testItem()
	updated.Quantity = 5
	require.NoError(t, svc.AddToCart(context.Background(), "sid", updated))

	require.Len(t, repo.cart.Items, 1)
	assert.Equal(t, 5, repo.cart.Items[0].Quantity)
}

func TestClearCart_KeepsAddressAndMethod(t *testing.T) {
	repo := &mockRepository{cart: &domain.Cart{
		Items:           []domain.CartItem{testItem()},
		ShippingAddress: &domain.ShippingAddress{City: "Tehran"},
		PaymentMethod:   "zarinpal",
	}}
	svc := NewService(repo, &mockCache{}, NewMemoryStore().Sessions())

	require.NoError(t, svc.ClearCart(context.Background(), "sid"))

	assert.Empty(t, repo.cart.Items)
	assert.True(t, repo.cart.HasShippingAddress())
	assert.Equal(t, "zarinpal", repo.cart.PaymentMethod)
}

func TestSessions_RoundTrip(t *testing.T) {
	svc := NewService(&mockRepository{}, nil, NewMemoryStore().Sessions())
	ctx := context.Background()

	session, err := svc.Session(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, session.LoggedIn())

	require.NoError(t, svc.SetSession(ctx, "sid", domain.UserInfo{ID: 7, Name: "amir", Token: "jwt"}))

	session, err = svc.Session(ctx, "sid")
	require.NoError(t, err)
	require.True(t, session.LoggedIn())
	assert.Equal(t, "amir", session.User.Name)

	require.NoError(t, svc.ClearSession(ctx, "sid"))
	session, err = svc.Session(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, session.LoggedIn())
}

func TestScoped_IsolatesSessions(t *testing.T) {
	memory := NewMemoryStore()
	svc := NewService(memory, nil, memory.Sessions())
	ctx := context.Background()

	first := svc.ForSession("sid-1")
	second := svc.ForSession("sid-2")

	require.NoError(t, first.AddToCart(ctx, testItem()))

	cart, err := second.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "carts must not leak across sessions")

	cart, err = first.Cart(ctx)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestMemoryStore_CopiesOnReadAndWrite(t *testing.T) {
	memory := NewMemoryStore()
	ctx := context.Background()

	original := &domain.Cart{Items: []domain.CartItem{testItem()}}
	require.NoError(t, memory.Upsert(ctx, "sid", original))
	original.Items[0].Quantity = 99

	stored, err := memory.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Items[0].Quantity, "stored cart must not alias caller memory")

	stored.Items[0].Quantity = 42
	again, err := memory.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity)
}
