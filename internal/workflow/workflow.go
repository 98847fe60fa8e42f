// Package workflow composes pricing, lifecycle and guard into the per-screen
// checkout orchestrators. The interfaces below are the collaborators every
// workflow needs; consumers define them here, implementations live elsewhere
// (dispatch, store, httpapi).
package workflow

import (
	"context"

	"github.com/fjod/go_checkout/internal/domain"
)

// Dispatcher sends typed action requests to the storefront backend. Calls
// block until the backend answers; a non-nil error is either an *ActionError
// carrying the backend message or a transport failure.
type Dispatcher interface {
	Login(ctx context.Context, email, password string) (domain.UserInfo, error)
	Register(ctx context.Context, name, email, password string) (domain.UserInfo, error)
	GetUserDetails(ctx context.Context, token string) (domain.UserProfile, error)
	UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (domain.UserProfile, error)
	CreateOrder(ctx context.Context, token string, draft domain.OrderDraft) (domain.Order, error)
	GetOrderDetails(ctx context.Context, token, orderID string) (domain.Order, error)
	PayOrder(ctx context.Context, token, orderID string) (domain.Order, error)
}

type ProfileUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// Store exposes the session-scoped cart/session snapshots and the mutations
// this layer may request. It never hands out cached derived prices.
type Store interface {
	Session(ctx context.Context) (domain.Session, error)
	SetSession(ctx context.Context, user domain.UserInfo) error
	Cart(ctx context.Context) (domain.Cart, error)
	AddToCart(ctx context.Context, item domain.CartItem) error
	SetShippingAddress(ctx context.Context, addr domain.ShippingAddress) error
	SetPaymentMethod(ctx context.Context, method string) error
	ClearCart(ctx context.Context) error
}

// Navigator is the routing collaborator: it performs navigation decided here
// and exposes the current query parameters (the login redirect target).
type Navigator interface {
	Goto(path string)
	Query(name string) string
}

// Events receives checkout milestones. Implementations must not block the
// workflow; publishing failures are theirs to log.
type Events interface {
	OrderPlaced(order domain.Order)
	OrderPaid(order domain.Order)
}

func redirectTarget(nav Navigator) string {
	if r := nav.Query("redirect"); r != "" {
		return r
	}
	return "/"
}
