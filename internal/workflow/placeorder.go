package workflow

import (
	"context"
	"errors"

	"github.com/fjod/go_checkout/internal/domain"
	"github.com/fjod/go_checkout/internal/guard"
	"github.com/fjod/go_checkout/internal/lifecycle"
	"github.com/fjod/go_checkout/internal/pricing"
)

// PlaceOrderWorkflow drives the review screen: recomputed totals, cart
// adjustments, and order submission with a frozen snapshot.
type PlaceOrderWorkflow struct {
	dispatcher Dispatcher
	store      Store
	nav        Navigator
	events     Events
	pricing    pricing.Config
	create     *lifecycle.Lifecycle[domain.Order]
}

func NewPlaceOrderWorkflow(dispatcher Dispatcher, store Store, nav Navigator, events Events, cfg pricing.Config) *PlaceOrderWorkflow {
	return &PlaceOrderWorkflow{
		dispatcher: dispatcher,
		store:      store,
		nav:        nav,
		events:     events,
		pricing:    cfg,
		create:     lifecycle.New[domain.Order](),
	}
}

// Mount re-runs the guard chain; prerequisites can disappear between visits.
func (w *PlaceOrderWorkflow) Mount(ctx context.Context) error {
	return enterStep(ctx, w.store, w.nav, guard.StepReview)
}

// Totals recomputes derived prices from the live cart. Nothing here is
// cached: a line-item change is reflected on the next call.
func (w *PlaceOrderWorkflow) Totals(ctx context.Context) (pricing.Totals, error) {
	cart, err := w.store.Cart(ctx)
	if err != nil {
		return pricing.Totals{}, err
	}
	return pricing.ComputeTotals(cart.Items, w.pricing), nil
}

// SetQuantity adjusts a line item from the review screen. Quantity is capped
// by the item's stock count.
func (w *PlaceOrderWorkflow) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return &ValidationError{Message: "quantity must be at least 1"}
	}

	cart, err := w.store.Cart(ctx)
	if err != nil {
		return err
	}
	for _, item := range cart.Items {
		if item.ProductID != productID {
			continue
		}
		if quantity > item.CountInStock {
			quantity = item.CountInStock
		}
		item.Quantity = quantity
		return w.store.AddToCart(ctx, item)
	}
	return &ValidationError{Message: "product is not in the cart"}
}

// Submit freezes the cart into an order draft and dispatches creation.
// Totals are computed at this instant from live items so the submitted order
// matches what the review screen showed. On success the create lifecycle is
// reset, so a later visit to the review screen starts clean, and navigation
// moves to the new order's detail screen.
func (w *PlaceOrderWorkflow) Submit(ctx context.Context) (string, error) {
	session, err := w.store.Session(ctx)
	if err != nil {
		return "", err
	}
	cart, err := w.store.Cart(ctx)
	if err != nil {
		return "", err
	}

	if decision := guard.CanEnter(guard.StepReview, session, cart); !decision.Allowed {
		w.nav.Goto(decision.RedirectPath(guard.StepReview.Path()))
		return "", nil
	}
	if len(cart.Items) == 0 {
		return "", &ValidationError{Message: "the cart is empty, nothing to order"}
	}

	totals := pricing.ComputeTotals(cart.Items, w.pricing)
	draft := domain.OrderDraft{
		Items:           freezeItems(cart.Items),
		ShippingAddress: *cart.ShippingAddress,
		PaymentMethod:   cart.PaymentMethod,
		ItemsPrice:      totals.ItemsPrice,
		ShippingPrice:   totals.ShippingPrice,
		TotalPrice:      totals.TotalPrice,
	}

	attempt, err := w.create.Begin()
	if errors.Is(err, lifecycle.ErrAttemptInFlight) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	order, err := w.dispatcher.CreateOrder(ctx, session.User.Token, draft)
	if err != nil {
		w.create.Fail(attempt, UserMessage(err))
		return "", nil
	}
	if err := w.create.Succeed(attempt, order); err != nil {
		return "", nil
	}

	if w.events != nil {
		w.events.OrderPlaced(order)
	}

	w.create.Reset()
	w.nav.Goto("/order/" + order.ID)
	return order.ID, nil
}

func (w *PlaceOrderWorkflow) Leave() {
	w.create.Reset()
}

func (w *PlaceOrderWorkflow) Create() *lifecycle.Lifecycle[domain.Order] {
	return w.create
}

// freezeItems copies cart lines into order lines, pinning the price each
// line had at placement.
func freezeItems(items []domain.CartItem) []domain.OrderItem {
	frozen := make([]domain.OrderItem, len(items))
	for i, item := range items {
		frozen[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}
	return frozen
}
