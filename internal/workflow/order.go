package workflow

import (
	"context"
	"errors"

	"github.com/fjod/go_checkout/internal/domain"
	"github.com/fjod/go_checkout/internal/guard"
	"github.com/fjod/go_checkout/internal/lifecycle"
	"github.com/fjod/go_checkout/internal/pricing"
)

// OrderWorkflow drives the order detail screen and its pay action. The
// details and pay lifecycles are independent; a completed payment forces the
// next Load to re-fetch so the displayed paid state tracks the backend.
type OrderWorkflow struct {
	dispatcher Dispatcher
	store      Store
	nav        Navigator
	events     Events
	details    *lifecycle.Lifecycle[domain.Order]
	pay        *lifecycle.Lifecycle[domain.Order]
}

func NewOrderWorkflow(dispatcher Dispatcher, store Store, nav Navigator, events Events) *OrderWorkflow {
	return &OrderWorkflow{
		dispatcher: dispatcher,
		store:      store,
		nav:        nav,
		events:     events,
		details:    lifecycle.New[domain.Order](),
		pay:        lifecycle.New[domain.Order](),
	}
}

// Load fetches the order unless a matching copy is already loaded and no
// payment just settled. An id mismatch or a just-completed payment resets
// the pay lifecycle and re-fetches.
func (w *OrderWorkflow) Load(ctx context.Context, orderID string) error {
	session, err := w.store.Session(ctx)
	if err != nil {
		return err
	}
	if !session.LoggedIn() {
		w.nav.Goto(guard.LoginRedirectPath("/order/" + orderID))
		return nil
	}

	current, loaded := w.details.Payload()
	if loaded && current.ID == orderID && w.pay.Status() != lifecycle.StatusSucceeded {
		return nil
	}

	w.pay.Reset()
	return w.fetch(ctx, session.User.Token, orderID)
}

func (w *OrderWorkflow) fetch(ctx context.Context, token, orderID string) error {
	attempt, err := w.details.Begin()
	if errors.Is(err, lifecycle.ErrAttemptInFlight) {
		return nil
	}
	if err != nil {
		return err
	}

	order, err := w.dispatcher.GetOrderDetails(ctx, token, orderID)
	if err != nil {
		w.details.Fail(attempt, UserMessage(err))
		return nil
	}
	w.details.Succeed(attempt, order)
	return nil
}

// ItemsPrice recomputes the subtotal from the frozen order items. It equals
// the ItemsPrice stored on the order at creation; shipping and total stay as
// frozen on the order.
func (w *OrderWorkflow) ItemsPrice() (int64, bool) {
	order, loaded := w.details.Payload()
	if !loaded {
		return 0, false
	}
	return pricing.OrderItemsPrice(order.Items), true
}

// Pay dispatches payment confirmation for the order. On success the next
// Load re-fetches, which is how the screen picks up IsPaid.
func (w *OrderWorkflow) Pay(ctx context.Context, orderID string) error {
	session, err := w.store.Session(ctx)
	if err != nil {
		return err
	}
	if !session.LoggedIn() {
		w.nav.Goto(guard.LoginRedirectPath("/order/" + orderID))
		return nil
	}

	attempt, err := w.pay.Begin()
	if errors.Is(err, lifecycle.ErrAttemptInFlight) {
		return nil
	}
	if err != nil {
		return err
	}

	order, err := w.dispatcher.PayOrder(ctx, session.User.Token, orderID)
	if err != nil {
		w.pay.Fail(attempt, UserMessage(err))
		return nil
	}
	if err := w.pay.Succeed(attempt, order); err != nil {
		return nil
	}

	if w.events != nil {
		w.events.OrderPaid(order)
	}
	return nil
}

func (w *OrderWorkflow) Leave() {
	w.details.Reset()
	w.pay.Reset()
}

func (w *OrderWorkflow) Details() *lifecycle.Lifecycle[domain.Order] {
	return w.details
}

func (w *OrderWorkflow) PayState() *lifecycle.Lifecycle[domain.Order] {
	return w.pay
}
