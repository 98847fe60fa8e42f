package workflow

import (
	"context"

	"github.com/fjod/go_checkout/internal/domain"
	"github.com/fjod/go_checkout/internal/guard"
)

// ShippingWorkflow drives the shipping-address step. No async action is
// involved; the address goes straight into the cart store.
type ShippingWorkflow struct {
	store Store
	nav   Navigator
}

func NewShippingWorkflow(store Store, nav Navigator) *ShippingWorkflow {
	return &ShippingWorkflow{store: store, nav: nav}
}

func (w *ShippingWorkflow) Mount(ctx context.Context) error {
	return enterStep(ctx, w.store, w.nav, guard.StepShipping)
}

func (w *ShippingWorkflow) Submit(ctx context.Context, addr domain.ShippingAddress) error {
	if err := w.store.SetShippingAddress(ctx, addr); err != nil {
		return err
	}
	w.nav.Goto(guard.StepPayment.Path())
	return nil
}

// PaymentWorkflow drives the payment-method step.
type PaymentWorkflow struct {
	store Store
	nav   Navigator
}

func NewPaymentWorkflow(store Store, nav Navigator) *PaymentWorkflow {
	return &PaymentWorkflow{store: store, nav: nav}
}

func (w *PaymentWorkflow) Mount(ctx context.Context) error {
	return enterStep(ctx, w.store, w.nav, guard.StepPayment)
}

func (w *PaymentWorkflow) Submit(ctx context.Context, method string) error {
	if method == "" {
		return &ValidationError{Message: "a payment method is required"}
	}
	if err := w.store.SetPaymentMethod(ctx, method); err != nil {
		return err
	}
	w.nav.Goto(guard.StepReview.Path())
	return nil
}

// enterStep evaluates the guard for one step and issues the redirect when
// the step is not reachable.
func enterStep(ctx context.Context, store Store, nav Navigator, step guard.Step) error {
	session, err := store.Session(ctx)
	if err != nil {
		return err
	}
	cart, err := store.Cart(ctx)
	if err != nil {
		return err
	}

	if decision := guard.CanEnter(step, session, cart); !decision.Allowed {
		nav.Goto(decision.RedirectPath(step.Path()))
	}
	return nil
}
