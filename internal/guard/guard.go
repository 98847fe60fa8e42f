// Package guard gates entry into the checkout steps. The step order is
// login -> shipping -> payment -> review; a step is reachable only once its
// prerequisites hold, otherwise the guard names the step to redirect to.
package guard

import "github.com/fjod/go_checkout/internal/domain"

type Step string

const (
	StepLogin    Step = "login"
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

func (s Step) Path() string {
	switch s {
	case StepLogin:
		return "/login"
	case StepShipping:
		return "/shipping"
	case StepPayment:
		return "/payment"
	case StepReview:
		return "/placeorder"
	}
	return "/"
}

// Decision is the guard verdict for one step entry. RedirectTo is only
// meaningful when Allowed is false.
type Decision struct {
	Allowed    bool
	RedirectTo Step
}

// CanEnter decides whether the requested step is reachable given the current
// session and cart snapshots. Rules are checked in order: authentication,
// then shipping address, then payment method. Callers must re-evaluate on
// every entry; session and cart can change underneath an already-rendered
// screen.
func CanEnter(step Step, session domain.Session, cart domain.Cart) Decision {
	switch step {
	case StepLogin:
		return Decision{Allowed: true}

	case StepShipping:
		if !session.LoggedIn() {
			return Decision{RedirectTo: StepLogin}
		}
		return Decision{Allowed: true}

	case StepPayment:
		if !session.LoggedIn() {
			return Decision{RedirectTo: StepLogin}
		}
		if !cart.HasShippingAddress() {
			return Decision{RedirectTo: StepShipping}
		}
		return Decision{Allowed: true}

	case StepReview:
		if !session.LoggedIn() {
			return Decision{RedirectTo: StepLogin}
		}
		if !cart.HasShippingAddress() {
			return Decision{RedirectTo: StepShipping}
		}
		if !cart.HasPaymentMethod() {
			return Decision{RedirectTo: StepPayment}
		}
		return Decision{Allowed: true}
	}

	// Not a checkout step; nothing to gate.
	return Decision{Allowed: true}
}
