package workflow

import (
	"context"
	"errors"

	"github.com/fjod/go_checkout/internal/domain"
	"github.com/fjod/go_checkout/internal/lifecycle"
)

// RegisterWorkflow drives the register screen. It adds local password
// confirmation on top of the login flow; a mismatch never dispatches and
// leaves the lifecycle untouched.
type RegisterWorkflow struct {
	dispatcher Dispatcher
	store      Store
	nav        Navigator
	redirect   string
	register   *lifecycle.Lifecycle[domain.UserInfo]
	message    string
}

func NewRegisterWorkflow(dispatcher Dispatcher, store Store, nav Navigator) *RegisterWorkflow {
	return &RegisterWorkflow{
		dispatcher: dispatcher,
		store:      store,
		nav:        nav,
		redirect:   redirectTarget(nav),
		register:   lifecycle.New[domain.UserInfo](),
	}
}

func (w *RegisterWorkflow) Mount(ctx context.Context) error {
	session, err := w.store.Session(ctx)
	if err != nil {
		return err
	}
	if session.LoggedIn() {
		w.nav.Goto(w.redirect)
	}
	return nil
}

func (w *RegisterWorkflow) Submit(ctx context.Context, name, email, password, confirmPassword string) error {
	if password != confirmPassword {
		w.message = MsgPasswordMismatch
		return nil
	}
	w.message = ""

	attempt, err := w.register.Begin()
	if errors.Is(err, lifecycle.ErrAttemptInFlight) {
		return nil
	}
	if err != nil {
		return err
	}

	user, err := w.dispatcher.Register(ctx, name, email, password)
	if err != nil {
		w.register.Fail(attempt, UserMessage(err))
		return nil
	}

	if err := w.register.Succeed(attempt, user); err != nil {
		return nil
	}

	if err := w.store.SetSession(ctx, user); err != nil {
		return err
	}
	w.nav.Goto(w.redirect)
	return nil
}

func (w *RegisterWorkflow) Leave() {
	w.register.Reset()
}

// ValidationMessage is the local validation failure to show, empty when the
// last submit passed validation.
func (w *RegisterWorkflow) ValidationMessage() string {
	return w.message
}

func (w *RegisterWorkflow) State() *lifecycle.Lifecycle[domain.UserInfo] {
	return w.register
}
