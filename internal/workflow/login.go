package workflow

import (
	"context"
	"errors"

	"github.com/fjod/go_checkout/internal/domain"
	"github.com/fjod/go_checkout/internal/lifecycle"
)

// LoginWorkflow drives the login screen: the login lifecycle plus the
// redirect target captured from the incoming query string.
type LoginWorkflow struct {
	dispatcher Dispatcher
	store      Store
	nav        Navigator
	redirect   string
	login      *lifecycle.Lifecycle[domain.UserInfo]
}

func NewLoginWorkflow(dispatcher Dispatcher, store Store, nav Navigator) *LoginWorkflow {
	return &LoginWorkflow{
		dispatcher: dispatcher,
		store:      store,
		nav:        nav,
		redirect:   redirectTarget(nav),
		login:      lifecycle.New[domain.UserInfo](),
	}
}

// Mount runs the entry check: an already-authenticated visitor skips the
// form and goes straight to the redirect target.
func (w *LoginWorkflow) Mount(ctx context.Context) error {
	session, err := w.store.Session(ctx)
	if err != nil {
		return err
	}
	if session.LoggedIn() {
		w.nav.Goto(w.redirect)
	}
	return nil
}

// Submit dispatches the login action. A submit while one is already in
// flight is dropped. Action failures settle the lifecycle; they are not
// returned as errors.
func (w *LoginWorkflow) Submit(ctx context.Context, email, password string) error {
	attempt, err := w.login.Begin()
	if errors.Is(err, lifecycle.ErrAttemptInFlight) {
		return nil
	}
	if err != nil {
		return err
	}

	user, err := w.dispatcher.Login(ctx, email, password)
	if err != nil {
		w.login.Fail(attempt, UserMessage(err))
		return nil
	}

	if err := w.login.Succeed(attempt, user); err != nil {
		// Superseded while loading; the user is gone, discard the result.
		return nil
	}

	if err := w.store.SetSession(ctx, user); err != nil {
		return err
	}
	w.nav.Goto(w.redirect)
	return nil
}

// Leave abandons an in-flight attempt so a late result cannot land on a
// screen the user already left.
func (w *LoginWorkflow) Leave() {
	w.login.Reset()
}

func (w *LoginWorkflow) State() *lifecycle.Lifecycle[domain.UserInfo] {
	return w.login
}

// RedirectTarget is the destination a successful login navigates to.
func (w *LoginWorkflow) RedirectTarget() string {
	return w.redirect
}
