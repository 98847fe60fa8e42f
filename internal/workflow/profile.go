package workflow

import (
	"context"
	"errors"

	"github.com/fjod/go_checkout/internal/domain"
	"github.com/fjod/go_checkout/internal/guard"
	"github.com/fjod/go_checkout/internal/lifecycle"
)

// ProfileWorkflow drives the account screen: fetching user details and
// submitting profile updates. Details and update each own a lifecycle.
type ProfileWorkflow struct {
	dispatcher Dispatcher
	store      Store
	nav        Navigator
	details    *lifecycle.Lifecycle[domain.UserProfile]
	update     *lifecycle.Lifecycle[domain.UserProfile]
	message    string
}

func NewProfileWorkflow(dispatcher Dispatcher, store Store, nav Navigator) *ProfileWorkflow {
	return &ProfileWorkflow{
		dispatcher: dispatcher,
		store:      store,
		nav:        nav,
		details:    lifecycle.New[domain.UserProfile](),
		update:     lifecycle.New[domain.UserProfile](),
	}
}

// Mount enforces auth and decides whether details must be (re)fetched:
// absent details or a just-succeeded update force a fetch, and the stale
// update state is reset first so it cannot leak into the fresh screen.
func (w *ProfileWorkflow) Mount(ctx context.Context) error {
	session, err := w.store.Session(ctx)
	if err != nil {
		return err
	}
	if !session.LoggedIn() {
		w.nav.Goto(guard.LoginRedirectPath("/profile"))
		return nil
	}

	_, loaded := w.details.Payload()
	if loaded && w.update.Status() != lifecycle.StatusSucceeded {
		return nil
	}

	w.update.Reset()
	return w.fetchDetails(ctx, session.User.Token)
}

func (w *ProfileWorkflow) fetchDetails(ctx context.Context, token string) error {
	attempt, err := w.details.Begin()
	if errors.Is(err, lifecycle.ErrAttemptInFlight) {
		return nil
	}
	if err != nil {
		return err
	}

	profile, err := w.dispatcher.GetUserDetails(ctx, token)
	if err != nil {
		w.details.Fail(attempt, UserMessage(err))
		return nil
	}
	w.details.Succeed(attempt, profile)
	return nil
}

// FormSeed returns the values the profile form starts from, taken from the
// last fetched user. ok is false while details have not loaded.
func (w *ProfileWorkflow) FormSeed() (name, email string, ok bool) {
	profile, loaded := w.details.Payload()
	if !loaded {
		return "", "", false
	}
	return profile.Name, profile.Email, true
}

// Submit validates the password confirmation locally, then dispatches the
// profile update.
func (w *ProfileWorkflow) Submit(ctx context.Context, name, email, password, confirmPassword string) error {
	if password != confirmPassword {
		w.message = MsgPasswordMismatch
		return nil
	}
	w.message = ""

	session, err := w.store.Session(ctx)
	if err != nil {
		return err
	}
	if !session.LoggedIn() {
		w.nav.Goto(guard.LoginRedirectPath("/profile"))
		return nil
	}

	attempt, err := w.update.Begin()
	if errors.Is(err, lifecycle.ErrAttemptInFlight) {
		return nil
	}
	if err != nil {
		return err
	}

	updated, err := w.dispatcher.UpdateProfile(ctx, session.User.Token, ProfileUpdate{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		w.update.Fail(attempt, UserMessage(err))
		return nil
	}
	w.update.Succeed(attempt, updated)
	return nil
}

func (w *ProfileWorkflow) Leave() {
	w.details.Reset()
	w.update.Reset()
}

func (w *ProfileWorkflow) ValidationMessage() string {
	return w.message
}

func (w *ProfileWorkflow) Details() *lifecycle.Lifecycle[domain.UserProfile] {
	return w.details
}

func (w *ProfileWorkflow) Update() *lifecycle.Lifecycle[domain.UserProfile] {
	return w.update
}
