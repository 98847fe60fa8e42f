package httpapi

import (
	"net/http"

	"github.com/fjod/go_checkout/internal/domain"
	"github.com/fjod/go_checkout/internal/lifecycle"
	"github.com/fjod/go_checkout/internal/workflow"
)

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequestDTO struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type ProfileUpdateRequestDTO struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type AuthResponseDTO struct {
	User       domain.UserInfo `json:"user"`
	RedirectTo string          `json:"redirect_to"`
}

// LoginForm is the entry check for the login screen: an authenticated
// visitor is sent straight to the redirect target.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	nav := newNavigator(r)
	wf := workflow.NewLoginWorkflow(h.dispatcher, h.scoped(r), nav)

	if err := wf.Mount(r.Context()); err != nil {
		handleWorkflowError(w, err)
		return
	}
	if nav.target != "" {
		respondRedirect(w, nav.target)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"redirect_to": wf.RedirectTarget()})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	nav := newNavigator(r)
	wf := workflow.NewLoginWorkflow(h.dispatcher, h.scoped(r), nav)

	if err := wf.Submit(r.Context(), req.Email, req.Password); err != nil {
		handleWorkflowError(w, err)
		return
	}

	if message, failed := wf.State().ErrorMessage(); failed {
		respondError(w, failureStatus(message), "login_failed", message)
		return
	}
	user, _ := wf.State().Payload()
	respondJSON(w, http.StatusOK, AuthResponseDTO{User: user, RedirectTo: nav.target})
}

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	nav := newNavigator(r)
	wf := workflow.NewRegisterWorkflow(h.dispatcher, h.scoped(r), nav)

	if err := wf.Mount(r.Context()); err != nil {
		handleWorkflowError(w, err)
		return
	}
	if nav.target != "" {
		respondRedirect(w, nav.target)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"redirect_to": nav.Query("redirect")})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	nav := newNavigator(r)
	wf := workflow.NewRegisterWorkflow(h.dispatcher, h.scoped(r), nav)

	if err := wf.Submit(r.Context(), req.Name, req.Email, req.Password, req.ConfirmPassword); err != nil {
		handleWorkflowError(w, err)
		return
	}

	if msg := wf.ValidationMessage(); msg != "" {
		respondError(w, http.StatusBadRequest, "validation_failed", msg)
		return
	}
	if message, failed := wf.State().ErrorMessage(); failed {
		respondError(w, failureStatus(message), "register_failed", message)
		return
	}
	user, _ := wf.State().Payload()
	respondJSON(w, http.StatusCreated, AuthResponseDTO{User: user, RedirectTo: nav.target})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	nav := newNavigator(r)
	wf := workflow.NewProfileWorkflow(h.dispatcher, h.scoped(r), nav)

	if err := wf.Mount(r.Context()); err != nil {
		handleWorkflowError(w, err)
		return
	}
	if nav.target != "" {
		respondRedirect(w, nav.target)
		return
	}

	if message, failed := wf.Details().ErrorMessage(); failed {
		respondError(w, failureStatus(message), "profile_fetch_failed", message)
		return
	}
	profile, _ := wf.Details().Payload()
	respondJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileUpdateRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	nav := newNavigator(r)
	wf := workflow.NewProfileWorkflow(h.dispatcher, h.scoped(r), nav)

	if err := wf.Submit(r.Context(), req.Name, req.Email, req.Password, req.ConfirmPassword); err != nil {
		handleWorkflowError(w, err)
		return
	}
	if nav.target != "" {
		respondRedirect(w, nav.target)
		return
	}

	if msg := wf.ValidationMessage(); msg != "" {
		respondError(w, http.StatusBadRequest, "validation_failed", msg)
		return
	}
	if message, failed := wf.Update().ErrorMessage(); failed {
		respondError(w, failureStatus(message), "profile_update_failed", message)
		return
	}
	if wf.Update().Status() != lifecycle.StatusSucceeded {
		respondError(w, http.StatusInternalServerError, "internal_error", "update did not settle")
		return
	}
	profile, _ := wf.Update().Payload()
	respondJSON(w, http.StatusOK, profile)
}
