// Package httpapi exposes the checkout workflows over HTTP. Each request
// builds the workflow it needs against the caller's session; the JSON
// responses carry the workflow state the way a rendered screen would.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/go_checkout/internal/pricing"
	"github.com/fjod/go_checkout/internal/store"
	"github.com/fjod/go_checkout/internal/workflow"
)

type Handler struct {
	dispatcher workflow.Dispatcher
	store      *store.Service
	events     workflow.Events
	pricing    pricing.Config
}

func NewHandler(dispatcher workflow.Dispatcher, svc *store.Service, events workflow.Events, cfg pricing.Config) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		store:      svc,
		events:     events,
		pricing:    cfg,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(SessionMiddleware)

	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Get("/register", h.RegisterForm)
	r.Post("/register", h.Register)
	r.Get("/profile", h.Profile)
	r.Put("/profile", h.UpdateProfile)

	r.Get("/cart", h.GetCart)
	r.Post("/cart/items", h.AddCartItem)
	r.Get("/shipping", h.ShippingForm)
	r.Put("/shipping", h.SetShippingAddress)
	r.Get("/payment", h.PaymentForm)
	r.Put("/payment", h.SetPaymentMethod)

	r.Get("/placeorder", h.Review)
	r.Put("/placeorder/items/{product_id}", h.SetQuantity)
	r.Post("/placeorder", h.PlaceOrder)

	r.Get("/order/{id}", h.GetOrder)
	r.Post("/order/{id}/pay", h.PayOrder)

	return r
}

func (h *Handler) scoped(r *http.Request) *store.Scoped {
	return h.store.ForSession(sessionIDFromContext(r.Context()))
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondRedirect answers a guard decision: a JSON body for API clients plus
// a Location header so browsers follow it directly.
func respondRedirect(w http.ResponseWriter, target string) {
	w.Header().Set("Location", target)
	respondJSON(w, http.StatusSeeOther, map[string]string{"redirect_to": target})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// handleWorkflowError maps errors escaping a workflow call. Action failures
// never escape (they settle the lifecycle); what reaches here is either local
// validation or a store fault.
func handleWorkflowError(w http.ResponseWriter, err error) {
	var validation *workflow.ValidationError
	if errors.As(err, &validation) {
		respondError(w, http.StatusBadRequest, "validation_failed", validation.Message)
		return
	}
	log.Printf("workflow error: %v", err)
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

// failureStatus picks the HTTP status for a settled lifecycle failure.
func failureStatus(message string) int {
	if message == workflow.MsgInvalidCredentials {
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}
