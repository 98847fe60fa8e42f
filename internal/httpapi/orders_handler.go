package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/go_checkout/internal/domain"
	"github.com/fjod/go_checkout/internal/workflow"
)

type OrderResponseDTO struct {
	Order      domain.Order `json:"order"`
	ItemsPrice int64        `json:"items_price"`
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id is required")
		return
	}

	nav := newNavigator(r)
	wf := workflow.NewOrderWorkflow(h.dispatcher, h.scoped(r), nav, h.events)

	if err := wf.Load(r.Context(), orderID); err != nil {
		handleWorkflowError(w, err)
		return
	}
	if nav.target != "" {
		respondRedirect(w, nav.target)
		return
	}

	if message, failed := wf.Details().ErrorMessage(); failed {
		respondError(w, failureStatus(message), "order_fetch_failed", message)
		return
	}
	order, _ := wf.Details().Payload()
	itemsPrice, _ := wf.ItemsPrice()
	respondJSON(w, http.StatusOK, OrderResponseDTO{Order: order, ItemsPrice: itemsPrice})
}

func (h *Handler) PayOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id is required")
		return
	}

	nav := newNavigator(r)
	wf := workflow.NewOrderWorkflow(h.dispatcher, h.scoped(r), nav, h.events)

	if err := wf.Pay(r.Context(), orderID); err != nil {
		handleWorkflowError(w, err)
		return
	}
	if nav.target != "" {
		respondRedirect(w, nav.target)
		return
	}

	if message, failed := wf.PayState().ErrorMessage(); failed {
		respondError(w, failureStatus(message), "payment_failed", message)
		return
	}
	order, _ := wf.PayState().Payload()
	respondJSON(w, http.StatusOK, order)
}
