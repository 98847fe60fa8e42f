package httpapi

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/go_checkout/internal/domain"
	"github.com/fjod/go_checkout/internal/pricing"
	"github.com/fjod/go_checkout/internal/workflow"
)

type AddItemRequestDTO struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	UnitPrice    int64  `json:"unit_price"`
	Quantity     int    `json:"quantity"`
	CountInStock int    `json:"count_in_stock"`
}

type PaymentRequestDTO struct {
	Method string `json:"method"`
}

type QuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ReviewResponseDTO struct {
	Cart   domain.Cart    `json:"cart"`
	Totals pricing.Totals `json:"totals"`
}

type PlaceOrderResponseDTO struct {
	OrderID    string `json:"order_id"`
	RedirectTo string `json:"redirect_to"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.scoped(r).Cart(r.Context())
	if err != nil {
		handleWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ReviewResponseDTO{
		Cart:   cart,
		Totals: pricing.ComputeTotals(cart.Items, h.pricing),
	})
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	err := h.scoped(r).AddToCart(r.Context(), domain.CartItem{
		ProductID:    req.ProductID,
		Name:         req.Name,
		Image:        req.Image,
		UnitPrice:    req.UnitPrice,
		Quantity:     req.Quantity,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		handleWorkflowError(w, err)
		return
	}

	cart, err := h.scoped(r).Cart(r.Context())
	if err != nil {
		handleWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cart)
}

func (h *Handler) ShippingForm(w http.ResponseWriter, r *http.Request) {
	nav := newNavigator(r)
	wf := workflow.NewShippingWorkflow(h.scoped(r), nav)

	if err := wf.Mount(r.Context()); err != nil {
		handleWorkflowError(w, err)
		return
	}
	if nav.target != "" {
		respondRedirect(w, nav.target)
		return
	}

	cart, err := h.scoped(r).Cart(r.Context())
	if err != nil {
		handleWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"shipping_address": cart.ShippingAddress})
}

func (h *Handler) SetShippingAddress(w http.ResponseWriter, r *http.Request) {
	var req domain.ShippingAddress
	if !decodeJSON(w, r, &req) {
		return
	}

	nav := newNavigator(r)
	wf := workflow.NewShippingWorkflow(h.scoped(r), nav)

	if err := wf.Submit(r.Context(), req); err != nil {
		handleWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"redirect_to": nav.target})
}

func (h *Handler) PaymentForm(w http.ResponseWriter, r *http.Request) {
	nav := newNavigator(r)
	wf := workflow.NewPaymentWorkflow(h.scoped(r), nav)

	if err := wf.Mount(r.Context()); err != nil {
		handleWorkflowError(w, err)
		return
	}
	if nav.target != "" {
		respondRedirect(w, nav.target)
		return
	}

	cart, err := h.scoped(r).Cart(r.Context())
	if err != nil {
		handleWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"payment_method": cart.PaymentMethod})
}

func (h *Handler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	nav := newNavigator(r)
	wf := workflow.NewPaymentWorkflow(h.scoped(r), nav)

	if err := wf.Submit(r.Context(), req.Method); err != nil {
		handleWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"redirect_to": nav.target})
}

// Review renders the place-order screen: the guard chain first, then the
// live cart with totals recomputed from it.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	nav := newNavigator(r)
	wf := workflow.NewPlaceOrderWorkflow(h.dispatcher, h.scoped(r), nav, h.events, h.pricing)

	if err := wf.Mount(r.Context()); err != nil {
		handleWorkflowError(w, err)
		return
	}
	if nav.target != "" {
		respondRedirect(w, nav.target)
		return
	}

	cart, err := h.scoped(r).Cart(r.Context())
	if err != nil {
		handleWorkflowError(w, err)
		return
	}
	totals, err := wf.Totals(r.Context())
	if err != nil {
		handleWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ReviewResponseDTO{Cart: cart, Totals: totals})
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req QuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	nav := newNavigator(r)
	wf := workflow.NewPlaceOrderWorkflow(h.dispatcher, h.scoped(r), nav, h.events, h.pricing)

	if err := wf.SetQuantity(r.Context(), productID, req.Quantity); err != nil {
		handleWorkflowError(w, err)
		return
	}

	cart, err := h.scoped(r).Cart(r.Context())
	if err != nil {
		handleWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ReviewResponseDTO{
		Cart:   cart,
		Totals: pricing.ComputeTotals(cart.Items, h.pricing),
	})
}

// PlaceOrder submits the frozen order draft. On success the cart lines are
// cleared here, outside the workflow, so the review state machine stays free
// of storage concerns.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	nav := newNavigator(r)
	scoped := h.scoped(r)
	wf := workflow.NewPlaceOrderWorkflow(h.dispatcher, scoped, nav, h.events, h.pricing)

	orderID, err := wf.Submit(r.Context())
	if err != nil {
		handleWorkflowError(w, err)
		return
	}

	if orderID == "" {
		if nav.target != "" {
			respondRedirect(w, nav.target)
			return
		}
		if message, failed := wf.Create().ErrorMessage(); failed {
			respondError(w, failureStatus(message), "order_create_failed", message)
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "order creation did not settle")
		return
	}

	if err := scoped.ClearCart(r.Context()); err != nil {
		log.Printf("clear cart after order %s failed: %v", orderID, err)
	}
	respondJSON(w, http.StatusCreated, PlaceOrderResponseDTO{OrderID: orderID, RedirectTo: nav.target})
}
