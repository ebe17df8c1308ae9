package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shipbid/apiserver/internal/authz"
	"github.com/shipbid/apiserver/internal/services"
	"github.com/shipbid/apiserver/internal/store"
	"github.com/shipbid/apiserver/types"
)

// OrderHandler provides HTTP handlers for fulfillment orders.
type OrderHandler struct {
	orderService    *services.OrderService
	shipperService  *services.ShipperService
	customerService *services.CustomerService
}

// NewOrderHandler constructs a handler with the provided dependencies.
func NewOrderHandler(
	orderService *services.OrderService,
	shipperService *services.ShipperService,
	customerService *services.CustomerService,
) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		shipperService:  shipperService,
		customerService: customerService,
	}
}

// OrderRouter registers order routes on the given router. All of them
// require authentication.
func OrderRouter(
	r chi.Router,
	orderService *services.OrderService,
	shipperService *services.ShipperService,
	customerService *services.CustomerService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewOrderHandler(orderService, shipperService, customerService)

	r.Use(authMiddleware)
	r.Get("/{orderID}", handler.GetOrder)
	r.Patch("/{orderID}", handler.UpdateOrder)
}

// GetOrder returns the order to either of its two parties.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseIDParam(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := h.orderService.Get(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch order")
		return
	}

	shipper, customer, err := h.viewerProfiles(r, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if !authz.CanViewOrder(shipper, customer, order) {
		writeForbidden(w)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateOrder advances the order state machine. Only the fulfilling shipper
// may move an order, and only along a legal transition.
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseIDParam(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req OrderUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	next, err := types.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid status_order")
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := h.orderService.Get(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch order")
		return
	}

	shipper, err := h.shipperService.GetByUserID(r.Context(), userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if !authz.CanAdvanceOrder(shipper, order) {
		writeForbidden(w)
		return
	}

	updated, err := h.orderService.Transition(r.Context(), orderID, next)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, store.ErrConflict):
			writeError(w, http.StatusConflict, "illegal status transition")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update order")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *OrderHandler) viewerProfiles(r *http.Request, userID int) (types.Shipper, types.Customer, error) {
	shipper, err := h.shipperService.GetByUserID(r.Context(), userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return types.Shipper{}, types.Customer{}, err
	}
	customer, err := h.customerService.GetByUserID(r.Context(), userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return types.Shipper{}, types.Customer{}, err
	}
	return shipper, customer, nil
}

// OrderUpdateRequest carries the requested next status.
type OrderUpdateRequest struct {
	Status string `json:"status_order"`
}
