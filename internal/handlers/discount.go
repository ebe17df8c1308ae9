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

// DiscountHandler provides HTTP handlers for admin-owned discounts.
type DiscountHandler struct {
	discountService *services.DiscountService
	userService     *services.UserService
	adminService    *services.AdminService
}

// NewDiscountHandler constructs a handler with the provided dependencies.
func NewDiscountHandler(
	discountService *services.DiscountService,
	userService *services.UserService,
	adminService *services.AdminService,
) *DiscountHandler {
	return &DiscountHandler{
		discountService: discountService,
		userService:     userService,
		adminService:    adminService,
	}
}

// DiscountRouter registers discount routes on the given router.
func DiscountRouter(
	r chi.Router,
	discountService *services.DiscountService,
	userService *services.UserService,
	adminService *services.AdminService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewDiscountHandler(discountService, userService, adminService)

	r.Get("/", handler.ListDiscounts)
	r.With(authMiddleware).Post("/", handler.CreateDiscount)
	r.With(authMiddleware).Patch("/{discountID}", handler.UpdateDiscount)
}

func (h *DiscountHandler) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	discounts, err := h.discountService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list discounts")
		return
	}
	writeJSON(w, http.StatusOK, discounts)
}

// CreateDiscount records a new discount owned by the acting admin.
func (h *DiscountHandler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var req DiscountCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "discount_title is required")
		return
	}
	if req.Percent < 1 || req.Percent > 100 {
		writeError(w, http.StatusBadRequest, "discount_percent must be between 1 and 100")
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !authz.CanCreateDiscount(user) {
		writeForbidden(w)
		return
	}

	admin, err := h.adminService.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeForbidden(w)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	created, err := h.discountService.Create(r.Context(), types.Discount{
		Title:   req.Title,
		Percent: req.Percent,
		AdminID: admin.ID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create discount")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateDiscount applies a partial update. Only the owning admin may change
// a discount.
func (h *DiscountHandler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	discountID, err := parseIDParam(r, "discountID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req DiscountUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	discount, err := h.discountService.Get(r.Context(), discountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "discount not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch discount")
		return
	}

	admin, err := h.adminService.GetByUserID(r.Context(), userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if !authz.CanUpdateDiscount(admin, discount) {
		writeForbidden(w)
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			writeError(w, http.StatusBadRequest, "discount_title cannot be empty")
			return
		}
		discount.Title = title
	}
	if req.Percent != nil {
		if *req.Percent < 1 || *req.Percent > 100 {
			writeError(w, http.StatusBadRequest, "discount_percent must be between 1 and 100")
			return
		}
		discount.Percent = *req.Percent
	}
	if req.Active != nil {
		discount.Active = *req.Active
	}

	updated, err := h.discountService.Update(r.Context(), discount)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "discount not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update discount")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DiscountCreateRequest is the payload for a new discount.
type DiscountCreateRequest struct {
	Title   string `json:"discount_title"`
	Percent int    `json:"discount_percent"`
}

// DiscountUpdateRequest carries the fields the owning admin may change.
type DiscountUpdateRequest struct {
	Title   *string `json:"discount_title"`
	Percent *int    `json:"discount_percent"`
	Active  *bool   `json:"active"`
}
