package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shipbid/apiserver/internal/authz"
	"github.com/shipbid/apiserver/internal/services"
	"github.com/shipbid/apiserver/internal/store"
	"github.com/shipbid/apiserver/types"
)

const formFieldCMND = "cmnd"
const formFieldAvatar = "avatar"

// ShipperHandler provides HTTP handlers for shipper profiles and the
// feedback customers leave on them.
type ShipperHandler struct {
	shipperService  *services.ShipperService
	userService     *services.UserService
	customerService *services.CustomerService
}

// NewShipperHandler constructs a handler with the provided dependencies.
func NewShipperHandler(
	shipperService *services.ShipperService,
	userService *services.UserService,
	customerService *services.CustomerService,
) *ShipperHandler {
	return &ShipperHandler{
		shipperService:  shipperService,
		userService:     userService,
		customerService: customerService,
	}
}

// ShipperRouter registers shipper routes on the given router.
func ShipperRouter(
	r chi.Router,
	shipperService *services.ShipperService,
	userService *services.UserService,
	customerService *services.CustomerService,
	authMiddleware func(http.Handler) http.Handler,
	optionalAuthMiddleware func(http.Handler) http.Handler,
) {
	handler := NewShipperHandler(shipperService, userService, customerService)

	r.Get("/", handler.ListShippers)
	r.With(authMiddleware).Post("/", handler.CreateShipper)
	r.Route("/{shipperID}", func(r chi.Router) {
		r.With(optionalAuthMiddleware).Get("/", handler.GetShipper)
		r.With(authMiddleware).Patch("/", handler.UpdateShipper)
		r.Get("/get-comment", handler.ListComments)
		r.With(authMiddleware).Post("/add-comment", handler.AddComment)
		r.Get("/get-rate", handler.ListRatings)
		r.With(authMiddleware).Post("/rating", handler.RateShipper)
	})
}

func (h *ShipperHandler) ListShippers(w http.ResponseWriter, r *http.Request) {
	filter := store.ShipperFilter{
		CMND: strings.TrimSpace(r.URL.Query().Get("q")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("userid")); raw != "" {
		userID, err := strconv.Atoi(raw)
		if err != nil || userID < 1 {
			writeError(w, http.StatusBadRequest, "invalid userid")
			return
		}
		filter.UserID = userID
	}

	shippers, err := h.shipperService.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list shippers")
		return
	}
	writeJSON(w, http.StatusOK, shippers)
}

// GetShipper returns the profile detail. When the caller is an
// authenticated customer, the rate field carries their own standing rating
// of this shipper, -1 when they have not rated them.
func (h *ShipperHandler) GetShipper(w http.ResponseWriter, r *http.Request) {
	shipperID, err := parseIDParam(r, "shipperID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	viewerCustomerID := 0
	if userID, err := userIDFromContext(r.Context()); err == nil {
		customer, err := h.customerService.GetByUserID(r.Context(), userID)
		if err == nil {
			viewerCustomerID = customer.ID
		} else if !errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "failed to load profile")
			return
		}
	}

	shipper, err := h.shipperService.Get(r.Context(), shipperID, viewerCustomerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "shipper not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch shipper")
		return
	}
	writeJSON(w, http.StatusOK, shipper)
}

// CreateShipper links a shipper profile to the authenticated user, who must
// hold the SHIPPER role. The multipart form carries the identity number and
// an optional avatar image.
func (h *ShipperHandler) CreateShipper(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if user.Role != types.RoleShipper {
		writeForbidden(w)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	cmnd := strings.TrimSpace(r.FormValue(formFieldCMND))
	if cmnd == "" {
		writeError(w, http.StatusBadRequest, "cmnd is required")
		return
	}
	avatar, err := parseOptionalFile(r.MultipartForm, formFieldAvatar)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	shipper := types.Shipper{UserID: user.ID, CMND: cmnd}
	if avatar.Data != nil {
		url, err := h.shipperService.UploadAvatar(r.Context(), avatar.Filename, avatar.Data)
		if err != nil {
			if errors.Is(err, services.ErrStorageUnavailable) {
				writeError(w, http.StatusBadRequest, "image uploads are disabled")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to store avatar")
			return
		}
		shipper.AvatarURL = url
	}

	created, err := h.shipperService.Create(r.Context(), shipper)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, "shipper profile already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create shipper")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateShipper applies a partial update. The owning shipper may change
// their own fields; the verified flag is writable only by admins.
func (h *ShipperHandler) UpdateShipper(w http.ResponseWriter, r *http.Request) {
	shipperID, err := parseIDParam(r, "shipperID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ShipperUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	shipper, err := h.shipperService.Get(r.Context(), shipperID, 0)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "shipper not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch shipper")
		return
	}

	ownFields := req.CMND != nil || req.Active != nil
	if ownFields && !authz.CanUpdateShipper(user, shipper) {
		writeForbidden(w)
		return
	}
	if req.Verified != nil && !authz.CanVerifyShipper(user) {
		writeForbidden(w)
		return
	}
	if !ownFields && req.Verified == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if req.CMND != nil {
		cmnd := strings.TrimSpace(*req.CMND)
		if cmnd == "" {
			writeError(w, http.StatusBadRequest, "cmnd cannot be empty")
			return
		}
		shipper.CMND = cmnd
	}
	if req.Active != nil {
		shipper.Active = *req.Active
	}
	if req.Verified != nil {
		shipper.Verified = *req.Verified
	}

	updated, err := h.shipperService.Update(r.Context(), shipper)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "shipper not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update shipper")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ListComments returns the comments customers left on the shipper.
func (h *ShipperHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	shipperID, ok := h.requireShipper(w, r)
	if !ok {
		return
	}

	comments, err := h.shipperService.ListComments(r.Context(), shipperID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list comments")
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// AddComment records a customer's comment on the shipper.
func (h *ShipperHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	shipperID, ok := h.requireShipper(w, r)
	if !ok {
		return
	}

	var req CommentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	customer, ok := h.requireCustomer(w, r)
	if !ok {
		return
	}

	created, err := h.shipperService.AddComment(r.Context(), types.Comment{
		Content:    req.Content,
		ShipperID:  shipperID,
		CustomerID: customer.ID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListRatings returns all ratings the shipper has received.
func (h *ShipperHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	shipperID, ok := h.requireShipper(w, r)
	if !ok {
		return
	}

	ratings, err := h.shipperService.ListRatings(r.Context(), shipperID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list ratings")
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

// RateShipper stores or replaces the customer's 1..5 rating of the shipper.
func (h *ShipperHandler) RateShipper(w http.ResponseWriter, r *http.Request) {
	shipperID, ok := h.requireShipper(w, r)
	if !ok {
		return
	}

	var req RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Rate < 1 || req.Rate > 5 {
		writeError(w, http.StatusBadRequest, "rate must be between 1 and 5")
		return
	}

	customer, ok := h.requireCustomer(w, r)
	if !ok {
		return
	}

	rating, err := h.shipperService.Rate(r.Context(), types.Rating{
		Rate:       req.Rate,
		ShipperID:  shipperID,
		CustomerID: customer.ID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store rating")
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

// requireShipper resolves the path parameter and verifies the shipper
// exists, writing the response itself when it does not.
func (h *ShipperHandler) requireShipper(w http.ResponseWriter, r *http.Request) (int, bool) {
	shipperID, err := parseIDParam(r, "shipperID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	if _, err := h.shipperService.Get(r.Context(), shipperID, 0); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "shipper not found")
			return 0, false
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch shipper")
		return 0, false
	}
	return shipperID, true
}

// requireCustomer loads the acting user's customer profile, enforcing the
// customer-only feedback gate.
func (h *ShipperHandler) requireCustomer(w http.ResponseWriter, r *http.Request) (types.Customer, bool) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return types.Customer{}, false
	}
	if !authz.CanLeaveFeedback(user) {
		writeForbidden(w)
		return types.Customer{}, false
	}
	customer, err := h.customerService.GetByUserID(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeForbidden(w)
			return types.Customer{}, false
		}
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return types.Customer{}, false
	}
	return customer, true
}

func (h *ShipperHandler) requireUser(w http.ResponseWriter, r *http.Request) (types.User, bool) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return types.User{}, false
	}
	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return types.User{}, false
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return types.User{}, false
	}
	return user, true
}

// ShipperUpdateRequest carries the writable shipper fields. The verified
// flag has its own gate.
type ShipperUpdateRequest struct {
	CMND     *string `json:"cmnd"`
	Active   *bool   `json:"active"`
	Verified *bool   `json:"verified"`
}

// CommentCreateRequest is a customer's comment payload.
type CommentCreateRequest struct {
	Content string `json:"content"`
}

// RatingRequest is a customer's rating payload.
type RatingRequest struct {
	Rate int `json:"rate"`
}
