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
)

// CommentHandler provides HTTP handlers for editing shipper comments.
// Listing and creation happen under /shippers.
type CommentHandler struct {
	shipperService  *services.ShipperService
	customerService *services.CustomerService
}

// NewCommentHandler constructs a handler with the provided dependencies.
func NewCommentHandler(shipperService *services.ShipperService, customerService *services.CustomerService) *CommentHandler {
	return &CommentHandler{shipperService: shipperService, customerService: customerService}
}

// CommentRouter registers comment routes on the given router.
func CommentRouter(
	r chi.Router,
	shipperService *services.ShipperService,
	customerService *services.CustomerService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewCommentHandler(shipperService, customerService)

	r.With(authMiddleware).Patch("/{commentID}", handler.UpdateComment)
}

// UpdateComment applies a partial update. Only the authoring customer may
// edit a comment.
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := parseIDParam(r, "commentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req CommentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	comment, err := h.shipperService.GetComment(r.Context(), commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "comment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch comment")
		return
	}

	customer, err := h.customerService.GetByUserID(r.Context(), userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if !authz.CanUpdateComment(customer, comment) {
		writeForbidden(w)
		return
	}

	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			writeError(w, http.StatusBadRequest, "content cannot be empty")
			return
		}
		comment.Content = content
	}
	if req.Active != nil {
		comment.Active = *req.Active
	}

	updated, err := h.shipperService.UpdateComment(r.Context(), comment)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "comment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update comment")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// CommentUpdateRequest carries the fields the authoring customer may change.
type CommentUpdateRequest struct {
	Content *string `json:"content"`
	Active  *bool   `json:"active"`
}
