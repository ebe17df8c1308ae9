package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shipbid/apiserver/internal/authz"
	"github.com/shipbid/apiserver/internal/services"
	"github.com/shipbid/apiserver/internal/store"
	"github.com/shipbid/apiserver/types"
)

// AuctionHandler provides HTTP handlers for standing bids.
type AuctionHandler struct {
	auctionService  *services.AuctionService
	postService     *services.PostService
	userService     *services.UserService
	customerService *services.CustomerService
}

// NewAuctionHandler constructs a handler with the provided dependencies.
func NewAuctionHandler(
	auctionService *services.AuctionService,
	postService *services.PostService,
	userService *services.UserService,
	customerService *services.CustomerService,
) *AuctionHandler {
	return &AuctionHandler{
		auctionService:  auctionService,
		postService:     postService,
		userService:     userService,
		customerService: customerService,
	}
}

// AuctionRouter registers auction routes on the given router.
func AuctionRouter(
	r chi.Router,
	auctionService *services.AuctionService,
	postService *services.PostService,
	userService *services.UserService,
	customerService *services.CustomerService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewAuctionHandler(auctionService, postService, userService, customerService)

	r.Get("/", handler.ListAuctions)
	r.With(authMiddleware).Patch("/{auctionID}", handler.UpdateAuction)
}

func (h *AuctionHandler) ListAuctions(w http.ResponseWriter, r *http.Request) {
	auctions, err := h.auctionService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list auctions")
		return
	}
	writeJSON(w, http.StatusOK, auctions)
}

// UpdateAuction lets the post's owning customer act on a bid: had_accept
// true accepts it and creates the order, active false withdraws it. No
// other field is writable through this endpoint.
func (h *AuctionHandler) UpdateAuction(w http.ResponseWriter, r *http.Request) {
	auctionID, err := parseIDParam(r, "auctionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req AuctionUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	accepting := req.HadAccept != nil && *req.HadAccept
	withdrawing := req.Active != nil && !*req.Active
	if !accepting && !withdrawing {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if accepting && withdrawing {
		writeError(w, http.StatusBadRequest, "cannot accept and withdraw at once")
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if _, err := h.userService.GetByID(r.Context(), userID); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	auction, err := h.auctionService.Get(r.Context(), auctionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "auction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch auction")
		return
	}

	post, err := h.postService.Get(r.Context(), auction.PostID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch post")
		return
	}

	customer, err := h.customerService.GetByUserID(r.Context(), userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if !authz.CanAcceptAuction(customer, post) {
		writeForbidden(w)
		return
	}

	if accepting {
		accepted, order, err := h.auctionService.Accept(r.Context(), auctionID)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				writeError(w, http.StatusNotFound, "auction not found")
			case errors.Is(err, store.ErrConflict):
				writeError(w, http.StatusConflict, "post already has an accepted auction")
			default:
				writeError(w, http.StatusInternalServerError, "failed to accept auction")
			}
			return
		}
		writeJSON(w, http.StatusOK, AuctionAcceptResponse{Auction: accepted, Order: order})
		return
	}

	if err := h.auctionService.Withdraw(r.Context(), auctionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "auction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to withdraw auction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AuctionUpdateRequest carries the two writable auction fields.
type AuctionUpdateRequest struct {
	HadAccept *bool `json:"had_accept"`
	Active    *bool `json:"active"`
}

// AuctionAcceptResponse returns the winning bid together with the order it
// spawned.
type AuctionAcceptResponse struct {
	Auction types.Auction `json:"auction"`
	Order   types.Order   `json:"order"`
}
