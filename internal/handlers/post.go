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

const (
	formFieldProductName = "product_name"
	formFieldProductImg  = "product_img"
	formFieldFromAddress = "from_address"
	formFieldToAddress   = "to_address"
	formFieldDescription = "description"
	formFieldDiscountID  = "discount_id"
)

// PostHandler provides HTTP handlers for delivery job posts and the bids
// placed under them.
type PostHandler struct {
	postService     *services.PostService
	auctionService  *services.AuctionService
	userService     *services.UserService
	customerService *services.CustomerService
	shipperService  *services.ShipperService
}

// NewPostHandler constructs a handler with the provided dependencies.
func NewPostHandler(
	postService *services.PostService,
	auctionService *services.AuctionService,
	userService *services.UserService,
	customerService *services.CustomerService,
	shipperService *services.ShipperService,
) *PostHandler {
	return &PostHandler{
		postService:     postService,
		auctionService:  auctionService,
		userService:     userService,
		customerService: customerService,
		shipperService:  shipperService,
	}
}

// PostRouter registers post routes on the given router.
func PostRouter(
	r chi.Router,
	postService *services.PostService,
	auctionService *services.AuctionService,
	userService *services.UserService,
	customerService *services.CustomerService,
	shipperService *services.ShipperService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewPostHandler(postService, auctionService, userService, customerService, shipperService)

	r.Get("/", handler.ListPosts)
	r.With(authMiddleware).Post("/", handler.CreatePost)
	r.Route("/{postID}", func(r chi.Router) {
		r.With(authMiddleware).Patch("/", handler.UpdatePost)
		r.Get("/get-auction", handler.ListPostAuctions)
		r.With(authMiddleware).Post("/add-auction", handler.AddAuction)
	})
}

func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	filter := store.PostFilter{
		ProductName: strings.TrimSpace(r.URL.Query().Get("q")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("id")); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		filter.ID = id
	}

	posts, err := h.postService.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// CreatePost accepts a multipart form from a customer describing a delivery
// job, uploading the product image to object storage when one is attached.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if !authz.CanCreatePost(user) {
		writeForbidden(w)
		return
	}

	customer, err := h.customerService.GetByUserID(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeForbidden(w)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	req, err := parsePostForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post := types.Post{
		ProductName: req.ProductName,
		FromAddress: req.FromAddress,
		ToAddress:   req.ToAddress,
		Description: req.Description,
		DiscountID:  req.DiscountID,
		CustomerID:  customer.ID,
	}

	if req.Image.Data != nil {
		url, err := h.postService.UploadProductImage(r.Context(), req.Image.Filename, req.Image.Data)
		if err != nil {
			if errors.Is(err, services.ErrStorageUnavailable) {
				writeError(w, http.StatusBadRequest, "image uploads are disabled")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to store image")
			return
		}
		post.ProductImgURL = url
	}

	created, err := h.postService.Create(r.Context(), post)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create post")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdatePost applies a partial update. Only the owning customer may change
// a post.
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "postID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req PostUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	post, err := h.postService.Get(r.Context(), postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch post")
		return
	}

	customer, err := h.customerService.GetByUserID(r.Context(), user.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if !authz.CanUpdatePost(customer, post) {
		writeForbidden(w)
		return
	}

	if req.ProductName != nil {
		name := strings.TrimSpace(*req.ProductName)
		if name == "" {
			writeError(w, http.StatusBadRequest, "product_name cannot be empty")
			return
		}
		post.ProductName = name
	}
	if req.FromAddress != nil {
		post.FromAddress = strings.TrimSpace(*req.FromAddress)
	}
	if req.ToAddress != nil {
		post.ToAddress = strings.TrimSpace(*req.ToAddress)
	}
	if req.Description != nil {
		post.Description = *req.Description
	}
	if req.DiscountID != nil {
		if *req.DiscountID == 0 {
			post.DiscountID = nil
		} else {
			post.DiscountID = req.DiscountID
		}
	}
	if req.Active != nil {
		post.Active = *req.Active
	}

	updated, err := h.postService.Update(r.Context(), post)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update post")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ListPostAuctions returns the standing bids under a post.
func (h *PostHandler) ListPostAuctions(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "postID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.postService.Get(r.Context(), postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch post")
		return
	}

	auctions, err := h.auctionService.ListForPost(r.Context(), postID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list auctions")
		return
	}
	writeJSON(w, http.StatusOK, auctions)
}

// AddAuction places a shipper's bid under a post. Content and price are
// both required.
func (h *PostHandler) AddAuction(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "postID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req AuctionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" || req.Price == nil || *req.Price < 1 {
		writeError(w, http.StatusBadRequest, "content and price are required")
		return
	}

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if !authz.CanBid(user) {
		writeForbidden(w)
		return
	}

	shipper, err := h.shipperService.GetByUserID(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeForbidden(w)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	if _, err := h.postService.Get(r.Context(), postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch post")
		return
	}

	auction, err := h.auctionService.Create(r.Context(), types.Auction{
		Content:   req.Content,
		Price:     *req.Price,
		PostID:    postID,
		ShipperID: shipper.ID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create auction")
		return
	}
	writeJSON(w, http.StatusCreated, auction)
}

func (h *PostHandler) requireUser(w http.ResponseWriter, r *http.Request) (types.User, bool) {
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

// PostUpdateRequest carries the fields the owning customer may change.
// Absent fields are left untouched; a discount_id of 0 clears the discount.
type PostUpdateRequest struct {
	ProductName *string `json:"product_name"`
	FromAddress *string `json:"from_address"`
	ToAddress   *string `json:"to_address"`
	Description *string `json:"description"`
	DiscountID  *int    `json:"discount"`
	Active      *bool   `json:"active"`
}

// AuctionCreateRequest is a shipper's bid payload.
type AuctionCreateRequest struct {
	Content string `json:"content"`
	Price   *int64 `json:"price"`
}

// PostCreateRequest is the parsed multipart form payload for a new post.
type PostCreateRequest struct {
	ProductName string
	FromAddress string
	ToAddress   string
	Description string
	DiscountID  *int
	Image       UploadFile
}

func parsePostForm(r *http.Request) (PostCreateRequest, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return PostCreateRequest{}, errors.New("invalid multipart form")
	}

	productName := strings.TrimSpace(r.FormValue(formFieldProductName))
	if productName == "" {
		return PostCreateRequest{}, errors.New("product_name is required")
	}
	fromAddress := strings.TrimSpace(r.FormValue(formFieldFromAddress))
	if fromAddress == "" {
		return PostCreateRequest{}, errors.New("from_address is required")
	}
	toAddress := strings.TrimSpace(r.FormValue(formFieldToAddress))
	if toAddress == "" {
		return PostCreateRequest{}, errors.New("to_address is required")
	}
	description := strings.TrimSpace(r.FormValue(formFieldDescription))
	if description == "" {
		return PostCreateRequest{}, errors.New("description is required")
	}

	var discountID *int
	if raw := strings.TrimSpace(r.FormValue(formFieldDiscountID)); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			return PostCreateRequest{}, errors.New("invalid discount_id")
		}
		discountID = &id
	}

	image, err := parseOptionalFile(r.MultipartForm, formFieldProductImg)
	if err != nil {
		return PostCreateRequest{}, err
	}

	return PostCreateRequest{
		ProductName: productName,
		FromAddress: fromAddress,
		ToAddress:   toAddress,
		Description: description,
		DiscountID:  discountID,
		Image:       image,
	}, nil
}
