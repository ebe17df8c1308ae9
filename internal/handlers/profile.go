package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shipbid/apiserver/internal/services"
	"github.com/shipbid/apiserver/internal/store"
	"github.com/shipbid/apiserver/types"
)

// CustomerHandler provides HTTP handlers for customer profiles.
type CustomerHandler struct {
	customerService *services.CustomerService
	userService     *services.UserService
}

// NewCustomerHandler constructs a handler with the provided dependencies.
func NewCustomerHandler(customerService *services.CustomerService, userService *services.UserService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, userService: userService}
}

// CustomerRouter registers customer profile routes on the given router.
func CustomerRouter(
	r chi.Router,
	customerService *services.CustomerService,
	userService *services.UserService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewCustomerHandler(customerService, userService)

	r.Get("/", handler.ListCustomers)
	r.With(authMiddleware).Post("/", handler.CreateCustomer)
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	customers, err := h.customerService.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// CreateCustomer links a customer profile to the authenticated user, who
// must hold the CUSTOMER role. The multipart form may carry an avatar.
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	user, ok := loadUser(w, r, h.userService)
	if !ok {
		return
	}
	if user.Role != types.RoleCustomer {
		writeForbidden(w)
		return
	}

	avatarURL, ok := parseAvatarUpload(w, r, func(filename string, data []byte) (string, error) {
		return h.customerService.UploadAvatar(r.Context(), filename, data)
	})
	if !ok {
		return
	}

	created, err := h.customerService.Create(r.Context(), types.Customer{
		UserID:    user.ID,
		AvatarURL: avatarURL,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, "customer profile already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create customer")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// AdminHandler provides HTTP handlers for admin profiles.
type AdminHandler struct {
	adminService *services.AdminService
	userService  *services.UserService
}

// NewAdminHandler constructs a handler with the provided dependencies.
func NewAdminHandler(adminService *services.AdminService, userService *services.UserService) *AdminHandler {
	return &AdminHandler{adminService: adminService, userService: userService}
}

// AdminRouter registers admin profile routes on the given router.
func AdminRouter(
	r chi.Router,
	adminService *services.AdminService,
	userService *services.UserService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewAdminHandler(adminService, userService)

	r.Get("/", handler.ListAdmins)
	r.With(authMiddleware).Post("/", handler.CreateAdmin)
}

func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	admins, err := h.adminService.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list admins")
		return
	}
	writeJSON(w, http.StatusOK, admins)
}

// CreateAdmin links an admin profile to the authenticated user, who must
// hold the ADMIN role.
func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	user, ok := loadUser(w, r, h.userService)
	if !ok {
		return
	}
	if user.Role != types.RoleAdmin {
		writeForbidden(w)
		return
	}

	avatarURL, ok := parseAvatarUpload(w, r, func(filename string, data []byte) (string, error) {
		return h.adminService.UploadAvatar(r.Context(), filename, data)
	})
	if !ok {
		return
	}

	created, err := h.adminService.Create(r.Context(), types.Admin{
		UserID:    user.ID,
		AvatarURL: avatarURL,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, "admin profile already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create admin")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func parseUserIDQuery(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("userid"))
	if raw == "" {
		return 0, nil
	}
	userID, err := strconv.Atoi(raw)
	if err != nil || userID < 1 {
		return 0, errors.New("invalid userid")
	}
	return userID, nil
}

// parseAvatarUpload reads the multipart form and uploads the optional
// avatar file, writing the error response itself on failure.
func parseAvatarUpload(w http.ResponseWriter, r *http.Request, upload func(string, []byte) (string, error)) (string, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return "", false
	}
	avatar, err := parseOptionalFile(r.MultipartForm, formFieldAvatar)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	if avatar.Data == nil {
		return "", true
	}

	url, err := upload(avatar.Filename, avatar.Data)
	if err != nil {
		if errors.Is(err, services.ErrStorageUnavailable) {
			writeError(w, http.StatusBadRequest, "image uploads are disabled")
			return "", false
		}
		writeError(w, http.StatusInternalServerError, "failed to store avatar")
		return "", false
	}
	return url, true
}

// loadUser resolves the authenticated user, writing the response itself on
// failure.
func loadUser(w http.ResponseWriter, r *http.Request, userService *services.UserService) (types.User, bool) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return types.User{}, false
	}
	user, err := userService.GetByID(r.Context(), userID)
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
