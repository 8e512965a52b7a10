package identity

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"lendingapi/internal/httpx"
	"lendingapi/internal/platform/crypto"
)

const tokenTTL = 24 * time.Hour

type HTTPHandler struct {
	directory *Directory
	secret    string
}

func NewHTTPHandler(directory *Directory, secret string) *HTTPHandler {
	return &HTTPHandler{directory: directory, secret: secret}
}

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password_strength"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResp struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Register handles POST /auth/register.
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid registration payload", details)
		return
	}

	u, err := h.directory.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			httpx.JSONError(r, w, http.StatusConflict, "ALREADY_EXISTS", "Email already registered", nil)
			return
		}
		httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", nil)
		return
	}

	httpx.JSONSuccess(r, w, http.StatusCreated, u)
}

// Login handles POST /auth/login and returns a signed token carrying
// the user id and role.
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid login payload", details)
		return
	}

	u, err := h.directory.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.JSONError(r, w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", nil)
		return
	}

	token, err := crypto.GenerateToken(h.secret, u.ID, u.Role, tokenTTL)
	if err != nil {
		httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", nil)
		return
	}

	httpx.JSONSuccess(r, w, http.StatusOK, loginResp{Token: token, User: u})
}
