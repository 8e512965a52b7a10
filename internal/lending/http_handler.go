package lending

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"lendingapi/internal/catalog"
	"lendingapi/internal/httpx"

	"github.com/google/uuid"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type addBookReq struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	Copies        int    `json:"copies" validate:"gte=0"`
	ISBN          string `json:"isbn" validate:"omitempty,isbn"`
	PublishedYear int    `json:"published_year" validate:"omitempty,gte=0"`
	Category      string `json:"category"`
}

type updateStockReq struct {
	Copies int `json:"copies"`
}

// ListAvailable handles GET /books: the books with copies in stock.
func (h *HTTPHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	books := h.service.ListAvailable(r.Context())
	httpx.JSONSuccess(r, w, http.StatusOK, books)
}

// ListInventory handles GET /inventory: every book regardless of
// stock. Admin-gated by the router, not here.
func (h *HTTPHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	books := h.service.ListInventory(r.Context())
	httpx.JSONSuccess(r, w, http.StatusOK, books)
}

// AddBook handles POST /books. The id of a genuinely new book is
// minted here, on the caller side, matching the service contract that
// candidate ids are pre-assigned.
func (h *HTTPHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var req addBookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book payload", details)
		return
	}

	result, err := h.service.AddBook(r.Context(), catalog.Book{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Author:        req.Author,
		Copies:        req.Copies,
		ISBN:          req.ISBN,
		PublishedYear: req.PublishedYear,
		Category:      req.Category,
	})
	if err != nil {
		h.writeServiceError(r, w, err)
		return
	}

	status := http.StatusCreated
	if result.Merged {
		status = http.StatusOK
	}
	httpx.JSONSuccess(r, w, status, result)
}

// UpdateStock handles PATCH /books/{id}/stock. The copy count is an
// absolute override; negativity is rejected by the service so the
// INVALID_STOCK kind stays reachable through the core API.
func (h *HTTPHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")

	var req updateStockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	book, err := h.service.UpdateStock(r.Context(), bookID, req.Copies)
	if err != nil {
		h.writeServiceError(r, w, err)
		return
	}
	httpx.JSONSuccess(r, w, http.StatusOK, book)
}

// Borrow handles POST /books/{id}/borrow for the authenticated user.
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(r, w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	receipt, err := h.service.Borrow(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		h.writeServiceError(r, w, err)
		return
	}
	httpx.JSONSuccess(r, w, http.StatusOK, receipt)
}

// Return handles POST /books/{id}/return for the authenticated user.
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(r, w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	receipt, err := h.service.Return(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		h.writeServiceError(r, w, err)
		return
	}
	httpx.JSONSuccess(r, w, http.StatusOK, receipt)
}

// ListBorrowed handles GET /me/borrowed for the authenticated user.
func (h *HTTPHandler) ListBorrowed(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(r, w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	borrowed, err := h.service.ListBorrowed(r.Context(), userID)
	if err != nil {
		h.writeServiceError(r, w, err)
		return
	}
	httpx.JSONSuccess(r, w, http.StatusOK, borrowed)
}

func (h *HTTPHandler) writeServiceError(r *http.Request, w http.ResponseWriter, err error) {
	var lerr *Error
	if errors.As(err, &lerr) {
		status := http.StatusConflict
		switch lerr.Kind {
		case KindNotFound:
			status = http.StatusNotFound
		case KindInvalidStock:
			status = http.StatusBadRequest
		}
		httpx.JSONError(r, w, status, string(lerr.Kind), lerr.Message, nil)
		return
	}

	log.Printf("lending internal error: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
	httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", nil)
}
