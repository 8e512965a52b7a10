package lending

import (
	"errors"
	"time"

	"lendingapi/internal/catalog"
)

// Kind classifies a business-rule failure. Kinds are part of the service
// contract: callers branch on them and the HTTP layer maps them to
// status codes, while Message stays human-readable.
type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindOutOfStock      Kind = "OUT_OF_STOCK"
	KindDuplicateBorrow Kind = "DUPLICATE_BORROW"
	KindNoActiveBorrow  Kind = "NO_ACTIVE_BORROW"
	KindInvalidStock    Kind = "INVALID_STOCK"
)

// Error is a business-rule failure. None of these are transient: they
// are never retried and are surfaced verbatim to the caller.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on kind so callers can use errors.Is against the sentinel
// values below regardless of the message text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "book not found"}
	ErrOutOfStock      = &Error{Kind: KindOutOfStock, Message: "no copies available"}
	ErrDuplicateBorrow = &Error{Kind: KindDuplicateBorrow, Message: "book already borrowed by this user"}
	ErrNoActiveBorrow  = &Error{Kind: KindNoActiveBorrow, Message: "no active borrow for this book and user"}
	ErrInvalidStock    = &Error{Kind: KindInvalidStock, Message: "copies must not be negative"}
)

// ErrInconsistent signals that the ledger references a book missing from
// the catalog. Books are never hard-deleted, so this cannot happen
// through the service API; it is an internal fault, not part of the
// business taxonomy, and surfaces as an internal error.
var ErrInconsistent = errors.New("ledger references a book missing from the catalog")

// AddResult confirms an addBook operation. Merged reports whether the
// candidate was folded into an existing (title, author) entry.
type AddResult struct {
	Book    catalog.Book `json:"book"`
	Merged  bool         `json:"merged"`
	Message string       `json:"message"`
}

// BorrowReceipt confirms a successful borrow.
type BorrowReceipt struct {
	BookID  string    `json:"book_id"`
	Title   string    `json:"title"`
	DueDate time.Time `json:"due_date"`
	Message string    `json:"message"`
}

// ReturnReceipt confirms a successful return.
type ReturnReceipt struct {
	BookID  string `json:"book_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// BorrowedBook is one entry of a user's outstanding loans: the catalog
// fields of the book joined with the due date of the active record.
type BorrowedBook struct {
	BookID        string    `json:"book_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          string    `json:"isbn,omitempty"`
	PublishedYear int       `json:"published_year,omitempty"`
	Category      string    `json:"category,omitempty"`
	BorrowDate    time.Time `json:"borrow_date"`
	DueDate       time.Time `json:"due_date"`
}
