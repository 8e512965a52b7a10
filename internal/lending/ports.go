package lending

import (
	"time"

	"lendingapi/internal/catalog"
	"lendingapi/internal/ledger"
)

// Catalog defines the contract for book storage.
type Catalog interface {
	Find(id string) (catalog.Book, error)
	FindByTitleAuthor(title, author string) (catalog.Book, error)
	Insert(b catalog.Book) error
	SetCopies(id string, n int) error
	IncrementCopies(id string, delta int) error
	All() []catalog.Book
	Available() []catalog.Book
}

// Ledger defines the contract for borrow-record storage.
type Ledger interface {
	FindActive(bookID, userID string) (ledger.Record, error)
	ActiveForUser(userID string) []ledger.Record
	Append(r ledger.Record) error
	Close(recordID string, returnDate time.Time) error
}
