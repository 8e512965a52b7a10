package ledger

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no matching borrow record exists.
var ErrNotFound = errors.New("borrow record not found")

// ErrDuplicateID is returned when appending a record whose id is already taken.
var ErrDuplicateID = errors.New("borrow record id already exists")

// Record is one borrow transaction. A record with no return date is
// active; once closed it is immutable. Records are never deleted.
type Record struct {
	ID         string     `json:"id"`
	BookID     string     `json:"book_id"`
	UserID     string     `json:"user_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

// Active reports whether the record represents an outstanding loan.
func (r Record) Active() bool {
	return r.ReturnDate == nil
}
