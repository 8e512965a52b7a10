package lending

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lendingapi/internal/catalog"
	"lendingapi/internal/ledger"

	"github.com/google/uuid"
)

// LoanPeriodDays is the fixed loan period: due date = borrow date plus
// 14 calendar days, date-only granularity.
const LoanPeriodDays = 14

// Service implements the lending rules on top of the catalog and the
// borrow ledger. Every operation runs as a single atomic transaction
// against the combined state: a global mutex serializes mutations, and
// read-only operations take the read lock so they always observe a
// consistent snapshot. Precondition checks happen before any write, so
// no partial mutation is ever committed.
type Service struct {
	mu      sync.RWMutex
	catalog Catalog
	ledger  Ledger
	now     func() time.Time
}

// NewService creates a lending service over the given stores. A nil now
// func defaults to the wall clock; tests inject a fixed clock.
func NewService(c Catalog, l Ledger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		catalog: c,
		ledger:  l,
		now:     now,
	}
}

// today returns the current date with the time-of-day component
// stripped. Borrow and return dates carry no clock time.
func (s *Service) today() time.Time {
	t := s.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ListAvailable returns the books with at least one copy in stock.
func (s *Service) ListAvailable(ctx context.Context) []catalog.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Available()
}

// ListInventory returns every book regardless of stock. Authorization
// is the caller's concern: the service trusts that access was already
// gated by role.
func (s *Service) ListInventory(ctx context.Context) []catalog.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.All()
}

// AddBook adds a candidate book to the catalog. If a book with the same
// title and author already exists (compared case-insensitively), the
// candidate's copies are merged into the existing entry instead of
// creating a duplicate. For a genuinely new book the candidate's id
// must be pre-assigned by the caller.
func (s *Service) AddBook(ctx context.Context, candidate catalog.Book) (AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if candidate.Copies < 0 {
		return AddResult{}, ErrInvalidStock
	}

	existing, err := s.catalog.FindByTitleAuthor(candidate.Title, candidate.Author)
	if err == nil {
		if err := s.catalog.IncrementCopies(existing.ID, candidate.Copies); err != nil {
			return AddResult{}, err
		}
		merged, err := s.catalog.Find(existing.ID)
		if err != nil {
			return AddResult{}, err
		}
		return AddResult{
			Book:    merged,
			Merged:  true,
			Message: fmt.Sprintf("stock for %q increased to %d copies", merged.Title, merged.Copies),
		}, nil
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		return AddResult{}, err
	}

	if err := s.catalog.Insert(candidate); err != nil {
		return AddResult{}, err
	}
	return AddResult{
		Book:    candidate,
		Message: fmt.Sprintf("%q added to the catalog", candidate.Title),
	}, nil
}

// UpdateStock overwrites a book's available-copy count. This is an
// administrative override, not a delta: it does not reconcile against
// outstanding active records.
func (s *Service) UpdateStock(ctx context.Context, bookID string, copies int) (catalog.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.SetCopies(bookID, copies); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			return catalog.Book{}, ErrNotFound
		case errors.Is(err, catalog.ErrInvalidStock):
			return catalog.Book{}, ErrInvalidStock
		default:
			return catalog.Book{}, err
		}
	}
	return s.catalog.Find(bookID)
}

// Borrow lends one copy of a book to a user. It fails with ErrNotFound
// for an unknown book, ErrOutOfStock when no copies are available, and
// ErrDuplicateBorrow when the user already holds an active record for
// the same book. On success the available count drops by one and a new
// active record is appended with the due date set.
func (s *Service) Borrow(ctx context.Context, bookID, userID string) (BorrowReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.catalog.Find(bookID)
	if err != nil {
		return BorrowReceipt{}, ErrNotFound
	}
	if book.Copies <= 0 {
		return BorrowReceipt{}, ErrOutOfStock
	}
	if _, err := s.ledger.FindActive(bookID, userID); err == nil {
		return BorrowReceipt{}, ErrDuplicateBorrow
	}

	borrowDate := s.today()
	dueDate := borrowDate.AddDate(0, 0, LoanPeriodDays)

	if err := s.catalog.IncrementCopies(bookID, -1); err != nil {
		return BorrowReceipt{}, err
	}
	if err := s.ledger.Append(ledger.Record{
		ID:         uuid.New().String(),
		BookID:     bookID,
		UserID:     userID,
		BorrowDate: borrowDate,
		DueDate:    dueDate,
	}); err != nil {
		return BorrowReceipt{}, err
	}

	return BorrowReceipt{
		BookID:  bookID,
		Title:   book.Title,
		DueDate: dueDate,
		Message: fmt.Sprintf("%q borrowed, due %s", book.Title, dueDate.Format("2006-01-02")),
	}, nil
}

// Return closes the user's active record for a book and puts the copy
// back in stock. It fails with ErrNotFound for an unknown book and
// ErrNoActiveBorrow when the user holds no active record for it.
func (s *Service) Return(ctx context.Context, bookID, userID string) (ReturnReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.catalog.Find(bookID)
	if err != nil {
		return ReturnReceipt{}, ErrNotFound
	}
	record, err := s.ledger.FindActive(bookID, userID)
	if err != nil {
		return ReturnReceipt{}, ErrNoActiveBorrow
	}

	if err := s.ledger.Close(record.ID, s.today()); err != nil {
		return ReturnReceipt{}, err
	}
	if err := s.catalog.IncrementCopies(bookID, 1); err != nil {
		return ReturnReceipt{}, err
	}

	return ReturnReceipt{
		BookID:  bookID,
		Title:   book.Title,
		Message: fmt.Sprintf("%q returned", book.Title),
	}, nil
}

// ListBorrowed returns the user's outstanding loans, joining each
// active record against the catalog. A record referencing a book the
// catalog no longer knows is an internal consistency failure: books are
// never hard-deleted, so recovery is not attempted.
func (s *Service) ListBorrowed(ctx context.Context, userID string) ([]BorrowedBook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.ledger.ActiveForUser(userID)
	out := make([]BorrowedBook, 0, len(records))
	for _, r := range records {
		book, err := s.catalog.Find(r.BookID)
		if err != nil {
			return nil, fmt.Errorf("%w: record %s book %s", ErrInconsistent, r.ID, r.BookID)
		}
		out = append(out, BorrowedBook{
			BookID:        book.ID,
			Title:         book.Title,
			Author:        book.Author,
			ISBN:          book.ISBN,
			PublishedYear: book.PublishedYear,
			Category:      book.Category,
			BorrowDate:    r.BorrowDate,
			DueDate:       r.DueDate,
		})
	}
	return out, nil
}
