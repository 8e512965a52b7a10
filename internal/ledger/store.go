package ledger

import (
	"time"
)

// Store holds the full borrow history, active and closed, in insertion
// order.
//
// Like catalog.Store it is not internally synchronized: the lending
// service owns the lock that covers catalog and ledger together.
type Store struct {
	records []Record
	byID    map[string]int
}

// NewStore creates an empty ledger.
func NewStore() *Store {
	return &Store{
		byID: make(map[string]int),
	}
}

// FindActive returns the unique active record for a (book, user) pair.
func (s *Store) FindActive(bookID, userID string) (Record, error) {
	for _, r := range s.records {
		if r.BookID == bookID && r.UserID == userID && r.Active() {
			return r, nil
		}
	}
	return Record{}, ErrNotFound
}

// ActiveForUser returns every currently active record for a user, in
// insertion order.
func (s *Store) ActiveForUser(userID string) []Record {
	var out []Record
	for _, r := range s.records {
		if r.UserID == userID && r.Active() {
			out = append(out, r)
		}
	}
	return out
}

// Append adds a new active record to the ledger.
func (s *Store) Append(r Record) error {
	if _, ok := s.byID[r.ID]; ok {
		return ErrDuplicateID
	}
	s.byID[r.ID] = len(s.records)
	s.records = append(s.records, r)
	return nil
}

// Close sets the return date on an active record, moving it to the
// closed state. Closing an absent or already closed record fails with
// ErrNotFound.
func (s *Store) Close(recordID string, returnDate time.Time) error {
	i, ok := s.byID[recordID]
	if !ok {
		return ErrNotFound
	}
	if !s.records[i].Active() {
		return ErrNotFound
	}
	rd := returnDate
	s.records[i].ReturnDate = &rd
	return nil
}

// Len returns the total number of records, active and closed.
func (s *Store) Len() int {
	return len(s.records)
}
