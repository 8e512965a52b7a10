package catalog

import (
	"strings"
)

// Store holds the set of known books in memory, in insertion order.
//
// Store is not safe for concurrent use on its own: the lending service
// serializes every operation that touches catalog and ledger state so that
// the two always mutate together atomically.
type Store struct {
	books []Book
	byID  map[string]int
}

// NewStore creates a store seeded with the given initial catalog.
func NewStore(seed ...Book) *Store {
	s := &Store{
		byID: make(map[string]int, len(seed)),
	}
	for _, b := range seed {
		_ = s.Insert(b)
	}
	return s
}

// Find returns the book with the given id.
func (s *Store) Find(id string) (Book, error) {
	i, ok := s.byID[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return s.books[i], nil
}

// FindByTitleAuthor returns the book matching both title and author,
// compared case-insensitively. This is the merge key for AddBook: the
// catalog is conceptually unique per (title, author), while id is only a
// stable handle for an existing record.
func (s *Store) FindByTitleAuthor(title, author string) (Book, error) {
	t := strings.ToLower(title)
	a := strings.ToLower(author)
	for _, b := range s.books {
		if strings.ToLower(b.Title) == t && strings.ToLower(b.Author) == a {
			return b, nil
		}
	}
	return Book{}, ErrNotFound
}

// Insert adds a new book. The id must be pre-assigned by the caller.
func (s *Store) Insert(b Book) error {
	if _, ok := s.byID[b.ID]; ok {
		return ErrDuplicateID
	}
	if b.Copies < 0 {
		return ErrInvalidStock
	}
	s.byID[b.ID] = len(s.books)
	s.books = append(s.books, b)
	return nil
}

// SetCopies overwrites the available-copy count of a book.
func (s *Store) SetCopies(id string, n int) error {
	if n < 0 {
		return ErrInvalidStock
	}
	i, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	s.books[i].Copies = n
	return nil
}

// IncrementCopies adjusts the available-copy count of a book by delta.
// Callers pre-check availability, so the result never goes negative
// during borrow/return flows.
func (s *Store) IncrementCopies(id string, delta int) error {
	i, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	s.books[i].Copies += delta
	return nil
}

// All returns a snapshot of every book regardless of stock.
func (s *Store) All() []Book {
	out := make([]Book, len(s.books))
	copy(out, s.books)
	return out
}

// Available returns a snapshot of the books with at least one copy in stock.
func (s *Store) Available() []Book {
	var out []Book
	for _, b := range s.books {
		if b.Copies > 0 {
			out = append(out, b)
		}
	}
	return out
}
