package catalog

import (
	"errors"
)

// ErrNotFound is returned when a book is not in the catalog.
var ErrNotFound = errors.New("book not found")

// ErrDuplicateID is returned when inserting a book whose id is already taken.
var ErrDuplicateID = errors.New("book id already exists")

// ErrInvalidStock is returned when an operation would set copies negative.
var ErrInvalidStock = errors.New("copies must not be negative")

// Book represents a catalog entry. Copies counts the units currently
// available for borrowing, not the total ever owned.
type Book struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Copies        int    `json:"copies"`
	ISBN          string `json:"isbn,omitempty"`
	PublishedYear int    `json:"published_year,omitempty"`
	Category      string `json:"category,omitempty"`
}
