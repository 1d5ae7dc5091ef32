// Package testdata contains test types for the source provider.
package testdata

import "time"

// Book is a plain struct.
type Book struct {
	ISBN      string
	Title     string
	Published time.Time
	Authors   []Author
}

// Name returns the book title.
func (b Book) Name() string { return b.Title }

// Author is referenced only through Book.
type Author struct {
	Name string
}

// Named is implemented by Book.
type Named interface {
	Name() string
}

// Catalogued embeds Named.
type Catalogued interface {
	Named
	Shelf() Shelf
}

// Shelf is a named integer with constants, mapped to an enum.
type Shelf int

const (
	ShelfFiction Shelf = iota
	ShelfHistory
)

// ISBN is a named string.
type ISBN string

// Edition orders itself.
type Edition struct {
	Year int
}

// Compare returns the ordering of two editions.
func (e Edition) Compare(o Edition) int { return e.Year - o.Year }

// Equal reports whether two editions are the same.
func (e *Edition) Equal(o Edition) bool { return e.Year == o.Year }

// Books is a named slice.
type Books []Book

// Loans maps borrowers to due dates.
type Loans map[string]*time.Time

// Index is a generic named map.
type Index[K comparable, V any] map[K][]V

// Result is a generic struct.
type Result[T any] struct {
	Items []T
	Next  *int
}

// Page instantiates Result.
type Page []Result[Book]

// Coordinates holds anonymous structs.
type Coordinates []struct {
	Lat, Lng float64
}

// Tree is recursive.
type Tree []Tree

// Listeners cannot be mapped.
type Listeners []chan Book

// Handler maps to a plain class.
type Handler func(Book) error

// Alias is skipped.
type Alias = Book

// Pipe is excluded from scans of all exported types.
//
//typekit:skip
type Pipe []Book
