// Package testfixtures provides the catalog fixtures and Go types shared by
// typekit tests.
package testfixtures

import (
	"strings"
	"time"
)

// Address is a plain struct.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

// User exercises slices, maps, pointers and well-known value types.
type User struct {
	ID         int64          `json:"id"`
	Username   string         `json:"username"`
	Tags       []string       `json:"tags"`
	Address    *Address       `json:"address"`
	Attributes map[string]int `json:"attributes"`
	CreatedAt  time.Time      `json:"created_at"`
	Timeout    time.Duration  `json:"timeout"`
}

// Name returns the username.
func (u User) Name() string { return u.Username }

// Named is implemented by User.
type Named interface {
	Name() string
}

// Status is a named integer with a String method, mapped to an enum.
type Status int32

const (
	StatusActive Status = iota
	StatusDisabled
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusDisabled:
		return "disabled"
	}
	return "unknown"
}

// Semver orders itself with Compare.
type Semver struct {
	Major, Minor, Patch int
}

// Compare returns -1, 0 or +1.
func (v Semver) Compare(o Semver) int {
	for _, d := range [...]int{v.Major - o.Major, v.Minor - o.Minor, v.Patch - o.Patch} {
		switch {
		case d < 0:
			return -1
		case d > 0:
			return 1
		}
	}
	return 0
}

// Equal reports whether v and o are the same version.
func (v Semver) Equal(o Semver) bool { return v == o }

// Label is a named string.
type Label string

// Upper returns the label in upper case.
func (l Label) Upper() Label { return Label(strings.ToUpper(string(l))) }

// Users is a named slice, mapped to a list class.
type Users []User

// Directory is a named map, mapped to a dictionary class.
type Directory map[string]*Address

// Points holds anonymous structs.
type Points []struct {
	X, Y float64
}

// Page is a generic container.
type Page[T any] struct {
	Items []T    `json:"items"`
	Next  *int64 `json:"next"`
}

// Callback is not a data type; it maps to a plain class.
type Callback func(User) error
