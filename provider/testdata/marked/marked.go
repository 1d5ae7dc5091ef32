// Package marked contains types selected with typekit directives.
package marked

// Orders is scanned along with the types it references.
//
//typekit:root
type Orders []Order

// Order is referenced by Orders.
type Order struct {
	SKU      string
	Quantity int
}

// Invoice is neither marked nor referenced.
type Invoice struct {
	Total float64
}
