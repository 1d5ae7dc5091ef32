package testfixtures

import (
	_ "embed"
	"testing"

	"github.com/broady/typekit/catalog"
	"github.com/broady/typekit/ir"
)

//go:embed fixtures.yaml
var fixtures []byte

// Assembly is the rendered assembly of every fixture type.
const Assembly = "Typekit.Fixtures (1.0.0.0)"

// Document returns the fixture catalog document.
func Document() *catalog.Document {
	doc, err := catalog.ParseYAML(fixtures)
	if err != nil {
		panic(err)
	}
	return doc
}

// Catalog returns a new catalog holding the system library and the fixtures.
func Catalog(tb testing.TB) *catalog.Catalog {
	tb.Helper()
	c, err := catalog.New()
	if err != nil {
		tb.Fatalf("catalog.New() error = %v", err)
	}
	if err := c.Load(Document()); err != nil {
		tb.Fatalf("loading fixtures: %v", err)
	}
	return c
}

// Resolve resolves expr or fails the test.
func Resolve(tb testing.TB, p ir.Provider, expr string) ir.TypeDescriptor {
	tb.Helper()
	t, err := p.Resolve(expr)
	if err != nil {
		tb.Fatalf("Resolve(%q) error = %v", expr, err)
	}
	return t
}

// Param returns the generic parameter at pos of the definition denoted by expr.
func Param(tb testing.TB, p ir.Provider, expr string, pos int) ir.TypeDescriptor {
	tb.Helper()
	def := Resolve(tb, p, expr)
	args := def.GenericArguments()
	if pos >= len(args) {
		tb.Fatalf("%s has %d generic arguments, want more than %d", expr, len(args), pos)
	}
	return args[pos]
}
