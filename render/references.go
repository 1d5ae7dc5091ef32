package render

import "github.com/broady/typekit/ir"

// ReferencedTypes returns the types t is built from, depth-first: the type
// itself, then its generic arguments, array elements and nullable underlying
// types. Generic types are reported by their definition. Generic parameters
// are skipped. A type visited more than once is reported at its first
// occurrence only; distinct constructions of one definition, such as the
// outer and inner IList in IList<IList<short>>, are each reported.
func ReferencedTypes(t ir.TypeDescriptor) []ir.TypeDescriptor {
	if t == nil {
		return nil
	}
	c := &collector{seen: make(map[string]bool)}
	c.collect(t)
	return c.refs
}

type collector struct {
	seen map[string]bool
	refs []ir.TypeDescriptor
}

func (c *collector) collect(t ir.TypeDescriptor) {
	switch {
	case t.IsGenericParameter():
		return
	case t.IsArray():
		c.collect(t.ElementType())
		return
	case t.IsNullableWrapper():
		c.collect(t.NullableUnderlying())
		return
	}

	if id := t.Identity(); !c.seen[id] {
		c.seen[id] = true
		ref := t
		if def := t.GenericTypeDefinition(); def != nil {
			ref = def
		}
		c.refs = append(c.refs, ref)
	}
	for _, arg := range t.GenericArguments() {
		c.collect(arg)
	}
}
