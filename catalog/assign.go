package catalog

import "github.com/broady/typekit/ir"

// assignable reports whether a value of type from can be stored in a
// location of type to.
func (c *Catalog) assignable(to, from *Type) bool {
	if to == from {
		return true
	}
	if to.IsNullableWrapper() && to.args[0] == from {
		return true
	}
	if to == c.roots[ir.RootObject] && (from.kind == KindInterface || from.kind == KindGenericParameter) {
		return true
	}

	from.resolveInheritance()
	for b := from.base; b != nil; b = b.base {
		if b == to || c.variantMatch(to, b) {
			return true
		}
		b.resolveInheritance()
	}

	if to.kind == KindInterface {
		if from.kind == KindInterface && c.variantMatch(to, from) {
			return true
		}
		for _, i := range from.interfaces {
			if i == to || c.variantMatch(to, i) {
				return true
			}
		}
	}

	if to.kind == KindArray && from.kind == KindArray {
		return !from.elem.IsValueType() && !to.elem.IsValueType() && c.assignable(to.elem, from.elem)
	}
	return false
}

// variantMatch reports whether from converts to to through the declared
// variance of a shared generic interface definition.
func (c *Catalog) variantMatch(to, from *Type) bool {
	if to.kind != KindInterface || to.def == nil || to.def == to || to.def != from.def {
		return false
	}
	params := to.def.args
	for i, a := range to.args {
		b := from.args[i]
		if a == b {
			continue
		}
		switch params[i].variance {
		case Covariant:
			if b.IsValueType() || !c.assignable(a, b) {
				return false
			}
		case Contravariant:
			if a.IsValueType() || !c.assignable(b, a) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
