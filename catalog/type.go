package catalog

import (
	"sync"

	"github.com/broady/typekit/ir"
)

// Kind identifies the category of a catalog type.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindStruct
	KindEnum
	KindArray
	KindGenericParameter
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindInterface:
		return "Interface"
	case KindStruct:
		return "Struct"
	case KindEnum:
		return "Enum"
	case KindArray:
		return "Array"
	case KindGenericParameter:
		return "GenericParameter"
	default:
		return "Unknown"
	}
}

func parseKind(s string) Kind {
	switch s {
	case "interface":
		return KindInterface
	case "struct":
		return KindStruct
	case "enum":
		return KindEnum
	default:
		return KindClass
	}
}

// Variance of a generic parameter of an interface.
type Variance int

const (
	Invariant     Variance = iota
	Covariant              // out T
	Contravariant          // in T
)

func parseVariance(s string) Variance {
	switch s {
	case "out":
		return Covariant
	case "in":
		return Contravariant
	default:
		return Invariant
	}
}

// Type is a catalog type. It implements ir.TypeDescriptor.
//
// Types are interned by their catalog: a given type is represented by exactly
// one *Type, so == comparison is identity.
type Type struct {
	cat       *Catalog
	kind      Kind
	name      string
	namespace string
	assembly  ir.Assembly
	identity  string

	primitive         bool
	compilerGenerated bool
	anonymous         bool

	// declaring is the declaring definition of a nested type.
	declaring *Type

	// def is the generic type definition; def == t for definitions.
	// args holds the parameters of a definition or the arguments of a
	// constructed type.
	def  *Type
	args []*Type
	open bool

	// Generic parameters only.
	owner    *Type
	position int
	variance Variance

	// Arrays only.
	elem *Type

	// Declared on definitions and non-generic types while loading.
	declBase       *Type
	declInterfaces []*Type

	inherit    sync.Once
	base       *Type
	interfaces []*Type

	nesting     sync.Once
	declaringOf *Type
}

// desc converts a possibly nil *Type into an ir.TypeDescriptor without
// producing a non-nil interface holding a nil pointer.
func desc(t *Type) ir.TypeDescriptor {
	if t == nil {
		return nil
	}
	return t
}

func descs(ts []*Type) []ir.TypeDescriptor {
	out := make([]ir.TypeDescriptor, len(ts))
	for i, t := range ts {
		out[i] = t
	}
	return out
}

// Kind returns the catalog kind.
func (t *Type) Kind() Kind { return t.kind }

// Variance returns the declared variance of a generic parameter.
func (t *Type) Variance() Variance { return t.variance }

func (t *Type) Identity() string      { return t.identity }
func (t *Type) Namespace() string     { return t.namespace }
func (t *Type) Assembly() ir.Assembly { return t.assembly }
func (t *Type) IsInterface() bool     { return t.kind == KindInterface }
func (t *Type) IsEnum() bool          { return t.kind == KindEnum }
func (t *Type) IsPrimitive() bool     { return t.primitive }
func (t *Type) IsArray() bool         { return t.kind == KindArray }
func (t *Type) IsGenericParameter() bool {
	return t.kind == KindGenericParameter
}
func (t *Type) IsAnonymous() bool         { return t.anonymous }
func (t *Type) IsCompilerGenerated() bool { return t.compilerGenerated }
func (t *Type) ContainsOpenParameters() bool {
	return t.open
}
func (t *Type) GenericParameterPosition() int { return t.position }

// String returns the identity, which is enough for debugging output.
func (t *Type) String() string { return t.identity }

// SimpleName returns the unqualified name; arrays append "[]".
func (t *Type) SimpleName() string {
	if t.kind == KindArray {
		return t.elem.SimpleName() + "[]"
	}
	return t.name
}

func (t *Type) IsValueType() bool {
	return t.kind == KindStruct || t.kind == KindEnum
}

func (t *Type) IsGenericType() bool {
	return t.kind != KindArray && t.kind != KindGenericParameter && len(t.args) > 0
}

func (t *Type) IsGenericTypeDefinition() bool {
	return t.IsGenericType() && t.def == t
}

func (t *Type) GenericArguments() []ir.TypeDescriptor {
	if !t.IsGenericType() {
		return nil
	}
	return descs(t.args)
}

func (t *Type) GenericTypeDefinition() ir.TypeDescriptor {
	if !t.IsGenericType() {
		return nil
	}
	return t.def
}

func (t *Type) ElementType() ir.TypeDescriptor { return desc(t.elem) }

func (t *Type) IsNullableWrapper() bool {
	n := t.cat.nullable
	return n != nil && t.def == n && t != n
}

func (t *Type) NullableUnderlying() ir.TypeDescriptor {
	if !t.IsNullableWrapper() {
		return nil
	}
	return t.args[0]
}

// DeclaringType returns the declaring type of a nested type, constructed
// with the leading arguments of t, or the owning definition of a generic
// parameter.
func (t *Type) DeclaringType() ir.TypeDescriptor {
	if t.kind == KindGenericParameter {
		return desc(t.owner)
	}
	return desc(t.declaringType())
}

func (t *Type) declaringType() *Type {
	t.nesting.Do(func() {
		decl := t.declaring
		if decl == nil && t.def != nil && t.def != t {
			decl = t.def.declaring
		}
		if decl == nil || len(decl.args) == 0 || t.def == t || t.def == nil {
			t.declaringOf = decl
			return
		}
		t.declaringOf = t.cat.instantiate(decl, t.args[:len(decl.args)])
	})
	return t.declaringOf
}

func (t *Type) BaseType() ir.TypeDescriptor {
	t.resolveInheritance()
	return desc(t.base)
}

func (t *Type) Interfaces() []ir.TypeDescriptor {
	t.resolveInheritance()
	return descs(t.interfaces)
}

func (t *Type) IsAssignableFrom(other ir.TypeDescriptor) bool {
	o, ok := other.(*Type)
	if !ok || o == nil || o.cat != t.cat {
		return false
	}
	return t.cat.assignable(t, o)
}

// resolveInheritance computes the base type and the full interface set.
// Constructed types substitute their arguments into the declarations of
// their definition.
func (t *Type) resolveInheritance() {
	t.inherit.Do(func() {
		c := t.cat
		var declared []*Type
		switch {
		case t.kind == KindGenericParameter:
			t.base = c.roots[ir.RootObject]
			return
		case t.kind == KindArray:
			t.base = c.roots[ir.RootArray]
			declared = c.arrayInterfaces(t.elem)
		case t.def != nil && t.def != t:
			m := bindings(t.def.args, t.args)
			t.base = c.subst(t.def.declBase, m)
			declared = make([]*Type, 0, len(t.def.declInterfaces))
			for _, i := range t.def.declInterfaces {
				declared = append(declared, c.subst(i, m))
			}
		default:
			t.base = t.declBase
			declared = t.declInterfaces
		}

		var all []*Type
		seen := make(map[*Type]bool)
		add := func(i *Type) {
			if !seen[i] {
				seen[i] = true
				all = append(all, i)
			}
		}
		for _, i := range declared {
			add(i)
			i.resolveInheritance()
			for _, inherited := range i.interfaces {
				add(inherited)
			}
		}
		if t.base != nil {
			t.base.resolveInheritance()
			for _, inherited := range t.base.interfaces {
				add(inherited)
			}
		}
		t.interfaces = all
	})
}

func bindings(params, args []*Type) map[*Type]*Type {
	m := make(map[*Type]*Type, len(params))
	for i, p := range params {
		m[p] = args[i]
	}
	return m
}
