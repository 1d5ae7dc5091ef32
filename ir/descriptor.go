// Package ir defines the contract between the type classifier/renderer and the
// host that owns type metadata. A host (see package catalog and package
// provider) hands out TypeDescriptor values; the rest of typekit only ever
// queries them.
package ir

import "reflect"

// Assembly identifies the unit a type was declared in.
type Assembly struct {
	Name    string
	Version string
}

// IsZero returns true if the assembly is empty.
func (a Assembly) IsZero() bool {
	return a.Name == "" && a.Version == ""
}

// String renders the assembly as "name (version)".
func (a Assembly) String() string {
	if a.Version == "" {
		return a.Name
	}
	return a.Name + " (" + a.Version + ")"
}

// TypeDescriptor is the host-owned view of a single type.
//
// Descriptors are immutable and fully determined by the host type they wrap.
// Two descriptors denote the same type iff their Identity values are equal;
// see SameType.
type TypeDescriptor interface {
	// Identity returns a host-unique key for the type.
	Identity() string

	// SimpleName is the unqualified name without generic arity,
	// e.g. "List" for List<int>, "T" for a generic parameter.
	SimpleName() string

	// Namespace is the dotted namespace of the type (or of the outermost
	// declaring type for nested types). Empty for builtins of hosts that
	// have no namespaces.
	Namespace() string

	// Assembly returns the owning assembly.
	Assembly() Assembly

	// DeclaringType returns the enclosing type of a nested type, or nil.
	DeclaringType() TypeDescriptor

	IsInterface() bool
	IsValueType() bool
	IsEnum() bool

	// IsPrimitive reports whether the host treats the type as an
	// intrinsic primitive (integers, floating point, bool, char).
	IsPrimitive() bool

	IsGenericType() bool
	IsGenericTypeDefinition() bool

	// ContainsOpenParameters reports whether any generic argument,
	// recursively, is unbound.
	ContainsOpenParameters() bool

	IsGenericParameter() bool

	// GenericParameterPosition is the declaration index of a generic
	// parameter. Undefined for other types.
	GenericParameterPosition() int

	// GenericArguments returns the arguments in declaration order;
	// for a generic type definition these are its parameters.
	GenericArguments() []TypeDescriptor

	// GenericTypeDefinition returns the unbound template of a generic type,
	// or nil if the type is not generic.
	GenericTypeDefinition() TypeDescriptor

	// BaseType is nil for interfaces and for the universal root type.
	BaseType() TypeDescriptor

	// Interfaces returns the full implemented set, inherited ones included.
	Interfaces() []TypeDescriptor

	IsArray() bool
	ElementType() TypeDescriptor

	IsNullableWrapper() bool
	NullableUnderlying() TypeDescriptor

	// IsAnonymous is the host heuristic for compiler-generated anonymous types.
	IsAnonymous() bool
	IsCompilerGenerated() bool

	// IsAssignableFrom is the host's native assignability check for
	// closed types (inheritance, interfaces, variance).
	IsAssignableFrom(other TypeDescriptor) bool
}

// Root identifies one of the host's well-known root types.
type Root int

const (
	RootObject    Root = iota // Universal root of the reference hierarchy
	RootValueType             // Base of all value types
	RootArray                 // Base of all array types
)

// String returns the string representation of the root.
func (r Root) String() string {
	switch r {
	case RootObject:
		return "Object"
	case RootValueType:
		return "ValueType"
	case RootArray:
		return "Array"
	default:
		return "Unknown"
	}
}

// Provider is the host type metadata provider.
type Provider interface {
	// Root returns the descriptor of a well-known root type.
	Root(r Root) TypeDescriptor

	// Resolve parses a type expression such as
	// "System.Collections.Generic.KeyValuePair<,>" or "int?[]".
	Resolve(expr string) (TypeDescriptor, error)

	// MakeGenericType closes (or partially closes) a generic type definition.
	MakeGenericType(def TypeDescriptor, args ...TypeDescriptor) (TypeDescriptor, error)
}

// ReflectResolver is implemented by providers that can map Go runtime types
// onto their own descriptors.
type ReflectResolver interface {
	ResolveReflect(t reflect.Type) (TypeDescriptor, error)
}
