// Package classify answers structural questions about types: which closed
// shape a type has, what its collection element or dictionary key and value
// types are, and whether it is assignable to another type.
//
// Every operation fails with an *ir.Error: CodeInvalidArgument for a nil
// descriptor, CodeNotSupported when the type does not have the shape the
// operation requires.
package classify

import (
	"reflect"

	"github.com/broady/typekit/ir"
)

// Failure messages.
const (
	msgNotEnumerable       = "Specified type is not a closed Enumerable type."
	msgNotDictionary       = "Specified type is not a closed Dictionary type."
	msgNotSystemCollection = "Specified type is not a closed System Collection type."
	msgNotSystemDictionary = "Specified type is not a closed System Dictionary type."
	msgOpenSource          = "Parameter 'type' is an open type; open types are not supported for that parameter."
	msgOpenTarget          = "Parameter 'otherType' is an open type, but not a generic type definition; the only open types that are supported are generic type definitions for that parameter."
)

// Classifier answers shape questions about types of a single provider.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	p ir.Provider
}

// New creates a Classifier over p.
func New(p ir.Provider) *Classifier {
	return &Classifier{p: p}
}

// Provider returns the provider the classifier was created with.
func (c *Classifier) Provider() ir.Provider { return c.p }

// Shape classifies t.
func (c *Classifier) Shape(t ir.TypeDescriptor) (Shape, error) {
	if t == nil {
		return Shape{}, ir.ArgumentNil("type")
	}
	return ShapeOf(t), nil
}

// IsOpen reports whether t contains unbound generic parameters.
func (c *Classifier) IsOpen(t ir.TypeDescriptor) (bool, error) {
	if t == nil {
		return false, ir.ArgumentNil("type")
	}
	return t.ContainsOpenParameters(), nil
}

// IsClosed reports whether t contains no unbound generic parameters.
func (c *Classifier) IsClosed(t ir.TypeDescriptor) (bool, error) {
	if t == nil {
		return false, ir.ArgumentNil("type")
	}
	return !t.ContainsOpenParameters(), nil
}

// IsOpenButNotDefinition reports whether t is open without being a generic
// type definition, e.g. BaseGenericClass<string, TDerived>.
func (c *Classifier) IsOpenButNotDefinition(t ir.TypeDescriptor) (bool, error) {
	if t == nil {
		return false, ir.ArgumentNil("type")
	}
	return t.ContainsOpenParameters() && !t.IsGenericTypeDefinition(), nil
}

// ClosedEnumerableElementType returns the element type of a closed
// enumerable type.
//
// A single-argument sequence contract wins over a mapping contract, which
// yields a KeyValuePair of its arguments; a type that only implements the
// non-generic sequence contract yields the object root. Contracts are
// searched from the most derived type up the base chain.
func (c *Classifier) ClosedEnumerableElementType(t ir.TypeDescriptor) (ir.TypeDescriptor, error) {
	if t == nil {
		return nil, ir.ArgumentNil("type")
	}
	if t.ContainsOpenParameters() {
		return nil, ir.NotSupportedParam("type", msgNotEnumerable)
	}
	if t.IsArray() {
		return t.ElementType(), nil
	}

	seq, ok := findContract(t, func(name string) bool { return name == sequenceContract })
	if !ok {
		return nil, ir.NotSupportedParam("type", msgNotEnumerable)
	}
	if seq != nil {
		return seq.GenericArguments()[0], nil
	}

	mapping, ok := findContract(t, func(name string) bool { return mappingContracts[name] })
	if !ok {
		return nil, ir.NotSupportedParam("type", msgNotEnumerable)
	}
	if mapping != nil {
		args := mapping.GenericArguments()
		return c.keyValuePair(args[0], args[1])
	}

	if nonGeneric, _ := findContract(t, func(name string) bool { return name == nonGenericSequenceContract }); nonGeneric != nil {
		return c.p.Root(ir.RootObject), nil
	}
	return nil, ir.NotSupportedParam("type", msgNotEnumerable)
}

// ClosedDictionaryKeyType returns the key type of a closed dictionary type.
func (c *Classifier) ClosedDictionaryKeyType(t ir.TypeDescriptor) (ir.TypeDescriptor, error) {
	args, err := closedDictionaryArgs(t)
	if err != nil {
		return nil, err
	}
	return args[0], nil
}

// ClosedDictionaryValueType returns the value type of a closed dictionary
// type.
func (c *Classifier) ClosedDictionaryValueType(t ir.TypeDescriptor) (ir.TypeDescriptor, error) {
	args, err := closedDictionaryArgs(t)
	if err != nil {
		return nil, err
	}
	return args[1], nil
}

func closedDictionaryArgs(t ir.TypeDescriptor) ([]ir.TypeDescriptor, error) {
	if t == nil {
		return nil, ir.ArgumentNil("type")
	}
	if t.ContainsOpenParameters() {
		return nil, ir.NotSupportedParam("type", msgNotDictionary)
	}
	mapping, ok := findContract(t, func(name string) bool { return mappingContracts[name] })
	if !ok || mapping == nil {
		return nil, ir.NotSupportedParam("type", msgNotDictionary)
	}
	return mapping.GenericArguments(), nil
}

// ClosedSystemCollectionElementType returns the element type of a closed
// system collection such as List<T> or IReadOnlyCollection<T>.
func (c *Classifier) ClosedSystemCollectionElementType(t ir.TypeDescriptor) (ir.TypeDescriptor, error) {
	if t == nil {
		return nil, ir.ArgumentNil("type")
	}
	s := ShapeOf(t)
	if !s.IsCollection() || s.Open {
		return nil, ir.NotSupportedParam("type", msgNotSystemCollection)
	}
	return s.Element, nil
}

// ClosedSystemDictionaryKeyType returns the key type of a closed system
// dictionary.
func (c *Classifier) ClosedSystemDictionaryKeyType(t ir.TypeDescriptor) (ir.TypeDescriptor, error) {
	s, err := closedSystemDictionary(t)
	if err != nil {
		return nil, err
	}
	return s.Key, nil
}

// ClosedSystemDictionaryValueType returns the value type of a closed system
// dictionary.
func (c *Classifier) ClosedSystemDictionaryValueType(t ir.TypeDescriptor) (ir.TypeDescriptor, error) {
	s, err := closedSystemDictionary(t)
	if err != nil {
		return nil, err
	}
	return s.Value, nil
}

func closedSystemDictionary(t ir.TypeDescriptor) (Shape, error) {
	if t == nil {
		return Shape{}, ir.ArgumentNil("type")
	}
	s := ShapeOf(t)
	if s.Kind != ShapeDictionary || s.Open {
		return Shape{}, ir.NotSupportedParam("type", msgNotSystemDictionary)
	}
	return s, nil
}

// InheritancePath returns the base types of t from its immediate base up to
// the object root. Nullable wrappers are unwrapped first. Interfaces and the
// root itself have an empty path.
//
// Value types report [ValueType, object] and arrays [Array, object]. Enums
// keep their host chain, which starts at System.Enum. Otherwise the path is
// the host's base chain unmodified: the base of a generic type definition is
// usually an open constructed type, not a definition.
func (c *Classifier) InheritancePath(t ir.TypeDescriptor) ([]ir.TypeDescriptor, error) {
	if t == nil {
		return nil, ir.ArgumentNil("type")
	}
	if t.IsNullableWrapper() {
		t = t.NullableUnderlying()
	}
	switch {
	case t.IsInterface():
		return []ir.TypeDescriptor{}, nil
	case t.IsArray():
		return []ir.TypeDescriptor{c.p.Root(ir.RootArray), c.p.Root(ir.RootObject)}, nil
	case t.IsValueType() && !t.IsEnum():
		return []ir.TypeDescriptor{c.p.Root(ir.RootValueType), c.p.Root(ir.RootObject)}, nil
	}
	path := []ir.TypeDescriptor{}
	for b := t.BaseType(); b != nil; b = b.BaseType() {
		path = append(path, b)
	}
	return path, nil
}

// IsAssignableTo reports whether t is assignable to other.
//
// With treatGenericTypeDefinitionAsAssignableTo, a closed generic type is
// also assignable to the generic type definition of itself, of any type on
// its base chain and of any interface it implements: List<string> is then
// assignable to IList<>.
//
// t must be closed; other must be closed or a generic type definition.
func (c *Classifier) IsAssignableTo(t, other ir.TypeDescriptor, treatGenericTypeDefinitionAsAssignableTo bool) (bool, error) {
	if t == nil {
		return false, ir.ArgumentNil("type")
	}
	if other == nil {
		return false, ir.ArgumentNil("otherType")
	}
	if t.ContainsOpenParameters() {
		return false, ir.NotSupportedParam("type", msgOpenSource)
	}
	if other.ContainsOpenParameters() && !other.IsGenericTypeDefinition() {
		return false, ir.NotSupportedParam("otherType", msgOpenTarget)
	}

	if ir.SameType(t, other) || other.IsAssignableFrom(t) {
		return true, nil
	}
	if !treatGenericTypeDefinitionAsAssignableTo || !other.IsGenericTypeDefinition() {
		return false, nil
	}

	candidates := []ir.TypeDescriptor{t}
	for b := t.BaseType(); b != nil; b = b.BaseType() {
		candidates = append(candidates, b)
	}
	candidates = append(candidates, t.Interfaces()...)
	for _, candidate := range candidates {
		if candidate.IsGenericType() && ir.SameType(candidate.GenericTypeDefinition(), other) {
			return true, nil
		}
	}
	return false, nil
}

// IsAssignableToNull reports whether null can be assigned to t: t is a
// reference type or a nullable wrapper.
func (c *Classifier) IsAssignableToNull(t ir.TypeDescriptor) (bool, error) {
	if t == nil {
		return false, ir.ArgumentNil("type")
	}
	return !t.IsValueType() || t.IsNullableWrapper(), nil
}

// IsClosedAnonymousType reports whether t is a closed, compiler-generated
// anonymous type.
func (c *Classifier) IsClosedAnonymousType(t ir.TypeDescriptor) (bool, error) {
	if t == nil {
		return false, ir.ArgumentNil("type")
	}
	s := ShapeOf(t)
	return s.Kind == ShapeAnonymous && !s.Open, nil
}

// IsClosedAnonymousTypeFastCheck is a cheaper IsClosedAnonymousType that only
// looks at the type name.
func (c *Classifier) IsClosedAnonymousTypeFastCheck(t ir.TypeDescriptor) (bool, error) {
	if t == nil {
		return false, ir.ArgumentNil("type")
	}
	return !t.ContainsOpenParameters() && anonymousName.MatchString(t.SimpleName()), nil
}

// IsComparableType reports whether values of t (or of its underlying type,
// for nullable wrappers) are ordered: t implements IComparable<t>, or is a
// primitive, an enum or a string.
func (c *Classifier) IsComparableType(t ir.TypeDescriptor) (bool, error) {
	if t == nil {
		return false, ir.ArgumentNil("type")
	}
	if t.IsNullableWrapper() {
		t = t.NullableUnderlying()
	}
	if t.IsPrimitive() || t.IsEnum() || ir.DefinitionName(t) == "System.String" {
		return true, nil
	}
	for _, i := range t.Interfaces() {
		if ir.DefinitionName(i) != "System.IComparable`1" {
			continue
		}
		if ir.SameType(i.GenericArguments()[0], t) {
			return true, nil
		}
	}
	return false, nil
}

// IsComparableTypeOf is IsComparableType for the type T. The classifier's
// provider must implement ir.ReflectResolver.
func IsComparableTypeOf[T any](c *Classifier) (bool, error) {
	r, ok := c.p.(ir.ReflectResolver)
	if !ok {
		return false, ir.NotSupported("provider %T cannot resolve Go types", c.p)
	}
	t, err := r.ResolveReflect(reflect.TypeFor[T]())
	if err != nil {
		return false, err
	}
	return c.IsComparableType(t)
}

// IsNonAnonymousClosedClassType reports whether t is a closed class (not an
// interface or value type) that is not anonymous.
func (c *Classifier) IsNonAnonymousClosedClassType(t ir.TypeDescriptor) (bool, error) {
	if t == nil {
		return false, ir.ArgumentNil("type")
	}
	if t.IsInterface() || t.IsValueType() || t.IsGenericParameter() || t.ContainsOpenParameters() {
		return false, nil
	}
	return ShapeOf(t).Kind != ShapeAnonymous, nil
}

// IsNullableType reports whether t is a nullable wrapper.
func (c *Classifier) IsNullableType(t ir.TypeDescriptor) (bool, error) {
	if t == nil {
		return false, ir.ArgumentNil("type")
	}
	return ShapeOf(t).Kind == ShapeNullable, nil
}

// IsClosedTupleType reports whether t is a closed system tuple.
func (c *Classifier) IsClosedTupleType(t ir.TypeDescriptor) (bool, error) {
	return c.hasShape(t, ShapeTuple)
}

// IsClosedSystemCollectionType reports whether t is an ordered or unordered
// system collection. Generic type definitions count.
func (c *Classifier) IsClosedSystemCollectionType(t ir.TypeDescriptor) (bool, error) {
	if t == nil {
		return false, ir.ArgumentNil("type")
	}
	s := ShapeOf(t)
	return s.IsCollection() && (!s.Open || s.Definition), nil
}

// IsClosedSystemDictionaryType reports whether t is a system dictionary.
func (c *Classifier) IsClosedSystemDictionaryType(t ir.TypeDescriptor) (bool, error) {
	return c.hasShape(t, ShapeDictionary)
}

// IsClosedSystemOrderedCollectionType reports whether t is an ordered system
// collection such as List<T>.
func (c *Classifier) IsClosedSystemOrderedCollectionType(t ir.TypeDescriptor) (bool, error) {
	return c.hasShape(t, ShapeOrderedCollection)
}

// IsClosedSystemUnorderedCollectionType reports whether t is an unordered
// system collection such as ICollection<T>.
func (c *Classifier) IsClosedSystemUnorderedCollectionType(t ir.TypeDescriptor) (bool, error) {
	return c.hasShape(t, ShapeUnorderedCollection)
}

func (c *Classifier) hasShape(t ir.TypeDescriptor, kind ShapeKind) (bool, error) {
	if t == nil {
		return false, ir.ArgumentNil("type")
	}
	s := ShapeOf(t)
	if kind == ShapeTuple {
		return s.Kind == kind && !s.Open, nil
	}
	return s.Kind == kind && (!s.Open || s.Definition), nil
}

func (c *Classifier) keyValuePair(key, value ir.TypeDescriptor) (ir.TypeDescriptor, error) {
	def, err := c.p.Resolve(keyValuePairDefinition)
	if err != nil {
		return nil, err
	}
	return c.p.MakeGenericType(def, key, value)
}

// findContract searches t, its base chain and the interfaces each level
// introduces for a type whose definition name satisfies match. The most
// derived level with a match wins. It returns ok == false when that level
// holds matches with different generic arguments.
func findContract(t ir.TypeDescriptor, match func(name string) bool) (found ir.TypeDescriptor, ok bool) {
	for level := t; level != nil; level = level.BaseType() {
		var inherited []ir.TypeDescriptor
		if b := level.BaseType(); b != nil {
			inherited = b.Interfaces()
		}
		candidates := append([]ir.TypeDescriptor{level}, level.Interfaces()...)
		for _, candidate := range candidates {
			if ir.Contains(inherited, candidate) || !match(ir.DefinitionName(candidate)) {
				continue
			}
			if found != nil && !sameArguments(found, candidate) {
				return nil, false
			}
			found = candidate
		}
		if found != nil {
			return found, true
		}
	}
	return nil, true
}

func sameArguments(a, b ir.TypeDescriptor) bool {
	x, y := a.GenericArguments(), b.GenericArguments()
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !ir.SameType(x[i], y[i]) {
			return false
		}
	}
	return true
}
