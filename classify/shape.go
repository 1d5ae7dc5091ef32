package classify

import (
	"regexp"
	"strings"

	"github.com/broady/typekit/ir"
)

// ShapeKind is the structural classification of a type.
type ShapeKind int

const (
	ShapePlain ShapeKind = iota
	ShapeArray
	ShapeNullable
	ShapeAnonymous
	ShapeTuple
	ShapeGenericParameter
	ShapeOrderedCollection
	ShapeUnorderedCollection
	ShapeDictionary
)

// String returns the string representation of the shape kind.
func (k ShapeKind) String() string {
	switch k {
	case ShapePlain:
		return "Plain"
	case ShapeArray:
		return "Array"
	case ShapeNullable:
		return "Nullable"
	case ShapeAnonymous:
		return "Anonymous"
	case ShapeTuple:
		return "Tuple"
	case ShapeGenericParameter:
		return "GenericParameter"
	case ShapeOrderedCollection:
		return "OrderedCollection"
	case ShapeUnorderedCollection:
		return "UnorderedCollection"
	case ShapeDictionary:
		return "Dictionary"
	default:
		return "Unknown"
	}
}

// Shape is the classification of a single type. Every predicate and
// extractor of the Classifier derives its answer from a Shape, so they never
// disagree.
type Shape struct {
	Kind ShapeKind

	// Open is true if the type contains unbound generic parameters.
	Open bool

	// Definition is true for generic type definitions.
	Definition bool

	// Element is the array element, the nullable underlying type or the
	// collection element. For a definition it is the generic parameter.
	Element ir.TypeDescriptor

	// Key and Value are set for dictionaries.
	Key   ir.TypeDescriptor
	Value ir.TypeDescriptor
}

// IsCollection reports whether the shape is an ordered or unordered system
// collection.
func (s Shape) IsCollection() bool {
	return s.Kind == ShapeOrderedCollection || s.Kind == ShapeUnorderedCollection
}

// builtinShapes is the fixed table of recognized system collection shapes,
// keyed by definition name.
var builtinShapes = map[string]ShapeKind{
	"System.Collections.ObjectModel.Collection`1":         ShapeOrderedCollection,
	"System.Collections.ObjectModel.ReadOnlyCollection`1": ShapeOrderedCollection,
	"System.Collections.Generic.List`1":                   ShapeOrderedCollection,
	"System.Collections.Generic.IList`1":                  ShapeOrderedCollection,
	"System.Collections.Generic.IReadOnlyList`1":          ShapeOrderedCollection,

	"System.Collections.Generic.ICollection`1":         ShapeUnorderedCollection,
	"System.Collections.Generic.IReadOnlyCollection`1": ShapeUnorderedCollection,

	"System.Collections.Generic.Dictionary`2":              ShapeDictionary,
	"System.Collections.Generic.IDictionary`2":             ShapeDictionary,
	"System.Collections.Generic.IReadOnlyDictionary`2":     ShapeDictionary,
	"System.Collections.ObjectModel.ReadOnlyDictionary`2":  ShapeDictionary,
	"System.Collections.Concurrent.ConcurrentDictionary`2": ShapeDictionary,
}

// Contract definition names used by the element extractors.
const (
	sequenceContract           = "System.Collections.Generic.IEnumerable`1"
	nonGenericSequenceContract = "System.Collections.IEnumerable"
	keyValuePairDefinition     = "System.Collections.Generic.KeyValuePair<,>"
)

var mappingContracts = map[string]bool{
	"System.Collections.Generic.IDictionary`2":         true,
	"System.Collections.Generic.IReadOnlyDictionary`2": true,
}

// anonymousName matches the names compilers give anonymous types.
var anonymousName = regexp.MustCompile(`^(<>|VB\$).*AnonymousType`)

// ShapeOf classifies t. It panics if t is nil.
func ShapeOf(t ir.TypeDescriptor) Shape {
	s := Shape{
		Open:       t.ContainsOpenParameters(),
		Definition: t.IsGenericTypeDefinition(),
	}
	switch {
	case t.IsGenericParameter():
		s.Kind = ShapeGenericParameter
	case t.IsArray():
		s.Kind = ShapeArray
		s.Element = t.ElementType()
	case t.IsNullableWrapper():
		s.Kind = ShapeNullable
		s.Element = t.NullableUnderlying()
	case t.IsGenericType():
		if kind, ok := builtinShapes[ir.DefinitionName(t)]; ok {
			args := t.GenericArguments()
			s.Kind = kind
			if kind == ShapeDictionary {
				s.Key, s.Value = args[0], args[1]
			} else {
				s.Element = args[0]
			}
			return s
		}
		if isTuple(t) {
			s.Kind = ShapeTuple
			return s
		}
		fallthrough
	default:
		if isAnonymous(t) {
			s.Kind = ShapeAnonymous
		}
	}
	return s
}

func isTuple(t ir.TypeDescriptor) bool {
	if t.Namespace() != "System" || t.DeclaringType() != nil {
		return false
	}
	name := ir.BareName(t.SimpleName())
	return name == "ValueTuple" || name == "Tuple"
}

func isAnonymous(t ir.TypeDescriptor) bool {
	return t.IsCompilerGenerated() && t.IsAnonymous() && anonymousName.MatchString(t.SimpleName())
}

// AnonymousName returns the "AnonymousTypeN" portion of an anonymous type
// name, or the name itself when it has none.
func AnonymousName(name string) string {
	if i := strings.Index(name, "AnonymousType"); i >= 0 {
		end := i + len("AnonymousType")
		for end < len(name) && name[end] >= '0' && name[end] <= '9' {
			end++
		}
		return name[i:end]
	}
	return name
}
