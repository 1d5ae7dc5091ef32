// Package render turns type descriptors into deterministic strings: source
// code spellings that a compiler would accept, and readable names optionally
// qualified with namespaces and assembly details.
package render

import (
	"strconv"
	"strings"

	"github.com/broady/typekit/classify"
	"github.com/broady/typekit/ir"
)

// Rejection messages of ToStringCompilable.
const (
	msgAnonymous       = "Anonymous types are not supported."
	msgOpenConstructed = "Generic open constructed types are not supported."
	msgParameter       = "Generic parameters not supported."
)

// keywords maps system types to their language keywords.
var keywords = map[string]string{
	"System.Boolean": "bool",
	"System.Byte":    "byte",
	"System.SByte":   "sbyte",
	"System.Char":    "char",
	"System.Decimal": "decimal",
	"System.Double":  "double",
	"System.Single":  "float",
	"System.Int32":   "int",
	"System.UInt32":  "uint",
	"System.Int64":   "long",
	"System.UInt64":  "ulong",
	"System.Int16":   "short",
	"System.UInt16":  "ushort",
	"System.String":  "string",
	"System.Object":  "object",
}

// Keyword returns the language keyword of t, if it has one.
func Keyword(t ir.TypeDescriptor) (string, bool) {
	if t == nil || t.IsGenericType() || t.IsArray() || t.IsGenericParameter() || t.DeclaringType() != nil {
		return "", false
	}
	kw, ok := keywords[ir.DefinitionName(t)]
	return kw, ok
}

// ToStringCompilable renders t the way it would be spelled in source code,
// e.g. "IReadOnlyDictionary<string, int?>" or "List<>".
//
// Anonymous types, generic parameters and open constructed generic types
// have no such spelling, at any depth. For those ToStringCompilable returns a
// not-supported error, or ("", nil) if throwIfNoCompilableStringExists is
// false.
func ToStringCompilable(t ir.TypeDescriptor, throwIfNoCompilableStringExists bool) (string, error) {
	if t == nil {
		return "", ir.ArgumentNil("type")
	}
	if msg := rejectCompilable(t); msg != "" {
		if throwIfNoCompilableStringExists {
			return "", ir.NotSupportedParam("type", "%s", msg)
		}
		return "", nil
	}
	w := writer{compilable: true}
	w.write(t)
	return w.String(), nil
}

// rejectCompilable returns the reason t has no compilable spelling, or "".
func rejectCompilable(t ir.TypeDescriptor) string {
	switch {
	case t.IsGenericParameter():
		return msgParameter
	case t.IsArray():
		return rejectCompilable(t.ElementType())
	case t.IsNullableWrapper():
		return rejectCompilable(t.NullableUnderlying())
	}
	shape := classify.ShapeOf(t)
	if shape.Kind == classify.ShapeAnonymous && !shape.Open {
		return msgAnonymous
	}
	if t.IsGenericTypeDefinition() {
		return ""
	}
	if shape.Open {
		return msgOpenConstructed
	}
	for _, arg := range t.GenericArguments() {
		if msg := rejectCompilable(arg); msg != "" {
			return msg
		}
	}
	return ""
}

// ToStringReadable renders t for humans. It never rejects a type: anonymous
// types render as "AnonymousTypeN<...>", open generics show their parameter
// names.
//
// With IncludeAssemblyDetails the name is followed by
// " || ref => assembly (version) | ..." listing ReferencedTypes(t).
func ToStringReadable(t ir.TypeDescriptor, opts Options) (string, error) {
	if t == nil {
		return "", ir.ArgumentNil("type")
	}
	if opts&^allOptions != 0 {
		return "", ir.NotSupportedParam("options", "Unsupported options: %s.", opts)
	}

	w := writer{namespace: opts.Has(IncludeNamespace)}
	w.write(t)
	if !opts.Has(IncludeAssemblyDetails) {
		return w.String(), nil
	}

	refs := ReferencedTypes(t)
	if len(refs) == 0 {
		return w.String(), nil
	}
	w.WriteString(" || ")
	for i, ref := range refs {
		if i > 0 {
			w.WriteString(" | ")
		}
		w.namespace = true
		w.write(ref)
		w.WriteString(" => ")
		w.WriteString(ref.Assembly().String())
	}
	return w.String(), nil
}

// writer accumulates a rendering.
type writer struct {
	strings.Builder

	// compilable renders definitions with empty argument slots.
	compilable bool

	namespace bool
}

func (w *writer) write(t ir.TypeDescriptor) {
	switch {
	case t.IsGenericParameter():
		w.writeParameter(t)
	case t.IsArray():
		w.write(t.ElementType())
		w.WriteString("[]")
	case t.IsNullableWrapper():
		w.write(t.NullableUnderlying())
		w.WriteByte('?')
	default:
		w.writeNamed(t, t.GenericArguments(), t.IsGenericTypeDefinition())
	}
}

func (w *writer) writeParameter(t ir.TypeDescriptor) {
	if owner := t.DeclaringType(); owner != nil && classify.ShapeOf(owner).Kind == classify.ShapeAnonymous {
		w.WriteByte('T')
		w.WriteString(strconv.Itoa(t.GenericParameterPosition() + 1))
		return
	}
	w.WriteString(t.SimpleName())
}

// writeNamed writes t with the given generic arguments. A nested type hands
// the leading arguments to its declaring type.
func (w *writer) writeNamed(t ir.TypeDescriptor, args []ir.TypeDescriptor, definition bool) {
	if kw, ok := Keyword(t); ok {
		w.WriteString(kw)
		return
	}

	anonymous := classify.ShapeOf(t).Kind == classify.ShapeAnonymous
	own := args
	if decl := t.DeclaringType(); decl != nil {
		n := min(len(decl.GenericArguments()), len(args))
		w.writeNamed(decl, args[:n], definition)
		w.WriteByte('.')
		own = args[n:]
	} else if w.namespace && !anonymous && t.Namespace() != "" {
		w.WriteString(t.Namespace())
		w.WriteByte('.')
	}

	name := ir.BareName(t.SimpleName())
	if anonymous {
		name = classify.AnonymousName(name)
	}
	w.WriteString(name)
	if len(own) == 0 {
		return
	}

	w.WriteByte('<')
	if definition && w.compilable {
		w.WriteString(strings.Repeat(",", len(own)-1))
	} else {
		for i, arg := range own {
			if i > 0 {
				w.WriteString(", ")
			}
			w.write(arg)
		}
	}
	w.WriteByte('>')
}
