package ir

import (
	"strconv"
	"strings"
)

// SameType reports whether a and b denote the same type.
func SameType(a, b TypeDescriptor) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	return a.Identity() == b.Identity()
}

// Contains reports whether list holds a descriptor denoting t.
func Contains(list []TypeDescriptor, t TypeDescriptor) bool {
	return IndexOf(list, t) >= 0
}

// IndexOf returns the index of the first descriptor in list denoting t, or -1.
func IndexOf(list []TypeDescriptor, t TypeDescriptor) int {
	for i, candidate := range list {
		if SameType(candidate, t) {
			return i
		}
	}
	return -1
}

// BareName strips a host arity suffix ("List`1" -> "List").
func BareName(name string) string {
	if i := strings.IndexByte(name, '`'); i >= 0 {
		return name[:i]
	}
	return name
}

// DefinitionName returns the namespace-qualified name of the generic type
// definition of t (or of t itself), with arity markers and '+' separating
// nested types: "System.Collections.Generic.Dictionary`2",
// "Acme.Outer`1+Inner".
//
// Generic arguments are not part of the name, so every instantiation of a
// definition shares it. Used to match types against fixed shape tables.
func DefinitionName(t TypeDescriptor) string {
	if t == nil {
		return ""
	}
	if def := t.GenericTypeDefinition(); def != nil {
		t = def
	}
	var b strings.Builder
	writeDefinitionName(&b, t)
	return b.String()
}

func writeDefinitionName(b *strings.Builder, t TypeDescriptor) {
	own := len(t.GenericArguments())
	if decl := t.DeclaringType(); decl != nil {
		writeDefinitionName(b, decl)
		b.WriteByte('+')
		own -= len(decl.GenericArguments())
	} else if ns := t.Namespace(); ns != "" {
		b.WriteString(ns)
		b.WriteByte('.')
	}
	b.WriteString(BareName(t.SimpleName()))
	if own > 0 {
		b.WriteByte('`')
		b.WriteString(strconv.Itoa(own))
	}
}
