// Package provider populates catalogs from Go code.
//
// Go types map onto the catalog's type universe as follows:
//
//   - a package is an assembly named by its import path; its namespace is the
//     import path with '/' replaced by '.'
//   - basic types map to system primitives (int and uint are 64 bits wide),
//     time.Time to System.DateTime and time.Duration to System.TimeSpan
//   - slices and arrays map to arrays, maps to Dictionary<K, V>
//   - a pointer to a value type maps to Nullable<T>; pointers to reference
//     types are transparent
//   - named structs are structs, named interfaces are interfaces, named basic
//     types with constants of their own type are enums
//   - named slice and map types are classes implementing the matching list or
//     dictionary interfaces
//   - anonymous structs are compiler-generated anonymous types, generic over
//     their field types
//
// SourceProvider reads packages with golang.org/x/tools/go/packages;
// ReflectionProvider maps runtime types on demand.
package provider

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/broady/typekit/catalog"
)

// System type names shared by both providers.
const (
	objectType     = "System.Object"
	stringType     = "System.String"
	dateTimeType   = "System.DateTime"
	timeSpanType   = "System.TimeSpan"
	listType       = "System.Collections.Generic.IList"
	readOnlyList   = "System.Collections.Generic.IReadOnlyList"
	dictionaryType = "System.Collections.Generic.Dictionary"
	mapType        = "System.Collections.Generic.IDictionary"
	readOnlyMap    = "System.Collections.Generic.IReadOnlyDictionary"
	comparableType = "System.IComparable"
	equatableType  = "System.IEquatable"
)

// wellKnown maps Go named types ("pkgpath.Name") to system types.
var wellKnown = map[string]string{
	"time.Time":                   dateTimeType,
	"time.Duration":               timeSpanType,
	"net/url.URL":                 "System.Uri",
	"github.com/google/uuid.UUID": "System.Guid",
}

// Warning reports a Go type that could not be mapped.
type Warning struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	TypeName string `json:"typeName,omitempty"`
}

// Namespace returns the catalog namespace of a Go package path.
func Namespace(pkgPath string) string {
	var b strings.Builder
	for i := 0; i < len(pkgPath); i++ {
		switch c := pkgPath[i]; {
		case c == '/':
			b.WriteByte('.')
		case c == '_' || c == '.' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// generic renders a type expression "name<args>".
func generic(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + "<" + strings.Join(args, ", ") + ">"
}

// nullable wraps a value type expression.
func nullable(expr string) string {
	if strings.HasSuffix(expr, "?") {
		return expr
	}
	return expr + "?"
}

// listInterfaces are the interfaces of a named slice or array type.
func listInterfaces(elem string) []string {
	return []string{generic(listType, elem), generic(readOnlyList, elem)}
}

// mapInterfaces are the interfaces of a named map type.
func mapInterfaces(key, value string) []string {
	return []string{generic(mapType, key, value), generic(readOnlyMap, key, value)}
}

// builder accumulates a catalog document.
type builder struct {
	doc      catalog.Document
	asms     map[string]bool
	names    map[string]bool
	anon     map[string]string
	anonNext map[string]int
	warnings []Warning
}

func newBuilder() *builder {
	return &builder{
		asms:     make(map[string]bool),
		names:    make(map[string]bool),
		anon:     make(map[string]string),
		anonNext: make(map[string]int),
	}
}

func (b *builder) assembly(name, version string) {
	if b.asms[name] {
		return
	}
	b.asms[name] = true
	b.doc.Assemblies = append(b.doc.Assemblies, catalog.AssemblySpec{Name: name, Version: version})
}

// add appends spec unless a type of the same name was added before.
func (b *builder) add(spec catalog.TypeSpec) {
	name := spec.DefinitionName()
	if b.names[name] {
		return
	}
	b.names[name] = true
	b.doc.Types = append(b.doc.Types, spec)
}

// anonymous returns the expression of the anonymous type with the given
// field names and field type expressions, declaring it on first use.
// Structs with the same field names share one definition.
func (b *builder) anonymous(namespace, assembly string, fields, args []string) string {
	key := namespace + "\x00" + strings.Join(fields, "\x00")
	name, ok := b.anon[key]
	if !ok {
		n := b.anonNext[namespace]
		b.anonNext[namespace]++
		name = "<>f__AnonymousType" + strconv.Itoa(n)
		b.anon[key] = name

		params := make([]catalog.ParamSpec, len(fields))
		for i, f := range fields {
			params[i] = catalog.ParamSpec{Name: "<" + f + ">j__TPar"}
		}
		b.add(catalog.TypeSpec{
			Name:              name,
			Namespace:         namespace,
			Assembly:          assembly,
			Kind:              "class",
			TypeParameters:    params,
			CompilerGenerated: true,
			Anonymous:         true,
		})
	}
	if namespace != "" {
		name = namespace + "." + name
	}
	return generic(name, args...)
}

func (b *builder) warn(code, typeName, format string, args ...any) {
	b.warnings = append(b.warnings, Warning{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		TypeName: typeName,
	})
}
