package provider

import (
	"fmt"
	"maps"
	"reflect"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/broady/typekit/catalog"
	"github.com/broady/typekit/ir"
)

// ReflectionProvider maps Go runtime types onto a catalog, declaring named
// types on first use. It implements ir.Provider through the embedded catalog,
// and ir.ReflectResolver.
//
// Go interfaces are attached to a struct only if they were resolved before
// the struct; catalog types never change once loaded.
type ReflectionProvider struct {
	*catalog.Catalog

	mu       sync.Mutex
	cache    map[reflect.Type]ir.TypeDescriptor
	declared map[reflect.Type]string
	ifaces   []reflect.Type
	anon     map[string]string
	anonNext map[string]int
	modules  map[string]string
}

// NewReflectionProvider returns a provider declaring types into c.
func NewReflectionProvider(c *catalog.Catalog) *ReflectionProvider {
	p := &ReflectionProvider{
		Catalog:  c,
		cache:    make(map[reflect.Type]ir.TypeDescriptor),
		declared: make(map[reflect.Type]string),
		anon:     make(map[string]string),
		anonNext: make(map[string]int),
		modules:  make(map[string]string),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		p.modules[bi.Main.Path] = bi.Main.Version
		for _, dep := range bi.Deps {
			p.modules[dep.Path] = dep.Version
		}
	}
	return p
}

// ResolveReflect returns the descriptor of t, declaring the named types it
// needs in the catalog.
func (p *ReflectionProvider) ResolveReflect(t reflect.Type) (ir.TypeDescriptor, error) {
	if t == nil {
		return nil, ir.ArgumentNil("type")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if d, ok := p.cache[t]; ok {
		return d, nil
	}

	b := &reflectionBuilder{
		builder:  newBuilder(),
		p:        p,
		declared: maps.Clone(p.declared),
		ifaces:   append([]reflect.Type(nil), p.ifaces...),
	}
	b.anon = maps.Clone(p.anon)
	b.anonNext = maps.Clone(p.anonNext)

	expr, err := b.expr(t)
	if err != nil {
		return nil, fmt.Errorf("provider: %s: %w", t, err)
	}
	if len(b.doc.Types) > 0 {
		if err := p.Load(&b.doc); err != nil {
			return nil, fmt.Errorf("provider: %s: %w", t, err)
		}
	}
	p.declared, p.ifaces = b.declared, b.ifaces
	p.anon, p.anonNext = b.anon, b.anonNext

	d, err := p.Resolve(expr)
	if err != nil {
		return nil, fmt.Errorf("provider: %s: %w", t, err)
	}
	p.cache[t] = d
	return d, nil
}

// version returns the module version of a package, if the binary knows it.
func (p *ReflectionProvider) version(pkgPath string) string {
	best, version := "", ""
	for mod, v := range p.modules {
		if (pkgPath == mod || strings.HasPrefix(pkgPath, mod+"/")) && len(mod) > len(best) {
			best, version = mod, v
		}
	}
	return version
}

// reflectionBuilder collects the declarations needed by one ResolveReflect
// call. Its state is committed to the provider only if the catalog accepts
// them.
type reflectionBuilder struct {
	*builder
	p        *ReflectionProvider
	declared map[reflect.Type]string
	ifaces   []reflect.Type

	// pkg is the package path of the named type being declared; anonymous
	// structs are declared there.
	pkg string
}

// expr returns the catalog type expression of t.
func (b *reflectionBuilder) expr(t reflect.Type) (string, error) {
	if t.Name() != "" && t.PkgPath() != "" {
		if name, ok := wellKnown[t.PkgPath()+"."+t.Name()]; ok {
			return name, nil
		}
		return b.declare(t)
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem, err := b.expr(t.Elem())
		if err != nil {
			return "", err
		}
		if isReflectValueType(t.Elem()) {
			return nullable(elem), nil
		}
		return elem, nil

	case reflect.Slice, reflect.Array:
		elem, err := b.expr(t.Elem())
		if err != nil {
			return "", err
		}
		return elem + "[]", nil

	case reflect.Map:
		key, err := b.expr(t.Key())
		if err != nil {
			return "", err
		}
		value, err := b.expr(t.Elem())
		if err != nil {
			return "", err
		}
		return generic(dictionaryType, key, value), nil

	case reflect.Interface:
		return objectType, nil

	case reflect.Struct:
		if b.pkg == "" {
			return "", fmt.Errorf("cannot declare anonymous struct %s without a package", t)
		}
		fields := make([]string, t.NumField())
		args := make([]string, t.NumField())
		for i := range fields {
			f := t.Field(i)
			fields[i] = f.Name
			expr, err := b.expr(f.Type)
			if err != nil {
				return "", fmt.Errorf("field %s: %w", f.Name, err)
			}
			args[i] = expr
		}
		return b.anonymous(Namespace(b.pkg), b.pkg, fields, args), nil
	}

	if name, ok := reflectNames[t.Kind()]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unsupported type: %s (kind: %s)", t, t.Kind())
}

// declare adds the named type t to the document and returns its qualified
// name. Generic instantiations are declared under a synthetic name, since
// reflection does not expose their type arguments.
func (b *reflectionBuilder) declare(t reflect.Type) (string, error) {
	if name, ok := b.declared[t]; ok {
		return name, nil
	}
	ns := Namespace(t.PkgPath())
	name := syntheticName(t.Name())
	qualified := ns + "." + name
	b.declared[t] = qualified

	outer := b.pkg
	b.pkg = t.PkgPath()
	defer func() { b.pkg = outer }()

	spec := catalog.TypeSpec{
		Name:      name,
		Namespace: ns,
		Assembly:  t.PkgPath(),
	}
	switch t.Kind() {
	case reflect.Struct:
		spec.Kind = "struct"
	case reflect.Interface:
		spec.Kind = "interface"
		b.ifaces = append(b.ifaces, t)
	case reflect.Slice, reflect.Array:
		elem, err := b.expr(t.Elem())
		if err != nil {
			return "", err
		}
		spec.Kind = "class"
		spec.Interfaces = listInterfaces(elem)
	case reflect.Map:
		key, err := b.expr(t.Key())
		if err != nil {
			return "", err
		}
		value, err := b.expr(t.Elem())
		if err != nil {
			return "", err
		}
		spec.Kind = "class"
		spec.Interfaces = mapInterfaces(key, value)
	default:
		if _, ok := reflectNames[t.Kind()]; !ok {
			spec.Kind = "class"
			break
		}
		spec.Kind = "struct"
		switch {
		case isInteger(t.Kind()) && t.Implements(stringerType):
			spec.Kind = "enum"
		case t.Kind() != reflect.Bool:
			spec.Interfaces = append(spec.Interfaces, generic(comparableType, qualified))
		}
	}

	if spec.Kind != "interface" {
		if hasReflectSelfMethod(t, "Compare", reflect.TypeFor[int]()) && spec.Kind != "enum" {
			spec.Interfaces = append(spec.Interfaces, generic(comparableType, qualified))
		}
		if hasReflectSelfMethod(t, "Equal", reflect.TypeFor[bool]()) {
			spec.Interfaces = append(spec.Interfaces, generic(equatableType, qualified))
		}
	}
	for _, iface := range b.ifaces {
		if iface != t && iface.NumMethod() > 0 && (t.Implements(iface) || reflect.PointerTo(t).Implements(iface)) {
			spec.Interfaces = append(spec.Interfaces, b.declared[iface])
		}
	}

	b.assembly(t.PkgPath(), b.p.version(t.PkgPath()))
	b.add(spec)
	return qualified, nil
}

var stringerType = reflect.TypeFor[fmt.Stringer]()

// hasReflectSelfMethod reports whether t (or a pointer to it) has a method
// "name(other T) result".
func hasReflectSelfMethod(t reflect.Type, name string, result reflect.Type) bool {
	m, ok := reflect.PointerTo(t).MethodByName(name)
	if !ok {
		return false
	}
	// The receiver is the first input.
	ft := m.Type
	return ft.NumIn() == 2 && ft.In(1) == t && ft.NumOut() == 1 && ft.Out(0) == result
}

// syntheticName turns an instantiated generic name like "Page[int]" into an
// identifier.
func syntheticName(name string) string {
	if !strings.Contains(name, "[") {
		return name
	}
	r := strings.NewReplacer(".", "_", "/", "_", "[", "_", "]", "", ",", "_", " ", "", "*", "Ptr")
	return r.Replace(name)
}

func isInteger(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Uint64
}

// isReflectValueType reports whether t maps to a value type.
func isReflectValueType(t reflect.Type) bool {
	if t.Name() != "" && t.PkgPath() != "" {
		if name, ok := wellKnown[t.PkgPath()+"."+t.Name()]; ok {
			return name != "System.Uri"
		}
		if t.Kind() == reflect.Struct {
			return true
		}
	}
	_, ok := reflectNames[t.Kind()]
	return ok && t.Kind() != reflect.String
}

var reflectNames = map[reflect.Kind]string{
	reflect.Bool:    "System.Boolean",
	reflect.Int:     "System.Int64",
	reflect.Int8:    "System.SByte",
	reflect.Int16:   "System.Int16",
	reflect.Int32:   "System.Int32",
	reflect.Int64:   "System.Int64",
	reflect.Uint:    "System.UInt64",
	reflect.Uint8:   "System.Byte",
	reflect.Uint16:  "System.UInt16",
	reflect.Uint32:  "System.UInt32",
	reflect.Uint64:  "System.UInt64",
	reflect.Uintptr: "System.UInt64",
	reflect.Float32: "System.Single",
	reflect.Float64: "System.Double",
	reflect.String:  stringType,
}
