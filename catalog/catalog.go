// Package catalog is an in-memory type host. It models a nominal type system
// with classes, interfaces, value types, generic definitions and their
// instantiations, arrays and nullable wrappers, and implements ir.Provider.
//
// A catalog starts out holding the system library (see system.yaml) and is
// extended by loading catalog documents in YAML or JSON form.
package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/broady/typekit/ir"
)

//go:embed system.yaml
var systemLibrary []byte

// Well-known definition names the catalog relies on.
const (
	objectName    = "System.Object"
	valueTypeName = "System.ValueType"
	arrayName     = "System.Array"
	enumName      = "System.Enum"
	nullableName  = "System.Nullable`1"
)

// Generic interfaces every array type implements, closed over its element.
var arrayInterfaceNames = []string{
	"System.Collections.Generic.IList`1",
	"System.Collections.Generic.IReadOnlyList`1",
}

// Catalog is a type universe. It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	named    map[string]*Type // definition name -> definition
	bySimple map[string][]*Type
	interned map[string]*Type // identity -> constructed or array type
	asms     map[string]ir.Assembly

	// loadMu serializes Load calls.
	loadMu sync.Mutex

	roots    [3]*Type
	nullable *Type
	logger   *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used to report load activity.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// New creates a catalog holding the system library.
func New(opts ...Option) (*Catalog, error) {
	c := &Catalog{
		named:    make(map[string]*Type),
		bySimple: make(map[string][]*Type),
		interned: make(map[string]*Type),
		asms:     make(map[string]ir.Assembly),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	doc, err := ParseYAML(systemLibrary)
	if err != nil {
		return nil, fmt.Errorf("system library: %w", err)
	}
	if err := c.Load(doc); err != nil {
		return nil, fmt.Errorf("system library: %w", err)
	}
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Catalog {
	c, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Root returns the descriptor of a well-known root type.
func (c *Catalog) Root(r ir.Root) ir.TypeDescriptor {
	if r < 0 || int(r) >= len(c.roots) {
		return nil
	}
	return desc(c.roots[r])
}

// Lookup returns the definition (or non-generic type) with the given
// namespace-qualified name, e.g. "System.Collections.Generic.List`1".
func (c *Catalog) Lookup(name string) (*Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.named[name]
	return t, ok
}

// Names returns the names of all definitions, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.named))
	for name := range c.named {
		names = append(names, name)
	}
	c.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Assemblies returns the registered assemblies, sorted by name.
func (c *Catalog) Assemblies() []ir.Assembly {
	c.mu.RLock()
	out := make([]ir.Assembly, 0, len(c.asms))
	for _, a := range c.asms {
		out = append(out, a)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve parses a type expression and returns the type it denotes.
func (c *Catalog) Resolve(expr string) (ir.TypeDescriptor, error) {
	t, err := c.ResolveType(expr)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ResolveType is like Resolve but returns the concrete catalog type.
func (c *Catalog) ResolveType(expr string) (*Type, error) {
	return c.parse(expr, nil, "", c)
}

// MakeGenericType closes a generic type definition over args.
func (c *Catalog) MakeGenericType(def ir.TypeDescriptor, args ...ir.TypeDescriptor) (ir.TypeDescriptor, error) {
	d, ok := def.(*Type)
	if !ok || d == nil || d.cat != c {
		return nil, fmt.Errorf("catalog: %v is not a type of this catalog", def)
	}
	if !d.IsGenericTypeDefinition() {
		return nil, fmt.Errorf("catalog: %s is not a generic type definition", d.identity)
	}
	if len(args) != len(d.args) {
		return nil, fmt.Errorf("catalog: %s expects %d type arguments, got %d", d.identity, len(d.args), len(args))
	}
	targs := make([]*Type, len(args))
	for i, a := range args {
		ta, ok := a.(*Type)
		if !ok || ta == nil || ta.cat != c {
			return nil, fmt.Errorf("catalog: argument %d is not a type of this catalog", i)
		}
		targs[i] = ta
	}
	return c.instantiate(d, targs), nil
}

// MakeArrayType returns the single-dimensional array of elem.
func (c *Catalog) MakeArrayType(elem *Type) *Type {
	return c.arrayOf(elem)
}

// MakeNullableType wraps a value type in the nullable wrapper.
func (c *Catalog) MakeNullableType(underlying *Type) (*Type, error) {
	if !underlying.IsValueType() || underlying.IsNullableWrapper() {
		return nil, fmt.Errorf("catalog: %s cannot be made nullable", underlying.identity)
	}
	return c.instantiate(c.nullable, []*Type{underlying}), nil
}

func (c *Catalog) lookup(name string) *Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.named[name]
}

// lookupSimple resolves a bare name with arity suffix when it is unambiguous.
func (c *Catalog) lookupSimple(key string) ([]*Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ts, ok := c.bySimple[key]
	return ts, ok
}

// instantiate returns the interned instantiation of def over args. Passing
// the definition's own parameters yields the definition itself.
func (c *Catalog) instantiate(def *Type, args []*Type) *Type {
	self := true
	for i, a := range args {
		if a != def.args[i] {
			self = false
			break
		}
	}
	if self {
		return def
	}

	var b strings.Builder
	b.WriteString(def.identity)
	b.WriteByte('[')
	open := false
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(a.identity)
		open = open || a.open
	}
	b.WriteByte(']')
	key := b.String()

	c.mu.RLock()
	t, ok := c.interned[key]
	c.mu.RUnlock()
	if ok {
		return t
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.interned[key]; ok {
		return t
	}
	t = &Type{
		cat:               c,
		kind:              def.kind,
		name:              def.name,
		namespace:         def.namespace,
		assembly:          def.assembly,
		identity:          key,
		primitive:         def.primitive,
		compilerGenerated: def.compilerGenerated,
		anonymous:         def.anonymous,
		def:               def,
		args:              append([]*Type(nil), args...),
		open:              open,
	}
	c.interned[key] = t
	return t
}

func (c *Catalog) arrayOf(elem *Type) *Type {
	key := elem.identity + "[]"

	c.mu.RLock()
	t, ok := c.interned[key]
	c.mu.RUnlock()
	if ok {
		return t
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.interned[key]; ok {
		return t
	}
	t = &Type{
		cat:       c,
		kind:      KindArray,
		namespace: elem.namespace,
		assembly:  elem.assembly,
		identity:  key,
		elem:      elem,
		open:      elem.open,
	}
	c.interned[key] = t
	return t
}

// subst replaces generic parameters in t according to m.
func (c *Catalog) subst(t *Type, m map[*Type]*Type) *Type {
	switch {
	case t == nil:
		return nil
	case t.kind == KindGenericParameter:
		if r, ok := m[t]; ok {
			return r
		}
		return t
	case t.kind == KindArray:
		return c.arrayOf(c.subst(t.elem, m))
	case t.IsGenericType():
		args := make([]*Type, len(t.args))
		for i, a := range t.args {
			args[i] = c.subst(a, m)
		}
		return c.instantiate(t.def, args)
	default:
		return t
	}
}

func (c *Catalog) arrayInterfaces(elem *Type) []*Type {
	var out []*Type
	for _, name := range arrayInterfaceNames {
		if def := c.lookup(name); def != nil {
			out = append(out, c.instantiate(def, []*Type{elem}))
		}
	}
	return out
}

// register publishes loaded definitions. Callers hold loadMu.
func (c *Catalog) register(types []*Type, asms []ir.Assembly) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range asms {
		c.asms[a.Name] = a
	}
	for _, t := range types {
		name := fullName(t)
		c.named[name] = t
		key := simpleKey(t.name, ownArity(t))
		c.bySimple[key] = append(c.bySimple[key], t)
		switch name {
		case objectName:
			c.roots[ir.RootObject] = t
		case valueTypeName:
			c.roots[ir.RootValueType] = t
		case arrayName:
			c.roots[ir.RootArray] = t
		case nullableName:
			c.nullable = t
		}
	}
}

// fullName returns the definition name: namespace, '+' separated nesting
// and own arity.
func fullName(t *Type) string {
	var prefix string
	if t.declaring != nil {
		prefix = fullName(t.declaring) + "+"
	} else if t.namespace != "" {
		prefix = t.namespace + "."
	}
	return prefix + simpleKey(t.name, ownArity(t))
}

func ownArity(t *Type) int {
	n := len(t.args)
	if t.declaring != nil {
		n -= len(t.declaring.args)
	}
	return n
}

func simpleKey(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return name + "`" + strconv.Itoa(arity)
}
