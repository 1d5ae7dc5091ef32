package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/broady/typekit/ir"
)

var validate = validator.New()

// Document describes assemblies and the types they declare.
//
// Types reference each other with type expressions (see Catalog.Resolve).
// Within a type, its generic parameters are in scope by name, and names are
// looked up relative to the type's namespace first.
type Document struct {
	Assemblies []AssemblySpec `yaml:"assemblies" json:"assemblies" validate:"dive"`
	Types      []TypeSpec     `yaml:"types" json:"types" validate:"dive"`
}

// AssemblySpec declares an assembly.
type AssemblySpec struct {
	Name    string `yaml:"name" json:"name" validate:"required"`
	Version string `yaml:"version" json:"version"`
}

// TypeSpec declares a class, interface, struct or enum.
type TypeSpec struct {
	Name      string `yaml:"name" json:"name" validate:"required"`
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Assembly  string `yaml:"assembly" json:"assembly" validate:"required"`
	Kind      string `yaml:"kind" json:"kind" validate:"required,oneof=class interface struct enum"`

	// DeclaringType is the definition name of the enclosing type of a
	// nested type, e.g. "Acme.Outer`1". Nested types inherit the enclosing
	// type's namespace and generic parameters.
	DeclaringType string `yaml:"declaringType,omitempty" json:"declaringType,omitempty"`

	TypeParameters []ParamSpec `yaml:"typeParameters,omitempty" json:"typeParameters,omitempty" validate:"dive"`
	Base           string      `yaml:"base,omitempty" json:"base,omitempty"`
	Interfaces     []string    `yaml:"interfaces,omitempty" json:"interfaces,omitempty" validate:"dive,required"`

	Primitive         bool `yaml:"primitive,omitempty" json:"primitive,omitempty"`
	CompilerGenerated bool `yaml:"compilerGenerated,omitempty" json:"compilerGenerated,omitempty"`
	Anonymous         bool `yaml:"anonymous,omitempty" json:"anonymous,omitempty"`
}

// ParamSpec declares a generic parameter.
type ParamSpec struct {
	Name     string `yaml:"name" json:"name" validate:"required"`
	Variance string `yaml:"variance,omitempty" json:"variance,omitempty" validate:"omitempty,oneof=in out"`
}

// DefinitionName returns the name the type is registered under.
func (s *TypeSpec) DefinitionName() string {
	key := simpleKey(s.Name, len(s.TypeParameters))
	if s.DeclaringType != "" {
		return s.DeclaringType + "+" + key
	}
	if s.Namespace != "" {
		return s.Namespace + "." + key
	}
	return key
}

// ValidationError describes a structural problem in a document.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Code + ": " + e.Message
}

// Validate checks field constraints and cross references that do not need a
// catalog. It returns all problems found, not just the first.
func (d *Document) Validate() []error {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []error{err}
		}
		out := make([]error, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, &ValidationError{
				Code:    "invalid_field",
				Message: fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()),
			})
		}
		return out
	}

	var errs []error
	asms := make(map[string]bool)
	for _, a := range d.Assemblies {
		if asms[a.Name] {
			errs = append(errs, &ValidationError{Code: "duplicate_assembly", Message: "duplicate assembly: " + a.Name})
		}
		asms[a.Name] = true
	}
	names := make(map[string]bool)
	for i := range d.Types {
		name := d.Types[i].DefinitionName()
		if names[name] {
			errs = append(errs, &ValidationError{Code: "duplicate_type", Message: "duplicate type: " + name})
		}
		names[name] = true
		for _, p := range d.Types[i].TypeParameters {
			if p.Variance != "" && d.Types[i].Kind != "interface" {
				errs = append(errs, &ValidationError{
					Code:    "invalid_variance",
					Message: fmt.Sprintf("%s: variance on parameter %s of a non-interface type", name, p.Name),
				})
			}
		}
	}
	return errs
}

// ParseYAML decodes a YAML document stream. Multiple documents separated by
// "---" are merged.
func ParseYAML(data []byte) (*Document, error) {
	out := &Document{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	for {
		var doc Document
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("catalog: decode yaml: %w", err)
		}
		out.Assemblies = append(out.Assemblies, doc.Assemblies...)
		out.Types = append(out.Types, doc.Types...)
	}
	return out, nil
}

// ParseJSON decodes a JSON document.
func ParseJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("catalog: decode json: %w", err)
	}
	return &doc, nil
}

// ReadFile reads a document from disk; the format follows the extension.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("catalog: %s: unknown document format", path)
	}
}

// LoadFile reads a document from disk and loads it.
func (c *Catalog) LoadFile(path string) error {
	doc, err := ReadFile(path)
	if err != nil {
		return err
	}
	if err := c.Load(doc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// pending overlays definitions being loaded on top of the catalog.
type pending struct {
	c    *Catalog
	defs map[string]*Type
	keys map[string][]*Type
}

func (p *pending) lookupNamed(name string) *Type {
	if t, ok := p.defs[name]; ok {
		return t
	}
	return p.c.lookupNamed(name)
}

func (p *pending) simple(key string) []*Type {
	return append(append([]*Type(nil), p.keys[key]...), p.c.simple(key)...)
}

// Load adds the document's assemblies and types. Either every type is added
// or, on error, none is.
func (c *Catalog) Load(doc *Document) error {
	if errs := doc.Validate(); len(errs) > 0 {
		return errors.Join(errs...)
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	asms := make(map[string]ir.Assembly)
	var newAsms []ir.Assembly
	for _, a := range doc.Assemblies {
		asm := ir.Assembly{Name: a.Name, Version: a.Version}
		asms[a.Name] = asm
		newAsms = append(newAsms, asm)
	}
	c.mu.RLock()
	for name, a := range c.asms {
		if _, ok := asms[name]; !ok {
			asms[name] = a
		}
	}
	c.mu.RUnlock()

	p := &pending{c: c, defs: make(map[string]*Type), keys: make(map[string][]*Type)}
	types := make([]*Type, len(doc.Types))

	// Declare every type first so declarations may reference each other in
	// any order.
	for i := range doc.Types {
		spec := &doc.Types[i]
		name := spec.DefinitionName()
		if c.lookupNamed(name) != nil {
			return fmt.Errorf("catalog: type %s already defined", name)
		}
		asm, ok := asms[spec.Assembly]
		if !ok {
			return fmt.Errorf("catalog: type %s: unknown assembly %q", name, spec.Assembly)
		}
		t := &Type{
			cat:               c,
			kind:              parseKind(spec.Kind),
			name:              spec.Name,
			namespace:         spec.Namespace,
			assembly:          asm,
			primitive:         spec.Primitive,
			compilerGenerated: spec.CompilerGenerated,
			anonymous:         spec.Anonymous,
		}
		if spec.DeclaringType != "" {
			decl := p.lookupNamed(spec.DeclaringType)
			if decl == nil {
				return fmt.Errorf("catalog: type %s: unknown declaring type %q", name, spec.DeclaringType)
			}
			t.declaring = decl
			t.namespace = decl.namespace
			for _, inherited := range decl.args {
				t.args = append(t.args, &Type{
					cat:       c,
					kind:      KindGenericParameter,
					name:      inherited.name,
					namespace: t.namespace,
					assembly:  asm,
					owner:     t,
					position:  len(t.args),
					variance:  inherited.variance,
					open:      true,
				})
			}
		}
		for _, ps := range spec.TypeParameters {
			t.args = append(t.args, &Type{
				cat:       c,
				kind:      KindGenericParameter,
				name:      ps.Name,
				namespace: t.namespace,
				assembly:  asm,
				owner:     t,
				position:  len(t.args),
				variance:  parseVariance(ps.Variance),
				open:      true,
			})
		}
		t.identity = asm.Name + ":" + name
		for _, param := range t.args {
			param.identity = t.identity + "!" + param.name
		}
		if len(t.args) > 0 {
			t.def = t
			t.open = true
		}
		p.defs[name] = t
		key := simpleKey(t.name, ownArity(t))
		p.keys[key] = append(p.keys[key], t)
		types[i] = t
	}

	// Resolve declarations with each type's generic parameters in scope.
	for i := range doc.Types {
		spec := &doc.Types[i]
		t := types[i]
		scope := make(map[string]*Type, len(t.args))
		for _, param := range t.args {
			scope[param.name] = param
		}

		for _, expr := range spec.Interfaces {
			it, err := c.parse(expr, scope, t.namespace, p)
			if err != nil {
				return fmt.Errorf("catalog: type %s: interface: %w", fullName(t), err)
			}
			if it.kind != KindInterface {
				return fmt.Errorf("catalog: type %s: %s is not an interface", fullName(t), it.identity)
			}
			t.declInterfaces = append(t.declInterfaces, it)
		}

		switch {
		case spec.Base != "":
			if t.kind == KindInterface {
				return fmt.Errorf("catalog: interface %s cannot have a base type", fullName(t))
			}
			bt, err := c.parse(spec.Base, scope, t.namespace, p)
			if err != nil {
				return fmt.Errorf("catalog: type %s: base: %w", fullName(t), err)
			}
			if bt.kind != KindClass {
				return fmt.Errorf("catalog: type %s: base %s is not a class", fullName(t), bt.identity)
			}
			t.declBase = bt
		case t.kind == KindInterface, fullName(t) == objectName:
		case t.kind == KindStruct:
			t.declBase = p.lookupNamed(valueTypeName)
		case t.kind == KindEnum:
			t.declBase = p.lookupNamed(enumName)
		default:
			t.declBase = p.lookupNamed(objectName)
		}
	}

	c.register(types, newAsms)
	c.logger.Debug("catalog loaded",
		slog.Int("assemblies", len(newAsms)),
		slog.Int("types", len(types)))
	return nil
}
