package provider

import (
	"context"
	"fmt"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/broady/typekit/catalog"
	"github.com/broady/typekit/internal/directive"
)

// SourceProvider extracts types by analyzing Go source code.
type SourceProvider struct{}

// SourceInputOptions configures source-based type extraction.
type SourceInputOptions struct {
	// Packages are the Go package patterns to analyze.
	Packages []string

	// RootTypes are the type names to extract (e.g., "User", "Page").
	// If empty, the types marked //typekit:root are extracted. If no type is
	// marked either, all exported types in the packages not marked
	// //typekit:skip are extracted, and types that cannot be mapped are
	// skipped with a warning.
	RootTypes []string

	// Dir is the directory packages are loaded from. Defaults to the
	// current directory.
	Dir string
}

// Result is a catalog document built from Go types.
type Result struct {
	Document *catalog.Document
	Warnings []Warning
}

// BuildDocument analyzes source code and returns a catalog document declaring
// the selected types and every type they reference.
func (p *SourceProvider) BuildDocument(ctx context.Context, opts SourceInputOptions) (*Result, error) {
	if len(opts.Packages) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode: packages.NeedName |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedFiles |
			packages.NeedSyntax |
			packages.NeedModule,
	}
	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}

	b := &sourceBuilder{
		builder:  newBuilder(),
		pkgs:     pkgs,
		versions: make(map[string]string),
		declared: make(map[*types.TypeName]string),
		specs:    make(map[*types.TypeName]int),
	}
	for _, pkg := range pkgs {
		if pkg.Module != nil {
			b.versions[pkg.PkgPath] = pkg.Module.Version
		}
	}

	var marked []*types.TypeName
	skip := make(map[*types.TypeName]bool)
	for _, pkg := range pkgs {
		directives, err := directive.ParsePackage(pkg)
		if err != nil {
			return nil, err
		}
		for _, d := range directives {
			tn, ok := pkg.Types.Scope().Lookup(d.TypeName).(*types.TypeName)
			if !ok {
				// Local type declarations are not part of the scan.
				continue
			}
			switch d.Kind {
			case directive.KindRoot:
				marked = append(marked, tn)
			case directive.KindSkip:
				skip[tn] = true
			}
		}
	}

	switch {
	case len(opts.RootTypes) > 0:
		for _, name := range opts.RootTypes {
			if err := b.extractRootType(name); err != nil {
				return nil, fmt.Errorf("failed to extract root type %s: %w", name, err)
			}
		}
	case len(marked) > 0:
		for _, tn := range marked {
			named, ok := tn.Type().(*types.Named)
			if !ok {
				return nil, fmt.Errorf("%s.%s: //typekit:root on an alias", tn.Pkg().Path(), tn.Name())
			}
			if _, err := b.declare(named); err != nil {
				return nil, fmt.Errorf("failed to extract root type %s: %w", tn.Name(), err)
			}
		}
	default:
		b.extractAllExportedTypes(skip)
	}
	b.resolveImplementations()

	return &Result{Document: &b.doc, Warnings: b.warnings}, nil
}

// sourceBuilder maps go/types types onto catalog declarations.
type sourceBuilder struct {
	*builder
	pkgs     []*packages.Package
	versions map[string]string

	// declared maps type names to their catalog expression, and specs to
	// their index in the document.
	declared map[*types.TypeName]string
	specs    map[*types.TypeName]int

	// pkg is the package of the type being declared; anonymous structs are
	// declared there.
	pkg *types.Package
}

func (b *sourceBuilder) extractRootType(name string) error {
	for _, pkg := range b.pkgs {
		tn, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			return fmt.Errorf("%s is not a defined type", name)
		}
		_, err := b.declare(named)
		return err
	}
	return fmt.Errorf("type %s not found in any package", name)
}

func (b *sourceBuilder) extractAllExportedTypes(skip map[*types.TypeName]bool) {
	for _, pkg := range b.pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || skip[tn] {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok {
				continue
			}
			if _, err := b.declare(named); err != nil {
				b.warn("UNSUPPORTED_TYPE", name, "skipped %s.%s: %v", pkg.PkgPath, name, err)
			}
		}
	}
}

// declare adds the generic definition of named to the document and returns
// its qualified name.
func (b *sourceBuilder) declare(named *types.Named) (string, error) {
	obj := named.Origin().Obj()
	if name, ok := b.declared[obj]; ok {
		return name, nil
	}
	pkg := obj.Pkg()
	ns := Namespace(pkg.Path())
	qualified := ns + "." + obj.Name()

	// Registered before the spec is built so recursive types resolve.
	b.declared[obj] = qualified
	spec, err := b.buildSpec(named.Origin(), pkg, ns, qualified)
	if err != nil {
		delete(b.declared, obj)
		return "", err
	}
	b.assembly(pkg.Path(), b.versions[pkg.Path()])
	b.specs[obj] = len(b.doc.Types)
	b.add(spec)
	return qualified, nil
}

func (b *sourceBuilder) buildSpec(named *types.Named, pkg *types.Package, ns, qualified string) (catalog.TypeSpec, error) {
	outer := b.pkg
	b.pkg = pkg
	defer func() { b.pkg = outer }()

	spec := catalog.TypeSpec{
		Name:      named.Obj().Name(),
		Namespace: ns,
		Assembly:  pkg.Path(),
	}
	params := make([]string, named.TypeParams().Len())
	for i := range params {
		params[i] = named.TypeParams().At(i).Obj().Name()
		spec.TypeParameters = append(spec.TypeParameters, catalog.ParamSpec{Name: params[i]})
	}
	self := generic(qualified, params...)

	switch u := named.Underlying().(type) {
	case *types.Struct:
		spec.Kind = "struct"

	case *types.Interface:
		spec.Kind = "interface"
		for i := 0; i < u.NumEmbeddeds(); i++ {
			emb, ok := types.Unalias(u.EmbeddedType(i)).(*types.Named)
			if !ok || !types.IsInterface(emb) || emb.Obj().Pkg() == nil {
				continue
			}
			expr, err := b.expr(emb)
			if err != nil {
				return spec, err
			}
			spec.Interfaces = append(spec.Interfaces, expr)
		}
		return spec, nil

	case *types.Basic:
		spec.Kind = "struct"
		if _, ok := basicNames[u.Kind()]; !ok {
			return spec, fmt.Errorf("unsupported underlying type: %s", u)
		}
		if b.hasConstants(named) {
			spec.Kind = "enum"
		} else if u.Info()&types.IsOrdered != 0 {
			spec.Interfaces = append(spec.Interfaces, generic(comparableType, self))
		}

	case *types.Slice, *types.Array:
		elem, err := b.expr(u.(interface{ Elem() types.Type }).Elem())
		if err != nil {
			return spec, err
		}
		spec.Kind = "class"
		spec.Interfaces = listInterfaces(elem)

	case *types.Map:
		key, err := b.expr(u.Key())
		if err != nil {
			return spec, err
		}
		value, err := b.expr(u.Elem())
		if err != nil {
			return spec, err
		}
		spec.Kind = "class"
		spec.Interfaces = mapInterfaces(key, value)

	default:
		spec.Kind = "class"
	}

	if hasSelfMethod(named, "Compare", types.Typ[types.Int]) && spec.Kind != "enum" {
		spec.Interfaces = append(spec.Interfaces, generic(comparableType, self))
	}
	if hasSelfMethod(named, "Equal", types.Typ[types.Bool]) {
		spec.Interfaces = append(spec.Interfaces, generic(equatableType, self))
	}
	return spec, nil
}

// hasConstants reports whether the package of named declares constants of
// exactly that type.
func (b *sourceBuilder) hasConstants(named *types.Named) bool {
	scope := named.Obj().Pkg().Scope()
	for _, name := range scope.Names() {
		if c, ok := scope.Lookup(name).(*types.Const); ok && types.Identical(c.Type(), named) {
			return true
		}
	}
	return false
}

// hasSelfMethod reports whether named (or a pointer to it) has a method
// "name(other Self) result", like time.Time.Compare.
func hasSelfMethod(named *types.Named, name string, result types.Type) bool {
	sel := types.NewMethodSet(types.NewPointer(named)).Lookup(named.Obj().Pkg(), name)
	if sel == nil {
		return false
	}
	sig, ok := sel.Type().(*types.Signature)
	if !ok || sig.Params().Len() != 1 || sig.Results().Len() != 1 {
		return false
	}
	arg, ok := types.Unalias(sig.Params().At(0).Type()).(*types.Named)
	return ok && arg.Origin() == named.Origin() && types.Identical(sig.Results().At(0).Type(), result)
}

// resolveImplementations adds every declared non-generic interface to the
// declared non-generic types that implement it.
func (b *sourceBuilder) resolveImplementations() {
	objs := make([]*types.TypeName, 0, len(b.specs))
	for obj := range b.specs {
		objs = append(objs, obj)
	}
	sort.Slice(objs, func(i, j int) bool { return b.specs[objs[i]] < b.specs[objs[j]] })

	var ifaces []*types.Named
	for _, obj := range objs {
		named := obj.Type().(*types.Named)
		if iface, ok := named.Underlying().(*types.Interface); ok && named.TypeParams().Len() == 0 && iface.IsMethodSet() && iface.NumMethods() > 0 {
			ifaces = append(ifaces, named)
		}
	}
	for _, obj := range objs {
		named := obj.Type().(*types.Named)
		if types.IsInterface(named) || named.TypeParams().Len() > 0 {
			continue
		}
		spec := &b.doc.Types[b.specs[obj]]
		for _, iface := range ifaces {
			it := iface.Underlying().(*types.Interface)
			if !types.Implements(named, it) && !types.Implements(types.NewPointer(named), it) {
				continue
			}
			spec.Interfaces = append(spec.Interfaces, b.declared[iface.Obj()])
		}
	}
}

// expr returns the catalog type expression of t.
func (b *sourceBuilder) expr(t types.Type) (string, error) {
	switch typ := types.Unalias(t).(type) {
	case *types.Basic:
		name, ok := basicNames[typ.Kind()]
		if !ok {
			return "", fmt.Errorf("unsupported type: %s", typ)
		}
		return name, nil

	case *types.Named:
		obj := typ.Obj()
		if obj.Pkg() == nil {
			// error and comparable
			return objectType, nil
		}
		if name, ok := wellKnown[obj.Pkg().Path()+"."+obj.Name()]; ok {
			return name, nil
		}
		base, err := b.declare(typ)
		if err != nil {
			return "", err
		}
		args := make([]string, typ.TypeArgs().Len())
		for i := range args {
			if args[i], err = b.expr(typ.TypeArgs().At(i)); err != nil {
				return "", err
			}
		}
		return generic(base, args...), nil

	case *types.Pointer:
		elem, err := b.expr(typ.Elem())
		if err != nil {
			return "", err
		}
		if isValueType(typ.Elem()) {
			return nullable(elem), nil
		}
		return elem, nil

	case *types.Slice:
		elem, err := b.expr(typ.Elem())
		if err != nil {
			return "", err
		}
		return elem + "[]", nil

	case *types.Array:
		elem, err := b.expr(typ.Elem())
		if err != nil {
			return "", err
		}
		return elem + "[]", nil

	case *types.Map:
		key, err := b.expr(typ.Key())
		if err != nil {
			return "", err
		}
		value, err := b.expr(typ.Elem())
		if err != nil {
			return "", err
		}
		return generic(dictionaryType, key, value), nil

	case *types.Interface:
		return objectType, nil

	case *types.TypeParam:
		return typ.Obj().Name(), nil

	case *types.Struct:
		fields := make([]string, typ.NumFields())
		args := make([]string, typ.NumFields())
		for i := range fields {
			f := typ.Field(i)
			fields[i] = f.Name()
			expr, err := b.expr(f.Type())
			if err != nil {
				return "", fmt.Errorf("field %s: %w", f.Name(), err)
			}
			args[i] = expr
		}
		return b.anonymous(Namespace(b.pkg.Path()), b.pkg.Path(), fields, args), nil

	default:
		return "", fmt.Errorf("unsupported type: %s", t)
	}
}

// isValueType reports whether t maps to a value type.
func isValueType(t types.Type) bool {
	switch typ := types.Unalias(t).(type) {
	case *types.Basic:
		_, ok := basicNames[typ.Kind()]
		return ok && typ.Kind() != types.String
	case *types.Named:
		obj := typ.Obj()
		if obj.Pkg() == nil {
			return false
		}
		if name, ok := wellKnown[obj.Pkg().Path()+"."+obj.Name()]; ok {
			return name != "System.Uri"
		}
		switch typ.Underlying().(type) {
		case *types.Struct, *types.Basic:
			return true
		}
	}
	return false
}

var basicNames = map[types.BasicKind]string{
	types.Bool:    "System.Boolean",
	types.Int:     "System.Int64",
	types.Int8:    "System.SByte",
	types.Int16:   "System.Int16",
	types.Int32:   "System.Int32",
	types.Int64:   "System.Int64",
	types.Uint:    "System.UInt64",
	types.Uint8:   "System.Byte",
	types.Uint16:  "System.UInt16",
	types.Uint32:  "System.UInt32",
	types.Uint64:  "System.UInt64",
	types.Uintptr: "System.UInt64",
	types.Float32: "System.Single",
	types.Float64: "System.Double",
	types.String:  stringType,
}
