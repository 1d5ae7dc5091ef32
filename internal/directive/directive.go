// Package directive parses typekit directives from Go source files.
//
// Directives are line comments in the doc comment of a type declaration:
//
//	//typekit:root
//	//typekit:skip
//
// The root directive selects the types a source scan starts from when no
// root types are given explicitly. The skip directive excludes a type from a
// scan of all exported types; it is still declared if a scanned type
// references it.
//
// A directive on a parenthesized type declaration applies to every type in
// it.
package directive

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/packages"
)

const prefix = "//typekit:"

// Directive is a parsed typekit directive.
type Directive struct {
	Kind     Kind
	TypeName string
	Pos      token.Position
}

// Kind represents the type of directive.
type Kind string

const (
	KindRoot Kind = "root"
	KindSkip Kind = "skip"
)

// ParsePackage collects the directives of every file of pkg, which must have
// been loaded with packages.NeedSyntax.
func ParsePackage(pkg *packages.Package) ([]Directive, error) {
	var all []Directive
	for _, f := range pkg.Syntax {
		directives, err := ParseFile(pkg.Fset, f)
		if err != nil {
			return nil, err
		}
		all = append(all, directives...)
	}
	return all, nil
}

// ParseFile extracts directives from a single file parsed with comments.
func ParseFile(fset *token.FileSet, f *ast.File) ([]Directive, error) {
	type pending struct {
		kind Kind
		pos  token.Position
	}
	// Directives by the end of their comment group, so they can be matched
	// to the declaration the group documents.
	byGroup := make(map[token.Pos][]pending)

	for _, cg := range f.Comments {
		for _, c := range cg.List {
			if !strings.HasPrefix(c.Text, prefix) {
				continue
			}
			fields := strings.Fields(strings.TrimPrefix(c.Text, prefix))
			pos := fset.Position(c.Pos())
			if len(fields) == 0 {
				return nil, fmt.Errorf("%s: empty %s directive", pos, prefix)
			}
			if len(fields) > 1 {
				return nil, fmt.Errorf("%s: %s%s takes no arguments", pos, prefix, fields[0])
			}
			switch kind := Kind(fields[0]); kind {
			case KindRoot, KindSkip:
				byGroup[cg.End()] = append(byGroup[cg.End()], pending{kind: kind, pos: pos})
			default:
				return nil, fmt.Errorf("%s: unknown directive %s%s", pos, prefix, fields[0])
			}
		}
	}

	var directives []Directive
	match := func(doc *ast.CommentGroup, specs []ast.Spec) {
		if doc == nil {
			return
		}
		ps, ok := byGroup[doc.End()]
		if !ok {
			return
		}
		delete(byGroup, doc.End())
		for _, p := range ps {
			for _, spec := range specs {
				directives = append(directives, Directive{
					Kind:     p.kind,
					TypeName: spec.(*ast.TypeSpec).Name.Name,
					Pos:      p.pos,
				})
			}
		}
	}
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		match(gd.Doc, gd.Specs)
		for _, spec := range gd.Specs {
			match(spec.(*ast.TypeSpec).Doc, []ast.Spec{spec})
		}
	}

	for _, ps := range byGroup {
		p := ps[0]
		return nil, fmt.Errorf("%s: %s%s directive must be followed by a type declaration", p.pos, prefix, p.kind)
	}
	return directives, nil
}
