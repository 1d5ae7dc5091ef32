package catalog

import (
	"fmt"
	"strings"
	"unicode"
)

// keywords maps the built-in type keywords onto their definitions.
var keywords = map[string]string{
	"bool":    "System.Boolean",
	"byte":    "System.Byte",
	"sbyte":   "System.SByte",
	"char":    "System.Char",
	"decimal": "System.Decimal",
	"double":  "System.Double",
	"float":   "System.Single",
	"int":     "System.Int32",
	"uint":    "System.UInt32",
	"long":    "System.Int64",
	"ulong":   "System.UInt64",
	"short":   "System.Int16",
	"ushort":  "System.UInt16",
	"string":  "System.String",
	"object":  "System.Object",
}

// resolver finds definitions by name while parsing.
type resolver interface {
	lookupNamed(name string) *Type
	simple(key string) []*Type
}

func (c *Catalog) lookupNamed(name string) *Type { return c.lookup(name) }

func (c *Catalog) simple(key string) []*Type {
	ts, _ := c.lookupSimple(key)
	return ts
}

// parser reads type expressions:
//
//	type    = named { "?" | "[]" }
//	named   = segment { "+" segment | "." segment-after-args }
//	segment = ident { "." ident } [ "<" ( type { "," type } | { "," } ) ">" ]
//
// Generic definitions are written with empty argument lists ("List<>",
// "Dictionary<,>"). Identifiers may carry compiler-generated prefixes such as
// "<>f__AnonymousType0".
type parser struct {
	c         *Catalog
	src       string
	pos       int
	scope     map[string]*Type
	namespace string
	res       resolver
}

type segment struct {
	name  string
	args  []*Type
	arity int
	open  bool
}

func (c *Catalog) parse(expr string, scope map[string]*Type, namespace string, res resolver) (*Type, error) {
	p := &parser{
		c:         c,
		src:       expr,
		scope:     scope,
		namespace: namespace,
		res:       res,
	}
	p.skipSpace()
	if p.pos == len(p.src) {
		return nil, fmt.Errorf("catalog: empty type expression")
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return t, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("catalog: parse %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) accept(s string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *parser) parseType() (*Type, error) {
	t, err := p.parseNamed()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept("?"):
			n, err := p.c.MakeNullableType(t)
			if err != nil {
				return nil, p.errorf("%v", err)
			}
			t = n
		case p.accept("[]"):
			t = p.c.arrayOf(t)
		default:
			return t, nil
		}
	}
}

func (p *parser) parseNamed() (*Type, error) {
	first, err := p.parseSegment(true)
	if err != nil {
		return nil, err
	}
	segs := []segment{first}
	for {
		last := segs[len(segs)-1]
		if p.accept("+") || (last.arity > 0 && p.accept(".")) {
			seg, err := p.parseSegment(false)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
			continue
		}
		break
	}
	return p.resolve(segs)
}

func (p *parser) parseSegment(qualified bool) (segment, error) {
	var seg segment
	name, err := p.ident()
	if err != nil {
		return seg, err
	}
	for qualified && p.pos < len(p.src) && p.src[p.pos] == '.' {
		p.pos++
		next, err := p.ident()
		if err != nil {
			return seg, err
		}
		name += "." + next
	}
	seg.name = name
	if !p.accept("<") {
		return seg, nil
	}
	p.skipSpace()
	if p.pos < len(p.src) && (p.src[p.pos] == '>' || p.src[p.pos] == ',') {
		seg.open = true
		seg.arity = 1
		for p.accept(",") {
			seg.arity++
		}
		if !p.accept(">") {
			return seg, p.errorf("expected '>'")
		}
		return seg, nil
	}
	for {
		arg, err := p.parseType()
		if err != nil {
			return seg, err
		}
		seg.args = append(seg.args, arg)
		if p.accept(",") {
			continue
		}
		if p.accept(">") {
			break
		}
		return seg, p.errorf("expected ',' or '>'")
	}
	seg.arity = len(seg.args)
	return seg, nil
}

func isIdentRune(r byte) bool {
	return r == '_' || r == '`' || r == '$' || r < 0x80 && (unicode.IsLetter(rune(r)) || unicode.IsDigit(rune(r)))
}

// ident reads an identifier, including compiler-generated names that start
// with an angle-bracketed prefix like "<>f__AnonymousType0" or
// "<Name>j__TPar".
func (p *parser) ident() (string, error) {
	p.skipSpace()
	start := p.pos
	if p.pos < len(p.src) && p.src[p.pos] == '<' {
		j := p.pos + 1
		for j < len(p.src) && isIdentRune(p.src[j]) {
			j++
		}
		if j+1 < len(p.src) && p.src[j] == '>' && isIdentRune(p.src[j+1]) {
			p.pos = j + 1
		}
	}
	for p.pos < len(p.src) && isIdentRune(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected identifier")
	}
	return p.src[start:p.pos], nil
}

func (p *parser) resolve(segs []segment) (*Type, error) {
	first := segs[0]
	if len(segs) == 1 && first.arity == 0 {
		if t, ok := p.scope[first.name]; ok {
			return t, nil
		}
	}

	def, err := p.lookupFirst(first)
	if err != nil {
		return nil, err
	}
	for _, seg := range segs[1:] {
		name := fullName(def) + "+" + simpleKey(seg.name, seg.arity)
		nested := p.res.lookupNamed(name)
		if nested == nil {
			return nil, p.errorf("unknown nested type %q", name)
		}
		def = nested
	}

	var args []*Type
	open, closed := false, false
	for _, seg := range segs {
		if seg.open {
			open = true
		}
		if len(seg.args) > 0 {
			closed = true
		}
		args = append(args, seg.args...)
	}
	switch {
	case open && closed:
		return nil, p.errorf("cannot mix open and closed argument lists")
	case open || len(def.args) == 0:
		return def, nil
	case len(args) != len(def.args):
		return nil, p.errorf("%s expects %d type arguments, got %d", fullName(def), len(def.args), len(args))
	}
	return p.c.instantiate(def, args), nil
}

func (p *parser) lookupFirst(seg segment) (*Type, error) {
	name := seg.name
	if seg.arity == 0 {
		if full, ok := keywords[name]; ok {
			name = full
		}
	}
	key := simpleKey(name, seg.arity)
	if t := p.res.lookupNamed(key); t != nil {
		return t, nil
	}
	if p.namespace != "" {
		if t := p.res.lookupNamed(p.namespace + "." + key); t != nil {
			return t, nil
		}
	}
	if strings.Contains(name, ".") {
		return nil, p.errorf("unknown type %q", key)
	}
	switch ts := p.res.simple(key); len(ts) {
	case 0:
		return nil, p.errorf("unknown type %q", key)
	case 1:
		return ts[0], nil
	default:
		names := make([]string, len(ts))
		for i, t := range ts {
			names[i] = fullName(t)
		}
		return nil, p.errorf("ambiguous type %q: %s", key, strings.Join(names, ", "))
	}
}
