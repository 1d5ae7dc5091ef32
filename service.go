package typekit

import (
	"context"
	"time"

	"github.com/broady/typekit/classify"
	"github.com/broady/typekit/ir"
	"github.com/broady/typekit/render"
)

// TypesService exposes the classifier and renderer over HTTP. Types are
// named by provider type expressions, e.g. "List<int?>".
type TypesService struct {
	p        ir.Provider
	cl       *classify.Classifier
	cacheTTL time.Duration
}

// NewTypesService returns a service answering queries against p.
func NewTypesService(p ir.Provider) *TypesService {
	return &TypesService{p: p, cl: classify.New(p)}
}

// WithCacheTTL sets the Cache-Control max-age of successful responses.
func (s *TypesService) WithCacheTTL(ttl time.Duration) *TypesService {
	s.cacheTTL = ttl
	return s
}

// Register mounts the service under /Types on app.
func (s *TypesService) Register(app *App) {
	svc := app.Service("Types")
	svc.Register("Render", Query(s.Render).CacheControl(s.cacheTTL))
	svc.Register("Classify", Query(s.Classify).CacheControl(s.cacheTTL))
	svc.Register("InheritancePath", Query(s.InheritancePath).CacheControl(s.cacheTTL))
	svc.Register("Assignable", Query(s.Assignable).CacheControl(s.cacheTTL))
	svc.Register("Element", Query(s.Element).CacheControl(s.cacheTTL))
}

// TypeRequest names a single type.
type TypeRequest struct {
	Type string `schema:"type" validate:"required,max=1024"`
}

type RenderRequest struct {
	Type string `schema:"type" validate:"required,max=1024"`

	// Mode is "readable" (the default) or "compilable".
	Mode string `schema:"mode" validate:"omitempty,oneof=readable compilable"`

	// Options is a render.Options list such as "namespace|assembly".
	// Readable mode only.
	Options string `schema:"options"`
}

type RenderResponse struct {
	Text string `json:"text" yaml:"text"`

	// References lists the distinct definitions the text mentions.
	References []string `json:"references,omitempty" yaml:"references,omitempty"`
}

func (s *TypesService) Render(ctx context.Context, req *RenderRequest) (*RenderResponse, error) {
	t, err := s.resolve(req.Type)
	if err != nil {
		return nil, err
	}

	var text string
	if req.Mode == "compilable" {
		text, err = render.ToStringCompilable(t, true)
	} else {
		opts, perr := render.ParseOptions(req.Options)
		if perr != nil {
			return nil, NewError(CodeInvalidArgument, perr.Error()).WithDetail("param", "options")
		}
		text, err = render.ToStringReadable(t, opts)
	}
	if err != nil {
		return nil, err
	}

	res := &RenderResponse{Text: text}
	seen := make(map[string]bool)
	for _, ref := range render.ReferencedTypes(t) {
		if name := ir.DefinitionName(ref); !seen[name] {
			seen[name] = true
			res.References = append(res.References, name)
		}
	}
	return res, nil
}

// ClassifyResponse holds every predicate of the classifier for one type.
type ClassifyResponse struct {
	Name                    string `json:"name" yaml:"name"`
	Shape                   string `json:"shape" yaml:"shape"`
	Open                    bool   `json:"open" yaml:"open"`
	Closed                  bool   `json:"closed" yaml:"closed"`
	OpenButNotDefinition    bool   `json:"openButNotDefinition" yaml:"openButNotDefinition"`
	Nullable                bool   `json:"nullable" yaml:"nullable"`
	AssignableToNull        bool   `json:"assignableToNull" yaml:"assignableToNull"`
	ClosedAnonymous         bool   `json:"closedAnonymous" yaml:"closedAnonymous"`
	Comparable              bool   `json:"comparable" yaml:"comparable"`
	Tuple                   bool   `json:"tuple" yaml:"tuple"`
	NonAnonymousClosedClass bool   `json:"nonAnonymousClosedClass" yaml:"nonAnonymousClosedClass"`
	SystemCollection        bool   `json:"systemCollection" yaml:"systemCollection"`
	SystemDictionary        bool   `json:"systemDictionary" yaml:"systemDictionary"`
	SystemOrdered           bool   `json:"systemOrdered" yaml:"systemOrdered"`
	SystemUnordered         bool   `json:"systemUnordered" yaml:"systemUnordered"`
}

func (s *TypesService) Classify(ctx context.Context, req *TypeRequest) (*ClassifyResponse, error) {
	t, err := s.resolve(req.Type)
	if err != nil {
		return nil, err
	}
	shape, err := s.cl.Shape(t)
	if err != nil {
		return nil, err
	}
	res := &ClassifyResponse{
		Name:  name(t),
		Shape: shape.Kind.String(),
	}
	checks := []struct {
		dst *bool
		fn  func(ir.TypeDescriptor) (bool, error)
	}{
		{&res.Open, s.cl.IsOpen},
		{&res.Closed, s.cl.IsClosed},
		{&res.OpenButNotDefinition, s.cl.IsOpenButNotDefinition},
		{&res.Nullable, s.cl.IsNullableType},
		{&res.AssignableToNull, s.cl.IsAssignableToNull},
		{&res.ClosedAnonymous, s.cl.IsClosedAnonymousType},
		{&res.Comparable, s.cl.IsComparableType},
		{&res.Tuple, s.cl.IsClosedTupleType},
		{&res.NonAnonymousClosedClass, s.cl.IsNonAnonymousClosedClassType},
		{&res.SystemCollection, s.cl.IsClosedSystemCollectionType},
		{&res.SystemDictionary, s.cl.IsClosedSystemDictionaryType},
		{&res.SystemOrdered, s.cl.IsClosedSystemOrderedCollectionType},
		{&res.SystemUnordered, s.cl.IsClosedSystemUnorderedCollectionType},
	}
	for _, c := range checks {
		if *c.dst, err = c.fn(t); err != nil {
			return nil, err
		}
	}
	return res, nil
}

type InheritancePathResponse struct {
	Path []string `json:"path" yaml:"path"`
}

func (s *TypesService) InheritancePath(ctx context.Context, req *TypeRequest) (*InheritancePathResponse, error) {
	t, err := s.resolve(req.Type)
	if err != nil {
		return nil, err
	}
	path, err := s.cl.InheritancePath(t)
	if err != nil {
		return nil, err
	}
	res := &InheritancePathResponse{Path: make([]string, len(path))}
	for i, p := range path {
		res.Path[i] = name(p)
	}
	return res, nil
}

type AssignableRequest struct {
	Type  string `schema:"type" validate:"required,max=1024"`
	Other string `schema:"other" validate:"required,max=1024"`

	// Relaxed treats a generic type definition Other as assignable from
	// any of its constructions.
	Relaxed bool `schema:"relaxed"`
}

type AssignableResponse struct {
	Assignable bool `json:"assignable" yaml:"assignable"`
}

func (s *TypesService) Assignable(ctx context.Context, req *AssignableRequest) (*AssignableResponse, error) {
	t, err := s.resolve(req.Type)
	if err != nil {
		return nil, err
	}
	other, err := s.resolve(req.Other)
	if err != nil {
		return nil, err
	}
	ok, err := s.cl.IsAssignableTo(t, other, req.Relaxed)
	if err != nil {
		return nil, err
	}
	return &AssignableResponse{Assignable: ok}, nil
}

// Element kinds accepted by ElementRequest.
const (
	ElementEnumerable       = "enumerable"
	ElementDictionary       = "dictionary"
	ElementSystemCollection = "system-collection"
	ElementSystemDictionary = "system-dictionary"
)

type ElementRequest struct {
	Type string `schema:"type" validate:"required,max=1024"`

	// Kind selects the extractor; the default is "enumerable".
	Kind string `schema:"kind" validate:"omitempty,oneof=enumerable dictionary system-collection system-dictionary"`
}

type ElementResponse struct {
	Element string `json:"element,omitempty" yaml:"element,omitempty"`
	Key     string `json:"key,omitempty" yaml:"key,omitempty"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
}

func (s *TypesService) Element(ctx context.Context, req *ElementRequest) (*ElementResponse, error) {
	t, err := s.resolve(req.Type)
	if err != nil {
		return nil, err
	}
	return Elements(s.cl, t, req.Kind)
}

// Elements runs the extractor selected by kind (see ElementRequest.Kind).
func Elements(cl *classify.Classifier, t ir.TypeDescriptor, kind string) (*ElementResponse, error) {
	var keyFn, valueFn func(ir.TypeDescriptor) (ir.TypeDescriptor, error)
	switch kind {
	case "", ElementEnumerable:
		e, err := cl.ClosedEnumerableElementType(t)
		if err != nil {
			return nil, err
		}
		return &ElementResponse{Element: name(e)}, nil
	case ElementSystemCollection:
		e, err := cl.ClosedSystemCollectionElementType(t)
		if err != nil {
			return nil, err
		}
		return &ElementResponse{Element: name(e)}, nil
	case ElementDictionary:
		keyFn, valueFn = cl.ClosedDictionaryKeyType, cl.ClosedDictionaryValueType
	case ElementSystemDictionary:
		keyFn, valueFn = cl.ClosedSystemDictionaryKeyType, cl.ClosedSystemDictionaryValueType
	default:
		return nil, Errorf(CodeInvalidArgument, "unknown element kind %q", kind).WithDetail("param", "kind")
	}
	key, err := keyFn(t)
	if err != nil {
		return nil, err
	}
	value, err := valueFn(t)
	if err != nil {
		return nil, err
	}
	return &ElementResponse{Key: name(key), Value: name(value)}, nil
}

func (s *TypesService) resolve(expr string) (ir.TypeDescriptor, error) {
	t, err := s.p.Resolve(expr)
	if err != nil {
		return nil, Errorf(CodeInvalidArgument, "cannot resolve type %q", expr).WithDetail("cause", err.Error())
	}
	return t, nil
}

// name renders t for responses. Open and anonymous types are valid here, so
// this never uses compilable mode.
func name(t ir.TypeDescriptor) string {
	s, err := render.ToStringReadable(t, render.IncludeNamespace)
	if err != nil {
		return t.Identity()
	}
	return s
}
