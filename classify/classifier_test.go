package classify

import (
	"errors"
	"testing"

	"github.com/broady/typekit/catalog"
	"github.com/broady/typekit/internal/testfixtures"
	"github.com/broady/typekit/ir"
)

func setup(t *testing.T) (*Classifier, *catalog.Catalog) {
	t.Helper()
	cat := testfixtures.Catalog(t)
	return New(cat), cat
}

func wantError(t *testing.T, err error, code ir.ErrorCode, param, message string) {
	t.Helper()
	var e *ir.Error
	if !errors.As(err, &e) {
		t.Fatalf("error = %v, want *ir.Error", err)
	}
	if e.Code != code {
		t.Errorf("error code = %q, want %q", e.Code, code)
	}
	if e.Param != param {
		t.Errorf("error param = %q, want %q", e.Param, param)
	}
	if message != "" && e.Message != message {
		t.Errorf("error message = %q, want %q", e.Message, message)
	}
}

func TestClosedEnumerableElementType(t *testing.T) {
	c, cat := setup(t)
	tests := []struct {
		expr string
		want string
	}{
		{"List<string>", "string"},
		{"IEnumerable<int?>", "int?"},
		{"int[]", "int"},
		{"DateTime[][]", "DateTime[]"},
		{"string", "char"},
		{"Dictionary<bool, int?>", "KeyValuePair<bool, int?>"},
		{"IReadOnlyDictionary<string, DateTime>", "KeyValuePair<string, DateTime>"},
		{"NonGenericClassCollection", "string"},
		{"DerivedClassIList<Guid>", "Guid"},
		{"GenericClassList<TestClass>", "TestClass"},
		{"INonGenericIReadOnlyCollection", "string"},
		{"INonGenericIReadOnlyDictionary", "KeyValuePair<int, DateTime>"},
		{"IGenericIReadOnlyCollection<short>", "short"},
		{"System.Collections.IList", "object"},
		{"System.Array", "object"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := c.ClosedEnumerableElementType(testfixtures.Resolve(t, cat, tt.expr))
			if err != nil {
				t.Fatalf("ClosedEnumerableElementType() error = %v", err)
			}
			if want := testfixtures.Resolve(t, cat, tt.want); !ir.SameType(got, want) {
				t.Errorf("ClosedEnumerableElementType() = %v, want %v", got, want)
			}
		})
	}
}

func TestClosedEnumerableElementType_NotSupported(t *testing.T) {
	c, cat := setup(t)
	derivedBase := testfixtures.Resolve(t, cat, "DerivedGenericClass<>").BaseType()
	tests := []struct {
		name string
		typ  ir.TypeDescriptor
	}{
		{"definition", testfixtures.Resolve(t, cat, "List<>")},
		{"open constructed", derivedBase},
		{"generic parameter", testfixtures.Param(t, cat, "List<>", 0)},
		{"value type", testfixtures.Resolve(t, cat, "int")},
		{"class", testfixtures.Resolve(t, cat, "TestClass")},
		{"ambiguous sequences", testfixtures.Resolve(t, cat, "MultiSequenceClass")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ClosedEnumerableElementType(tt.typ)
			wantError(t, err, ir.CodeNotSupported, "type", "Specified type is not a closed Enumerable type.")
			if !errors.Is(err, ir.ErrNotSupported) {
				t.Errorf("errors.Is(err, ErrNotSupported) = false")
			}
		})
	}
}

func TestClosedDictionaryTypes(t *testing.T) {
	c, cat := setup(t)
	tests := []struct {
		expr  string
		key   string
		value string
	}{
		{"Dictionary<bool, int?>", "bool", "int?"},
		{"IDictionary<string, TestClass>", "string", "TestClass"},
		{"ConcurrentDictionary<Guid, long>", "Guid", "long"},
		{"NonGenericDictionaryClass", "string", "int?"},
		{"DerivedClassIDictionary<int, string>", "int", "string"},
		{"GenericClassDictionary<DateTime, bool>", "DateTime", "bool"},
		{"IGenericIReadOnlyDictionary<Guid, bool>", "Guid", "bool"},
		{"INonGenericIReadOnlyDictionary", "int", "DateTime"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			typ := testfixtures.Resolve(t, cat, tt.expr)
			key, err := c.ClosedDictionaryKeyType(typ)
			if err != nil {
				t.Fatalf("ClosedDictionaryKeyType() error = %v", err)
			}
			if want := testfixtures.Resolve(t, cat, tt.key); !ir.SameType(key, want) {
				t.Errorf("ClosedDictionaryKeyType() = %v, want %v", key, want)
			}
			value, err := c.ClosedDictionaryValueType(typ)
			if err != nil {
				t.Fatalf("ClosedDictionaryValueType() error = %v", err)
			}
			if want := testfixtures.Resolve(t, cat, tt.value); !ir.SameType(value, want) {
				t.Errorf("ClosedDictionaryValueType() = %v, want %v", value, want)
			}
		})
	}

	for _, expr := range []string{"List<string>", "Dictionary<,>", "string", "IEnumerable<KeyValuePair<int, int>>"} {
		t.Run("not supported/"+expr, func(t *testing.T) {
			typ := testfixtures.Resolve(t, cat, expr)
			_, err := c.ClosedDictionaryKeyType(typ)
			wantError(t, err, ir.CodeNotSupported, "type", "Specified type is not a closed Dictionary type.")
			_, err = c.ClosedDictionaryValueType(typ)
			wantError(t, err, ir.CodeNotSupported, "type", "Specified type is not a closed Dictionary type.")
		})
	}
}

func TestSystemCollectionPredicates(t *testing.T) {
	c, cat := setup(t)
	tests := []struct {
		expr       string
		collection bool
		ordered    bool
		unordered  bool
		dictionary bool
	}{
		{"Collection<string>", true, true, false, false},
		{"ReadOnlyCollection<int>", true, true, false, false},
		{"List<>", true, true, false, false},
		{"List<string>", true, true, false, false},
		{"IList<int>", true, true, false, false},
		{"IReadOnlyList<>", true, true, false, false},
		{"ICollection<string>", true, false, true, false},
		{"IReadOnlyCollection<>", true, false, true, false},
		{"Dictionary<string, int>", false, false, false, true},
		{"Dictionary<,>", false, false, false, true},
		{"IDictionary<string, int>", false, false, false, true},
		{"IReadOnlyDictionary<,>", false, false, false, true},
		{"ReadOnlyDictionary<string, int>", false, false, false, true},
		{"ConcurrentDictionary<,>", false, false, false, true},
		{"GenericClassList<string>", false, false, false, false},
		{"GenericClassDictionary<string, int>", false, false, false, false},
		{"IEnumerable<string>", false, false, false, false},
		{"HashSet<int>", false, false, false, false},
		{"int[]", false, false, false, false},
		{"string", false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			typ := testfixtures.Resolve(t, cat, tt.expr)
			checks := []struct {
				name string
				fn   func(ir.TypeDescriptor) (bool, error)
				want bool
			}{
				{"IsClosedSystemCollectionType", c.IsClosedSystemCollectionType, tt.collection},
				{"IsClosedSystemOrderedCollectionType", c.IsClosedSystemOrderedCollectionType, tt.ordered},
				{"IsClosedSystemUnorderedCollectionType", c.IsClosedSystemUnorderedCollectionType, tt.unordered},
				{"IsClosedSystemDictionaryType", c.IsClosedSystemDictionaryType, tt.dictionary},
			}
			for _, check := range checks {
				got, err := check.fn(typ)
				if err != nil {
					t.Fatalf("%s() error = %v", check.name, err)
				}
				if got != check.want {
					t.Errorf("%s() = %v, want %v", check.name, got, check.want)
				}
			}
		})
	}
}

func TestClosedSystemElementTypes(t *testing.T) {
	c, cat := setup(t)

	elemTests := []struct {
		expr string
		want string
	}{
		{"List<int?>", "int?"},
		{"ReadOnlyCollection<string>", "string"},
		{"IReadOnlyCollection<Guid>", "Guid"},
		{"ICollection<List<int>>", "List<int>"},
	}
	for _, tt := range elemTests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := c.ClosedSystemCollectionElementType(testfixtures.Resolve(t, cat, tt.expr))
			if err != nil {
				t.Fatalf("ClosedSystemCollectionElementType() error = %v", err)
			}
			if want := testfixtures.Resolve(t, cat, tt.want); !ir.SameType(got, want) {
				t.Errorf("ClosedSystemCollectionElementType() = %v, want %v", got, want)
			}
		})
	}
	for _, expr := range []string{"List<>", "GenericClassList<string>", "Dictionary<string, int>", "int[]"} {
		t.Run("not supported/"+expr, func(t *testing.T) {
			_, err := c.ClosedSystemCollectionElementType(testfixtures.Resolve(t, cat, expr))
			wantError(t, err, ir.CodeNotSupported, "type", "Specified type is not a closed System Collection type.")
		})
	}

	dict := testfixtures.Resolve(t, cat, "ReadOnlyDictionary<string, int?>")
	key, err := c.ClosedSystemDictionaryKeyType(dict)
	if err != nil {
		t.Fatalf("ClosedSystemDictionaryKeyType() error = %v", err)
	}
	if want := testfixtures.Resolve(t, cat, "string"); !ir.SameType(key, want) {
		t.Errorf("ClosedSystemDictionaryKeyType() = %v, want %v", key, want)
	}
	value, err := c.ClosedSystemDictionaryValueType(dict)
	if err != nil {
		t.Fatalf("ClosedSystemDictionaryValueType() error = %v", err)
	}
	if want := testfixtures.Resolve(t, cat, "int?"); !ir.SameType(value, want) {
		t.Errorf("ClosedSystemDictionaryValueType() = %v, want %v", value, want)
	}
	for _, expr := range []string{"Dictionary<,>", "NonGenericDictionaryClass", "List<string>"} {
		t.Run("not supported/"+expr, func(t *testing.T) {
			typ := testfixtures.Resolve(t, cat, expr)
			_, err := c.ClosedSystemDictionaryKeyType(typ)
			wantError(t, err, ir.CodeNotSupported, "type", "Specified type is not a closed System Dictionary type.")
			_, err = c.ClosedSystemDictionaryValueType(typ)
			wantError(t, err, ir.CodeNotSupported, "type", "Specified type is not a closed System Dictionary type.")
		})
	}
}

func TestInheritancePath(t *testing.T) {
	c, cat := setup(t)
	tests := []struct {
		expr string
		want []string
	}{
		{"object", nil},
		{"int", []string{"ValueType", "object"}},
		{"Guid", []string{"ValueType", "object"}},
		{"int?", []string{"ValueType", "object"}},
		{"TestStruct", []string{"ValueType", "object"}},
		{"DayOfWeek", []string{"System.Enum", "ValueType", "object"}},
		{"TestEnum", []string{"System.Enum", "ValueType", "object"}},
		{"TestEnum?", []string{"System.Enum", "ValueType", "object"}},
		{"Guid?", []string{"ValueType", "object"}},
		{"TestStruct?", []string{"ValueType", "object"}},
		{"int[]", []string{"System.Array", "object"}},
		{"TestClass[]", []string{"System.Array", "object"}},
		{"IList<int>", nil},
		{"ITestInterface", nil},
		{"string", []string{"object"}},
		{"TestClass", []string{"object"}},
		{"DerivedClassIList<string>", []string{"BaseClassIList<string>", "object"}},
		{"NonGenericClassCollection", []string{"Collection<string>", "object"}},
		{"GenericClassList<int>", []string{"List<int>", "object"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := c.InheritancePath(testfixtures.Resolve(t, cat, tt.expr))
			if err != nil {
				t.Fatalf("InheritancePath() error = %v", err)
			}
			if got == nil {
				t.Fatalf("InheritancePath() = nil, want non-nil slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("InheritancePath() = %v, want %v", got, tt.want)
			}
			for i, expr := range tt.want {
				if want := testfixtures.Resolve(t, cat, expr); !ir.SameType(got[i], want) {
					t.Errorf("InheritancePath()[%d] = %v, want %v", i, got[i], want)
				}
			}
		})
	}
}

func TestInheritancePath_GenericDefinition(t *testing.T) {
	c, cat := setup(t)
	def := testfixtures.Resolve(t, cat, "DerivedClassIList<>")
	got, err := c.InheritancePath(def)
	if err != nil {
		t.Fatalf("InheritancePath() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("InheritancePath() = %v, want 2 entries", got)
	}
	if !ir.SameType(got[0], def.BaseType()) {
		t.Errorf("InheritancePath()[0] = %v, want the host base type %v", got[0], def.BaseType())
	}
	if got[0].IsGenericTypeDefinition() {
		t.Errorf("InheritancePath()[0] is a generic type definition, want open constructed type")
	}
	if !ir.SameType(got[0].GenericTypeDefinition(), testfixtures.Resolve(t, cat, "BaseClassIList<>")) {
		t.Errorf("InheritancePath()[0] definition = %v, want BaseClassIList<>", got[0].GenericTypeDefinition())
	}
	if !ir.SameType(got[1], cat.Root(ir.RootObject)) {
		t.Errorf("InheritancePath()[1] = %v, want object", got[1])
	}

	param := testfixtures.Param(t, cat, "BaseGenericClass<,>", 0)
	path, err := c.InheritancePath(param)
	if err != nil {
		t.Fatalf("InheritancePath(TBase1) error = %v", err)
	}
	if len(path) != 1 || !ir.SameType(path[0], cat.Root(ir.RootObject)) {
		t.Errorf("InheritancePath(TBase1) = %v, want [object]", path)
	}
}

func TestIsAssignableTo(t *testing.T) {
	c, cat := setup(t)
	tests := []struct {
		typ     string
		other   string
		relaxed bool
		want    bool
	}{
		{"string", "object", false, true},
		{"TestClass", "TestClass", false, true},
		{"int", "int?", false, true},
		{"int?", "int", false, false},
		{"List<string>", "System.Collections.IList", false, true},
		{"List<string>", "IList<string>", false, true},
		{"List<string>", "List<object>", false, false},
		{"List<string>", "IList<object>", false, false},
		{"List<string>", "IEnumerable<object>", false, true},
		{"List<string>", "List<>", false, false},
		{"List<string>", "List<>", true, true},
		{"List<string>", "IList<>", false, false},
		{"List<string>", "IList<>", true, true},
		{"List<string>", "IEnumerable<>", true, true},
		{"List<string>", "Dictionary<,>", true, false},
		{"IEnumerable<string>", "IList<>", true, false},
		{"DerivedClassIList<string>", "BaseClassIList<>", false, false},
		{"DerivedClassIList<string>", "BaseClassIList<>", true, true},
		{"DerivedClassIList<string>", "ICollection<>", true, true},
		{"GenericClassList<string>", "List<>", false, false},
		{"GenericClassList<string>", "List<>", true, true},
		{"DerivedGenericClass<int>", "BaseGenericClass<,>", true, true},
		{"DerivedGenericClass<int>", "BaseGenericClass<string, int>", false, true},
		{"DerivedGenericClass<int>", "BaseGenericClass<int, int>", false, false},
		{"int[]", "IList<>", true, true},
	}
	for _, tt := range tests {
		name := tt.typ + " -> " + tt.other
		if tt.relaxed {
			name += " (relaxed)"
		}
		t.Run(name, func(t *testing.T) {
			got, err := c.IsAssignableTo(testfixtures.Resolve(t, cat, tt.typ), testfixtures.Resolve(t, cat, tt.other), tt.relaxed)
			if err != nil {
				t.Fatalf("IsAssignableTo() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsAssignableTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAssignableTo_Errors(t *testing.T) {
	c, cat := setup(t)
	closed := testfixtures.Resolve(t, cat, "List<string>")
	openConstructed := testfixtures.Resolve(t, cat, "DerivedGenericClass<>").BaseType()

	_, err := c.IsAssignableTo(nil, closed, false)
	wantError(t, err, ir.CodeInvalidArgument, "type", "")
	_, err = c.IsAssignableTo(closed, nil, false)
	wantError(t, err, ir.CodeInvalidArgument, "otherType", "")

	_, err = c.IsAssignableTo(testfixtures.Resolve(t, cat, "List<>"), closed, true)
	wantError(t, err, ir.CodeNotSupported, "type",
		"Parameter 'type' is an open type; open types are not supported for that parameter.")
	_, err = c.IsAssignableTo(openConstructed, closed, true)
	wantError(t, err, ir.CodeNotSupported, "type",
		"Parameter 'type' is an open type; open types are not supported for that parameter.")

	_, err = c.IsAssignableTo(closed, openConstructed, true)
	wantError(t, err, ir.CodeNotSupported, "otherType",
		"Parameter 'otherType' is an open type, but not a generic type definition; the only open types that are supported are generic type definitions for that parameter.")
	_, err = c.IsAssignableTo(closed, testfixtures.Param(t, cat, "List<>", 0), true)
	wantError(t, err, ir.CodeNotSupported, "otherType", "")
}

func TestIsAssignableTo_Laws(t *testing.T) {
	c, cat := setup(t)
	exprs := []string{
		"int", "int?", "string", "object", "TestClass", "TestStruct", "Guid[]",
		"List<int?>", "Dictionary<string, List<int>>", "DerivedGenericClass<int>",
		"ValueTuple<string, int>", "<>f__AnonymousType1<int>", "DerivedGenericClass<bool>.NestedInDerivedGeneric",
	}
	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			typ := testfixtures.Resolve(t, cat, expr)
			got, err := c.IsAssignableTo(typ, typ, false)
			if err != nil || !got {
				t.Errorf("IsAssignableTo(T, T, false) = %v, %v; want true", got, err)
			}
			if !typ.IsGenericType() {
				return
			}
			def := typ.GenericTypeDefinition()
			if got, err := c.IsAssignableTo(typ, def, true); err != nil || !got {
				t.Errorf("IsAssignableTo(T, def, true) = %v, %v; want true", got, err)
			}
			if got, err := c.IsAssignableTo(typ, def, false); err != nil || got {
				t.Errorf("IsAssignableTo(T, def, false) = %v, %v; want false", got, err)
			}
		})
	}
}

func TestNullablePredicates(t *testing.T) {
	c, cat := setup(t)
	tests := []struct {
		expr           string
		nullable       bool
		assignableNull bool
	}{
		{"int", false, false},
		{"int?", true, true},
		{"Guid?", true, true},
		{"string", false, true},
		{"object", false, true},
		{"TestClass", false, true},
		{"IList<int>", false, true},
		{"int[]", false, true},
		{"TestStruct", false, false},
		{"TestEnum", false, false},
		{"TestEnum?", true, true},
		{"ValueTuple<string, int>", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			typ := testfixtures.Resolve(t, cat, tt.expr)
			if got, err := c.IsNullableType(typ); err != nil || got != tt.nullable {
				t.Errorf("IsNullableType() = %v, %v; want %v", got, err, tt.nullable)
			}
			if got, err := c.IsAssignableToNull(typ); err != nil || got != tt.assignableNull {
				t.Errorf("IsAssignableToNull() = %v, %v; want %v", got, err, tt.assignableNull)
			}
		})
	}
}

func TestAnonymousPredicates(t *testing.T) {
	c, cat := setup(t)
	tests := []struct {
		expr          string
		anonymous     bool
		nonAnonClosed bool
	}{
		{"<>f__AnonymousType0<bool, <>f__AnonymousType1<int>>", true, false},
		{"<>f__AnonymousType1<string>", true, false},
		{"<>f__AnonymousType2", true, false},
		{"<>f__AnonymousType0<,>", false, false},
		{"<>c__DisplayClass0_0", false, true},
		{"List<<>f__AnonymousType2>", false, true},
		{"TestClass", false, true},
		{"string", false, true},
		{"int[]", false, true},
		{"List<string>", false, true},
		{"Dictionary<string, string>", false, true},
		{"List<>", false, false},
		{"Dictionary<,>", false, false},
		{"IList<int>", false, false},
		{"ITestInterface", false, false},
		{"int", false, false},
		{"TestStruct", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			typ := testfixtures.Resolve(t, cat, tt.expr)
			if got, err := c.IsClosedAnonymousType(typ); err != nil || got != tt.anonymous {
				t.Errorf("IsClosedAnonymousType() = %v, %v; want %v", got, err, tt.anonymous)
			}
			if got, err := c.IsClosedAnonymousTypeFastCheck(typ); err != nil || got != tt.anonymous {
				t.Errorf("IsClosedAnonymousTypeFastCheck() = %v, %v; want %v", got, err, tt.anonymous)
			}
			if got, err := c.IsNonAnonymousClosedClassType(typ); err != nil || got != tt.nonAnonClosed {
				t.Errorf("IsNonAnonymousClosedClassType() = %v, %v; want %v", got, err, tt.nonAnonClosed)
			}
		})
	}
}

func TestIsComparableType(t *testing.T) {
	c, cat := setup(t)
	tests := []struct {
		expr string
		want bool
	}{
		{"int", true},
		{"int?", true},
		{"Guid", true},
		{"Guid?", true},
		{"bool", true},
		{"bool?", true},
		{"DateTime", true},
		{"DateTime?", true},
		{"decimal", true},
		{"string", true},
		{"DayOfWeek", true},
		{"DayOfWeek?", true},
		{"ComparableClass", true},
		{"NonComparableClass", false},
		{"TestClass", false},
		{"TestStruct", false},
		{"object", false},
		{"List<int>", false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := c.IsComparableType(testfixtures.Resolve(t, cat, tt.expr))
			if err != nil {
				t.Fatalf("IsComparableType() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsComparableType() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := IsComparableTypeOf[int](c); !errors.Is(err, ir.ErrNotSupported) {
		t.Errorf("IsComparableTypeOf[int]() over a catalog error = %v, want ErrNotSupported", err)
	}
}

func TestOpennessAndTuples(t *testing.T) {
	c, cat := setup(t)
	tests := []struct {
		typ                  ir.TypeDescriptor
		name                 string
		open                 bool
		openButNotDefinition bool
		tuple                bool
	}{
		{testfixtures.Resolve(t, cat, "int"), "int", false, false, false},
		{testfixtures.Resolve(t, cat, "List<>"), "List<>", true, false, false},
		{testfixtures.Resolve(t, cat, "DerivedGenericClass<>").BaseType(), "BaseGenericClass<string, TDerived>", true, true, false},
		{testfixtures.Param(t, cat, "List<>", 0), "T", true, true, false},
		{testfixtures.Resolve(t, cat, "List<>").GenericArguments()[0], "T (args)", true, true, false},
		{testfixtures.Resolve(t, cat, "ValueTuple<string, int>"), "ValueTuple<string, int>", false, false, true},
		{testfixtures.Resolve(t, cat, "Tuple<int>"), "Tuple<int>", false, false, true},
		{testfixtures.Resolve(t, cat, "ValueTuple<,>"), "ValueTuple<,>", true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := c.IsOpen(tt.typ); got != tt.open {
				t.Errorf("IsOpen() = %v, want %v", got, tt.open)
			}
			if got, _ := c.IsClosed(tt.typ); got == tt.open {
				t.Errorf("IsClosed() = %v, want %v", got, !tt.open)
			}
			if got, _ := c.IsOpenButNotDefinition(tt.typ); got != tt.openButNotDefinition {
				t.Errorf("IsOpenButNotDefinition() = %v, want %v", got, tt.openButNotDefinition)
			}
			if got, _ := c.IsClosedTupleType(tt.typ); got != tt.tuple {
				t.Errorf("IsClosedTupleType() = %v, want %v", got, tt.tuple)
			}
		})
	}
}

func TestNilArguments(t *testing.T) {
	c, _ := setup(t)
	preds := map[string]func(ir.TypeDescriptor) (bool, error){
		"IsOpen":                                c.IsOpen,
		"IsClosed":                              c.IsClosed,
		"IsOpenButNotDefinition":                c.IsOpenButNotDefinition,
		"IsAssignableToNull":                    c.IsAssignableToNull,
		"IsClosedAnonymousType":                 c.IsClosedAnonymousType,
		"IsClosedAnonymousTypeFastCheck":        c.IsClosedAnonymousTypeFastCheck,
		"IsComparableType":                      c.IsComparableType,
		"IsNonAnonymousClosedClassType":         c.IsNonAnonymousClosedClassType,
		"IsNullableType":                        c.IsNullableType,
		"IsClosedTupleType":                     c.IsClosedTupleType,
		"IsClosedSystemCollectionType":          c.IsClosedSystemCollectionType,
		"IsClosedSystemDictionaryType":          c.IsClosedSystemDictionaryType,
		"IsClosedSystemOrderedCollectionType":   c.IsClosedSystemOrderedCollectionType,
		"IsClosedSystemUnorderedCollectionType": c.IsClosedSystemUnorderedCollectionType,
	}
	for name, fn := range preds {
		t.Run(name, func(t *testing.T) {
			_, err := fn(nil)
			wantError(t, err, ir.CodeInvalidArgument, "type", "Value cannot be null. Parameter name: type")
		})
	}

	extractors := map[string]func(ir.TypeDescriptor) (ir.TypeDescriptor, error){
		"ClosedEnumerableElementType":       c.ClosedEnumerableElementType,
		"ClosedDictionaryKeyType":           c.ClosedDictionaryKeyType,
		"ClosedDictionaryValueType":         c.ClosedDictionaryValueType,
		"ClosedSystemCollectionElementType": c.ClosedSystemCollectionElementType,
		"ClosedSystemDictionaryKeyType":     c.ClosedSystemDictionaryKeyType,
		"ClosedSystemDictionaryValueType":   c.ClosedSystemDictionaryValueType,
	}
	for name, fn := range extractors {
		t.Run(name, func(t *testing.T) {
			_, err := fn(nil)
			wantError(t, err, ir.CodeInvalidArgument, "type", "")
			if !errors.Is(err, ir.ErrInvalidArgument) {
				t.Errorf("errors.Is(err, ErrInvalidArgument) = false")
			}
		})
	}

	if _, err := c.InheritancePath(nil); err == nil {
		t.Errorf("InheritancePath(nil) error = nil")
	}
	if _, err := c.Shape(nil); err == nil {
		t.Errorf("Shape(nil) error = nil")
	}
}
