package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/broady/typekit"
	"github.com/broady/typekit/catalog"
)

const ordersCatalog = `
assemblies:
  - {name: Acme.Orders, version: 2.1.0.0}
types:
  - {name: Order, namespace: Acme.Orders, assembly: Acme.Orders, kind: class}
  - name: OrderList
    namespace: Acme.Orders
    assembly: Acme.Orders
    kind: class
    base: System.Collections.Generic.List<Acme.Orders.Order>
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.yaml")
	if err := os.WriteFile(path, []byte(ordersCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr, func(int) {})
	return stdout.String(), err
}

func TestRun(t *testing.T) {
	cat := writeCatalog(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"render", []string{"render", "List<int?>"}, "List<int?>\n"},
		{"render compilable", []string{"render", "--mode=compilable", "Dictionary<,>"}, "Dictionary<,>\n"},
		{"render namespace", []string{"-c", cat, "render", "--namespace", "OrderList"}, "Acme.Orders.OrderList\n"},
		{"render assembly", []string{"-c", cat, "render", "--assembly", "OrderList"}, "OrderList || Acme.Orders.OrderList => Acme.Orders (2.1.0.0)\n"},
		{"render references", []string{"render", "--references", "int?[]"}, "int?[]\n  System.Int32\n"},
		{"path", []string{"-c", cat, "path", "OrderList"}, "System.Collections.Generic.List<Acme.Orders.Order>\nobject\n"},
		{"path value type", []string{"path", "int"}, "System.ValueType\nobject\n"},
		{"assignable", []string{"-c", cat, "assignable", "OrderList", "IEnumerable<Order>"}, "true\n"},
		{"assignable relaxed", []string{"-c", cat, "assignable", "--relaxed", "OrderList", "IList<>"}, "true\n"},
		{"not assignable", []string{"assignable", "object", "string"}, "false\n"},
		{"element", []string{"-c", cat, "element", "OrderList"}, "element: Acme.Orders.Order\n"},
		{"dictionary", []string{"element", "--kind=dictionary", "Dictionary<bool, int?>"}, "key: bool\nvalue: int?\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("run(%v) error = %v", tt.args, err)
			}
			if got != tt.want {
				t.Errorf("run(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestRun_ClassifyJSON(t *testing.T) {
	out, err := runCLI(t, "-o", "json", "classify", "IReadOnlyDictionary<string, int?>")
	if err != nil {
		t.Fatalf("classify error = %v", err)
	}
	var res typekit.ClassifyResponse
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if res.Shape != "Dictionary" || !res.SystemDictionary || !res.Closed || res.Comparable {
		t.Errorf("classify = %+v", res)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unresolvable", []string{"render", "List<"}, "cannot resolve type"},
		{"not enumerable", []string{"element", "int"}, "not_supported"},
		{"bad mode", []string{"render", "--mode=pretty", "int"}, "--mode"},
		{"missing catalog", []string{"-c", "/nonexistent/catalog.yaml", "render", "int"}, "catalog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatalf("run(%v) error = nil, want error", tt.args)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("run(%v) error = %v, want it to contain %q", tt.args, err, tt.want)
			}
		})
	}
}

func TestRun_Scan(t *testing.T) {
	out := filepath.Join(t.TempDir(), "testdata.json")
	if _, err := runCLI(t, "scan", "--out", out, "--root", "Books", "github.com/broady/typekit/provider/testdata"); err != nil {
		t.Fatalf("scan error = %v", err)
	}
	doc, err := catalog.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var names []string
	for _, spec := range doc.Types {
		names = append(names, spec.Name)
	}
	if !strings.Contains(strings.Join(names, ","), "Book") {
		t.Errorf("scanned types = %v, want Book", names)
	}

	c := catalog.MustNew()
	if err := c.Load(doc); err != nil {
		t.Errorf("Load(scanned) error = %v", err)
	}
}

func TestRun_Serve(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout, stderr bytes.Buffer
	err := run(ctx, []string{"serve", "--addr", "127.0.0.1:0", "--cors-origin", "*"}, &stdout, &stderr, func(int) {})
	if err != nil {
		t.Fatalf("serve error = %v", err)
	}
	if !strings.Contains(stderr.String(), "Types.Render") {
		t.Errorf("log = %q, want the route list", stderr.String())
	}
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Errorf("version printed nothing")
	}
}
