package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/broady/typekit"
	"github.com/broady/typekit/middleware"
	"github.com/broady/typekit/provider"
)

type RenderCmd struct {
	Type       string `arg:"" help:"Type expression, e.g. 'List<int?>'."`
	Mode       string `enum:"readable,compilable" default:"readable" help:"Rendering mode (${enum})."`
	Namespace  bool   `help:"Qualify names with their namespace (readable mode)."`
	Assembly   bool   `help:"Append the referenced definitions and their assemblies (readable mode)."`
	References bool   `help:"Also print the referenced definitions, one per line."`
}

func (c *RenderCmd) Run(g *Globals, ctx context.Context) error {
	var opts []string
	if c.Namespace {
		opts = append(opts, "namespace")
	}
	if c.Assembly {
		opts = append(opts, "assembly")
	}
	svc, err := g.service()
	if err != nil {
		return err
	}
	res, err := svc.Render(ctx, &typekit.RenderRequest{
		Type:    c.Type,
		Mode:    c.Mode,
		Options: strings.Join(opts, "|"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(g.stdout, res.Text)
	if c.References {
		for _, ref := range res.References {
			fmt.Fprintln(g.stdout, "  "+ref)
		}
	}
	return nil
}

type ClassifyCmd struct {
	Type string `arg:"" help:"Type expression."`
}

func (c *ClassifyCmd) Run(g *Globals, ctx context.Context) error {
	svc, err := g.service()
	if err != nil {
		return err
	}
	res, err := svc.Classify(ctx, &typekit.TypeRequest{Type: c.Type})
	if err != nil {
		return err
	}
	return g.print(res)
}

type PathCmd struct {
	Type string `arg:"" help:"Type expression."`
}

func (c *PathCmd) Run(g *Globals, ctx context.Context) error {
	svc, err := g.service()
	if err != nil {
		return err
	}
	res, err := svc.InheritancePath(ctx, &typekit.TypeRequest{Type: c.Type})
	if err != nil {
		return err
	}
	for _, p := range res.Path {
		fmt.Fprintln(g.stdout, p)
	}
	return nil
}

type AssignableCmd struct {
	Type    string `arg:"" help:"Source type expression."`
	Other   string `arg:"" help:"Target type expression."`
	Relaxed bool   `help:"Treat a generic type definition target as assignable from its constructions."`
}

func (c *AssignableCmd) Run(g *Globals, ctx context.Context) error {
	svc, err := g.service()
	if err != nil {
		return err
	}
	res, err := svc.Assignable(ctx, &typekit.AssignableRequest{Type: c.Type, Other: c.Other, Relaxed: c.Relaxed})
	if err != nil {
		return err
	}
	fmt.Fprintln(g.stdout, res.Assignable)
	return nil
}

type ElementCmd struct {
	Type string `arg:"" help:"Type expression."`
	Kind string `enum:"enumerable,dictionary,system-collection,system-dictionary" default:"enumerable" help:"Extractor to run (${enum})."`
}

func (c *ElementCmd) Run(g *Globals, ctx context.Context) error {
	svc, err := g.service()
	if err != nil {
		return err
	}
	res, err := svc.Element(ctx, &typekit.ElementRequest{Type: c.Type, Kind: c.Kind})
	if err != nil {
		return err
	}
	return g.print(res)
}

type ScanCmd struct {
	Packages []string `arg:"" help:"Go package patterns to scan."`
	Root     []string `help:"Only declare these types and what they reference (repeatable). Defaults to types marked //typekit:root, then to all exported types."`
	Dir      string   `type:"existingdir" help:"Directory to load packages from."`
	Out      string   `help:"Write the document to this file instead of stdout; the extension selects the format."`
}

func (c *ScanCmd) Run(g *Globals, ctx context.Context) error {
	res, err := (&provider.SourceProvider{}).BuildDocument(ctx, provider.SourceInputOptions{
		Packages:  c.Packages,
		RootTypes: c.Root,
		Dir:       c.Dir,
	})
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		g.logger.Warn(w.Message, slog.String("code", w.Code), slog.String("type", w.TypeName))
	}
	g.logger.Debug("scanned packages",
		slog.Int("assemblies", len(res.Document.Assemblies)),
		slog.Int("types", len(res.Document.Types)))

	if c.Out == "" {
		return g.print(res.Document)
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(c.Out)) {
	case ".json":
		data, err = json.MarshalIndent(res.Document, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(res.Document)
	default:
		return fmt.Errorf("%s: unknown document format, want .yaml, .yml or .json", c.Out)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(c.Out, data, 0o644)
}

type ServeCmd struct {
	Addr               string        `default:"localhost:8080" help:"Address to listen on."`
	CORSOrigin         []string      `name:"cors-origin" help:"Allowed CORS origin (repeatable, '*' for any). CORS is off if unset."`
	MaskInternalErrors bool          `help:"Hide the message of internal errors from clients."`
	CacheTTL           time.Duration `name:"cache-ttl" default:"0s" help:"Cache-Control max-age of successful responses."`
}

func (c *ServeCmd) Run(g *Globals, ctx context.Context) error {
	cat, err := g.catalog()
	if err != nil {
		return err
	}

	app := typekit.NewApp().
		WithLogger(g.logger).
		WithUnaryInterceptor(middleware.LoggingInterceptor(g.logger))
	if c.MaskInternalErrors {
		app.WithMaskInternalErrors()
	}
	if len(c.CORSOrigin) > 0 {
		app.WithMiddleware(middleware.CORS(&middleware.CORSConfig{AllowOrigins: c.CORSOrigin}))
	}
	typekit.NewTypesService(cat).WithCacheTTL(c.CacheTTL).Register(app)

	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.logger.Info("serving",
		slog.String("addr", ln.Addr().String()),
		slog.Any("routes", app.Routes()),
		slog.Int("types", len(cat.Names())))

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	g.logger.Info("server stopped")
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintln(g.stdout, Version())
	return nil
}

// service returns a TypesService over the loaded catalogs.
func (g *Globals) service() (*typekit.TypesService, error) {
	cat, err := g.catalog()
	if err != nil {
		return nil, err
	}
	return typekit.NewTypesService(cat), nil
}
