package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/broady/typekit/catalog"
)

type CLI struct {
	Globals

	Render     RenderCmd     `cmd:"" help:"Render a type name."`
	Classify   ClassifyCmd   `cmd:"" help:"Print every classifier predicate for a type."`
	Path       PathCmd       `cmd:"" help:"Print the inheritance path of a type."`
	Assignable AssignableCmd `cmd:"" help:"Report whether a type is assignable to another."`
	Element    ElementCmd    `cmd:"" help:"Extract the element, key or value type of a collection."`
	Scan       ScanCmd       `cmd:"" help:"Build a catalog document from Go packages."`
	Serve      ServeCmd      `cmd:"" help:"Serve the type query API over HTTP."`
	Version    VersionCmd    `cmd:"" help:"Print version information."`
}

// Globals are the flags shared by every command.
type Globals struct {
	Catalogs []string `name:"catalog" short:"c" type:"existingfile" help:"Catalog document to load on top of the system library (YAML or JSON, repeatable)."`
	Verbose  bool     `short:"v" help:"Enable debug logging."`
	Output   string   `short:"o" enum:"yaml,json" default:"yaml" help:"Output format of structured results (${enum})."`

	stdout io.Writer
	logger *slog.Logger
}

// catalog returns the system library plus every --catalog document.
func (g *Globals) catalog() (*catalog.Catalog, error) {
	c, err := catalog.New(catalog.WithLogger(g.logger))
	if err != nil {
		return nil, err
	}
	for _, path := range g.Catalogs {
		if err := c.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// print writes a structured result in the --output format.
func (g *Globals) print(v any) error {
	if g.Output == "json" {
		enc := json.NewEncoder(g.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(g.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Exit); err != nil {
		fmt.Fprintf(os.Stderr, "typekit: %v\n", err)
		os.Exit(1)
	}
}

// run parses args and runs the selected command. exit is called by --help
// and --version style flags.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, exit func(int)) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("typekit"),
		kong.Description("Classify and render catalog types."),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
		kong.UsageOnError(),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cli.stdout = stdout
	cli.logger = newLogger(stderr, cli.Verbose)

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(&cli.Globals); err != nil {
		cli.logger.Debug("command failed", slog.String("command", kctx.Command()), slog.Any("error", err))
		return err
	}
	return nil
}
