// Command xmldocmd generates cross-linked Markdown reference pages from the
// documentation comments of a codebase, and can serve the same catalog to
// MCP clients.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tender-barbarian/xmldocmd/internal/config"
	"github.com/tender-barbarian/xmldocmd/internal/generator"
	"github.com/tender-barbarian/xmldocmd/internal/indexer"
	"github.com/tender-barbarian/xmldocmd/internal/render"
	"github.com/tender-barbarian/xmldocmd/internal/symtab"
)

const version = "0.1.0"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := &cobra.Command{
		Use:           "xmldocmd",
		Short:         "Generate Markdown reference pages from documentation comments",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	root.AddCommand(newDocsCmd(stderr), newServeCmd(stderr))
	return root.ExecuteContext(ctx)
}

// settings collects the flags shared by docs and serve.
type settings struct {
	configPath string
	cfg        config.Config
}

func (s *settings) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&s.cfg.Path, "path", "p", config.DefaultPath, "Project root, or a model file")
	f.StringVarP(&s.cfg.BaseURI, "uri", "u", "", "Base URI for cross-reference links (default: in-document anchors)")
	f.StringVar(&s.cfg.Source, "source", config.DefaultSource, "Model source: auto, go, csharp or model")
	f.BoolVar(&s.cfg.ShowPrivate, "show-private", false, "Render private members")
	f.BoolVar(&s.cfg.ShowGetters, "show-getters", false, "Render property getter methods")
	f.BoolVar(&s.cfg.ShowSetters, "show-setters", false, "Render property setter methods")
	f.BoolVar(&s.cfg.Verbose, "verbose", false, "Log debug output")
	f.StringVar(&s.configPath, "config", "", "Path to a YAML config file")
}

// resolve layers defaults, the config file and explicitly set flags, in
// that order, and validates the result.
func (s *settings) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if s.configPath != "" {
		if err := config.LoadFile(&cfg, s.configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	overlay := []struct {
		name string
		set  func()
	}{
		{"path", func() { cfg.Path = s.cfg.Path }},
		{"output", func() { cfg.Output = s.cfg.Output }},
		{"uri", func() { cfg.BaseURI = s.cfg.BaseURI }},
		{"source", func() { cfg.Source = s.cfg.Source }},
		{"show-private", func() { cfg.ShowPrivate = s.cfg.ShowPrivate }},
		{"show-getters", func() { cfg.ShowGetters = s.cfg.ShowGetters }},
		{"show-setters", func() { cfg.ShowSetters = s.cfg.ShowSetters }},
		{"verbose", func() { cfg.Verbose = s.cfg.Verbose }},
	}
	for _, o := range overlay {
		if flags.Lookup(o.name) != nil && flags.Changed(o.name) {
			o.set()
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Level: log.InfoLevel})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadModel indexes cfg.Path with the configured provider.
func loadModel(ctx context.Context, cfg config.Config, logger *log.Logger) (*symtab.Model, error) {
	idx, err := indexer.New(cfg.Path, indexer.Source(cfg.Source))
	if err != nil {
		return nil, fmt.Errorf("creating indexer: %w", err)
	}
	if err := idx.Index(ctx); err != nil {
		return nil, fmt.Errorf("indexing %s: %w", cfg.Path, err)
	}
	logger.Debug("model loaded", "source", idx.Source(), "types", len(idx.Model().Types))
	return idx.Model(), nil
}

func generatorOptions(cfg config.Config) generator.Options {
	return generator.Options{
		BaseURI: config.NormalizeBaseURI(cfg.BaseURI),
		Render: render.Options{
			ShowPrivate: cfg.ShowPrivate,
			ShowGetters: cfg.ShowGetters,
			ShowSetters: cfg.ShowSetters,
		},
	}
}
