// Package generator runs the two documentation passes: cataloguing every
// documented type, then rendering and writing one page per catalog entry.
package generator

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tender-barbarian/xmldocmd/internal/catalog"
	"github.com/tender-barbarian/xmldocmd/internal/finder"
	"github.com/tender-barbarian/xmldocmd/internal/output"
	"github.com/tender-barbarian/xmldocmd/internal/render"
	"github.com/tender-barbarian/xmldocmd/internal/symtab"
)

// Options configures a run.
type Options struct {
	BaseURI string // normalized; empty links to in-document anchors
	Render  render.Options
}

// Result summarizes a completed run.
type Result struct {
	Pages       int
	Skipped     int // types rejected by the catalog
	Diagnostics int
}

// Generator writes reference pages for a semantic model.
type Generator struct {
	sink   output.Sink
	opts   Options
	logger *log.Logger
}

// New creates a Generator writing to sink.
func New(sink output.Sink, opts Options, logger *log.Logger) *Generator {
	return &Generator{sink: sink, opts: opts, logger: logger}
}

// Catalog runs pass 1: every type in model is registered, and rejected
// types are logged and left out. It returns the number of rejected types.
func Catalog(model *symtab.Model, logger *log.Logger) (*catalog.Catalog, int) {
	cat, errs := catalog.Build(model.Types)
	for _, err := range errs {
		logger.Warn("skipping type", "err", err)
	}
	logger.Debug("catalog built", "types", cat.Len(), "skipped", len(errs))
	return cat, len(errs)
}

// Renderer returns the renderer pass 2 uses for cat.
func Renderer(cat *catalog.Catalog, opts Options) *render.Renderer {
	return render.New(finder.New(cat, opts.BaseURI), opts.Render)
}

// Run catalogs model, then renders and writes each entry in catalog order.
// Per-symbol documentation failures are logged and the run continues; the
// first write failure aborts it.
func (g *Generator) Run(model *symtab.Model) (Result, error) {
	var res Result
	cat, skipped := Catalog(model, g.logger)
	res.Skipped = skipped

	r := Renderer(cat, g.opts)
	for _, e := range cat.Entries() {
		text, diags := r.Page(e)
		for _, d := range diags {
			g.logger.Warn("can't extract documentation", "symbol", d.Symbol, "err", d.Err)
		}
		res.Diagnostics += len(diags)

		path, err := g.sink.Write(e.ID, []byte(text))
		if err != nil {
			return res, fmt.Errorf("writing %s: %w", e.ID, err)
		}
		res.Pages++
		g.logger.Info("generated", "file", path)
	}
	return res, nil
}
