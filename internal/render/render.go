// Package render turns catalog entries into Markdown reference pages.
package render

import (
	"strings"
	"sync"

	"github.com/tender-barbarian/xmldocmd/internal/doccomment"
	"github.com/tender-barbarian/xmldocmd/internal/finder"
)

// Options holds the member skip rules. The zero value skips private members,
// getters and setters.
type Options struct {
	ShowPrivate bool
	ShowGetters bool
	ShowSetters bool
}

// Diagnostic reports a symbol whose documentation could not be parsed.
type Diagnostic struct {
	Symbol string
	Err    error
}

type parsed struct {
	summary doccomment.Group
	err     error
}

// Renderer renders pages for a frozen Catalog. Parse results are memoized
// per symbol, so each malformed symbol is diagnosed once per Renderer even
// when it appears on many pages. It is safe for concurrent use.
type Renderer struct {
	finder *finder.Finder
	opts   Options

	mu    sync.Mutex
	cache map[string]parsed
}

// New creates a Renderer that resolves references through f.
func New(f *finder.Finder, opts Options) *Renderer {
	return &Renderer{
		finder: f,
		opts:   opts,
		cache:  make(map[string]parsed),
	}
}

// Finder returns the resolver backing the Renderer.
func (r *Renderer) Finder() *finder.Finder {
	return r.finder
}

// page accumulates the text and diagnostics of one render call.
type page struct {
	sb    strings.Builder
	diags []Diagnostic
}

func (p *page) line(parts ...string) {
	for _, s := range parts {
		p.sb.WriteString(s)
	}
	p.sb.WriteByte('\n')
}

// parse returns the summary of the symbol identified by id. A failure is
// recorded as a diagnostic on p the first time it is seen.
func (r *Renderer) parse(p *page, id, raw string) doccomment.Group {
	r.mu.Lock()
	res, seen := r.cache[id]
	if !seen {
		res.summary, res.err = doccomment.Parse(raw)
		r.cache[id] = res
	}
	r.mu.Unlock()

	if res.err != nil {
		if !seen {
			p.diags = append(p.diags, Diagnostic{Symbol: id, Err: res.err})
		}
		return nil
	}
	return res.summary
}

// Failed returns the parse error memoized for id, or nil when the symbol was
// never parsed or parsed cleanly. Unlike the diagnostics returned by Page and
// Summary it reports the failure on every call.
func (r *Renderer) Failed(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache[id].err
}

// markdown renders a summary tree, resolving reference markers.
func (r *Renderer) markdown(g doccomment.Group) string {
	var sb strings.Builder
	doccomment.Walk(g, func(n doccomment.Node) {
		switch v := n.(type) {
		case doccomment.Text:
			sb.WriteString(string(v))
		case doccomment.Reference:
			sb.WriteString(r.finder.Resolve(v.Target).Markdown())
		}
	})
	return sb.String()
}

// Summary renders the summary of raw documentation markup on its own,
// returning diagnostics instead of logging them.
func (r *Renderer) Summary(id, raw string) (string, []Diagnostic) {
	var p page
	g := r.parse(&p, id, raw)
	if g == nil {
		return "", p.diags
	}
	return r.markdown(g), p.diags
}
