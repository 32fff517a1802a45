package render

import (
	"github.com/tender-barbarian/xmldocmd/internal/catalog"
	"github.com/tender-barbarian/xmldocmd/internal/symtab"
)

// Page renders the complete reference page for e: title, metadata, summary,
// own members, then one section per ancestor. Diagnostics for symbols whose
// markup failed to parse are returned rather than written into the page.
func (r *Renderer) Page(e *catalog.Entry) (string, []Diagnostic) {
	var p page
	t := e.Type

	r.writeHeader(&p, t)
	p.line("---")
	r.writeMembers(&p, t)
	r.writeInherited(&p, t)

	return p.sb.String(), p.diags
}

func (r *Renderer) writeHeader(p *page, t *symtab.TypeSymbol) {
	p.line("# ", t.Name)
	p.line()
	p.line("*Namespace:* ", t.Namespace)
	p.line("*Assembly:* ", t.Assembly)
	if t.SourceFile != "" {
		p.line("*Source:* ", t.SourceFile)
	}
	p.line()
	p.line()

	if t.Doc == "" {
		return
	}
	if g := r.parse(p, t.FullName(), t.Doc); g != nil {
		p.line(r.markdown(g))
	}
}
