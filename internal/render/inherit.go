package render

import "github.com/tender-barbarian/xmldocmd/internal/symtab"

// Ancestors returns the base chain of t, nearest first, stopping at the first
// missing base or at the universal root. Chains are assumed acyclic.
func Ancestors(t *symtab.TypeSymbol) []*symtab.TypeSymbol {
	var chain []*symtab.TypeSymbol
	for base := t.Base; base != nil && !base.Root; base = base.Base {
		chain = append(chain, base)
	}
	return chain
}

// writeInherited appends one section per ancestor of t.
func (r *Renderer) writeInherited(p *page, t *symtab.TypeSymbol) {
	for _, base := range Ancestors(t) {
		p.line("---")
		p.line("## Inherited from ", base.Name)
		p.line()

		if base.Doc != "" {
			if g := r.parse(p, base.FullName(), base.Doc); g != nil {
				p.line("**Summary:**")
				p.line(r.markdown(g))
			}
		}

		p.line("---")
		r.writeMembers(p, base)
	}
}
