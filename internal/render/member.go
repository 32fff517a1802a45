package render

import (
	"strconv"
	"strings"

	"github.com/tender-barbarian/xmldocmd/internal/symtab"
)

// include reports whether m passes the configured skip rules.
func (r *Renderer) include(m *symtab.Member) bool {
	if !r.opts.ShowPrivate && m.Access == symtab.AccessPrivate {
		return false
	}
	if m.Kind != symtab.MemberMethod {
		return true
	}
	switch m.Method.Kind {
	case symtab.MethodGetter:
		return r.opts.ShowGetters
	case symtab.MethodSetter:
		return r.opts.ShowSetters
	}
	return true
}

// writeMembers renders every included member of t in declaration order.
func (r *Renderer) writeMembers(p *page, t *symtab.TypeSymbol) {
	for i := range t.Members {
		m := &t.Members[i]
		if !r.include(m) {
			continue
		}
		switch m.Kind {
		case symtab.MemberMethod:
			r.writeMethod(p, t, m)
		case symtab.MemberProperty:
			r.writeProperty(p, t, m)
		}
	}
}

// Signature composes "ReturnType Name(ParamType name, ...)". The return type
// is omitted when empty.
func Signature(name string, info *symtab.MethodInfo) string {
	params := make([]string, len(info.Params))
	for i, prm := range info.Params {
		params[i] = strings.TrimSpace(prm.Type + " " + prm.Name)
	}
	sig := name + "(" + strings.Join(params, ", ") + ")"
	if info.ReturnType == "" {
		return sig
	}
	return info.ReturnType + " " + sig
}

// writeDoc writes the member summary block, if the member has one.
func (r *Renderer) writeDoc(p *page, id, raw string) {
	if raw == "" {
		return
	}
	g := r.parse(p, id, raw)
	if g == nil {
		return
	}
	p.line()
	p.line(r.markdown(g))
	p.line()
}

func (r *Renderer) writeMethod(p *page, t *symtab.TypeSymbol, m *symtab.Member) {
	p.line()
	p.line("**Method:** `", m.Name, "`")
	p.line("*Method Signature:* `", Signature(m.Name, m.Method), "`")
	r.writeDoc(p, t.MemberID(m), m.Doc)
	p.line()
}

func (r *Renderer) writeProperty(p *page, t *symtab.TypeSymbol, m *symtab.Member) {
	prop := m.Property
	p.line()
	p.line("**Property:** `", m.Name, "` (", string(m.Access), ")")
	r.writeDoc(p, t.MemberID(m), m.Doc)
	p.line("*Property Type:* `", prop.Type, "`")
	if prop.Default != nil {
		p.line("*Default:* `", *prop.Default, "`")
	}
	p.line("*Nullable:* ", strconv.FormatBool(prop.Nullable))

	attrs := make([]string, len(prop.Attributes))
	for i, a := range prop.Attributes {
		attrs[i] = "[" + a + "]"
	}
	p.line("*Attributes:* ", strings.Join(attrs, ", "))
	p.line()
}
