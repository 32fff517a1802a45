package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/xmldocmd/internal/finder"
	"github.com/tender-barbarian/xmldocmd/internal/render"
	"github.com/tender-barbarian/xmldocmd/internal/symtab"
)

// findTypeHandler returns a handler for the find_type tool.
// It searches catalog entries by simple name using the requested match mode.
func findTypeHandler(f *finder.Finder) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return nil, err
		}
		match := finder.MatchMode(req.GetString("match", string(finder.MatchExact)))
		return jsonResult(typeRefs(f.FindType(name, match)))
	}
}

type memberDetail struct {
	Kind      symtab.MemberKind    `json:"kind"`
	Name      string               `json:"name"`
	Access    symtab.Accessibility `json:"access"`
	Signature string               `json:"signature,omitempty"`
	Type      string               `json:"type,omitempty"`
	Summary   string               `json:"summary,omitempty"`
}

type typeDetail struct {
	typeRef
	Name       string         `json:"name"`
	SourceFile string         `json:"source_file,omitempty"`
	Base       string         `json:"base,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	Members    []memberDetail `json:"members"`
	Warnings   []string       `json:"warnings,omitempty"`
}

// getTypeHandler returns a handler for the get_type tool.
// It returns the type's metadata and members with summaries rendered to
// Markdown. Members whose markup cannot be parsed are listed without a
// summary and reported under warnings.
func getTypeHandler(r *render.Renderer) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return nil, err
		}
		includePrivate := req.GetBool("include_private", false)

		e, ok := r.Finder().GetType(name)
		if !ok {
			return nil, fmt.Errorf("type %q not found", name)
		}
		t := e.Type

		detail := typeDetail{
			typeRef:    typeRef{FullName: t.FullName(), Namespace: t.Namespace, Assembly: t.Assembly, File: e.ID},
			Name:       t.Name,
			SourceFile: t.SourceFile,
		}
		if t.Base != nil && !t.Base.Root {
			detail.Base = t.Base.FullName()
		}

		detail.Summary, _ = r.Summary(t.FullName(), t.Doc)

		members := filterMembers(t.Members, includePrivate)
		detail.Members = make([]memberDetail, 0, len(members))
		for i := range members {
			m := &members[i]
			md := memberDetail{Kind: m.Kind, Name: m.Name, Access: m.Access}
			switch m.Kind {
			case symtab.MemberMethod:
				md.Signature = render.Signature(m.Name, m.Method)
			case symtab.MemberProperty:
				md.Type = m.Property.Type
			}
			md.Summary, _ = r.Summary(t.MemberID(m), m.Doc)
			detail.Members = append(detail.Members, md)
		}
		detail.Warnings = warnings(r, t, members)
		return jsonResult(detail)
	}
}

// getTypePageHandler returns a handler for the get_type_page tool.
// The first content item is exactly the page the docs command writes for the
// type. Symbols on the page whose markup cannot be parsed are listed in a
// second item.
func getTypePageHandler(r *render.Renderer) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return nil, err
		}
		e, ok := r.Finder().GetType(name)
		if !ok {
			return nil, fmt.Errorf("type %q not found", name)
		}
		text, _ := r.Page(e)
		res := mcp.NewToolResultText(text)

		warns := warnings(r, e.Type, e.Type.Members)
		for _, base := range render.Ancestors(e.Type) {
			warns = append(warns, warnings(r, base, base.Members)...)
		}
		if len(warns) > 0 {
			res.Content = append(res.Content, mcp.NewTextContent("warnings:\n- "+strings.Join(warns, "\n- ")))
		}
		return res, nil
	}
}

// warnings lists the memoized parse failures of t and its members as
// "symbol: error" lines.
func warnings(r *render.Renderer, t *symtab.TypeSymbol, members []symtab.Member) []string {
	var out []string
	if err := r.Failed(t.FullName()); err != nil {
		out = append(out, t.FullName()+": "+err.Error())
	}
	for i := range members {
		id := t.MemberID(&members[i])
		if err := r.Failed(id); err != nil {
			out = append(out, id+": "+err.Error())
		}
	}
	return out
}
