package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/xmldocmd/internal/render"
)

// Register wires all reference-documentation MCP tools to s.
// Each tool reads the frozen catalog behind r; none of them write pages.
func Register(s *server.MCPServer, r *render.Renderer) {
	f := r.Finder()

	s.AddTool(mcp.NewTool("list_namespaces",
		mcp.WithDescription("Lists all documented namespaces with type counts."),
		mcp.WithString("filter", mcp.Description("Optional prefix filter on namespace")),
	), withLengthCheck(listNamespacesHandler(f)))

	s.AddTool(mcp.NewTool("list_types",
		mcp.WithDescription("Lists documented types in catalog order, with their output file names."),
		mcp.WithString("namespace", mcp.Description("Optional namespace prefix filter")),
	), withLengthCheck(listTypesHandler(f)))

	s.AddTool(mcp.NewTool("find_type",
		mcp.WithDescription("Searches documented types by simple name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Type name")),
		mcp.WithString("match", mcp.Description(`Match mode: "exact" (default), "prefix", or "contains"`)),
	), withLengthCheck(findTypeHandler(f)))

	s.AddTool(mcp.NewTool("get_type",
		mcp.WithDescription("Returns a documented type with its members and rendered summaries."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Fully-qualified type name")),
		mcp.WithBoolean("include_private", mcp.Description("Include private members (default: false)")),
	), withLengthCheck(getTypeHandler(r)))

	s.AddTool(mcp.NewTool("get_type_page",
		mcp.WithDescription("Renders the Markdown reference page of a type, including inherited members."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Fully-qualified type name")),
	), withLengthCheck(getTypePageHandler(r)))

	s.AddTool(mcp.NewTool("resolve_reference",
		mcp.WithDescription("Resolves a cross-reference target such as T:Ns.Type to a link or plain-text fallback."),
		mcp.WithString("cref", mcp.Required(), mcp.Description("Reference target, with or without a kind prefix")),
	), withLengthCheck(resolveReferenceHandler(f)))

	s.AddTool(mcp.NewTool("find_subtypes",
		mcp.WithDescription("Finds all documented types that inherit from a given type."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Fully-qualified name of the base type")),
	), withLengthCheck(findSubtypesHandler(f)))
}
