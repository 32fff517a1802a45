package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/xmldocmd/internal/finder"
)

// resolveReferenceHandler returns a handler for the resolve_reference tool.
// The result is the same link a rendered page would contain for the target.
func resolveReferenceHandler(f *finder.Finder) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cref, err := req.RequireString("cref")
		if err != nil {
			return nil, err
		}

		type result struct {
			finder.Link
			Markdown string `json:"markdown"`
		}
		link := f.Resolve(cref)
		return jsonResult(result{Link: link, Markdown: link.Markdown()})
	}
}

// findSubtypesHandler returns a handler for the find_subtypes tool.
// It walks every catalog entry's base chain looking for the named type.
func findSubtypesHandler(f *finder.Finder) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return nil, err
		}

		entries, err := f.FindSubtypes(name)
		if err != nil {
			return nil, fmt.Errorf("finding subtypes of %q: %w", name, err)
		}
		return jsonResult(typeRefs(entries))
	}
}
