package tools

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/xmldocmd/internal/finder"
)

// listNamespacesHandler returns a handler for the list_namespaces tool.
// It summarizes every namespace in the catalog, optionally filtered by prefix.
func listNamespacesHandler(f *finder.Finder) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter := req.GetString("filter", "")

		type nsSummary struct {
			Namespace  string   `json:"namespace"`
			Assemblies []string `json:"assemblies"`
			TypeCount  int      `json:"type_count"`
		}

		byName := make(map[string]*nsSummary)
		for _, e := range f.ListTypes(filter) {
			ns := e.Type.Namespace
			s, ok := byName[ns]
			if !ok {
				s = &nsSummary{Namespace: ns}
				byName[ns] = s
			}
			s.TypeCount++
			if !slices.Contains(s.Assemblies, e.Type.Assembly) {
				s.Assemblies = append(s.Assemblies, e.Type.Assembly)
			}
		}

		results := make([]nsSummary, 0, len(byName))
		for _, s := range byName {
			sort.Strings(s.Assemblies)
			results = append(results, *s)
		}
		sort.Slice(results, func(i, j int) bool {
			return results[i].Namespace < results[j].Namespace
		})
		return jsonResult(results)
	}
}

// listTypesHandler returns a handler for the list_types tool.
// It lists catalog entries in registration order, optionally restricted
// to a namespace prefix.
func listTypesHandler(f *finder.Finder) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		prefix := strings.TrimSpace(req.GetString("namespace", ""))
		return jsonResult(typeRefs(f.ListTypes(prefix)))
	}
}
