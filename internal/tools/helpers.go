package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/xmldocmd/internal/catalog"
	"github.com/tender-barbarian/xmldocmd/internal/symtab"
)

// maxInputLen bounds every string argument a tool accepts.
const maxInputLen = 1024

// withLengthCheck rejects calls carrying an oversized string argument
// before they reach next.
func withLengthCheck(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		for name, v := range req.GetArguments() {
			if s, ok := v.(string); ok && len(s) > maxInputLen {
				return nil, fmt.Errorf("argument %q exceeds maximum length of %d bytes", name, maxInputLen)
			}
		}
		return next(ctx, req)
	}
}

// jsonResult serialises v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

// typeRef is the short form of a catalog entry.
type typeRef struct {
	FullName  string `json:"full_name"`
	Namespace string `json:"namespace"`
	Assembly  string `json:"assembly"`
	File      string `json:"file"`
}

func typeRefs(entries []*catalog.Entry) []typeRef {
	refs := make([]typeRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, typeRef{
			FullName:  e.Type.FullName(),
			Namespace: e.Type.Namespace,
			Assembly:  e.Type.Assembly,
			File:      e.ID,
		})
	}
	return refs
}

// filterMembers returns members, optionally dropping private ones.
func filterMembers(members []symtab.Member, includePrivate bool) []symtab.Member {
	if includePrivate {
		return members
	}
	result := make([]symtab.Member, 0, len(members))
	for _, m := range members {
		if m.Access != symtab.AccessPrivate {
			result = append(result, m)
		}
	}
	return result
}
