package indexer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tender-barbarian/xmldocmd/internal/catalog"
	"github.com/tender-barbarian/xmldocmd/internal/finder"
	"github.com/tender-barbarian/xmldocmd/internal/render"
	"github.com/tender-barbarian/xmldocmd/internal/symtab"
)

const (
	fixturePkg    = "example.com/testdata/shapes"
	fixtureCycles = "example.com/testdata/cycles"
)

func indexGo(t *testing.T) map[string]*symtab.TypeSymbol {
	t.Helper()
	return indexGoPkg(t, fixturePkg)
}

// indexGoPkg loads the Go fixture module and returns the types of pkg by name.
func indexGoPkg(t *testing.T, pkg string) map[string]*symtab.TypeSymbol {
	t.Helper()
	idx, err := New(fixtureRoot, SourceGo)
	require.NoError(t, err)
	require.NoError(t, idx.Index(context.Background()))

	byName := make(map[string]*symtab.TypeSymbol)
	for _, ts := range idx.Model().Types {
		if ts.Namespace == pkg {
			byName[ts.Name] = ts
		}
	}
	return byName
}

func memberNamed(t *testing.T, ts *symtab.TypeSymbol, name string) symtab.Member {
	t.Helper()
	for _, m := range ts.Members {
		if m.Name == name {
			return m
		}
	}
	require.Failf(t, "member not found", "%s has no member %s", ts.Name, name)
	return symtab.Member{}
}

func TestLoadGoTypes(t *testing.T) {
	types := indexGo(t)

	// Exported struct types only: interfaces and unexported types are skipped.
	assert.Len(t, types, 4)
	for _, name := range []string{"Pair", "Rectangle", "Shape", "Square"} {
		require.Contains(t, types, name)
		assert.Equal(t, fixturePkg, types[name].Namespace)
		assert.Equal(t, "example.com/testdata", types[name].Assembly)
		assert.Equal(t, "shapes.go", types[name].SourceFile)
	}
	assert.NotContains(t, types, "Sizer")
	assert.NotContains(t, types, "hidden")

	assert.Equal(t, 2, types["Pair"].Arity)
	assert.Equal(t, fixturePkg+".Pair`2", types["Pair"].FullName())
}

func TestLoadGoBaseChain(t *testing.T) {
	types := indexGo(t)

	assert.Same(t, types["Rectangle"], types["Square"].Base, "embedded pointer counts as base")
	assert.Same(t, types["Shape"], types["Rectangle"].Base)
	assert.Nil(t, types["Shape"].Base)
}

func TestLoadGoDocs(t *testing.T) {
	types := indexGo(t)

	assert.Equal(t,
		`<summary>Shape is the common base of all shapes. See <see cref="T:`+fixturePkg+`.Square"/> for an example.</summary>`,
		types["Shape"].Doc)

	describe := memberNamed(t, types["Shape"], "Describe")
	assert.Contains(t, describe.Doc, `<see cref="T:io.Writer"/>`)

	assert.Empty(t, memberNamed(t, types["Shape"], "reset").Doc)

	// Links to generic types carry the arity, matching the catalog key.
	assert.Contains(t, types["Square"].Doc, `<see cref="T:`+fixturePkg+".Pair`2\"/>")
}

func TestLoadGoGenericLinkResolves(t *testing.T) {
	types := indexGo(t)
	all := make([]*symtab.TypeSymbol, 0, len(types))
	for _, name := range []string{"Pair", "Rectangle", "Shape", "Square"} {
		all = append(all, types[name])
	}
	cat, errs := catalog.Build(all)
	require.Empty(t, errs)

	r := render.New(finder.New(cat, "/refs"), render.Options{})
	got, diags := r.Summary(fixturePkg+".Square", types["Square"].Doc)
	require.Empty(t, diags)
	assert.Contains(t, got, "[example.com/testdata/shapes.Pair`2](/refs/example.com/testdata/shapes.Pair`2)")
}

func TestLoadGoSelfEmbedding(t *testing.T) {
	types := indexGoPkg(t, fixtureCycles)
	require.Len(t, types, 4)

	assert.Nil(t, types["Node"].Base, "a type embedding itself has no base")
	assert.Same(t, types["Node"], types["Leaf"].Base)

	// Whichever of the pair is linked first keeps its base; the back-edge is cut.
	ping, pong := types["Ping"], types["Pong"]
	assert.True(t, (ping.Base == pong) != (pong.Base == ping), "exactly one direction is kept")

	for name, ts := range types {
		assert.NoError(t, checkChain(ts), name)
		assert.LessOrEqual(t, len(render.Ancestors(ts)), 1, name)
	}
}

func TestLoadGoMembers(t *testing.T) {
	types := indexGo(t)
	shape := types["Shape"]

	var names []string
	for _, m := range shape.Members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Name", "Tags", "id", "Area", "Describe", "reset"}, names)

	tests := []struct {
		name   string
		member string
		check  func(t *testing.T, m symtab.Member)
	}{
		{"tagged field", "Name", func(t *testing.T, m symtab.Member) {
			require.Equal(t, symtab.MemberProperty, m.Kind)
			assert.Equal(t, symtab.AccessPublic, m.Access)
			assert.Equal(t, "string", m.Property.Type)
			assert.False(t, m.Property.Nullable)
			assert.Nil(t, m.Property.Default)
			assert.Equal(t, []string{"json", "yaml"}, m.Property.Attributes)
			assert.Equal(t, "<summary>Name labels the shape.</summary>", m.Doc)
		}},
		{"slice field is nullable", "Tags", func(t *testing.T, m symtab.Member) {
			assert.Equal(t, "[]string", m.Property.Type)
			assert.True(t, m.Property.Nullable)
		}},
		{"unexported field is private", "id", func(t *testing.T, m symtab.Member) {
			assert.Equal(t, symtab.AccessPrivate, m.Access)
		}},
		{"method with result", "Area", func(t *testing.T, m symtab.Member) {
			require.Equal(t, symtab.MemberMethod, m.Kind)
			assert.Equal(t, symtab.MethodOrdinary, m.Method.Kind)
			assert.Equal(t, "float64", m.Method.ReturnType)
			assert.Empty(t, m.Method.Params)
		}},
		{"method with several results", "Describe", func(t *testing.T, m symtab.Member) {
			assert.Equal(t, "(int, error)", m.Method.ReturnType)
			assert.Equal(t, []symtab.Param{{Type: "io.Writer", Name: "w"}, {Type: "bool", Name: "verbose"}}, m.Method.Params)
		}},
		{"unexported method", "reset", func(t *testing.T, m symtab.Member) {
			assert.Equal(t, symtab.AccessPrivate, m.Access)
			assert.Equal(t, "", m.Method.ReturnType)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, memberNamed(t, shape, tc.member))
		})
	}
}

func TestLoadGoVariadicAndPointers(t *testing.T) {
	types := indexGo(t)

	scale := memberNamed(t, types["Rectangle"], "Scale")
	assert.Equal(t, []symtab.Param{{Type: "...float64", Name: "factors"}}, scale.Method.Params)

	parent := memberNamed(t, types["Square"], "Parent")
	assert.Equal(t, "*Square", parent.Property.Type)
	assert.True(t, parent.Property.Nullable)

	// Embedded fields are the base, not members.
	for _, m := range types["Rectangle"].Members {
		assert.NotEqual(t, "Shape", m.Name)
	}
}
