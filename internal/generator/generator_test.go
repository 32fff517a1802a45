package generator

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tender-barbarian/xmldocmd/internal/indexer"
	"github.com/tender-barbarian/xmldocmd/internal/render"
	"github.com/tender-barbarian/xmldocmd/internal/symtab"
)

const fixtureModel = "../../tests/testdata/model/library.yaml"

func loadFixture(t *testing.T) *symtab.Model {
	t.Helper()
	idx, err := indexer.New(fixtureModel, indexer.SourceModel)
	require.NoError(t, err)
	require.NoError(t, idx.Index(context.Background()))
	return idx.Model()
}

func newLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

func TestRun(t *testing.T) {
	var logs bytes.Buffer
	sink := newMemorySink()

	res, err := New(sink, Options{}, newLogger(&logs)).Run(loadFixture(t))
	require.NoError(t, err)

	assert.Equal(t, Result{Pages: 4, Diagnostics: 1}, res)
	assert.Equal(t, []string{"Zoo.Animal.md", "Zoo.Dog.md", "Zoo.Puppy.md", "Zoo.Recorder.md"}, sink.IDs())

	// One progress line per page.
	assert.Equal(t, 4, strings.Count(logs.String(), "generated"))
	for _, id := range sink.IDs() {
		assert.Contains(t, logs.String(), "file="+id)
	}

	// Dog.Fetch is malformed; Puppy inherits it but it is reported once.
	assert.Equal(t, 1, strings.Count(logs.String(), "can't extract documentation"))
	assert.Contains(t, logs.String(), "Zoo.Dog.Fetch")
}

func TestRunPages(t *testing.T) {
	sink := newMemorySink()
	_, err := New(sink, Options{BaseURI: "/refs"}, newLogger(&bytes.Buffer{})).Run(loadFixture(t))
	require.NoError(t, err)

	animal, ok := sink.Get("Zoo.Animal.md")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(animal, "# Animal\n\n*Namespace:* Zoo\n*Assembly:* Zoo.Core\n*Source:* Animal.cs\n"))
	assert.Contains(t, animal, "An animal. See [Zoo.Dog](/refs/Zoo.Dog).")
	assert.Contains(t, animal, "*Method Signature:* `String Speak(Int32 times)`")
	assert.NotContains(t, animal, "get_Legs", "getters are skipped by default")
	assert.NotContains(t, animal, "Sleep", "private members are skipped by default")
	assert.NotContains(t, animal, "Inherited from", "the root type ends the chain")

	dog, _ := sink.Get("Zoo.Dog.md")
	assert.Contains(t, dog, "A dog, unlike [!:Cat].")
	assert.Contains(t, dog, "**Method:** `Fetch`")
	assert.NotContains(t, dog, "Fetches", "malformed summary is omitted")
	assert.Contains(t, dog, "## Inherited from Animal")

	puppy, _ := sink.Get("Zoo.Puppy.md")
	dogAt := strings.Index(puppy, "## Inherited from Dog")
	animalAt := strings.Index(puppy, "## Inherited from Animal")
	require.NotEqual(t, -1, dogAt)
	require.NotEqual(t, -1, animalAt)
	assert.Less(t, dogAt, animalAt, "nearest ancestor first")

	recorder, _ := sink.Get("Zoo.Recorder.md")
	assert.Contains(t, recorder, "*Assembly:* Zoo.Audio")
	assert.Contains(t, recorder, "## Inherited from Stream")
	assert.Contains(t, recorder, "**Method:** `Flush`")
}

func TestRunRenderOptions(t *testing.T) {
	sink := newMemorySink()
	opts := Options{Render: render.Options{ShowPrivate: true, ShowGetters: true}}
	_, err := New(sink, opts, newLogger(&bytes.Buffer{})).Run(loadFixture(t))
	require.NoError(t, err)

	animal, _ := sink.Get("Zoo.Animal.md")
	assert.Contains(t, animal, "**Method:** `get_Legs`")
	assert.Contains(t, animal, "**Method:** `Sleep`")
}

func TestRunIsDeterministic(t *testing.T) {
	model := loadFixture(t)

	first, second := newMemorySink(), newMemorySink()
	_, err := New(first, Options{}, newLogger(&bytes.Buffer{})).Run(model)
	require.NoError(t, err)
	_, err = New(second, Options{}, newLogger(&bytes.Buffer{})).Run(model)
	require.NoError(t, err)

	require.Equal(t, first.IDs(), second.IDs())
	for _, id := range first.IDs() {
		a, _ := first.Get(id)
		b, _ := second.Get(id)
		assert.Equal(t, a, b, id)
	}
}

func TestRunSkipsCollisions(t *testing.T) {
	var logs bytes.Buffer
	sink := newMemorySink()
	model := &symtab.Model{Types: []*symtab.TypeSymbol{
		{Name: "Box", Namespace: "N"},
		{Name: "Box", Namespace: "N", Arity: 1},
	}}

	res, err := New(sink, Options{}, newLogger(&logs)).Run(model)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, []string{"N.Box.md"}, sink.IDs())
	assert.Contains(t, logs.String(), "skipping type")
}

// memorySink keeps pages in memory, keyed by identifier.
type memorySink struct {
	pages map[string]string
}

func newMemorySink() *memorySink {
	return &memorySink{pages: make(map[string]string)}
}

func (s *memorySink) Write(id string, content []byte) (string, error) {
	s.pages[id] = string(content)
	return id, nil
}

func (s *memorySink) Get(id string) (string, bool) {
	p, ok := s.pages[id]
	return p, ok
}

func (s *memorySink) IDs() []string {
	ids := make([]string, 0, len(s.pages))
	for id := range s.pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func TestCatalogAndRendererNeedNoSink(t *testing.T) {
	var logs bytes.Buffer
	cat, skipped := Catalog(loadFixture(t), newLogger(&logs))
	assert.Equal(t, 4, cat.Len())
	assert.Zero(t, skipped)

	r := Renderer(cat, Options{BaseURI: "/refs"})
	e, ok := r.Finder().GetType("Zoo.Animal")
	require.True(t, ok)
	page, diags := r.Page(e)
	assert.Empty(t, diags)
	assert.Contains(t, page, "An animal. See [Zoo.Dog](/refs/Zoo.Dog).")
	assert.Contains(t, logs.String(), "catalog built")
}

var errDiskFull = errors.New("disk full")

// failingSink fails every write after the first n.
type failingSink struct {
	n      int
	writes int
}

func (s *failingSink) Write(id string, _ []byte) (string, error) {
	if s.writes >= s.n {
		return "", errDiskFull
	}
	s.writes++
	return id, nil
}

func TestRunAbortsOnWriteFailure(t *testing.T) {
	res, err := New(&failingSink{n: 1}, Options{}, newLogger(&bytes.Buffer{})).Run(loadFixture(t))
	require.ErrorIs(t, err, errDiskFull)
	assert.ErrorContains(t, err, "Zoo.Dog.md")
	assert.Equal(t, 1, res.Pages)
}
