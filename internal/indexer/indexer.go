package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tender-barbarian/xmldocmd/internal/symtab"
)

// ErrNoProject is returned when nothing loadable is found at the root path.
var ErrNoProject = errors.New("no project found")

// Source selects the semantic model provider.
type Source string

const (
	SourceAuto   Source = "auto"
	SourceGo     Source = "go"
	SourceCSharp Source = "csharp"
	SourceModel  Source = "model"
)

// Indexer builds the semantic model for a root path.
type Indexer struct {
	root   string
	source Source
	model  *symtab.Model
}

// Model returns the model built by the last successful Index call.
func (idx *Indexer) Model() *symtab.Model {
	return idx.model
}

// Source returns the provider the Indexer resolved to. Before Index it may
// still be SourceAuto.
func (idx *Indexer) Source() Source {
	return idx.source
}

// New creates an Indexer rooted at rootPath. Call Index to load the model.
func New(rootPath string, source Source) (*Indexer, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolving root path: %w", err)
	}
	if source == "" {
		source = SourceAuto
	}
	return &Indexer{root: absRoot, source: source}, nil
}

// Index loads the semantic model from the root. It can be called again to
// re-scan after source changes.
func (idx *Indexer) Index(ctx context.Context) error {
	if idx.source == SourceAuto {
		src, err := detectSource(idx.root)
		if err != nil {
			return err
		}
		idx.source = src
	}

	var (
		model *symtab.Model
		err   error
	)
	switch idx.source {
	case SourceGo:
		model, err = loadGo(ctx, idx.root)
	case SourceCSharp:
		model, err = loadCSharp(ctx, idx.root)
	case SourceModel:
		model, err = loadModelFile(idx.root)
	default:
		return fmt.Errorf("unknown source %q", idx.source)
	}
	if err != nil {
		return err
	}
	idx.model = model
	return nil
}

// detectSource picks a provider from what the root contains: a model file,
// a C# project file, or a Go module.
func detectSource(root string) (Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoProject, err)
	}
	if !info.IsDir() {
		switch strings.ToLower(filepath.Ext(root)) {
		case ".yaml", ".yml", ".json":
			return SourceModel, nil
		}
		return "", fmt.Errorf("%w: %s is not a directory or model file", ErrNoProject, root)
	}
	if _, err := findProjectFile(root); err == nil {
		return SourceCSharp, nil
	}
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
		return SourceGo, nil
	}
	return "", fmt.Errorf("%w in %s", ErrNoProject, root)
}

// closesCycle reports whether making base the base type of sym would put
// sym on its own ancestor chain.
func closesCycle(sym, base *symtab.TypeSymbol) bool {
	for b := base; b != nil; b = b.Base {
		if b == sym {
			return true
		}
	}
	return false
}

// isUnderRoot reports whether path is within root (both should be absolute).
func isUnderRoot(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(rel, "..")
}
