// Package output provides the sinks rendered pages are written to.
package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives one rendered page per output identifier and returns the
// location it was written to.
type Sink interface {
	Write(id string, content []byte) (string, error)
}

// DirSink writes pages as files under a root directory, creating the
// directory (and any subdirectories an identifier implies) on demand.
type DirSink struct {
	root string
}

// NewDirSink returns a sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{root: dir}
}

func (s *DirSink) path(id string) string {
	return filepath.Join(s.root, filepath.FromSlash(id))
}

// Write stores content at root/id.
func (s *DirSink) Write(id string, content []byte) (string, error) {
	p := s.path(id)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(p, content, 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", id, err)
	}
	return p, nil
}
