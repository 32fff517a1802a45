// Package config holds the documentation run settings and loads them from
// a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by validation failures.
var ErrInvalid = errors.New("invalid configuration")

const (
	DefaultPath   = "."
	DefaultOutput = "docs"
	DefaultSource = "auto"
)

// Config holds the settings of one documentation run.
type Config struct {
	Path        string `yaml:"path" validate:"required"`
	Output      string `yaml:"output" validate:"required"`
	BaseURI     string `yaml:"uri"`
	Source      string `yaml:"source" validate:"oneof=auto go csharp model"`
	ShowPrivate bool   `yaml:"show_private"`
	ShowGetters bool   `yaml:"show_getters"`
	ShowSetters bool   `yaml:"show_setters"`
	Verbose     bool   `yaml:"verbose"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() Config {
	return Config{
		Path:   DefaultPath,
		Output: DefaultOutput,
		Source: DefaultSource,
	}
}

// file is the on-disk layout; settings live under a top-level "docs" key.
type file struct {
	Docs struct {
		Path        *string `yaml:"path"`
		Output      *string `yaml:"output"`
		BaseURI     *string `yaml:"uri"`
		Source      *string `yaml:"source"`
		ShowPrivate *bool   `yaml:"show_private"`
		ShowGetters *bool   `yaml:"show_getters"`
		ShowSetters *bool   `yaml:"show_setters"`
		Verbose     *bool   `yaml:"verbose"`
	} `yaml:"docs"`
}

// LoadFile overlays the settings found in the YAML file at path onto cfg.
// Keys absent from the file leave cfg unchanged.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	d := f.Docs
	setString(&cfg.Path, d.Path)
	setString(&cfg.Output, d.Output)
	setString(&cfg.BaseURI, d.BaseURI)
	setString(&cfg.Source, d.Source)
	setBool(&cfg.ShowPrivate, d.ShowPrivate)
	setBool(&cfg.ShowGetters, d.ShowGetters)
	setBool(&cfg.ShowSetters, d.ShowSetters)
	setBool(&cfg.Verbose, d.Verbose)
	return nil
}

func setString(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst, src *bool) {
	if src != nil {
		*dst = *src
	}
}

var validate = validator.New()

// Validate checks the struct constraints of cfg.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// NormalizeBaseURI returns uri with a leading slash and without a trailing
// one. An empty uri stays empty, meaning no base URI is configured.
func NormalizeBaseURI(uri string) string {
	if uri == "" {
		return ""
	}
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}
	return strings.TrimSuffix(uri, "/")
}

// OutputDir resolves the output destination. Relative outputs are placed
// under root, or under the directory holding root when root is a file.
func (c Config) OutputDir() (string, error) {
	if filepath.IsAbs(c.Output) {
		return c.Output, nil
	}
	base := c.Path
	if info, err := os.Stat(base); err == nil && !info.IsDir() {
		base = filepath.Dir(base)
	}
	abs, err := filepath.Abs(filepath.Join(base, c.Output))
	if err != nil {
		return "", fmt.Errorf("resolving output path: %w", err)
	}
	return abs, nil
}
