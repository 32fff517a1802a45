package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tender-barbarian/xmldocmd/internal/config"
	"github.com/tender-barbarian/xmldocmd/internal/indexer"
)

const fixtureModel = "../../tests/testdata/model/library.yaml"

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestDocsCommand(t *testing.T) {
	out := t.TempDir()

	_, logs, err := runCLI(t, "docs", "-p", fixtureModel, "-o", out, "-u", "refs/")
	require.NoError(t, err)

	for _, name := range []string{"Zoo.Animal.md", "Zoo.Dog.md", "Zoo.Puppy.md", "Zoo.Recorder.md"} {
		assert.FileExists(t, filepath.Join(out, name))
		assert.Contains(t, logs, "generated file="+filepath.Join(out, name))
	}

	animal, err := os.ReadFile(filepath.Join(out, "Zoo.Animal.md"))
	require.NoError(t, err)
	assert.Contains(t, string(animal), "[Zoo.Dog](/refs/Zoo.Dog)", "base URI is normalized")

	assert.Equal(t, 1, strings.Count(logs, "can't extract documentation"))
}

func TestDocsAlias(t *testing.T) {
	out := t.TempDir()
	_, _, err := runCLI(t, "d", "--path", fixtureModel, "--output", out, "--show-getters")
	require.NoError(t, err)

	animal, err := os.ReadFile(filepath.Join(out, "Zoo.Animal.md"))
	require.NoError(t, err)
	assert.Contains(t, string(animal), "[Zoo.Dog](#Zoo.Dog.md)")
	assert.Contains(t, string(animal), "**Method:** `get_Legs`")
}

func TestDocsRelativeOutput(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(fixtureModel)
	require.NoError(t, err)
	model := filepath.Join(dir, "library.yaml")
	require.NoError(t, os.WriteFile(model, data, 0o600))

	_, _, err = runCLI(t, "docs", "-p", model)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "docs", "Zoo.Dog.md"), "default output sits next to the model file")
}

func TestDocsConfigFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "api")
	cfgPath := filepath.Join(dir, "xmldocmd.yaml")
	abs, err := filepath.Abs(fixtureModel)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"docs:\n  path: "+abs+"\n  output: "+out+"\n  uri: /from-file\n  show_private: true\n"), 0o600))

	_, _, err = runCLI(t, "docs", "--config", cfgPath, "-u", "/from-flag")
	require.NoError(t, err)

	animal, err := os.ReadFile(filepath.Join(out, "Zoo.Animal.md"))
	require.NoError(t, err)
	assert.Contains(t, string(animal), "(/from-flag/Zoo.Dog)", "explicit flags win over the file")
	assert.Contains(t, string(animal), "**Method:** `Sleep`", "file settings apply")
}

func TestDocsErrors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		target error
		errMsg string
	}{
		{
			name:   "nothing to document",
			args:   []string{"docs", "-p", t.TempDir()},
			target: indexer.ErrNoProject,
		},
		{
			name:   "unknown source",
			args:   []string{"docs", "-p", fixtureModel, "--source", "java"},
			target: config.ErrInvalid,
		},
		{
			name:   "missing config file",
			args:   []string{"docs", "--config", filepath.Join(t.TempDir(), "none.yaml")},
			errMsg: "read config",
		},
		{
			name:   "unexpected argument",
			args:   []string{"docs", "extra"},
			errMsg: "unknown command",
		},
		{
			name:   "unknown flag",
			args:   []string{"docs", "--nope"},
			errMsg: "unknown flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			if tt.errMsg != "" {
				assert.ErrorContains(t, err, tt.errMsg)
			}
		})
	}
}

func TestHelp(t *testing.T) {
	stdout, _, err := runCLI(t, "help", "docs")
	require.NoError(t, err)
	for _, flag := range []string{"--path", "--output", "--uri", "--show-private", "--show-getters", "--show-setters"} {
		assert.Contains(t, stdout, flag)
	}

	stdout, _, err = runCLI(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "docs")
	assert.Contains(t, stdout, "serve")
}
