package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/inspector/internal/scene"
	"github.com/conduit-lang/inspector/internal/store"
	"github.com/conduit-lang/inspector/runtime/widget"
)

// sharedStore keeps one memory store across command runs
type sharedStore struct {
	store.Store
}

func (sharedStore) Close() error { return nil }

type harness struct {
	g     *globals
	store *store.MemoryStore
}

func newHarness(t *testing.T, ask widget.AskFunc) *harness {
	t.Helper()
	mem := store.NewMemoryStore()
	h := &harness{store: mem}
	h.g = &globals{
		openStore: func(ctx context.Context, cfg store.Config) (store.Store, error) {
			return sharedStore{mem}, nil
		},
		ask: ask,
	}
	return h
}

// run executes the CLI with args and returns stdout and stderr
func (h *harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(h.g)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inspector.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "inspector", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, expected := range []string{
		"version", "types", "fields", "serialize", "draw", "edit",
		"deps", "serve", "token", "snapshots",
	} {
		assert.Contains(t, names, expected)
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	t.Cleanup(func() { Version, GitCommit = "dev", "unknown" })

	out, _, err := newHarness(t, nil).run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.0.0-test")
	assert.Contains(t, out, "abc123")
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, _, err := newHarness(t, nil).run(t, "types", "--format", "xml")
	var cfgErr *configError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestRoot_ConfigFile(t *testing.T) {
	path := writeConfig(t, "output:\n  format: yaml\n  indent: 2\n")
	out, _, err := newHarness(t, nil).run(t, "--config", path, "serialize", "Stats")
	require.NoError(t, err)
	assert.Contains(t, out, "type: Stats")
	assert.Contains(t, out, "strength:\n  type: int")

	_, _, err = newHarness(t, nil).run(t, "--config", filepath.Join(t.TempDir(), "missing.yml"), "types")
	assert.Error(t, err)
}

func TestRenderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "unknown type",
			err:  &scene.UnknownTypeError{Name: "Playr", Suggestions: []string{"Player"}},
			want: []string{"TYPE NOT FOUND", "Player"},
		},
		{
			name: "unknown field",
			err:  &fieldError{typeName: "Stats", field: "strenght", suggestions: []string{"strength"}},
			want: []string{"FIELD NOT FOUND", "strength"},
		},
		{
			name: "unused input",
			err:  &scene.UnusedInputError{Keys: []string{"Stats/x"}},
			want: []string{"UNUSED INPUT", `"Stats/x"`},
		},
		{
			name: "malformed input",
			err:  &inputError{msg: `malformed input "x"`},
			want: []string{"INVALID INPUT", `malformed input "x"`},
		},
		{
			name: "snapshot",
			err:  &snapshotNotFoundError{id: "abc"},
			want: []string{"SNAPSHOT NOT FOUND", "abc"},
		},
		{
			name: "store",
			err:  &storeError{err: errors.New("connection refused")},
			want: []string{"STORE ERROR", "connection refused"},
		},
		{
			name: "other",
			err:  errors.New("boom"),
			want: []string{"Error: boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			RenderError(&buf, tt.err, true)
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
			assert.False(t, strings.Contains(buf.String(), "\x1b["), "no color codes")
		})
	}
}
