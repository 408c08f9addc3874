package commands

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/inspector/internal/scene"
	"github.com/conduit-lang/inspector/internal/server"
	"github.com/conduit-lang/inspector/internal/store"
	"github.com/conduit-lang/inspector/runtime/metadata"
	"github.com/conduit-lang/inspector/runtime/widget"
)

func TestParseInputs(t *testing.T) {
	values, err := parseInputs([]string{"Player/name=Alice", " Stats/strength =40", "Player/note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"Player/name":    "Alice",
		"Stats/strength": "40",
		"Player/note":    "a=b",
	}, values)

	values, err = parseInputs(nil)
	require.NoError(t, err)
	assert.Nil(t, values)

	for _, bad := range []string{"novalue", "=40"} {
		_, err := parseInputs([]string{bad})
		var inErr *inputError
		assert.True(t, errors.As(err, &inErr), bad)
	}
}

func TestTypesCommand(t *testing.T) {
	h := newHarness(t, nil)

	out, _, err := h.run(t, "types")
	require.NoError(t, err)
	assert.Contains(t, out, "TYPE")
	assert.Contains(t, out, "Material")
	assert.Contains(t, out, "scene.GFrameBuffer")

	out, _, err = h.run(t, "types", "--format", "json")
	require.NoError(t, err)
	var infos []metadata.TypeInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	assert.Len(t, infos, len(scene.Names()))
}

func TestFieldsCommand(t *testing.T) {
	h := newHarness(t, nil)

	out, _, err := h.run(t, "fields", "Stats")
	require.NoError(t, err)
	assert.Contains(t, out, "strength")
	assert.Contains(t, out, "slider_int")
	assert.Contains(t, out, "[0, 100]")

	out, _, err = h.run(t, "fields", "Player", "stats", "--format", "json")
	require.NoError(t, err)
	var f metadata.FieldInfo
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, "Stats", f.Nested)

	_, _, err = h.run(t, "fields", "Stats", "strenght")
	var fieldErr *fieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Contains(t, fieldErr.suggestions, "strength")

	_, _, err = h.run(t, "fields", "Stast")
	assert.ErrorIs(t, err, scene.ErrUnknownType)
}

func TestSerializeCommand(t *testing.T) {
	h := newHarness(t, nil)

	out, _, err := h.run(t, "serialize", "Player",
		"--set", "Player/name=Alice",
		"--set", "Player/stats/strength=250",
		"--recursive")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Player", doc["type"])
	assert.Equal(t, map[string]any{"type": "string", "value": "Alice"}, doc["name"])
	stats := doc["stats"].(map[string]any)
	assert.Equal(t, "{object}", stats["value"])
	strength := stats["fields"].(map[string]any)["strength"].(map[string]any)
	assert.Equal(t, "100", strength["value"])
}

func TestSerializeCommand_UnusedInput(t *testing.T) {
	_, _, err := newHarness(t, nil).run(t, "serialize", "Player", "--set", "Player/nmae=Alice")
	var unused *scene.UnusedInputError
	require.True(t, errors.As(err, &unused))
	assert.Contains(t, unused.Suggestions["Player/nmae"], "Player/name")
}

func TestSerializeCommand_Save(t *testing.T) {
	h := newHarness(t, nil)

	_, stderr, err := h.run(t, "serialize", "Light", "--save")
	require.NoError(t, err)
	assert.Contains(t, stderr, "saved snapshot")

	snaps, err := h.store.List(context.Background(), "Light")
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Contains(t, string(snaps[0].Document), `"intensity"`)
}

func TestDrawCommand(t *testing.T) {
	h := newHarness(t, nil)

	out, _, err := h.run(t, "draw", "Player", "--open-all")
	require.NoError(t, err)
	assert.Contains(t, out, "Player")
	assert.Contains(t, out, "strength")

	out, _, err = h.run(t, "draw", "Stats", "--set", "Stats/strength=250", "--format", "json")
	require.NoError(t, err)
	var frame widget.Frame
	require.NoError(t, json.Unmarshal([]byte(out), &frame))
	op, ok := frame.Find("Stats/strength")
	require.True(t, ok)
	assert.Equal(t, widget.OpSliderInt, op.Kind)
	assert.Equal(t, float64(100), op.Value)
	assert.True(t, op.Changed)
}

// scriptedAsk answers prompts from a queue.
func scriptedAsk(answers ...any) widget.AskFunc {
	return func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		if len(answers) == 0 {
			return errors.New("no more answers")
		}
		a := answers[0]
		answers = answers[1:]
		if err, ok := a.(error); ok {
			return err
		}
		switch r := response.(type) {
		case *string:
			*r = a.(string)
		case *bool:
			*r = a.(bool)
		}
		return nil
	}
}

func TestEditCommand(t *testing.T) {
	h := newHarness(t, scriptedAsk(true, "70", "2.5"))

	out, _, err := h.run(t, "edit", "Stats", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, `"value": "70"`)
	assert.Contains(t, out, `"value": "2.500000"`)

	snaps, err := h.store.List(context.Background(), "Stats")
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestEditCommand_Interrupted(t *testing.T) {
	h := newHarness(t, scriptedAsk(true, terminal.InterruptErr))

	_, _, err := h.run(t, "edit", "Stats")
	require.Error(t, err)
	assert.ErrorIs(t, err, terminal.InterruptErr)
	assert.Contains(t, err.Error(), "edit aborted")
}

func TestDepsCommand(t *testing.T) {
	h := newHarness(t, nil)

	out, _, err := h.run(t, "deps", "Material")
	require.NoError(t, err)
	assert.Contains(t, out, "Material.owner -> Player")
	assert.Contains(t, out, "Player.stats -> Stats")

	out, _, err = h.run(t, "deps", "Stats", "--reverse", "--format", "json")
	require.NoError(t, err)
	var graph struct {
		Nodes map[string]any `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &graph))
	assert.Contains(t, graph.Nodes, "Player")

	out, _, err = h.run(t, "deps", "Roughness")
	require.NoError(t, err)
	assert.Contains(t, out, "(none)")
}

func TestTokenCommand(t *testing.T) {
	h := newHarness(t, nil)

	_, _, err := h.run(t, "token")
	var cfgErr *configError
	require.True(t, errors.As(err, &cfgErr))

	path := writeConfig(t, "server:\n  jwt_secret: s3cret\n")
	out, _, err := h.run(t, "--config", path, "token", "--subject", "alice")
	require.NoError(t, err)

	subject, err := server.NewTokenService("s3cret", 0).Validate(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestSnapshotsCommands(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	out, _, err := h.run(t, "snapshots", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No snapshots stored")

	snap := store.NewSnapshot("Stats", []byte(`{"type":"Stats","strength":{"type":"int","value":"7"}}`))
	require.NoError(t, h.store.Save(ctx, snap))
	require.NoError(t, h.store.Save(ctx, store.NewSnapshot("Player", []byte(`{"type":"Player"}`))))

	out, _, err = h.run(t, "snapshots", "list", "--type", "Stats")
	require.NoError(t, err)
	assert.Contains(t, out, snap.ID)
	assert.NotContains(t, out, "Player")

	out, _, err = h.run(t, "snapshots", "list", "--format", "json")
	require.NoError(t, err)
	var listed []store.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Len(t, listed, 2)

	out, _, err = h.run(t, "snapshots", "show", snap.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "type, strength")
	assert.Contains(t, out, `"value": "7"`)

	out, _, err = h.run(t, "snapshots", "delete", snap.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted snapshot "+snap.ID)

	_, _, err = h.run(t, "snapshots", "show", snap.ID)
	var missing *snapshotNotFoundError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, snap.ID, missing.id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSnapshotsCommands_StoreUnavailable(t *testing.T) {
	h := newHarness(t, nil)
	h.g.openStore = func(ctx context.Context, cfg store.Config) (store.Store, error) {
		return nil, errors.New("connection refused")
	}

	_, _, err := h.run(t, "snapshots", "list")
	var stErr *storeError
	require.True(t, errors.As(err, &stErr))
	assert.Contains(t, err.Error(), "failed to open memory store")
}

func TestCompletion(t *testing.T) {
	h := newHarness(t, nil)

	out, _, err := h.run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "inspector")

	_, _, err = h.run(t, "completion", "tcsh")
	assert.Error(t, err)

	names, directive := completeTypes(true)(nil, nil, "Ma")
	assert.Equal(t, []string{"Material"}, names)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	fields, _ := completeTypes(true)(nil, []string{"Stats"}, "a")
	assert.Equal(t, []string{"agility"}, fields)

	fields, _ = completeTypes(false)(nil, []string{"Stats"}, "")
	assert.Empty(t, fields)
}
