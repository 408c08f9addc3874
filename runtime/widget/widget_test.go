package widget

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		capacity int
		want     string
	}{
		{"fits", "hello", 8, "hello"},
		{"exactly capacity minus one", "hello", 6, "hello"},
		{"overflow", "hello world", 6, "hello"},
		{"zero capacity", "hello", 0, ""},
		{"capacity one", "hello", 1, ""},
		{"multibyte boundary", "héllo", 3, "h"},
		{"multibyte kept", "héllo", 4, "hé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input, tt.capacity))
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, ClampInt(-5, 0, 100))
	assert.Equal(t, 100, ClampInt(500, 0, 100))
	assert.Equal(t, 42, ClampInt(42, 0, 100))
	assert.Equal(t, float32(10), ClampFloat(12.5, 0, 10))
	assert.Equal(t, float32(0), ClampFloat(-1, 0, 10))
}

func TestRecorder_ScriptedInput(t *testing.T) {
	r := NewRecorder()
	r.Set("stats/strength", "250")
	r.Set("stats/name/name", "a very long name")

	r.PushID("stats")
	strength := 50
	r.PushID("strength")
	changed := r.SliderInt("strength", &strength, 0, 100)
	r.PopID()

	name := "Bob"
	r.PushID("name")
	textChanged := r.InputText("name", &name, 5)
	r.PopID()
	r.PopID()

	assert.True(t, changed)
	assert.Equal(t, 100, strength, "slider input must be clamped")
	assert.True(t, textChanged)
	assert.Equal(t, "a ve", name)
	assert.Empty(t, r.Pending())

	frame := r.Frame()
	require.Len(t, frame.Ops, 2)
	assert.Equal(t, "stats/strength/strength", frame.Ops[0].ID)
	assert.Equal(t, "stats/strength", frame.Ops[0].Scope)
	assert.Equal(t, OpSliderInt, frame.Ops[0].Kind)
	assert.True(t, frame.Ops[0].Changed)
}

func TestRecorder_InputConsumedOnce(t *testing.T) {
	r := NewRecorder()
	r.Set("alive", false)

	alive := true
	assert.True(t, r.Checkbox("alive", &alive))
	assert.False(t, alive)

	alive = true
	assert.False(t, r.Checkbox("alive", &alive))
	assert.True(t, alive)
}

func TestRecorder_InvalidInputIgnored(t *testing.T) {
	r := NewRecorder()
	r.Set("count", "not a number")

	count := 3
	assert.False(t, r.DragInt("count", &count, 1))
	assert.Equal(t, 3, count)
}

func TestRecorder_Vectors(t *testing.T) {
	r := NewRecorder()
	r.Set("pos", "1.5, -2")
	r.Set("color", []any{0.1, 0.2, 0.3, 1.0})

	var pos Vec2
	var c Vec4
	assert.True(t, r.DragFloat2("pos", &pos, 0.1))
	assert.True(t, r.ColorEdit4("color", &c))

	assert.Equal(t, Vec2{X: 1.5, Y: -2}, pos)
	assert.InDelta(t, 0.3, c.Z, 1e-6)
	assert.InDelta(t, 1.0, c.W, 1e-6)
}

func TestRecorder_Sections(t *testing.T) {
	r := NewRecorder()

	assert.True(t, r.BeginSection("Stats##a", true))
	r.EndSection()
	assert.False(t, r.BeginSection("nested", false))

	r.SetOpen("nested", true)
	r.Reset()
	assert.True(t, r.BeginSection("nested", false))
	r.EndSection()

	r.OpenAll(false)
	r.Reset()
	assert.False(t, r.BeginSection("Stats##a", true))
	assert.True(t, r.BeginSection("nested", false), "explicit state wins over OpenAll")
	r.EndSection()

	op, ok := r.Frame().Find("Stats##a")
	require.True(t, ok)
	assert.Equal(t, "Stats", op.Label)
	assert.Equal(t, false, op.Value)
}

func TestRecorder_Depth(t *testing.T) {
	r := NewRecorder()
	r.BeginSection("outer", true)
	r.Text("inside")
	r.EndSection()
	r.Text("outside")

	frame := r.Frame()
	require.Len(t, frame.Ops, 3)
	assert.Equal(t, 1, frame.Ops[1].Depth)
	assert.Equal(t, 0, frame.Ops[2].Depth)
	assert.Equal(t, 2, frame.Count(OpText))
}

func TestTerminal_Render(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, &TerminalOptions{NoColor: true})

	strength := 50
	alive := true
	name := "Bob"

	require.True(t, term.BeginSection("Stats##stats", true))
	assert.False(t, term.SliderInt("strength", &strength, 0, 100))
	assert.False(t, term.Checkbox("alive", &alive))
	assert.False(t, term.InputText("name", &name, 256))
	assert.False(t, term.BeginSection("nested", false))
	term.TextDisabled("Texture not visible or null")
	term.EndSection()

	out := buf.String()
	assert.Contains(t, out, "▼ Stats\n")
	assert.Contains(t, out, "  strength: 50 [0..100]")
	assert.Contains(t, out, "  alive: [x]")
	assert.Contains(t, out, `  name: "Bob"`)
	assert.Contains(t, out, "  ▶ nested")
	assert.NotContains(t, out, "##")
}

// scriptedAsk answers prompts from a queue.
func scriptedAsk(answers ...any) AskFunc {
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

func TestPrompt_Edits(t *testing.T) {
	p := NewPrompt(scriptedAsk(true, "70", "0.5,0.25", false, "Alice"))

	strength := 50
	pos := Vec2{}
	alive := true
	name := "Bob"

	require.True(t, p.BeginSection("Stats##stats", true))
	assert.True(t, p.SliderInt("strength", &strength, 0, 100))
	assert.True(t, p.DragFloat2("pos", &pos, 0.1))
	assert.True(t, p.Checkbox("alive", &alive))
	assert.True(t, p.InputText("name", &name, 4))
	p.EndSection()

	require.NoError(t, p.Err())
	assert.Equal(t, 70, strength)
	assert.Equal(t, Vec2{X: 0.5, Y: 0.25}, pos)
	assert.False(t, alive)
	assert.Equal(t, "Ali", name)
}

func TestPrompt_UnchangedAnswer(t *testing.T) {
	p := NewPrompt(scriptedAsk("50"))
	strength := 50
	assert.False(t, p.SliderInt("strength", &strength, 0, 100))
}

func TestPrompt_StopsAfterError(t *testing.T) {
	interrupted := errors.New("interrupt")
	p := NewPrompt(scriptedAsk(interrupted, "99"))

	count := 1
	assert.False(t, p.DragInt("count", &count, 1))
	assert.False(t, p.DragInt("count", &count, 1))
	assert.Equal(t, 1, count)
	assert.ErrorIs(t, p.Err(), interrupted)
}

func TestPrompt_Message(t *testing.T) {
	var messages []string
	ask := func(pr survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		if in, ok := pr.(*survey.Input); ok {
			messages = append(messages, in.Message)
		}
		return nil
	}
	p := NewPrompt(ask)
	p.PushID("material")
	p.PushID("specular")
	p.PushID("r")
	v := float32(0)
	p.DragFloat("r", &v, 0.1)

	require.Len(t, messages, 1)
	assert.True(t, strings.HasPrefix(messages[0], "material.specular.r"))
}
