package widget

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// TerminalOptions configures a Terminal backend.
type TerminalOptions struct {
	NoColor bool
	// OpenAll expands every section regardless of its default state.
	OpenAll bool
}

// Terminal renders widgets as indented text. It is display only: no widget
// ever reports a change.
type Terminal struct {
	w       io.Writer
	depth   int
	openAll bool

	header *color.Color
	label  *color.Color
	value  *color.Color
	dim    *color.Color
}

// NewTerminal creates a Terminal writing to w.
func NewTerminal(w io.Writer, opts *TerminalOptions) *Terminal {
	if opts == nil {
		opts = &TerminalOptions{}
	}
	t := &Terminal{
		w:       w,
		openAll: opts.OpenAll,
		header:  color.New(color.FgCyan, color.Bold),
		label:   color.New(color.FgWhite),
		value:   color.New(color.FgGreen),
		dim:     color.New(color.FgHiBlack),
	}
	if opts.NoColor {
		for _, c := range []*color.Color{t.header, t.label, t.value, t.dim} {
			c.DisableColor()
		}
	}
	return t
}

func (t *Terminal) indent() string {
	return strings.Repeat("  ", t.depth)
}

func (t *Terminal) line(label string, format string, args ...any) {
	fmt.Fprint(t.w, t.indent())
	t.label.Fprintf(t.w, "%s: ", displayLabel(label))
	t.value.Fprintf(t.w, format, args...)
	fmt.Fprintln(t.w)
}

func (t *Terminal) BeginSection(label string, defaultOpen bool) bool {
	open := defaultOpen || t.openAll
	marker := "▶"
	if open {
		marker = "▼"
	}
	fmt.Fprint(t.w, t.indent())
	t.header.Fprintf(t.w, "%s %s\n", marker, displayLabel(label))
	if open {
		t.depth++
	}
	return open
}

func (t *Terminal) EndSection() {
	if t.depth > 0 {
		t.depth--
	}
}

func (t *Terminal) PushID(string) {}
func (t *Terminal) PopID()        {}

func (t *Terminal) SliderInt(label string, v *int, min, max int) bool {
	t.line(label, "%d [%d..%d]", *v, min, max)
	return false
}

func (t *Terminal) SliderFloat(label string, v *float32, min, max float32) bool {
	t.line(label, "%.3f [%.3f..%.3f]", *v, min, max)
	return false
}

func (t *Terminal) DragInt(label string, v *int, speed float32) bool {
	t.line(label, "%d", *v)
	return false
}

func (t *Terminal) DragFloat(label string, v *float32, speed float32) bool {
	t.line(label, "%.3f", *v)
	return false
}

func (t *Terminal) DragFloat2(label string, v *Vec2, speed float32) bool {
	t.line(label, "(%.3f, %.3f)", v.X, v.Y)
	return false
}

func (t *Terminal) Checkbox(label string, v *bool) bool {
	mark := "[ ]"
	if *v {
		mark = "[x]"
	}
	t.line(label, "%s", mark)
	return false
}

func (t *Terminal) ColorEdit4(label string, v *Vec4) bool {
	t.line(label, "rgba(%.3f, %.3f, %.3f, %.3f)", v.X, v.Y, v.Z, v.W)
	return false
}

func (t *Terminal) InputText(label string, v *string, capacity int) bool {
	t.line(label, "%q", *v)
	return false
}

func (t *Terminal) Image(tex TextureID, size Vec2) {
	fmt.Fprint(t.w, t.indent())
	t.dim.Fprintf(t.w, "[texture %#x %gx%g]\n", uintptr(tex), size.X, size.Y)
}

func (t *Terminal) Text(text string) {
	fmt.Fprintf(t.w, "%s%s\n", t.indent(), text)
}

func (t *Terminal) TextDisabled(text string) {
	fmt.Fprint(t.w, t.indent())
	t.dim.Fprintln(t.w, text)
}

var _ Backend = (*Terminal)(nil)
