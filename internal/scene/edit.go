package scene

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/inspector/internal/cli/ui"
	"github.com/conduit-lang/inspector/runtime/metadata"
	"github.com/conduit-lang/inspector/runtime/widget"
)

// Inputs scripts one editor frame. Values are keyed by widget ID or field
// scope path, e.g. "p/stats/strength".
type Inputs struct {
	Values  map[string]any  `json:"inputs,omitempty"`
	Open    map[string]bool `json:"open,omitempty"`
	OpenAll bool            `json:"open_all,omitempty"`
}

// UnusedInputError lists inputs that matched no widget in the frame.
type UnusedInputError struct {
	Keys        []string
	Suggestions map[string][]string
}

func (e *UnusedInputError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no widget matches %s", strings.Join(quoteAll(e.Keys), ", "))
	for _, key := range e.Keys {
		if s := e.Suggestions[key]; len(s) > 0 {
			fmt.Fprintf(&b, "; for %q try %s", key, strings.Join(s, ", "))
		}
	}
	return b.String()
}

func quoteAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%q", k)
	}
	return out
}

// Edit draws inst once on a Recorder primed with in and returns the frame.
// Inputs no widget consumed are reported as an *UnusedInputError; the
// consumed ones are still applied.
func Edit(inst metadata.Instance, id string, style metadata.Style, in Inputs) (widget.Frame, error) {
	rec := widget.NewRecorder()
	if in.OpenAll {
		rec.OpenAll(true)
	}
	for section, open := range in.Open {
		rec.SetOpen(section, open)
	}
	for key, value := range in.Values {
		rec.Set(key, value)
	}

	inst.Draw(&metadata.Context{UI: rec, Style: style}, id)
	frame := rec.Frame()

	if pending := rec.Pending(); len(pending) > 0 {
		return frame, &UnusedInputError{Keys: pending, Suggestions: suggestIDs(frame, pending)}
	}
	return frame, nil
}

func suggestIDs(frame widget.Frame, keys []string) map[string][]string {
	seen := make(map[string]bool)
	var ids []string
	for _, op := range frame.Ops {
		for _, id := range []string{op.ID, op.Scope} {
			if id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	out := make(map[string][]string, len(keys))
	for _, key := range keys {
		out[key] = ui.FindSimilar(key, ids, nil)
	}
	return out
}
