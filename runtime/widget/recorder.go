package widget

import (
	"sort"
	"strings"
)

// OpKind identifies the widget that produced an Op.
type OpKind string

const (
	OpSection      OpKind = "section"
	OpSliderInt    OpKind = "slider_int"
	OpSliderFloat  OpKind = "slider_float"
	OpDragInt      OpKind = "drag_int"
	OpDragFloat    OpKind = "drag_float"
	OpDragFloat2   OpKind = "drag_float2"
	OpCheckbox     OpKind = "checkbox"
	OpColorEdit4   OpKind = "color_edit4"
	OpInputText    OpKind = "input_text"
	OpImage        OpKind = "image"
	OpText         OpKind = "text"
	OpTextDisabled OpKind = "text_disabled"
)

// Op is one widget call captured by a Recorder.
type Op struct {
	ID      string `json:"id"`
	Scope   string `json:"scope"`
	Kind    OpKind `json:"kind"`
	Label   string `json:"label"`
	Depth   int    `json:"depth"`
	Value   any    `json:"value,omitempty"`
	Min     any    `json:"min,omitempty"`
	Max     any    `json:"max,omitempty"`
	Changed bool   `json:"changed,omitempty"`
}

// Frame is the ordered list of widget calls made while drawing.
type Frame struct {
	Ops []Op `json:"ops"`
}

// Find returns the first op whose ID or scope equals key.
func (f Frame) Find(key string) (Op, bool) {
	for _, op := range f.Ops {
		if op.ID == key || op.Scope == key {
			return op, true
		}
	}
	return Op{}, false
}

// Count returns how many ops of the given kind were recorded.
func (f Frame) Count(kind OpKind) int {
	n := 0
	for _, op := range f.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Recorder is a headless Backend. It records every widget call into a
// Frame and feeds scripted input back into the widgets, which makes it the
// backend of choice for tests, the CLI and the HTTP server.
//
// Inputs are keyed either by full widget ID ("scope/label") or by scope
// path ("material/specular/r"); each input is consumed by the first widget
// that matches it. A Recorder is not safe for concurrent use.
type Recorder struct {
	stack   []string
	depth   int
	open    map[string]bool
	openAll *bool
	inputs  map[string]any
	frame   Frame
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		open:   make(map[string]bool),
		inputs: make(map[string]any),
	}
}

// Reset starts a new frame. Section state and pending inputs are kept.
func (r *Recorder) Reset() {
	r.stack = r.stack[:0]
	r.depth = 0
	r.frame = Frame{}
}

// Frame returns the ops recorded since the last Reset.
func (r *Recorder) Frame() Frame {
	ops := make([]Op, len(r.frame.Ops))
	copy(ops, r.frame.Ops)
	return Frame{Ops: ops}
}

// Set schedules an input for the widget with the given ID or scope path.
func (r *Recorder) Set(key string, value any) {
	r.inputs[key] = value
}

// Pending returns the keys of inputs no widget has consumed yet.
func (r *Recorder) Pending() []string {
	keys := make([]string, 0, len(r.inputs))
	for k := range r.inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetOpen forces the expanded state of the section with the given ID.
func (r *Recorder) SetOpen(id string, open bool) {
	r.open[id] = open
}

// OpenAll overrides the default state of every section not set by SetOpen.
func (r *Recorder) OpenAll(open bool) {
	r.openAll = &open
}

func (r *Recorder) scope() string {
	return strings.Join(r.stack, "/")
}

func (r *Recorder) widgetID(label string) string {
	if len(r.stack) == 0 {
		return label
	}
	return r.scope() + "/" + label
}

// take pops the scripted input for the current widget, if any.
func (r *Recorder) take(id string) (any, bool) {
	if v, ok := r.inputs[id]; ok {
		delete(r.inputs, id)
		return v, true
	}
	scope := r.scope()
	if scope == "" {
		return nil, false
	}
	if v, ok := r.inputs[scope]; ok {
		delete(r.inputs, scope)
		return v, true
	}
	return nil, false
}

func (r *Recorder) record(op Op) {
	op.Scope = r.scope()
	op.Depth = r.depth
	op.Label = displayLabel(op.Label)
	r.frame.Ops = append(r.frame.Ops, op)
}

// displayLabel drops the "##suffix" used only for identity.
func displayLabel(label string) string {
	if i := strings.Index(label, "##"); i >= 0 {
		return label[:i]
	}
	return label
}

func (r *Recorder) BeginSection(label string, defaultOpen bool) bool {
	id := r.widgetID(label)
	open := defaultOpen
	if r.openAll != nil {
		open = *r.openAll
	}
	if v, ok := r.open[id]; ok {
		open = v
	}
	r.record(Op{ID: id, Kind: OpSection, Label: label, Value: open})
	if open {
		r.depth++
	}
	return open
}

func (r *Recorder) EndSection() {
	if r.depth > 0 {
		r.depth--
	}
}

func (r *Recorder) PushID(id string) {
	r.stack = append(r.stack, id)
}

func (r *Recorder) PopID() {
	if len(r.stack) > 0 {
		r.stack = r.stack[:len(r.stack)-1]
	}
}

func (r *Recorder) SliderInt(label string, v *int, min, max int) bool {
	id := r.widgetID(label)
	changed := false
	if in, ok := r.take(id); ok {
		if n, err := toInt(in); err == nil {
			*v = ClampInt(n, min, max)
			changed = true
		}
	}
	r.record(Op{ID: id, Kind: OpSliderInt, Label: label, Value: *v, Min: min, Max: max, Changed: changed})
	return changed
}

func (r *Recorder) SliderFloat(label string, v *float32, min, max float32) bool {
	id := r.widgetID(label)
	changed := false
	if in, ok := r.take(id); ok {
		if f, err := toFloat(in); err == nil {
			*v = ClampFloat(f, min, max)
			changed = true
		}
	}
	r.record(Op{ID: id, Kind: OpSliderFloat, Label: label, Value: *v, Min: min, Max: max, Changed: changed})
	return changed
}

func (r *Recorder) DragInt(label string, v *int, speed float32) bool {
	id := r.widgetID(label)
	changed := false
	if in, ok := r.take(id); ok {
		if n, err := toInt(in); err == nil {
			*v = n
			changed = true
		}
	}
	r.record(Op{ID: id, Kind: OpDragInt, Label: label, Value: *v, Changed: changed})
	return changed
}

func (r *Recorder) DragFloat(label string, v *float32, speed float32) bool {
	id := r.widgetID(label)
	changed := false
	if in, ok := r.take(id); ok {
		if f, err := toFloat(in); err == nil {
			*v = f
			changed = true
		}
	}
	r.record(Op{ID: id, Kind: OpDragFloat, Label: label, Value: *v, Changed: changed})
	return changed
}

func (r *Recorder) DragFloat2(label string, v *Vec2, speed float32) bool {
	id := r.widgetID(label)
	changed := false
	if in, ok := r.take(id); ok {
		if vec, err := toVec2(in); err == nil {
			*v = vec
			changed = true
		}
	}
	r.record(Op{ID: id, Kind: OpDragFloat2, Label: label, Value: *v, Changed: changed})
	return changed
}

func (r *Recorder) Checkbox(label string, v *bool) bool {
	id := r.widgetID(label)
	changed := false
	if in, ok := r.take(id); ok {
		if b, err := toBool(in); err == nil {
			*v = b
			changed = true
		}
	}
	r.record(Op{ID: id, Kind: OpCheckbox, Label: label, Value: *v, Changed: changed})
	return changed
}

func (r *Recorder) ColorEdit4(label string, v *Vec4) bool {
	id := r.widgetID(label)
	changed := false
	if in, ok := r.take(id); ok {
		if c, err := toVec4(in); err == nil {
			*v = c
			changed = true
		}
	}
	r.record(Op{ID: id, Kind: OpColorEdit4, Label: label, Value: *v, Changed: changed})
	return changed
}

func (r *Recorder) InputText(label string, v *string, capacity int) bool {
	id := r.widgetID(label)
	changed := false
	if in, ok := r.take(id); ok {
		if s, err := toString(in); err == nil {
			*v = Truncate(s, capacity)
			changed = true
		}
	}
	r.record(Op{ID: id, Kind: OpInputText, Label: label, Value: *v, Max: capacity, Changed: changed})
	return changed
}

func (r *Recorder) Image(tex TextureID, size Vec2) {
	r.record(Op{ID: r.widgetID("image"), Kind: OpImage, Label: "image", Value: uint64(tex), Max: size})
}

func (r *Recorder) Text(text string) {
	r.record(Op{ID: r.widgetID(text), Kind: OpText, Label: text})
}

func (r *Recorder) TextDisabled(text string) {
	r.record(Op{ID: r.widgetID(text), Kind: OpTextDisabled, Label: text})
}

var _ Backend = (*Recorder)(nil)
