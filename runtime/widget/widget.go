// Package widget defines the immediate-mode widget capability consumed by
// the reflective editor, plus a few backends that implement it.
//
// Every widget call returns whether the user changed the value during this
// frame. Identity of a widget is the current ID scope (see PushID) plus its
// label, so the same label can be reused under different scopes.
package widget

import (
	"unicode/utf8"
)

// DefaultTextCapacity is the size of the text buffer handed to InputText
// when a field does not declare its own capacity.
const DefaultTextCapacity = 256

// Vec2 is a 2-component float vector.
type Vec2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Vec4 is a 4-component float vector. The editor treats it as an RGBA color.
type Vec4 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

// TextureID is an opaque handle to an image owned by the rendering backend.
// Zero means no texture.
type TextureID uintptr

// Backend is the widget capability used by field editors.
type Backend interface {
	// BeginSection opens a collapsible section and reports whether it is
	// expanded. EndSection must be called if and only if it returned true.
	BeginSection(label string, defaultOpen bool) bool
	EndSection()

	// PushID and PopID scope the identity of the widgets drawn in between.
	PushID(id string)
	PopID()

	SliderInt(label string, v *int, min, max int) bool
	SliderFloat(label string, v *float32, min, max float32) bool
	DragInt(label string, v *int, speed float32) bool
	DragFloat(label string, v *float32, speed float32) bool
	DragFloat2(label string, v *Vec2, speed float32) bool
	Checkbox(label string, v *bool) bool
	ColorEdit4(label string, v *Vec4) bool

	// InputText edits v through a buffer of the given capacity. Input that
	// does not fit in capacity-1 bytes is dropped.
	InputText(label string, v *string, capacity int) bool

	Image(tex TextureID, size Vec2)
	Text(text string)
	TextDisabled(text string)
}

// Truncate returns the longest prefix of s that fits in a buffer of the
// given capacity, leaving one byte for the terminator. The cut never splits
// a UTF-8 sequence.
func Truncate(s string, capacity int) string {
	limit := capacity - 1
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	for cut := limit; cut > 0 && limit-cut < utf8.UTFMax; cut-- {
		if utf8.RuneStart(s[cut]) {
			return s[:cut]
		}
	}
	// not valid UTF-8 around the cut; fall back to a plain byte cut
	return s[:limit]
}

// ClampInt restricts v to [min, max].
func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampFloat restricts v to [min, max].
func ClampFloat(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
