package metadata

import (
	"reflect"
)

// WidgetKind names the editor strategy chosen for a field.
type WidgetKind string

const (
	WidgetNested      WidgetKind = "nested"       // collapsible section around a reflective value
	WidgetDragInt     WidgetKind = "drag_int"     // unbounded integer drag
	WidgetSliderInt   WidgetKind = "slider_int"   // bounded integer slider
	WidgetDragFloat   WidgetKind = "drag_float"   // unbounded float drag with a fixed step
	WidgetSliderFloat WidgetKind = "slider_float" // bounded float slider
	WidgetCheckbox    WidgetKind = "checkbox"     // boolean toggle
	WidgetDragFloat2  WidgetKind = "drag_float2"  // 2-component vector
	WidgetColorEdit4  WidgetKind = "color_edit4"  // RGBA color with alpha bar
	WidgetImage       WidgetKind = "image"        // texture preview
	WidgetInputText   WidgetKind = "input_text"   // fixed-capacity text buffer
	WidgetUnsupported WidgetKind = "unsupported"  // non-interactive marker
)

// objectPlaceholder is the value string of every field without a
// canonical string form.
const objectPlaceholder = "{object}"

// Range is the inclusive bound pair of a numeric field. Min and Max hold
// values of the field's own Go type.
type Range struct {
	Min any `json:"min" yaml:"min"`
	Max any `json:"max" yaml:"max"`
}

// FieldDescriptor describes one field of T. Descriptors are created by the
// Builder and never change afterwards.
type FieldDescriptor[T any] struct {
	name     string
	typeName string
	widget   WidgetKind
	rng      *Range
	capacity int
	step     float32

	get  func(owner *T) string
	edit func(owner *T, ctx *Context)

	// set only for nested reflective fields
	nestedType   reflect.Type
	nestedSchema func() Schema
	writeNested  func(owner *T, w DocumentWriter, o *serializeOptions)
}

// Name returns the field name as declared.
func (d *FieldDescriptor[T]) Name() string {
	return d.name
}

// TypeName returns the display name of the field's static type.
func (d *FieldDescriptor[T]) TypeName() string {
	return d.typeName
}

// Value returns the canonical string form of the field on owner.
func (d *FieldDescriptor[T]) Value(owner *T) string {
	return d.get(owner)
}

// Edit runs the field's editor against owner inside a naming scope derived
// from the field name. The editor may change the field in place.
func (d *FieldDescriptor[T]) Edit(owner *T, ctx *Context) {
	if ctx == nil || ctx.UI == nil {
		return
	}
	ctx.UI.PushID(d.name)
	defer ctx.UI.PopID()
	d.edit(owner, ctx)
}

// Range returns the field's bounds. Only numeric fields declared with
// Ranged have one.
func (d *FieldDescriptor[T]) Range() (Range, bool) {
	if d.rng == nil {
		return Range{}, false
	}
	return *d.rng, true
}

// Widget returns the editor strategy chosen at registration.
func (d *FieldDescriptor[T]) Widget() WidgetKind {
	return d.widget
}

// Nested reports whether the field holds a reflective value.
func (d *FieldDescriptor[T]) Nested() bool {
	return d.nestedType != nil
}

// NestedType returns the Go type of a nested reflective field, or nil.
func (d *FieldDescriptor[T]) NestedType() reflect.Type {
	return d.nestedType
}

// Capacity returns the text buffer size declared with WithCapacity, or 0.
func (d *FieldDescriptor[T]) Capacity() int {
	return d.capacity
}

// Step returns the drag step declared with WithStep, or 0.
func (d *FieldDescriptor[T]) Step() float32 {
	return d.step
}
