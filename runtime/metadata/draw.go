package metadata

import (
	"github.com/conduit-lang/inspector/runtime/widget"
)

// DefaultDragStep is the drag speed of unbounded float fields.
const DefaultDragStep float32 = 0.1

// Style holds the editor defaults fields fall back to.
type Style struct {
	TextCapacity int         // Text buffer size when a field declares none
	DragStep     float32     // Float drag speed when a field declares none
	PreviewSize  widget.Vec2 // Display size of texture previews
}

// DefaultStyle returns a 256-byte text buffer, a 0.1 drag step and a
// 300x300 texture preview.
func DefaultStyle() Style {
	return Style{
		TextCapacity: widget.DefaultTextCapacity,
		DragStep:     DefaultDragStep,
		PreviewSize:  widget.Vec2{X: 300, Y: 300},
	}
}

// Context is what an editor draws with.
type Context struct {
	UI    widget.Backend
	Style Style
}

// NewContext returns a context drawing to ui with the default style.
func NewContext(ui widget.Backend) *Context {
	return &Context{UI: ui, Style: DefaultStyle()}
}

func (c *Context) textCapacity(declared int) int {
	if declared > 0 {
		return declared
	}
	if c.Style.TextCapacity > 0 {
		return c.Style.TextCapacity
	}
	return widget.DefaultTextCapacity
}

func (c *Context) dragStep(declared float32) float32 {
	if declared > 0 {
		return declared
	}
	if c.Style.DragStep > 0 {
		return c.Style.DragStep
	}
	return DefaultDragStep
}

// DrawOption changes how Draw renders a value.
type DrawOption func(*drawOptions)

type drawOptions struct {
	skipHeader bool
}

// SkipHeader draws the fields without the collapsible type header.
func SkipHeader() DrawOption {
	return func(o *drawOptions) {
		o.skipHeader = true
	}
}

// Draw renders the fields of v through ctx.UI and applies any edits the
// backend reports. Unless SkipHeader is given, the fields sit in a section
// labelled with the type name, open by default.
//
// id scopes every widget drawn for v. It must be unique among the values
// drawn in the same frame and stable across frames; nested values extend
// it with their field names.
func Draw[T Reflective[T]](ctx *Context, id string, v *T, opts ...DrawOption) {
	draw(ctx, RegistryFor[T](), id, v, opts...)
}

func draw[T any](ctx *Context, reg *Registry[T], id string, v *T, opts ...DrawOption) {
	if ctx == nil || ctx.UI == nil || v == nil {
		return
	}
	var o drawOptions
	for _, opt := range opts {
		opt(&o)
	}

	if !o.skipHeader {
		label := reg.typeName
		if label == "" {
			label = unnamed
		}
		if !ctx.UI.BeginSection(label+"##"+id, true) {
			return
		}
		defer ctx.UI.EndSection()
	}

	ctx.UI.PushID(id)
	defer ctx.UI.PopID()
	drawFields(ctx, reg, v)
}

// drawFields runs every editor of reg against v in declaration order.
func drawFields[T any](ctx *Context, reg *Registry[T], v *T) {
	for _, d := range reg.fields {
		d.Edit(v, ctx)
	}
}
