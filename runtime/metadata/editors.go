package metadata

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/conduit-lang/inspector/runtime/widget"
)

const (
	textureMissing   = "Texture not visible or null"
	unsupportedRange = "Unsupported ranged type"

	// vectorStep matches the default drag speed of a 2-component vector.
	vectorStep = 1
)

// bind builds the descriptor of one field. The editor strategy is picked
// from F once: widget value types match exactly, anything else binds by its
// reflect kind so that a named type such as `type Percent int` edits like
// its underlying type. Nothing is inspected at draw time.
func bind[T, F any](name string, ref func(*T) *F, bounds *Range, cfg fieldConfig) *FieldDescriptor[T] {
	d := &FieldDescriptor[T]{
		name:     name,
		typeName: TypeName[F](),
		capacity: cfg.capacity,
		step:     cfg.step,
		get:      func(*T) string { return objectPlaceholder },
	}

	if desc, ok := any(*new(F)).(Reflective[F]); ok && bounds == nil {
		bindNested(d, ref, desc)
		return d
	}

	switch r := any(ref).(type) {
	case func(*T) *widget.Vec2:
		bindVec2(d, r)
	case func(*T) *widget.Vec4:
		bindColor(d, r)
	case func(*T) *widget.TextureID:
		bindTexture(d, r)
	default:
		bindKind(d, ref, bounds)
	}

	// a bound on anything but an integer or float leaves the value untouched
	if bounds != nil && d.rng == nil {
		d.widget = WidgetUnsupported
		d.edit = func(_ *T, ctx *Context) {
			ctx.UI.Text(unsupportedRange)
		}
	}
	return d
}

func bindNested[T, F any](d *FieldDescriptor[T], ref func(*T) *F, desc Reflective[F]) {
	d.widget = WidgetNested
	d.nestedType = reflect.TypeOf((*F)(nil)).Elem()
	// nested registries are looked up on use, never while T's registry is
	// being built
	d.nestedSchema = func() Schema {
		return registryOf(desc)
	}
	d.edit = func(owner *T, ctx *Context) {
		if !ctx.UI.BeginSection(d.name, false) {
			return
		}
		defer ctx.UI.EndSection()
		drawFields(ctx, registryOf(desc), ref(owner))
	}
	d.writeNested = func(owner *T, w DocumentWriter, o *serializeOptions) {
		writeFields(w, registryOf(desc), ref(owner), o)
	}
}

func bindKind[T, F any](d *FieldDescriptor[T], ref func(*T) *F, bounds *Range) {
	t := reflect.TypeOf((*F)(nil)).Elem()
	elem := func(owner *T) reflect.Value {
		return reflect.ValueOf(ref(owner)).Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bindSigned(d, elem, bounds, t.Bits())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		bindUnsigned(d, elem, bounds, t.Bits())
	case reflect.Float32, reflect.Float64:
		bindFloat(d, elem, bounds, t.Bits())
	case reflect.Bool:
		bindBool(d, elem)
	case reflect.String:
		bindString(d, elem)
	default:
		d.widget = WidgetUnsupported
		label := fmt.Sprintf("%s: unsupported type %s", d.name, d.typeName)
		d.edit = func(_ *T, ctx *Context) {
			ctx.UI.TextDisabled(label)
		}
	}
}

// bindSigned edits any signed integer kind. Input from the backend is
// saturated to the field's bounds, or to the limits of its width when
// unbounded.
func bindSigned[T any](d *FieldDescriptor[T], elem func(*T) reflect.Value, bounds *Range, bits int) {
	lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
	d.get = func(owner *T) string {
		return strconv.FormatInt(elem(owner).Int(), 10)
	}
	d.widget = WidgetDragInt
	if bounds != nil {
		lo, hi = reflect.ValueOf(bounds.Min).Int(), reflect.ValueOf(bounds.Max).Int()
		d.rng = bounds
		d.widget = WidgetSliderInt
	}

	d.edit = func(owner *T, ctx *Context) {
		e := elem(owner)
		v := saturateInt(e.Int())
		var changed bool
		if d.rng != nil {
			changed = ctx.UI.SliderInt(d.name, &v, saturateInt(lo), saturateInt(hi))
		} else {
			changed = ctx.UI.DragInt(d.name, &v, 1)
		}
		if changed {
			e.SetInt(min(max(int64(v), lo), hi))
		}
	}
}

// bindUnsigned edits any unsigned integer kind; negative input becomes the
// lower bound.
func bindUnsigned[T any](d *FieldDescriptor[T], elem func(*T) reflect.Value, bounds *Range, bits int) {
	lo, hi := uint64(0), uint64(math.MaxUint64)>>(64-bits)
	d.get = func(owner *T) string {
		return strconv.FormatUint(elem(owner).Uint(), 10)
	}
	d.widget = WidgetDragInt
	if bounds != nil {
		lo, hi = reflect.ValueOf(bounds.Min).Uint(), reflect.ValueOf(bounds.Max).Uint()
		d.rng = bounds
		d.widget = WidgetSliderInt
	}

	d.edit = func(owner *T, ctx *Context) {
		e := elem(owner)
		v := saturateUint(e.Uint())
		var changed bool
		if d.rng != nil {
			changed = ctx.UI.SliderInt(d.name, &v, saturateUint(lo), saturateUint(hi))
		} else {
			changed = ctx.UI.DragInt(d.name, &v, 1)
		}
		if !changed {
			return
		}
		var n uint64
		if v > 0 {
			n = uint64(v)
		}
		e.SetUint(min(max(n, lo), hi))
	}
}

// bindFloat edits float32 and float64 kinds. The backend works in float32,
// so a float64 field keeps its stored value when the widget hands it back
// unchanged and is clamped again at full precision after an edit.
func bindFloat[T any](d *FieldDescriptor[T], elem func(*T) reflect.Value, bounds *Range, bits int) {
	lo, hi := math.Inf(-1), math.Inf(1)
	d.get = func(owner *T) string {
		return strconv.FormatFloat(elem(owner).Float(), 'f', 6, bits)
	}
	d.widget = WidgetDragFloat
	if bounds != nil {
		lo, hi = reflect.ValueOf(bounds.Min).Float(), reflect.ValueOf(bounds.Max).Float()
		d.rng = bounds
		d.widget = WidgetSliderFloat
	}

	d.edit = func(owner *T, ctx *Context) {
		e := elem(owner)
		cur := e.Float()
		v := float32(cur)
		var changed bool
		if d.rng != nil {
			changed = ctx.UI.SliderFloat(d.name, &v, float32(lo), float32(hi))
		} else {
			changed = ctx.UI.DragFloat(d.name, &v, ctx.dragStep(d.step))
		}
		if !changed {
			return
		}
		next := cur
		if v != float32(cur) {
			next = widen(v, bits)
		}
		e.SetFloat(min(max(next, lo), hi))
	}
}

func bindBool[T any](d *FieldDescriptor[T], elem func(*T) reflect.Value) {
	d.widget = WidgetCheckbox
	d.get = func(owner *T) string {
		return strconv.FormatBool(elem(owner).Bool())
	}
	d.edit = func(owner *T, ctx *Context) {
		e := elem(owner)
		v := e.Bool()
		if ctx.UI.Checkbox(d.name, &v) {
			e.SetBool(v)
		}
	}
}

func bindString[T any](d *FieldDescriptor[T], elem func(*T) reflect.Value) {
	d.widget = WidgetInputText
	d.get = func(owner *T) string {
		return `"` + elem(owner).String() + `"`
	}
	d.edit = func(owner *T, ctx *Context) {
		capacity := ctx.textCapacity(d.capacity)
		e := elem(owner)
		buf := widget.Truncate(e.String(), capacity)
		if ctx.UI.InputText(d.name, &buf, capacity) {
			e.SetString(widget.Truncate(buf, capacity))
		}
	}
}

func saturateInt(v int64) int {
	return int(min(max(v, math.MinInt), math.MaxInt))
}

func saturateUint(v uint64) int {
	return int(min(v, math.MaxInt))
}

// widen turns a float32 from the backend into the float64 closest to its
// shortest decimal form, so 0.1 typed into a widget stores 0.1.
func widen(v float32, bits int) float64 {
	if bits == 32 {
		return float64(v)
	}
	f, err := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'g', -1, 32), 64)
	if err != nil {
		return float64(v)
	}
	return f
}

func bindVec2[T any](d *FieldDescriptor[T], ref func(*T) *widget.Vec2) {
	d.widget = WidgetDragFloat2
	d.edit = func(owner *T, ctx *Context) {
		step := d.step
		if step <= 0 {
			step = vectorStep
		}
		ctx.UI.DragFloat2(d.name, ref(owner), step)
	}
}

func bindColor[T any](d *FieldDescriptor[T], ref func(*T) *widget.Vec4) {
	d.widget = WidgetColorEdit4
	d.edit = func(owner *T, ctx *Context) {
		ctx.UI.ColorEdit4(d.name, ref(owner))
	}
}

func bindTexture[T any](d *FieldDescriptor[T], ref func(*T) *widget.TextureID) {
	d.widget = WidgetImage
	d.edit = func(owner *T, ctx *Context) {
		tex := *ref(owner)
		ctx.UI.Text(d.name)
		if tex != 0 {
			ctx.UI.Image(tex, ctx.Style.PreviewSize)
		} else {
			ctx.UI.TextDisabled(textureMissing)
		}
	}
}
