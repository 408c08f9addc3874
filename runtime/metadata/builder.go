package metadata

import (
	"cmp"

	"go.uber.org/zap"
)

// Reflective is implemented by types that describe their own fields. The
// method is called once, on the zero value, the first time the type's
// registry is needed.
//
// Example:
//
//	type Stats struct {
//		Strength int
//		Agility  float32
//	}
//
//	func (Stats) DescribeFields(b *metadata.Builder[Stats]) {
//		metadata.Ranged(b, "strength", func(s *Stats) *int { return &s.Strength }, 0, 100)
//		metadata.Ranged(b, "agility", func(s *Stats) *float32 { return &s.Agility }, 0, 10)
//	}
type Reflective[T any] interface {
	DescribeFields(b *Builder[T])
}

// Builder collects the field descriptors of T in declaration order.
type Builder[T any] struct {
	typeName string
	fields   []*FieldDescriptor[T]
	names    map[string]bool
}

func newBuilder[T any]() *Builder[T] {
	return &Builder[T]{
		typeName: TypeName[T](),
		names:    make(map[string]bool),
	}
}

func (b *Builder[T]) add(d *FieldDescriptor[T]) {
	if b.names[d.name] {
		logger().Warn("duplicate field name",
			zap.String("type", b.typeName),
			zap.String("field", d.name))
	}
	b.names[d.name] = true
	b.fields = append(b.fields, d)
}

// FieldOption tunes a single field's editor.
type FieldOption func(*fieldConfig)

type fieldConfig struct {
	capacity int
	step     float32
}

// WithCapacity sets the text buffer size of a string field. Input longer
// than capacity-1 bytes is truncated.
func WithCapacity(capacity int) FieldOption {
	return func(c *fieldConfig) {
		c.capacity = capacity
	}
}

// WithStep sets the drag speed of an unbounded float or vector field.
func WithStep(step float32) FieldOption {
	return func(c *fieldConfig) {
		c.step = step
	}
}

func applyOptions(opts []FieldOption) fieldConfig {
	var cfg fieldConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Field declares a field of T addressed by ref. The editor and the string
// form are chosen from F here, once.
func Field[T, F any](b *Builder[T], name string, ref func(*T) *F, opts ...FieldOption) {
	if ref == nil {
		logger().Warn("field without accessor ignored",
			zap.String("type", b.typeName),
			zap.String("field", name))
		return
	}
	b.add(bind(name, ref, nil, applyOptions(opts)))
}

// Ranged declares a field of T bounded to [min, max]. Integer and float
// fields get a slider and an inspectable Range; any other type renders an
// "Unsupported ranged type" label.
func Ranged[T any, F cmp.Ordered](b *Builder[T], name string, ref func(*T) *F, min, max F, opts ...FieldOption) {
	if ref == nil {
		logger().Warn("field without accessor ignored",
			zap.String("type", b.typeName),
			zap.String("field", name))
		return
	}
	b.add(bind(name, ref, &Range{Min: min, Max: max}, applyOptions(opts)))
}
