package metadata

import (
	"github.com/conduit-lang/inspector/runtime/document"
)

// Instance is a reflective value bound to its registry, for callers that
// only know the value by type name.
type Instance interface {
	TypeName() string
	// Value returns the bound *T.
	Value() any
	Schema() Schema
	Describe() TypeInfo
	Draw(ctx *Context, id string, opts ...DrawOption)
	WriteDocument(w DocumentWriter, opts ...SerializeOption)
	Document(opts ...SerializeOption) *document.Document
}

// Bind wraps v. Edits made through Draw change *v.
func Bind[T Reflective[T]](v *T) Instance {
	return &binding[T]{v: v, reg: RegistryFor[T]()}
}

type binding[T any] struct {
	v   *T
	reg *Registry[T]
}

func (b *binding[T]) TypeName() string {
	return b.reg.typeName
}

func (b *binding[T]) Value() any {
	return b.v
}

func (b *binding[T]) Schema() Schema {
	return b.reg
}

func (b *binding[T]) Describe() TypeInfo {
	return b.reg.Describe()
}

func (b *binding[T]) Draw(ctx *Context, id string, opts ...DrawOption) {
	draw(ctx, b.reg, id, b.v, opts...)
}

func (b *binding[T]) WriteDocument(w DocumentWriter, opts ...SerializeOption) {
	var o serializeOptions
	for _, opt := range opts {
		opt(&o)
	}
	writeDocument(w, b.reg, b.v, &o)
}

func (b *binding[T]) Document(opts ...SerializeOption) *document.Document {
	doc := document.New()
	b.WriteDocument(NewDocumentWriter(doc), opts...)
	return doc
}
