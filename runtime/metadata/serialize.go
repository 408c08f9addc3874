package metadata

import (
	"github.com/conduit-lang/inspector/runtime/document"
)

// DocumentWriter is the document capability the serializer writes to.
type DocumentWriter interface {
	// Set stores a string entry under key.
	Set(key, value string)
	// Child returns the nested node under key, creating it if missing.
	Child(key string) DocumentWriter
}

// SerializeOption changes the serializer output.
type SerializeOption func(*serializeOptions)

type serializeOptions struct {
	recursive bool
}

// Recursive also writes the fields of nested reflective values under a
// "fields" node. Without it a nested value is only the "{object}"
// placeholder.
func Recursive() SerializeOption {
	return func(o *serializeOptions) {
		o.recursive = true
	}
}

// WriteDocument writes the state of v to w:
//
//	{"type": "<type>", "<field>": {"type": "<field type>", "value": "<value>"}, ...}
//
// It only reads v.
func WriteDocument[T Reflective[T]](w DocumentWriter, v *T, opts ...SerializeOption) {
	var o serializeOptions
	for _, opt := range opts {
		opt(&o)
	}
	writeDocument(w, RegistryFor[T](), v, &o)
}

// ToDocument returns the state of v as a new document.
func ToDocument[T Reflective[T]](v *T, opts ...SerializeOption) *document.Document {
	doc := document.New()
	WriteDocument(NewDocumentWriter(doc), v, opts...)
	return doc
}

func writeDocument[T any](w DocumentWriter, reg *Registry[T], v *T, o *serializeOptions) {
	w.Set("type", reg.typeName)
	writeFields(w, reg, v, o)
}

func writeFields[T any](w DocumentWriter, reg *Registry[T], v *T, o *serializeOptions) {
	for _, d := range reg.fields {
		node := w.Child(d.name)
		node.Set("type", d.typeName)
		node.Set("value", d.get(v))
		if o.recursive && d.writeNested != nil {
			d.writeNested(v, node.Child("fields"), o)
		}
	}
}

// NewDocumentWriter adapts a document to DocumentWriter.
func NewDocumentWriter(doc *document.Document) DocumentWriter {
	return documentWriter{doc: doc}
}

type documentWriter struct {
	doc *document.Document
}

func (w documentWriter) Set(key, value string) {
	w.doc.Set(key, value)
}

func (w documentWriter) Child(key string) DocumentWriter {
	return documentWriter{doc: w.doc.Node(key)}
}
