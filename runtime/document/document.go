// Package document provides the ordered key/value tree produced by the
// reflective serializer. Insertion order is preserved in every encoding.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an output encoding for a Document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported document format %q (want json or yaml)", s)
}

type entry struct {
	key   string
	value string
	child *Document
}

// Document is a node holding string entries and nested documents.
// The zero value is an empty document ready to use.
type Document struct {
	entries []entry
	index   map[string]int
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

func (d *Document) find(key string) (int, bool) {
	if d.index == nil {
		return 0, false
	}
	i, ok := d.index[key]
	return i, ok
}

func (d *Document) add(e entry) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	d.index[e.key] = len(d.entries)
	d.entries = append(d.entries, e)
}

// Set stores a string entry under key, replacing whatever was there while
// keeping the key's original position.
func (d *Document) Set(key, value string) {
	if i, ok := d.find(key); ok {
		d.entries[i] = entry{key: key, value: value}
		return
	}
	d.add(entry{key: key, value: value})
}

// Node returns the nested document under key, creating it when missing.
// A string entry under the same key is replaced.
func (d *Document) Node(key string) *Document {
	if i, ok := d.find(key); ok {
		if d.entries[i].child == nil {
			d.entries[i] = entry{key: key, child: New()}
		}
		return d.entries[i].child
	}
	child := New()
	d.add(entry{key: key, child: child})
	return child
}

// Get returns the string entry under key.
func (d *Document) Get(key string) (string, bool) {
	i, ok := d.find(key)
	if !ok || d.entries[i].child != nil {
		return "", false
	}
	return d.entries[i].value, true
}

// Lookup returns the nested document under key.
func (d *Document) Lookup(key string) (*Document, bool) {
	i, ok := d.find(key)
	if !ok || d.entries[i].child == nil {
		return nil, false
	}
	return d.entries[i].child, true
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.key
	}
	return keys
}

// Len returns the number of entries.
func (d *Document) Len() int {
	return len(d.entries)
}

// Map converts the document to plain maps, losing key order.
func (d *Document) Map() map[string]any {
	out := make(map[string]any, len(d.entries))
	for _, e := range d.entries {
		if e.child != nil {
			out[e.key] = e.child.Map()
		} else {
			out[e.key] = e.value
		}
	}
	return out
}

// Equal reports whether two documents hold the same entries in the same order.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	if len(d.entries) != len(other.entries) {
		return false
	}
	for i, e := range d.entries {
		o := other.entries[i]
		if e.key != o.key || e.value != o.value {
			return false
		}
		if (e.child == nil) != (o.child == nil) {
			return false
		}
		if e.child != nil && !e.child.Equal(o.child) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the document as a JSON object in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		var val []byte
		if e.child != nil {
			val, err = e.child.MarshalJSON()
		} else {
			val, err = json.Marshal(e.value)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order. Non-string
// scalars are stored in their JSON text form.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("document: expected JSON object")
	}
	*d = Document{}
	return d.decodeObject(dec)
}

func (d *Document) decodeObject(dec *json.Decoder) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("document: expected string key, got %v", tok)
		}
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case json.Delim:
			if v != '{' {
				return fmt.Errorf("document: arrays are not supported (key %q)", key)
			}
			if err := d.Node(key).decodeObject(dec); err != nil {
				return err
			}
		case string:
			d.Set(key, v)
		case json.Number:
			d.Set(key, v.String())
		case bool:
			d.Set(key, fmt.Sprint(v))
		case nil:
			d.Set(key, "null")
		}
	}
	// closing brace
	_, err := dec.Token()
	return err
}

// MarshalYAML encodes the document as an ordered YAML mapping.
func (d *Document) MarshalYAML() (interface{}, error) {
	return d.yamlNode(), nil
}

func (d *Document) yamlNode() *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range d.entries {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.key}
		var val *yaml.Node
		if e.child != nil {
			val = e.child.yamlNode()
		} else {
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.value}
		}
		node.Content = append(node.Content, key, val)
	}
	return node
}

// Encode writes the document to w. indent applies to both formats; zero
// produces compact JSON and two-space YAML.
func (d *Document) Encode(w io.Writer, format Format, indent int) error {
	switch format {
	case FormatJSON, "":
		data, err := d.MarshalJSON()
		if err != nil {
			return err
		}
		if indent > 0 {
			var out bytes.Buffer
			if err := json.Indent(&out, data, "", strings.Repeat(" ", indent)); err != nil {
				return err
			}
			data = out.Bytes()
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if indent > 0 {
			enc.SetIndent(indent)
		}
		if err := enc.Encode(d.yamlNode()); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported document format %q", format)
}
