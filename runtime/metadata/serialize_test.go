package metadata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/inspector/runtime/document"
)

func TestToDocument_Player(t *testing.T) {
	p := Player{Name: "Bob", Alive: true}
	doc := ToDocument(&p)

	typ, ok := doc.Get("type")
	require.True(t, ok)
	assert.Equal(t, "Player", typ)

	name, ok := doc.Lookup("name")
	require.True(t, ok)
	v, _ := name.Get("type")
	assert.Equal(t, "string", v)
	v, _ = name.Get("value")
	assert.Equal(t, `"Bob"`, v)

	alive, ok := doc.Lookup("alive")
	require.True(t, ok)
	v, _ = alive.Get("type")
	assert.Equal(t, "bool", v)
	v, _ = alive.Get("value")
	assert.Equal(t, "true", v)

	assert.Equal(t, []string{"type", "name", "alive", "stats"}, doc.Keys())
}

func TestToDocument_NestedIsPlaceholder(t *testing.T) {
	p := Player{Stats: Stats{Strength: 80, Agility: 2}}
	doc := ToDocument(&p)

	stats, ok := doc.Lookup("stats")
	require.True(t, ok)
	assert.Equal(t, []string{"type", "value"}, stats.Keys())
	v, _ := stats.Get("type")
	assert.Equal(t, "Stats", v)
	v, _ = stats.Get("value")
	assert.Equal(t, "{object}", v)
}

func TestToDocument_JSON(t *testing.T) {
	p := Player{Name: "Bob", Alive: true, Stats: Stats{Strength: 50, Agility: 5}}
	data, err := json.Marshal(ToDocument(&p))
	require.NoError(t, err)

	assert.Equal(t,
		`{"type":"Player",`+
			`"name":{"type":"string","value":"\"Bob\""},`+
			`"alive":{"type":"bool","value":"true"},`+
			`"stats":{"type":"Stats","value":"{object}"}}`,
		string(data))
}

func TestToDocument_Pure(t *testing.T) {
	p := Player{Name: "Bob", Alive: true, Stats: Stats{Strength: 50}}
	before := p

	first := ToDocument(&p)
	second := ToDocument(&p)

	assert.True(t, first.Equal(second))
	assert.Equal(t, before, p)
}

func TestToDocument_Recursive(t *testing.T) {
	m := Material{Owner: Player{Name: "Ann", Stats: Stats{Strength: 3}}}
	doc := ToDocument(&m, Recursive())

	owner, ok := doc.Lookup("owner")
	require.True(t, ok)
	v, _ := owner.Get("value")
	assert.Equal(t, "{object}", v, "the placeholder stays for consumers of the flat shape")

	fields, ok := owner.Lookup("fields")
	require.True(t, ok)
	name, ok := fields.Lookup("name")
	require.True(t, ok)
	v, _ = name.Get("value")
	assert.Equal(t, `"Ann"`, v)

	stats, ok := fields.Lookup("stats")
	require.True(t, ok)
	inner, ok := stats.Lookup("fields")
	require.True(t, ok)
	strength, ok := inner.Lookup("strength")
	require.True(t, ok)
	v, _ = strength.Get("value")
	assert.Equal(t, "3", v)
}

// mapWriter is a DocumentWriter over plain maps.
type mapWriter map[string]any

func (m mapWriter) Set(key, value string) {
	m[key] = value
}

func (m mapWriter) Child(key string) DocumentWriter {
	if child, ok := m[key].(mapWriter); ok {
		return child
	}
	child := mapWriter{}
	m[key] = child
	return child
}

func TestWriteDocument_CustomWriter(t *testing.T) {
	w := mapWriter{}
	WriteDocument(w, &Stats{Strength: 50, Agility: 5})

	assert.Equal(t, mapWriter{
		"type":     "Stats",
		"strength": mapWriter{"type": "int", "value": "50"},
		"agility":  mapWriter{"type": "float32", "value": "5.000000"},
	}, w)
}

func TestInstance_Document(t *testing.T) {
	inst := Bind(&Player{Name: "Bob", Alive: true})
	assert.Equal(t, "Player", inst.TypeName())

	doc := inst.Document()
	want := ToDocument(&Player{Name: "Bob", Alive: true})
	assert.True(t, doc.Equal(want))

	var other document.Document
	inst.WriteDocument(NewDocumentWriter(&other))
	assert.True(t, other.Equal(want))
}
