package metadata

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type box[T any] struct{ v T }

type selfNamed struct{}

func (selfNamed) TypeName() string { return "CustomName" }

type renamed struct{}

func TestTypeName(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{"predeclared int", reflect.TypeOf((*int)(nil)).Elem(), "int"},
		{"predeclared string", reflect.TypeOf((*string)(nil)).Elem(), "string"},
		{"float32", reflect.TypeOf((*float32)(nil)).Elem(), "float32"},
		{"named struct", reflect.TypeOf((*Player)(nil)).Elem(), "Player"},
		{"pointer", reflect.TypeOf((**Player)(nil)).Elem(), "*Player"},
		{"slice", reflect.TypeOf((*[]int)(nil)).Elem(), "[]int"},
		{"array", reflect.TypeOf((*[4]float32)(nil)).Elem(), "[4]float32"},
		{"map", reflect.TypeOf((*map[string]Stats)(nil)).Elem(), "map[string]Stats"},
		{"generic", reflect.TypeOf((*box[Player])(nil)).Elem(), "box[Player]"},
		{"namer", reflect.TypeOf((*selfNamed)(nil)).Elem(), "CustomName"},
		{"unnamed struct", reflect.TypeOf((*struct{ X int })(nil)).Elem(), "{ X int }"},
		{"empty interface", reflect.TypeOf((*any)(nil)).Elem(), "{}"},
		{"func", reflect.TypeOf((*func(int) string)(nil)).Elem(), "func(int) string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeNameOf(tt.typ))
		})
	}
}

func TestTypeName_Generic(t *testing.T) {
	assert.Equal(t, "Stats", TypeName[Stats]())
	assert.Equal(t, TypeNameOf(reflect.TypeOf((*Stats)(nil)).Elem()), TypeName[Stats]())
}

func TestTypeName_Nil(t *testing.T) {
	assert.Equal(t, "", TypeNameOf(nil))
	assert.Equal(t, "Unnamed", Label(nil))
	assert.Equal(t, "Player", Label(reflect.TypeOf((*Player)(nil)).Elem()))
}

func TestRegisterTypeName(t *testing.T) {
	assert.Equal(t, "renamed", TypeName[renamed]())

	RegisterTypeName(reflect.TypeOf((*renamed)(nil)).Elem(), "Renamed")

	assert.Equal(t, "Renamed", TypeName[renamed]())
	assert.Equal(t, "[]Renamed", TypeName[[]renamed]())
}

func TestShortenTypeArgs(t *testing.T) {
	assert.Equal(t, "Pair[int,Player]", shortenTypeArgs("Pair[int,github.com/acme/game.Player]"))
	assert.Equal(t, "Box[map[string]Item]", shortenTypeArgs("Box[map[string]example.com/x.Item]"))
	assert.Equal(t, "Plain", shortenTypeArgs("Plain"))
}
