package metadata

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Namer lets a type choose its own display name.
type Namer interface {
	TypeName() string
}

// unnamed is the label used when a type resolves to an empty name.
const unnamed = "Unnamed"

// typeNames caches resolved names per reflect.Type.
var typeNames = struct {
	mu        sync.RWMutex
	cache     map[reflect.Type]string
	overrides map[reflect.Type]string
}{
	cache:     make(map[reflect.Type]string),
	overrides: make(map[reflect.Type]string),
}

// TypeName returns the display name of T.
func TypeName[T any]() string {
	return TypeNameOf(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeNameOf returns the display name of t. Resolution never fails:
//
//  1. the zero value's TypeName method, when t implements Namer
//  2. a name registered with RegisterTypeName
//  3. the demangled Go name: short name for named types, element names
//     composed for pointers, slices, arrays and maps
//  4. t.String() with a leading "struct " or "interface " removed
//
// A nil type resolves to "".
func TypeNameOf(t reflect.Type) string {
	if t == nil {
		return ""
	}

	typeNames.mu.RLock()
	name, ok := typeNames.cache[t]
	typeNames.mu.RUnlock()
	if ok {
		return name
	}

	name = resolveTypeName(t)

	typeNames.mu.Lock()
	typeNames.cache[t] = name
	typeNames.mu.Unlock()
	return name
}

// Label returns the display name of t, or "Unnamed" when it is empty.
func Label(t reflect.Type) string {
	if name := TypeNameOf(t); name != "" {
		return name
	}
	return unnamed
}

// RegisterTypeName overrides the display name of t. Names already handed
// out for composite types containing t are recomputed on next use.
func RegisterTypeName(t reflect.Type, name string) {
	if t == nil {
		return
	}
	typeNames.mu.Lock()
	defer typeNames.mu.Unlock()
	typeNames.overrides[t] = name
	typeNames.cache = make(map[reflect.Type]string)
}

func resolveTypeName(t reflect.Type) string {
	if name, ok := namerName(t); ok {
		return name
	}

	typeNames.mu.RLock()
	name, ok := typeNames.overrides[t]
	typeNames.mu.RUnlock()
	if ok {
		return name
	}

	if name, ok := demangle(t); ok {
		return name
	}
	return stripKeyword(t.String())
}

// namerName asks the zero value for its name. Pointer and interface kinds
// are skipped since their zero value is nil.
func namerName(t reflect.Type) (string, bool) {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		return "", false
	}
	if !t.Implements(reflect.TypeOf((*Namer)(nil)).Elem()) {
		return "", false
	}
	namer, ok := reflect.Zero(t).Interface().(Namer)
	if !ok {
		return "", false
	}
	return namer.TypeName(), true
}

func demangle(t reflect.Type) (string, bool) {
	if name := t.Name(); name != "" {
		return shortenTypeArgs(name), true
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + TypeNameOf(t.Elem()), true
	case reflect.Slice:
		return "[]" + TypeNameOf(t.Elem()), true
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), TypeNameOf(t.Elem())), true
	case reflect.Map:
		return "map[" + TypeNameOf(t.Key()) + "]" + TypeNameOf(t.Elem()), true
	}
	return "", false
}

// shortenTypeArgs drops package paths from generic type arguments, so
// "Box[github.com/acme/game.Player]" becomes "Box[Player]".
func shortenTypeArgs(name string) string {
	open := strings.IndexByte(name, '[')
	if open < 0 {
		return name
	}

	var b strings.Builder
	b.WriteString(name[:open])
	token := strings.Builder{}
	flush := func() {
		s := token.String()
		if i := strings.LastIndexByte(s, '/'); i >= 0 {
			s = s[i+1:]
		}
		if i := strings.IndexByte(s, '.'); i >= 0 {
			s = s[i+1:]
		}
		b.WriteString(s)
		token.Reset()
	}
	for _, r := range name[open:] {
		switch r {
		case '[', ']', ',', ' ', '*':
			flush()
			b.WriteRune(r)
		default:
			token.WriteRune(r)
		}
	}
	flush()
	return b.String()
}

func stripKeyword(raw string) string {
	for _, prefix := range []string{"struct ", "interface "} {
		if strings.HasPrefix(raw, prefix) {
			return raw[len(prefix):]
		}
	}
	return raw
}
