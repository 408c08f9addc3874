package metadata

import (
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Registry holds the ordered field descriptors of one concrete type.
// It is built on first access and never changes afterwards.
type Registry[T any] struct {
	typ      reflect.Type
	typeName string
	fields   []*FieldDescriptor[T]
	byName   map[string]*FieldDescriptor[T]
}

// Fields returns the descriptors in declaration order. The slice is a
// copy; the descriptors are shared.
func (r *Registry[T]) Fields() []*FieldDescriptor[T] {
	fields := make([]*FieldDescriptor[T], len(r.fields))
	copy(fields, r.fields)
	return fields
}

// Field looks up a descriptor by name. With duplicate names the first
// declaration wins.
func (r *Registry[T]) Field(name string) (*FieldDescriptor[T], bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Len returns the number of fields.
func (r *Registry[T]) Len() int {
	return len(r.fields)
}

// TypeName returns the display name of T.
func (r *Registry[T]) TypeName() string {
	return r.typeName
}

// Type returns the Go type the registry describes.
func (r *Registry[T]) Type() reflect.Type {
	return r.typ
}

// registryEntry guards the one-time build of a single type's registry.
type registryEntry struct {
	once  sync.Once
	reg   any
	built atomic.Bool
}

// registries is the process-wide registry cache. The map lock is only
// held to find or create an entry; building happens under the entry's
// Once so unrelated types never wait on each other.
var registries = struct {
	mu      sync.RWMutex
	entries map[reflect.Type]*registryEntry
}{
	entries: make(map[reflect.Type]*registryEntry),
}

func entryFor(t reflect.Type) *registryEntry {
	// Fast path: entry exists
	registries.mu.RLock()
	e, ok := registries.entries[t]
	registries.mu.RUnlock()
	if ok {
		return e
	}

	registries.mu.Lock()
	defer registries.mu.Unlock()
	if e, ok := registries.entries[t]; ok {
		return e
	}
	e = &registryEntry{}
	registries.entries[t] = e
	return e
}

// RegistryFor returns the registry of T, building it on first call. Every
// call returns the same *Registry[T].
func RegistryFor[T Reflective[T]]() *Registry[T] {
	var zero T
	return registryOf[T](zero)
}

// Fields returns the ordered field descriptors of T.
func Fields[T Reflective[T]]() []*FieldDescriptor[T] {
	return RegistryFor[T]().Fields()
}

// registryOf is the unconstrained form of RegistryFor used by nested
// editors, which only hold a Reflective[F] value.
func registryOf[T any](desc Reflective[T]) *Registry[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	e := entryFor(t)
	e.once.Do(func() {
		reg := build(t, desc)
		e.reg = reg
		e.built.Store(true)
	})
	return e.reg.(*Registry[T])
}

func build[T any](t reflect.Type, desc Reflective[T]) *Registry[T] {
	start := time.Now()
	b := newBuilder[T]()
	desc.DescribeFields(b)

	reg := &Registry[T]{
		typ:      t,
		typeName: b.typeName,
		fields:   b.fields,
		byName:   make(map[string]*FieldDescriptor[T], len(b.fields)),
	}
	for _, d := range b.fields {
		if _, ok := reg.byName[d.name]; !ok {
			reg.byName[d.name] = d
		}
	}

	elapsed := time.Since(start)
	logger().Debug("registry built",
		zap.String("type", reg.typeName),
		zap.Int("fields", len(reg.fields)),
		zap.Duration("duration", elapsed))
	if hook := builtHook.Load(); hook != nil {
		(*hook)(reg.typeName, len(reg.fields), elapsed)
	}
	return reg
}

// Registered returns the schemas of every registry built so far, sorted
// by type name.
func Registered() []Schema {
	registries.mu.RLock()
	entries := make([]*registryEntry, 0, len(registries.entries))
	for _, e := range registries.entries {
		entries = append(entries, e)
	}
	registries.mu.RUnlock()

	var result []Schema
	for _, e := range entries {
		// entries still inside their first build are skipped
		if !e.built.Load() {
			continue
		}
		if s, ok := e.reg.(Schema); ok {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TypeName() < result[j].TypeName()
	})
	return result
}

// BuildHook observes registry construction.
type BuildHook func(typeName string, fields int, elapsed time.Duration)

var builtHook atomic.Pointer[BuildHook]

// OnRegistryBuilt installs a hook called once per type after its registry
// is built. Passing nil removes it.
func OnRegistryBuilt(hook BuildHook) {
	if hook == nil {
		builtHook.Store(nil)
		return
	}
	builtHook.Store(&hook)
}

var pkgLogger atomic.Pointer[zap.Logger]

// SetLogger installs the logger used for registry diagnostics. The
// default discards everything.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	pkgLogger.Store(l)
}

func logger() *zap.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}
