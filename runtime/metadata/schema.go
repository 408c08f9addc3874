package metadata

// Schema is the type-erased view of a registry used by tooling that does
// not know T: the CLI, the HTTP API and the dependency graph.
type Schema interface {
	TypeName() string
	Describe() TypeInfo
	// NestedSchemas returns the schemas of nested reflective field types
	// in declaration order, building them if needed.
	NestedSchemas() []Schema
}

// TypeInfo is the JSON-serializable description of a registry.
type TypeInfo struct {
	Name    string      `json:"name" yaml:"name"`                           // Display name (e.g., "Player")
	GoType  string      `json:"go_type" yaml:"go_type"`                     // Fully qualified Go type
	Package string      `json:"package,omitempty" yaml:"package,omitempty"` // Import path of the defining package
	Fields  []FieldInfo `json:"fields" yaml:"fields"`                       // Fields in declaration order
}

// FieldInfo is the JSON-serializable description of one field.
type FieldInfo struct {
	Name     string     `json:"name" yaml:"name"`                             // Field name as declared
	Type     string     `json:"type" yaml:"type"`                             // Display name of the field type
	Widget   WidgetKind `json:"widget" yaml:"widget"`                         // Editor strategy
	Range    *Range     `json:"range,omitempty" yaml:"range,omitempty"`       // Bounds of ranged numeric fields
	Nested   string     `json:"nested,omitempty" yaml:"nested,omitempty"`     // Type name of a nested reflective field
	Capacity int        `json:"capacity,omitempty" yaml:"capacity,omitempty"` // Declared text buffer size
	Step     float32    `json:"step,omitempty" yaml:"step,omitempty"`         // Declared drag step
}

// Field returns the info of the named field.
func (ti TypeInfo) Field(name string) (FieldInfo, bool) {
	for _, f := range ti.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldInfo{}, false
}

// FieldNames returns the field names in declaration order.
func (ti TypeInfo) FieldNames() []string {
	names := make([]string, len(ti.Fields))
	for i, f := range ti.Fields {
		names[i] = f.Name
	}
	return names
}

// Describe returns the schema of T.
func (r *Registry[T]) Describe() TypeInfo {
	info := TypeInfo{
		Name:    r.typeName,
		GoType:  r.typ.String(),
		Package: r.typ.PkgPath(),
		Fields:  make([]FieldInfo, len(r.fields)),
	}
	for i, d := range r.fields {
		fi := FieldInfo{
			Name:     d.name,
			Type:     d.typeName,
			Widget:   d.widget,
			Capacity: d.capacity,
			Step:     d.step,
		}
		if d.rng != nil {
			rng := *d.rng
			fi.Range = &rng
		}
		if d.nestedType != nil {
			fi.Nested = TypeNameOf(d.nestedType)
		}
		info.Fields[i] = fi
	}
	return info
}

// NestedSchemas implements Schema.
func (r *Registry[T]) NestedSchemas() []Schema {
	var nested []Schema
	for _, d := range r.fields {
		if d.nestedSchema != nil {
			nested = append(nested, d.nestedSchema())
		}
	}
	return nested
}

// Describe returns the schema of T, building its registry if needed.
func Describe[T Reflective[T]]() TypeInfo {
	return RegistryFor[T]().Describe()
}

var _ Schema = (*Registry[struct{}])(nil)
