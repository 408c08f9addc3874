// Package metadata lets Go types expose their fields by name, type, value
// and editor without per-field boilerplate beyond one declaration method.
//
// # Overview
//
// A type opts in by implementing Reflective on its value receiver. The
// DescribeFields method lists the fields in the order they should be shown
// and serialized:
//
//	type Player struct {
//		Name  string
//		Alive bool
//		Stats Stats
//	}
//
//	func (Player) DescribeFields(b *metadata.Builder[Player]) {
//		metadata.Field(b, "name", func(p *Player) *string { return &p.Name })
//		metadata.Field(b, "alive", func(p *Player) *bool { return &p.Alive })
//		metadata.Field(b, "stats", func(p *Player) *Stats { return &p.Stats })
//	}
//
// The first call to RegistryFor[Player] (or any function that needs it)
// runs DescribeFields once and freezes the result. Registries are cached
// for the life of the process and safe for concurrent use.
//
// # Field Descriptors
//
// Each FieldDescriptor carries:
//
//   - Name: the name given to Field or Ranged
//   - TypeName: the display name of the field's Go type
//   - Value: the canonical string form of the field
//   - Edit: the editor chosen for the field's Go type
//   - Range: bounds of numeric fields declared with Ranged
//
// Value renders booleans as "true"/"false", strings wrapped in double
// quotes, integers in base 10 and floats with six decimals. Every other
// type, nested reflective values included, renders as "{object}".
//
// # Editors
//
// Editors draw through the widget.Backend in a Context:
//
//	ui := widget.NewRecorder()
//	ctx := metadata.NewContext(ui)
//	metadata.Draw(ctx, "player", &player)
//
// The editor for each field is picked when the registry is built:
//
//   - nested reflective value: collapsible section, closed by default
//   - int kinds: DragInt, or SliderInt when ranged
//   - float32, float64: DragFloat, or SliderFloat when ranged
//   - bool: Checkbox
//   - widget.Vec2: DragFloat2
//   - widget.Vec4: ColorEdit4
//   - widget.TextureID: Image preview, or a disabled placeholder for zero
//   - string: InputText with a fixed capacity
//
// Sliders clamp to their range and text input is truncated to capacity-1
// bytes. Unsupported types render a disabled label and are never changed.
//
// Widget identity comes from the id passed to Draw extended with field
// names, never from memory addresses.
//
// # Documents
//
// ToDocument and WriteDocument produce
//
//	{
//	  "type": "Player",
//	  "name":  {"type": "string", "value": "\"Bob\""},
//	  "alive": {"type": "bool", "value": "true"},
//	  "stats": {"type": "Stats", "value": "{object}"}
//	}
//
// Nested values are not expanded unless the Recursive option is given.
//
// # Tooling
//
// Schema, TypeInfo and FieldInfo describe registries without knowing T.
// BuildTypeGraph and Dependencies walk the nesting graph between types.
// Instance binds a *T for code that only handles values by type name.
package metadata
