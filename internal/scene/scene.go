// Package scene is the catalog of demo types served by the inspector.
package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/conduit-lang/inspector/internal/cli/ui"
	"github.com/conduit-lang/inspector/runtime/metadata"
	"github.com/conduit-lang/inspector/runtime/widget"
)

// ErrUnknownType matches every UnknownTypeError.
var ErrUnknownType = metadata.ErrUnknownType

// UnknownTypeError reports a type name missing from the catalog together
// with the closest known names.
type UnknownTypeError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %q", e.Name)
}

func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}

var (
	catalogOnce sync.Once
	catalog     *metadata.Catalog
)

// Catalog returns the shared catalog of demo types.
func Catalog() *metadata.Catalog {
	catalogOnce.Do(func() {
		catalog = NewCatalog()
	})
	return catalog
}

// NewCatalog builds a catalog of every demo type with its initial state.
func NewCatalog() *metadata.Catalog {
	c := metadata.NewCatalog()
	metadata.Add[Stats](c, nil)
	metadata.Add[Player](c, nil)
	metadata.Add[Specular](c, nil)
	metadata.Add[Emissive](c, nil)
	metadata.Add[Roughness](c, nil)
	metadata.Add[Metallic](c, nil)
	metadata.Add(c, func() Light {
		return Light{Color: widget.Vec4{X: 1, Y: 1, Z: 1, W: 1}, Intensity: 1}
	})
	metadata.Add[Material](c, nil)
	metadata.Add(c, func() GFrameBuffer {
		// the normal target is left unbound
		return GFrameBuffer{PositionTex: 1, DepthTex: 3}
	})
	return c
}

// Names returns the demo type names, sorted.
func Names() []string {
	return Catalog().Names()
}

// New creates a demo value by type name. Unknown names yield an
// *UnknownTypeError.
func New(name string) (metadata.Instance, error) {
	inst, err := Catalog().New(name)
	if errors.Is(err, metadata.ErrUnknownType) {
		return nil, &UnknownTypeError{
			Name:        name,
			Suggestions: ui.FindSimilar(name, Names(), nil),
		}
	}
	return inst, err
}
