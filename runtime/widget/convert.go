package widget

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Scripted input arrives from JSON bodies, websocket messages and command
// line flags, so every widget accepts a few loose representations.

func toInt(v any) (int, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if strings.ContainsAny(s, ".eE") {
			f, err := cast.ToFloat64E(s)
			if err != nil {
				return 0, err
			}
			return int(f), nil
		}
		return cast.ToIntE(s)
	}
	return cast.ToIntE(v)
}

func toFloat(v any) (float32, error) {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	return cast.ToFloat32E(v)
}

func toBool(v any) (bool, error) {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	return cast.ToBoolE(v)
}

func toString(v any) (string, error) {
	return cast.ToStringE(v)
}

// floats accepts "a,b,..." strings, slices and x/y/z/w maps.
func floats(v any, n int) ([]float32, error) {
	var parts []any
	switch t := v.(type) {
	case string:
		for _, p := range strings.Split(t, ",") {
			parts = append(parts, strings.TrimSpace(p))
		}
	case map[string]any:
		for _, k := range []string{"x", "y", "z", "w"}[:n] {
			p, ok := t[k]
			if !ok {
				return nil, fmt.Errorf("missing component %q", k)
			}
			parts = append(parts, p)
		}
	default:
		s, err := cast.ToSliceE(v)
		if err != nil {
			return nil, err
		}
		parts = s
	}
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(parts))
	}
	out := make([]float32, n)
	for i, p := range parts {
		f, err := toFloat(p)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

func toVec2(v any) (Vec2, error) {
	switch t := v.(type) {
	case Vec2:
		return t, nil
	case []float32:
		v = toAnySlice(t)
	case []float64:
		v = toAnySlice(t)
	}
	f, err := floats(v, 2)
	if err != nil {
		return Vec2{}, err
	}
	return Vec2{X: f[0], Y: f[1]}, nil
}

func toVec4(v any) (Vec4, error) {
	switch t := v.(type) {
	case Vec4:
		return t, nil
	case []float32:
		v = toAnySlice(t)
	case []float64:
		v = toAnySlice(t)
	}
	f, err := floats(v, 4)
	if err != nil {
		return Vec4{}, err
	}
	return Vec4{X: f[0], Y: f[1], Z: f[2], W: f[3]}, nil
}

func toAnySlice[E any](in []E) []any {
	out := make([]any, len(in))
	for i, e := range in {
		out[i] = e
	}
	return out
}
