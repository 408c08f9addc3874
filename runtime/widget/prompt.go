package widget

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// AskFunc matches survey.AskOne so tests can replace the terminal.
type AskFunc func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error

// Prompt is an interactive Backend that asks one question per widget.
// Sections become yes/no questions, values are edited in place with their
// current value as default.
//
// The widget interface has no error channel, so the first prompt error
// (usually an interrupt) is kept and every later widget is skipped.
type Prompt struct {
	ask   AskFunc
	opts  []survey.AskOpt
	stack []string
	err   error
}

// NewPrompt creates a Prompt backend. A nil ask uses survey.AskOne.
func NewPrompt(ask AskFunc, opts ...survey.AskOpt) *Prompt {
	if ask == nil {
		ask = survey.AskOne
	}
	return &Prompt{ask: ask, opts: opts}
}

// Err returns the first prompt error, if any.
func (p *Prompt) Err() error {
	return p.err
}

func (p *Prompt) message(label string) string {
	label = displayLabel(label)
	if len(p.stack) == 0 {
		return label + ":"
	}
	// the innermost scope repeats the field name already in the label
	path := p.stack
	if path[len(path)-1] == label {
		path = path[:len(path)-1]
	}
	if len(path) == 0 {
		return label + ":"
	}
	return strings.Join(path, ".") + "." + label + ":"
}

func (p *Prompt) input(label, def string, validate survey.Validator) (string, bool) {
	if p.err != nil {
		return "", false
	}
	var answer string
	opts := p.opts
	if validate != nil {
		opts = append(append([]survey.AskOpt{}, opts...), survey.WithValidator(validate))
	}
	if err := p.ask(&survey.Input{Message: p.message(label), Default: def}, &answer, opts...); err != nil {
		p.err = err
		return "", false
	}
	if answer == def {
		return "", false
	}
	return answer, true
}

func (p *Prompt) confirm(message string, def bool) (bool, bool) {
	if p.err != nil {
		return def, false
	}
	answer := def
	if err := p.ask(&survey.Confirm{Message: message, Default: def}, &answer, p.opts...); err != nil {
		p.err = err
		return def, false
	}
	return answer, true
}

func parses(parse func(any) error) survey.Validator {
	return func(ans interface{}) error {
		return parse(ans)
	}
}

func (p *Prompt) BeginSection(label string, defaultOpen bool) bool {
	open, _ := p.confirm(fmt.Sprintf("Expand %s?", displayLabel(label)), defaultOpen)
	return open && p.err == nil
}

func (p *Prompt) EndSection() {}

func (p *Prompt) PushID(id string) {
	p.stack = append(p.stack, id)
}

func (p *Prompt) PopID() {
	if len(p.stack) > 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *Prompt) SliderInt(label string, v *int, min, max int) bool {
	validate := parses(func(a any) error {
		n, err := toInt(a)
		if err != nil {
			return err
		}
		if n < min || n > max {
			return fmt.Errorf("value must be between %d and %d", min, max)
		}
		return nil
	})
	answer, ok := p.input(fmt.Sprintf("%s [%d..%d]", label, min, max), fmt.Sprint(*v), validate)
	if !ok {
		return false
	}
	n, err := toInt(answer)
	if err != nil {
		return false
	}
	*v = ClampInt(n, min, max)
	return true
}

func (p *Prompt) SliderFloat(label string, v *float32, min, max float32) bool {
	validate := parses(func(a any) error {
		f, err := toFloat(a)
		if err != nil {
			return err
		}
		if f < min || f > max {
			return fmt.Errorf("value must be between %g and %g", min, max)
		}
		return nil
	})
	answer, ok := p.input(fmt.Sprintf("%s [%g..%g]", label, min, max), fmt.Sprint(*v), validate)
	if !ok {
		return false
	}
	f, err := toFloat(answer)
	if err != nil {
		return false
	}
	*v = ClampFloat(f, min, max)
	return true
}

func (p *Prompt) DragInt(label string, v *int, speed float32) bool {
	answer, ok := p.input(label, fmt.Sprint(*v), parses(func(a any) error { _, err := toInt(a); return err }))
	if !ok {
		return false
	}
	n, err := toInt(answer)
	if err != nil {
		return false
	}
	*v = n
	return true
}

func (p *Prompt) DragFloat(label string, v *float32, speed float32) bool {
	answer, ok := p.input(label, fmt.Sprint(*v), parses(func(a any) error { _, err := toFloat(a); return err }))
	if !ok {
		return false
	}
	f, err := toFloat(answer)
	if err != nil {
		return false
	}
	*v = f
	return true
}

func (p *Prompt) DragFloat2(label string, v *Vec2, speed float32) bool {
	def := fmt.Sprintf("%g,%g", v.X, v.Y)
	answer, ok := p.input(label+" (x,y)", def, parses(func(a any) error { _, err := toVec2(a); return err }))
	if !ok {
		return false
	}
	vec, err := toVec2(answer)
	if err != nil {
		return false
	}
	*v = vec
	return true
}

func (p *Prompt) Checkbox(label string, v *bool) bool {
	answer, ok := p.confirm(p.message(label), *v)
	if !ok || answer == *v {
		return false
	}
	*v = answer
	return true
}

func (p *Prompt) ColorEdit4(label string, v *Vec4) bool {
	def := fmt.Sprintf("%g,%g,%g,%g", v.X, v.Y, v.Z, v.W)
	answer, ok := p.input(label+" (r,g,b,a)", def, parses(func(a any) error { _, err := toVec4(a); return err }))
	if !ok {
		return false
	}
	c, err := toVec4(answer)
	if err != nil {
		return false
	}
	*v = c
	return true
}

func (p *Prompt) InputText(label string, v *string, capacity int) bool {
	answer, ok := p.input(label, *v, nil)
	if !ok {
		return false
	}
	*v = Truncate(answer, capacity)
	return true
}

func (p *Prompt) Image(tex TextureID, size Vec2) {}

func (p *Prompt) Text(text string) {}

func (p *Prompt) TextDisabled(text string) {}

var _ Backend = (*Prompt)(nil)
