// Package input holds per-frame snapshots of pointer and keyboard state as ECS
// singletons. The render package fills them from ebiten; tests fill them
// directly.
package input

import (
	"fmt"
	"strings"

	"github.com/plus3/ecstoys/geom"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
	buttonCount
)

var buttonNames = [buttonCount]string{"left", "right", "middle"}

func (b Button) String() string {
	if b < 0 || b >= buttonCount {
		return fmt.Sprintf("Button(%d)", int(b))
	}
	return buttonNames[b]
}

func (b Button) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Button) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range buttonNames {
		if n == name {
			*b = Button(i)
			return nil
		}
	}
	return fmt.Errorf("unknown pointer button %q (want left, right or middle)", name)
}

// ButtonState is the state of one button during the current frame.
type ButtonState struct {
	Pressed      bool
	JustPressed  bool
	JustReleased bool
}

// Pointer is the cursor snapshot for the current frame.
type Pointer struct {
	Screen  geom.Vec2
	Delta   geom.Vec2
	Buttons [buttonCount]ButtonState
	// Captured is set while an overlay owns the mouse; world systems ignore
	// the pointer then.
	Captured bool
}

func (p *Pointer) Button(b Button) ButtonState {
	if b < 0 || b >= buttonCount {
		return ButtonState{}
	}
	return p.Buttons[b]
}

// Update advances the snapshot to a new cursor position and set of held
// buttons, deriving deltas and edge flags from the previous frame.
func (p *Pointer) Update(screen geom.Vec2, held func(Button) bool) {
	p.Delta = screen.Sub(p.Screen)
	p.Screen = screen
	for i := range p.Buttons {
		was := p.Buttons[i].Pressed
		now := held(Button(i))
		p.Buttons[i] = ButtonState{
			Pressed:      now,
			JustPressed:  now && !was,
			JustReleased: !now && was,
		}
	}
}

// Keys is the directional keyboard snapshot for the current frame.
type Keys struct {
	Up, Down, Left, Right bool
	Captured              bool
}

// Direction returns the unit-axis direction the held keys point in, with y
// growing downwards like screen space.
func (k Keys) Direction() geom.Vec2 {
	var d geom.Vec2
	if k.Captured {
		return d
	}
	if k.Left {
		d.X--
	}
	if k.Right {
		d.X++
	}
	if k.Up {
		d.Y--
	}
	if k.Down {
		d.Y++
	}
	return d
}
