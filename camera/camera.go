// Package camera maps between screen and world space and pans the view with the
// mouse or keyboard.
package camera

import (
	"github.com/plus3/ecstoys/config"
	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/geom"
	"github.com/plus3/ecstoys/input"
)

// Camera is the view singleton. Position is the world point shown at the
// centre of a viewport of the given screen size.
type Camera struct {
	Position geom.Vec2
	Viewport geom.Vec2
}

func (c *Camera) ScreenToWorld(screen geom.Vec2) geom.Vec2 {
	return c.Position.Add(screen.Sub(c.Viewport.Scale(0.5)))
}

func (c *Camera) WorldToScreen(world geom.Vec2) geom.Vec2 {
	return world.Sub(c.Position).Add(c.Viewport.Scale(0.5))
}

// VisibleRect returns the world rectangle covered by the viewport
func (c *Camera) VisibleRect() geom.Rect {
	return geom.RectFromCorners(c.ScreenToWorld(geom.Vec2{}), c.ScreenToWorld(c.Viewport))
}

// PanSystem drags the camera while the pan button is held and moves it with
// the arrow or WASD keys. The world follows the cursor while dragging.
type PanSystem struct {
	Camera  ecs.Singleton[Camera]
	Pointer ecs.Singleton[input.Pointer]
	Keys    ecs.Singleton[input.Keys]

	Settings *config.Camera
}

func (s *PanSystem) Execute(frame *ecs.UpdateFrame) {
	cam := s.Camera.Get()
	pointer := s.Pointer.Get()

	// the press frame's delta predates the grab
	button := pointer.Button(s.Settings.PanButton)
	if button.Pressed && !button.JustPressed && !pointer.Captured {
		cam.Position = cam.Position.Sub(pointer.Delta)
	}

	if dir := s.Keys.Get().Direction(); !dir.IsZero() {
		step := s.Settings.KeySpeed * frame.DeltaTime
		cam.Position = cam.Position.Add(dir.Normalize().Scale(step))
	}
}
