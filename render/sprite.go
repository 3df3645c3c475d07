// Package render draws the world with ebiten and adapts ebiten's input and game
// loop to the ECS. Sprites are vector shapes; there are no image assets.
package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/ecstoys/camera"
	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/geom"
	"github.com/plus3/ecstoys/spatial"
	"github.com/plus3/ecstoys/swarm"
)

type Shape int

const (
	ShapeCircle Shape = iota
	ShapeSquare
)

// Sprite draws its entity at the entity's global position.
type Sprite struct {
	Color  color.RGBA
	Radius float64
	Shape  Shape
}

// Screen holds the image being drawn during a render pass.
type Screen struct {
	*ebiten.Image
}

var (
	backgroundColor = color.RGBA{245, 245, 240, 255}
	highlightColor  = color.RGBA{255, 196, 0, 255}
	dragFillColor   = color.RGBA{80, 140, 255, 40}
	dragEdgeColor   = color.RGBA{80, 140, 255, 200}
)

// RegisterComponents registers Sprite.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Sprite](registry)
}

// Visible reports whether a shape of the given radius at center overlaps view.
func Visible(view geom.Rect, center geom.Vec2, radius float64) bool {
	return center.X+radius >= view.Min.X && center.X-radius <= view.Max.X &&
		center.Y+radius >= view.Min.Y && center.Y-radius <= view.Max.Y
}

// RenderSystem clears the screen and draws every on-screen sprite.
type RenderSystem struct {
	Sprites ecs.Query[struct {
		*Sprite
		*spatial.GlobalTransform
	}]
	Camera ecs.Singleton[camera.Camera]
	Screen ecs.Singleton[Screen]
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get().Image
	if screen == nil {
		return
	}
	cam := s.Camera.Get()

	screen.Fill(backgroundColor)
	view := cam.VisibleRect()

	for item := range s.Sprites.Values() {
		pos := item.GlobalTransform.Translation
		if !Visible(view, pos, item.Sprite.Radius) {
			continue
		}

		x, y := cam.WorldToScreen(pos).XY()
		r := float32(item.Sprite.Radius)
		switch item.Sprite.Shape {
		case ShapeSquare:
			vector.DrawFilledRect(screen, x-r, y-r, 2*r, 2*r, item.Sprite.Color, true)
		default:
			vector.DrawFilledCircle(screen, x, y, r, item.Sprite.Color, true)
		}
	}
}

// SelectionOverlaySystem strokes highlight rings and the drag rectangle on top
// of the sprites.
type SelectionOverlaySystem struct {
	Camera     ecs.Singleton[camera.Camera]
	Screen     ecs.Singleton[Screen]
	Highlights ecs.Singleton[swarm.Highlights]
	Drag       ecs.Singleton[swarm.DragBox]
}

func (s *SelectionOverlaySystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get().Image
	if screen == nil {
		return
	}
	cam := s.Camera.Get()

	for _, ring := range s.Highlights.Get().Rings {
		x, y := cam.WorldToScreen(ring.Center).XY()
		vector.StrokeCircle(screen, x, y, float32(ring.Radius), 1.5, highlightColor, true)
	}

	if drag := s.Drag.Get(); drag.Active {
		rect := drag.Rect()
		x, y := cam.WorldToScreen(rect.Min).XY()
		w, h := rect.Size().XY()
		vector.DrawFilledRect(screen, x, y, w, h, dragFillColor, false)
		vector.StrokeRect(screen, x, y, w, h, 1, dragEdgeColor, false)
	}
}
