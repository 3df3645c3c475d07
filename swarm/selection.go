package swarm

import (
	"log/slog"

	"github.com/plus3/ecstoys/camera"
	"github.com/plus3/ecstoys/config"
	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/geom"
	"github.com/plus3/ecstoys/input"
	"github.com/plus3/ecstoys/spatial"
)

// DragBox is the selection gesture in progress, in world space.
type DragBox struct {
	Active  bool
	Anchor  geom.Vec2
	Current geom.Vec2
}

func (d *DragBox) Rect() geom.Rect {
	return geom.RectFromCorners(d.Anchor, d.Current)
}

// Ring is a highlight outline to draw around a selected nanobot.
type Ring struct {
	Center geom.Vec2
	Radius float64
}

// Highlights holds the rings produced during the current frame.
type Highlights struct {
	Rings []Ring
}

// SelectionSystem turns a left-button drag into a selection. When the button
// is released every nanobot is marked selected iff its world position lies in
// the rectangle spanned by the press and release points.
type SelectionSystem struct {
	Bots ecs.Query[struct {
		ecs.EntityId
		*Nanobot
		*spatial.GlobalTransform
	}]
	Pointer ecs.Singleton[input.Pointer]
	Camera  ecs.Singleton[camera.Camera]
	Drag    ecs.Singleton[DragBox]

	Log *slog.Logger
}

func (s *SelectionSystem) Execute(frame *ecs.UpdateFrame) {
	pointer := s.Pointer.Get()
	drag := s.Drag.Get()
	button := pointer.Button(input.ButtonLeft)
	world := s.Camera.Get().ScreenToWorld(pointer.Screen)

	if button.JustPressed && !pointer.Captured {
		*drag = DragBox{Active: true, Anchor: world, Current: world}
	}
	if !drag.Active {
		return
	}

	drag.Current = world
	if button.Pressed {
		return
	}

	drag.Active = false
	rect := drag.Rect()
	selected := 0
	for bot := range s.Bots.Values() {
		bot.Selected = rect.Contains(bot.GlobalTransform.Translation)
		if bot.Selected {
			selected++
		}
	}

	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	log.Debug("selection", "min", rect.Min, "max", rect.Max, "selected", selected)
}

// HighlightSystem rebuilds Highlights from the selected nanobots.
type HighlightSystem struct {
	Bots ecs.Query[struct {
		*Nanobot
		*spatial.GlobalTransform
	}]
	Highlights ecs.Singleton[Highlights]

	Settings *config.Swarm
}

func (s *HighlightSystem) Execute(frame *ecs.UpdateFrame) {
	highlights := s.Highlights.Get()
	highlights.Rings = highlights.Rings[:0]
	for bot := range s.Bots.Values() {
		if bot.Selected {
			highlights.Rings = append(highlights.Rings, Ring{
				Center: bot.GlobalTransform.Translation,
				Radius: s.Settings.HighlightRadius,
			})
		}
	}
}
