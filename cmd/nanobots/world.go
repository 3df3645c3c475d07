package main

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ecstoys/camera"
	"github.com/plus3/ecstoys/config"
	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/ecs/debugui"
	"github.com/plus3/ecstoys/geom"
	"github.com/plus3/ecstoys/input"
	"github.com/plus3/ecstoys/render"
	"github.com/plus3/ecstoys/spatial"
	"github.com/plus3/ecstoys/swarm"
)

// selectButton drives swarm.SelectionSystem
const selectButton = input.ButtonLeft

var groupColors = []color.RGBA{
	{255, 179, 186, 255},
	{179, 229, 252, 255},
	{255, 223, 186, 255},
	{186, 255, 201, 255},
	{217, 186, 255, 255},
	{255, 255, 186, 255},
}

type worldOptions struct {
	input bool
	debug bool
}

type world struct {
	storage *ecs.Storage
	update  *ecs.Scheduler
	render  *ecs.Scheduler
	groups  []ecs.EntityId
}

func newWorld(settings *config.Settings, log *slog.Logger, opts worldOptions) *world {
	registry := ecs.NewComponentRegistry()
	spatial.RegisterComponents(registry)
	swarm.RegisterComponents(registry)
	render.RegisterComponents(registry)
	debugui.RegisterComponents(registry)

	storage := ecs.NewStorage(registry)
	ecs.NewSingleton(storage, camera.Camera{
		Viewport: geom.V(float64(settings.Window.Width), float64(settings.Window.Height)),
	})

	w := &world{
		storage: storage,
		update:  ecs.NewScheduler(storage),
		render:  ecs.NewScheduler(storage),
	}
	w.groups = swarm.SpawnGroups(storage, &settings.Swarm, nil, func(index int) swarm.Decorator {
		sprite := render.Sprite{Color: groupColors[index%len(groupColors)], Radius: settings.Swarm.BotRadius}
		return func(components []any) []any {
			return append(components, sprite)
		}
	})

	if opts.input {
		w.update.Register(&render.InputSystem{})
	}
	w.update.Register(&camera.PanSystem{Settings: &settings.Camera})
	w.update.Register(&swarm.SeparationSystem{Settings: &settings.Swarm})
	w.update.Register(&swarm.IntegrateSystem{})
	w.update.Register(&spatial.PropagateSystem{})
	w.update.Register(&swarm.SelectionSystem{Log: log})
	w.update.Register(&swarm.HighlightSystem{Settings: &settings.Swarm})

	w.render.Register(&render.RenderSystem{})
	w.render.Register(&render.SelectionOverlaySystem{})

	if opts.debug {
		w.update.Register(&debugui.ImguiSystem{})
		debugui.SpawnDebugUI(storage,
			debugui.NamedScheduler{Name: "Update", Scheduler: w.update},
			debugui.NamedScheduler{Name: "Render", Scheduler: w.render},
		)
		w.spawnInfoWindow()
	}

	return w
}

func (w *world) spawnInfoWindow() {
	bots := ecs.NewQuery[struct{ *swarm.Nanobot }](w.storage)
	drag := ecs.NewSingleton[swarm.DragBox](w.storage)

	w.storage.Spawn(debugui.ImguiItem{
		Render: func() {
			bots.Execute()
			selected := 0
			for bot := range bots.Values() {
				if bot.Selected {
					selected++
				}
			}

			imgui.SetNextWindowPosV(imgui.NewVec2(10, 340), imgui.CondOnce, imgui.NewVec2(0, 0))
			if imgui.BeginV("Nanobots", nil, imgui.WindowFlagsNone) {
				imgui.Text(fmt.Sprintf("Groups: %d", len(w.groups)))
				imgui.Text(fmt.Sprintf("Bots: %d", bots.Len()))
				imgui.Text(fmt.Sprintf("Selected: %d", selected))
				if box := drag.Get(); box.Active {
					rect := box.Rect()
					imgui.Text(fmt.Sprintf("Dragging: %s to %s", rect.Min, rect.Max))
				}
			}
			imgui.End()
		},
	})
}
