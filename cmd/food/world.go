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
	"github.com/plus3/ecstoys/food"
	"github.com/plus3/ecstoys/geom"
	"github.com/plus3/ecstoys/render"
	"github.com/plus3/ecstoys/spatial"
)

var (
	creatureColor = color.RGBA{186, 120, 255, 255}
	foodColor     = color.RGBA{120, 200, 120, 255}
)

type worldOptions struct {
	// input reads ebiten's cursor and keys; off when there is no window
	input bool
	debug bool
}

type world struct {
	storage *ecs.Storage
	update  *ecs.Scheduler
	render  *ecs.Scheduler
	spawner *food.SpawnSystem
}

func newWorld(settings *config.Settings, log *slog.Logger, opts worldOptions) *world {
	registry := ecs.NewComponentRegistry()
	spatial.RegisterComponents(registry)
	food.RegisterComponents(registry)
	render.RegisterComponents(registry)
	debugui.RegisterComponents(registry)

	storage := ecs.NewStorage(registry)
	ecs.NewSingleton(storage, camera.Camera{
		Viewport: geom.V(float64(settings.Window.Width), float64(settings.Window.Height)),
	})

	local, global := spatial.At(geom.Vec2{})
	storage.Spawn(food.Creature{}, local, global, render.Sprite{Color: creatureColor, Radius: 16, Shape: render.ShapeSquare})

	w := &world{
		storage: storage,
		update:  ecs.NewScheduler(storage),
		render:  ecs.NewScheduler(storage),
		spawner: &food.SpawnSystem{
			Settings: &settings.Food,
			Log:      log,
			Decorate: func(components []any) []any {
				return append(components, render.Sprite{Color: foodColor, Radius: settings.Food.Radius})
			},
		},
	}

	if opts.input {
		w.update.Register(&render.InputSystem{})
	}
	w.update.Register(&camera.PanSystem{Settings: &settings.Camera})
	w.update.Register(w.spawner)
	w.update.Register(&food.DecaySystem{Log: log})
	w.update.Register(&spatial.PropagateSystem{})

	w.render.Register(&render.RenderSystem{})

	if opts.debug {
		w.update.Register(&debugui.ImguiSystem{})
		debugui.SpawnDebugUI(storage,
			debugui.NamedScheduler{Name: "Update", Scheduler: w.update},
			debugui.NamedScheduler{Name: "Render", Scheduler: w.render},
		)
		w.spawnInfoWindow(settings)
	}

	return w
}

func (w *world) spawnInfoWindow(settings *config.Settings) {
	foods := ecs.NewQuery[struct{ *food.Food }](w.storage)
	cam := ecs.NewSingleton[camera.Camera](w.storage)

	w.storage.Spawn(debugui.ImguiItem{
		Render: func() {
			foods.Execute()

			imgui.SetNextWindowPosV(imgui.NewVec2(10, 340), imgui.CondOnce, imgui.NewVec2(0, 0))
			if imgui.BeginV("Food", nil, imgui.WindowFlagsNone) {
				imgui.Text(fmt.Sprintf("Food: %d / %d", foods.Len(), settings.Food.Cap))
				imgui.Text(fmt.Sprintf("Spawned: %d", w.spawner.Spawned()))
				imgui.Text(fmt.Sprintf("Timeout: %s", settings.Food.Timeout.Duration()))
				imgui.Text(fmt.Sprintf("Camera: %s", cam.Get().Position))
			}
			imgui.End()
		},
	})
}
