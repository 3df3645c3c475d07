package camera_test

import (
	"testing"

	"github.com/plus3/ecstoys/camera"
	"github.com/plus3/ecstoys/config"
	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/geom"
	"github.com/plus3/ecstoys/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenWorldRoundTrip(t *testing.T) {
	cam := camera.Camera{Position: geom.V(100, -40), Viewport: geom.V(800, 600)}

	assert.Equal(t, geom.V(100, -40), cam.ScreenToWorld(geom.V(400, 300)))
	assert.Equal(t, geom.V(-300, -340), cam.ScreenToWorld(geom.V(0, 0)))

	p := geom.V(13, 77)
	assert.Equal(t, p, cam.WorldToScreen(cam.ScreenToWorld(p)))

	visible := cam.VisibleRect()
	assert.Equal(t, geom.V(-300, -340), visible.Min)
	assert.Equal(t, geom.V(500, 260), visible.Max)
}

type panWorld struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	held      map[input.Button]bool
}

func newPanWorld(settings *config.Camera) *panWorld {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	ecs.NewSingleton(storage, camera.Camera{Viewport: geom.V(800, 600)})
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&camera.PanSystem{Settings: settings})
	return &panWorld{storage: storage, scheduler: scheduler, held: map[input.Button]bool{}}
}

func (w *panWorld) step(x, y, dt float64) {
	ecs.NewSingleton[input.Pointer](w.storage).Get().Update(geom.V(x, y), func(b input.Button) bool {
		return w.held[b]
	})
	w.scheduler.Once(dt)
}

func (w *panWorld) position() geom.Vec2 {
	return ecs.NewSingleton[camera.Camera](w.storage).Get().Position
}

func TestDragPansCamera(t *testing.T) {
	settings := config.Default().Camera
	w := newPanWorld(&settings)

	w.step(100, 100, 0.016)
	w.held[input.ButtonRight] = true
	w.step(110, 100, 0.016)
	assert.Equal(t, geom.Vec2{}, w.position(), "the press frame does not move the camera")

	w.step(130, 90, 0.016)
	w.step(140, 80, 0.016)
	assert.Equal(t, geom.V(-30, 20), w.position())

	w.held[input.ButtonRight] = false
	w.step(400, 400, 0.016)
	w.step(0, 0, 0.016)
	assert.Equal(t, geom.V(-30, 20), w.position(), "release stops accumulation")
}

func TestDragKeepsGrabbedPointUnderCursor(t *testing.T) {
	settings := config.Default().Camera
	w := newPanWorld(&settings)
	cam := ecs.NewSingleton[camera.Camera](w.storage).Get()

	w.held[input.ButtonRight] = true
	w.step(200, 200, 0.016)
	grabbed := cam.ScreenToWorld(geom.V(200, 200))

	w.step(260, 150, 0.016)
	assert.Equal(t, grabbed, cam.ScreenToWorld(geom.V(260, 150)))
}

func TestOtherButtonsAndCaptureDoNotPan(t *testing.T) {
	settings := config.Default().Camera
	w := newPanWorld(&settings)

	w.held[input.ButtonLeft] = true
	w.step(0, 0, 0.016)
	w.step(50, 50, 0.016)
	assert.Equal(t, geom.Vec2{}, w.position())

	w.held[input.ButtonRight] = true
	w.step(50, 50, 0.016)
	ecs.NewSingleton[input.Pointer](w.storage).Get().Captured = true
	// Update keeps Captured; only the delta and buttons change
	w.step(90, 90, 0.016)
	assert.Equal(t, geom.Vec2{}, w.position())
}

func TestKeyboardPan(t *testing.T) {
	settings := config.Camera{PanButton: input.ButtonRight, KeySpeed: 100}
	w := newPanWorld(&settings)
	keys := ecs.NewSingleton[input.Keys](w.storage).Get()

	keys.Right = true
	w.step(0, 0, 0.5)
	assert.Equal(t, geom.V(50, 0), w.position())

	keys.Right = false
	keys.Up, keys.Left = true, true
	w.step(0, 0, 1)
	p := w.position()
	require.InDelta(t, 100, p.Sub(geom.V(50, 0)).Len(), 1e-3, "diagonal speed is not faster")
	assert.Less(t, p.Y, 0.0)
}
