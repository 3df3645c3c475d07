package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/ecstoys/camera"
	"github.com/plus3/ecstoys/config"
	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/geom"
	debugui_ebiten "github.com/plus3/ecstoys/ecs/debugui/ebiten"
)

// Game implements ebiten.Game. Update runs the simulation scheduler at a fixed
// step and Draw runs the render scheduler against the screen.
type Game struct {
	Storage         *ecs.Storage
	Scheduler       *ecs.Scheduler
	RenderScheduler *ecs.Scheduler
	ImguiBackend    *ecs.Singleton[debugui_ebiten.ImguiBackend]
	Screen          *ecs.Singleton[Screen]
	Camera          *ecs.Singleton[camera.Camera]

	step float64
}

// NewGame wires a game over storage. imgui selects whether the ImGui backend
// singleton, which must already exist, is driven each frame.
func NewGame(storage *ecs.Storage, update, render *ecs.Scheduler, window *config.Window, imgui bool) *Game {
	g := &Game{
		Storage:         storage,
		Scheduler:       update,
		RenderScheduler: render,
		Screen:          ecs.NewSingleton[Screen](storage),
		Camera:          ecs.NewSingleton(storage, camera.Camera{Viewport: geom.V(float64(window.Width), float64(window.Height))}),
		step:            1.0 / float64(window.TPS),
	}
	if imgui {
		g.ImguiBackend = ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage)
	}
	return g
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if g.ImguiBackend != nil {
		g.ImguiBackend.Get().BeginFrame()
		defer g.ImguiBackend.Get().EndFrame()
	}

	g.Scheduler.Once(g.step)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.Screen.Get().Image = screen
	g.RenderScheduler.Once(0)
	g.Screen.Get().Image = nil

	if g.ImguiBackend != nil {
		g.ImguiBackend.Get().Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.Camera.Get().Viewport = geom.V(float64(outsideWidth), float64(outsideHeight))
	if g.ImguiBackend != nil {
		g.ImguiBackend.Get().Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens the window described by settings and blocks until it closes.
func Run(game *Game, window *config.Window) error {
	ebiten.SetWindowSize(window.Width, window.Height)
	ebiten.SetWindowTitle(window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(window.TPS)
	return ebiten.RunGame(game)
}
