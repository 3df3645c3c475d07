package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/ecstoys/ecs"
	"github.com/plus3/ecstoys/ecs/debugui"
	"github.com/plus3/ecstoys/geom"
	"github.com/plus3/ecstoys/input"
)

var mouseButtons = map[input.Button]ebiten.MouseButton{
	input.ButtonLeft:   ebiten.MouseButtonLeft,
	input.ButtonRight:  ebiten.MouseButtonRight,
	input.ButtonMiddle: ebiten.MouseButtonMiddle,
}

// MouseButton maps a pointer button to ebiten's
func MouseButton(b input.Button) (ebiten.MouseButton, bool) {
	mb, ok := mouseButtons[b]
	return mb, ok
}

// InputSystem copies ebiten's cursor and keyboard state into the input
// singletons. It must run before any system that reads them. While the ImGui
// overlay wants the mouse or keyboard the snapshots are marked captured.
type InputSystem struct {
	Pointer ecs.Singleton[input.Pointer]
	Keys    ecs.Singleton[input.Keys]
	Imgui   ecs.Singleton[debugui.ImguiInputState]
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	imgui := s.Imgui.Get()

	mx, my := ebiten.CursorPosition()
	pointer := s.Pointer.Get()
	pointer.Update(geom.V(float64(mx), float64(my)), func(b input.Button) bool {
		mb, ok := MouseButton(b)
		return ok && ebiten.IsMouseButtonPressed(mb)
	})
	pointer.Captured = imgui.WantCaptureMouse

	*s.Keys.Get() = input.Keys{
		Up:       ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:     ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:     ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:    ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Captured: imgui.WantCaptureKeyboard,
	}
}
