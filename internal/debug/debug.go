package debug

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh the text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug draws runtime overlays: the FPS counter and a one-line state readout. All overlays are
// off by default.
type Debug struct {
	ShowFPS   bool
	ShowState bool
	// State, if set, returns the text shown when ShowState is true (e.g. mode, controller state
	// and overlay opacity).
	State      func() string
	font       rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
	frameCount uint32
	fpsText    string
	stateText  string
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetShowFPS sets whether the FPS counter is drawn (top-right, green).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetShowState sets whether the state readout is drawn (top-right, under FPS).
func (d *Debug) SetShowState(show bool) {
	d.ShowState = show
	d.stateText = ""
}

// SetFont sets the font used for overlays. Zero texture ID = use raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// Draw renders any enabled overlays. Call after the scene and console in the draw loop.
// Text is only recomputed every updateInterval frames to limit allocations.
func (d *Debug) Draw() {
	d.frameCount++
	update := d.frameCount%updateInterval == 0

	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)

	if d.ShowFPS {
		if update || d.fpsText == "" {
			d.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		d.drawRight(d.fpsText, screenW, y)
		y += lineHeight
	}
	if d.ShowState && d.State != nil {
		if update || d.stateText == "" {
			d.stateText = d.State()
		}
		d.drawRight(d.stateText, screenW, y)
	}
}

func (d *Debug) drawRight(text string, screenW, y int32) {
	if d.font.Texture.ID != 0 {
		sz := float32(fontSize)
		pos := rl.NewVector2(float32(screenW)-rl.MeasureTextEx(d.font, text, sz, 1).X-padding, float32(y))
		rl.DrawTextEx(d.font, text, pos, sz, 1, rl.Green)
		return
	}
	w := rl.MeasureText(text, fontSize)
	rl.DrawText(text, screenW-w-padding, y, fontSize, rl.Green)
}
