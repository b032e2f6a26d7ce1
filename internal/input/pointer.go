// Package input polls raylib's mouse state once per frame and turns it into pointer events.
package input

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"marker-lights/internal/geom"
)

// Handler receives pointer events in screen pixels. interaction.Controller implements it.
type Handler interface {
	SetViewport(width, height float32)
	OnPointerDown(x, y float32)
	OnPointerMove(x, y float32)
	OnPointerUp()
}

// Pointer turns left-button and mouse-motion state into Handler calls.
// Within a frame events are delivered as down, then move, then up.
type Pointer struct {
	h Handler
	// Suspended, if set, is checked every frame; while it returns true no down or move events are
	// sent (e.g. while the console is open). A release still ends a press that started earlier.
	Suspended func() bool
	last      rl.Vector2
	hasLast   bool
	down      bool
}

// NewPointer returns a Pointer delivering to h.
func NewPointer(h Handler) *Pointer {
	return &Pointer{h: h}
}

// Update polls the mouse and delivers this frame's events. Call once per frame before drawing.
// Pixel positions are stretched so the last row and column map to the viewport edge.
func (p *Pointer) Update() {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	p.h.SetViewport(w, h)
	mouse := rl.GetMousePosition()
	pos := rl.NewVector2(geom.PixelToScreen(mouse.X, w), geom.PixelToScreen(mouse.Y, h))
	moved := !p.hasLast || pos.X != p.last.X || pos.Y != p.last.Y
	p.last, p.hasLast = pos, true

	suspended := p.Suspended != nil && p.Suspended()
	if !suspended {
		if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			p.down = true
			p.h.OnPointerDown(pos.X, pos.Y)
		}
		if moved {
			p.h.OnPointerMove(pos.X, pos.Y)
		}
	}
	if p.down && rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		p.down = false
		p.h.OnPointerUp()
	}
}
