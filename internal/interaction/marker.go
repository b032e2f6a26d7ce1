// Package interaction implements the pointer-driven marker/light controller: clicking a marker
// toggles its paired point light, dragging or hovering moves markers and lights, and hovering
// fades the overlay. Rendering and ray casting are left to the Scene collaborator.
package interaction

import (
	"fmt"
	"strings"
)

// MarkerID identifies one of the two fixed markers. Each marker owns exactly one light, so the
// same identity names the light as well.
type MarkerID int8

const (
	NoMarker MarkerID = iota - 1
	MarkerA
	MarkerB
)

// Markers lists every marker identity in scene order.
var Markers = [...]MarkerID{MarkerA, MarkerB}

// String returns "A", "B" or "none".
func (id MarkerID) String() string {
	switch id {
	case MarkerA:
		return "A"
	case MarkerB:
		return "B"
	default:
		return "none"
	}
}

// Valid reports whether id names a real marker.
func (id MarkerID) Valid() bool {
	return id == MarkerA || id == MarkerB
}

// ParseMarker accepts "a" or "b" in any case.
func ParseMarker(s string) (MarkerID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a":
		return MarkerA, nil
	case "b":
		return MarkerB, nil
	}
	return NoMarker, fmt.Errorf("unknown marker %q (use a or b)", s)
}

// Mode selects how pointer movement is interpreted.
type Mode uint8

const (
	// ModeDrag moves the pressed marker across the ground while the button is held.
	ModeDrag Mode = iota
	// ModeAmbient tracks pointer height continuously, no press required.
	ModeAmbient
)

// String returns "drag" or "ambient".
func (m Mode) String() string {
	if m == ModeAmbient {
		return "ambient"
	}
	return "drag"
}

// ParseMode accepts "drag" or "ambient" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drag":
		return ModeDrag, nil
	case "ambient":
		return ModeAmbient, nil
	}
	return ModeDrag, fmt.Errorf("unknown interaction mode %q (use drag or ambient)", s)
}
