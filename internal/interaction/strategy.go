package interaction

import "marker-lights/internal/geom"

// PointerStrategy interprets pointer events for one interaction mode. Methods receive the
// controller whose state they mutate and the pointer position in normalized device coordinates.
type PointerStrategy interface {
	OnDown(c *Controller, ndc geom.Vec2)
	OnMove(c *Controller, ndc geom.Vec2)
	OnUp(c *Controller)
}

func strategyFor(m Mode) PointerStrategy {
	if m == ModeAmbient {
		return AmbientStrategy{}
	}
	return DragStrategy{}
}

// DragStrategy: press on a marker to toggle its light and start dragging it across the ground;
// the paired light follows the marker.
type DragStrategy struct{}

func (DragStrategy) OnDown(c *Controller, ndc geom.Vec2) {
	c.state.Pressed = true
	id := c.pick(ndc)
	if id == NoMarker {
		return
	}
	c.state.ActiveMarker = id
	c.toggle(id)
}

func (DragStrategy) OnMove(c *Controller, ndc geom.Vec2) {
	if !c.state.Pressed || c.state.ActiveMarker == NoMarker {
		return
	}
	p, ok := c.scene.PickGround(ndc)
	if !ok {
		return
	}
	c.scene.SetMarkerPosition(c.state.ActiveMarker, p)
	c.scene.SetLightPosition(c.state.ActiveMarker, p)
}

func (DragStrategy) OnUp(c *Controller) {
	c.state.Pressed = false
	c.state.ActiveMarker = NoMarker
}

// AmbientStrategy: clicks toggle lights; pointer height alone drives marker and light height
// and fades the overlay in while the markers sit at or below the threshold.
type AmbientStrategy struct{}

func (AmbientStrategy) OnDown(c *Controller, ndc geom.Vec2) {
	if id := c.pick(ndc); id != NoMarker {
		c.toggle(id)
	}
}

func (AmbientStrategy) OnMove(c *Controller, ndc geom.Vec2) {
	s := c.settings
	markerY := (ndc.Y+1)*s.MarkerYScale + s.MarkerYOffset
	for _, id := range Markers {
		p := c.scene.MarkerPosition(id)
		p.Y = markerY
		c.scene.SetMarkerPosition(id, p)
	}
	lightY := ndc.Y * s.LightYScale
	for _, id := range Markers {
		c.scene.SetLightPosition(id, geom.V3(0, lightY, 0))
	}
	c.fadeOverlay(c.scene.MarkerPosition(MarkerA).Y <= s.OpacityThreshold)
}

func (AmbientStrategy) OnUp(*Controller) {}
