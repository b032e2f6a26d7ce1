// Package scene holds the scene graph state the controller mutates and the renderer reads:
// marker and light positions, which light is attached, and the overlay opacity. It also answers
// the ray queries used for picking. Nothing here touches the GPU.
package scene

import (
	"github.com/chewxy/math32"

	"marker-lights/internal/geom"
	"marker-lights/internal/interaction"
)

const defaultAspect = 16.0 / 9.0

type marker struct {
	position geom.Vec3
	radius   float32
}

type light struct {
	position geom.Vec3
	attached bool
}

// Model is the live scene built from a Layout. Markers and lights are indexed by MarkerID.
// It implements interaction.Scene.
type Model struct {
	layout  Layout
	camera  geom.Camera
	aspect  float32
	ground  geom.Quad
	markers [len(interaction.Markers)]marker
	lights  [len(interaction.Markers)]light
	opacity float32
}

var _ interaction.Scene = (*Model)(nil)

// NewModel returns a model at the layout's initial state: markers at their seed positions,
// lights detached at their markers, overlay at the layout opacity. The layout should have
// passed Validate; markers missing from it sit at the origin with radius 0 and are never picked.
func NewModel(l Layout) *Model {
	m := &Model{
		layout: l,
		camera: geom.Camera{
			Position: geom.FromArray(l.Camera.Position),
			Target:   geom.FromArray(l.Camera.Target),
			Up:       geom.V3(0, 1, 0),
			FovY:     l.Camera.FovY,
			Near:     l.Camera.Near,
			Far:      l.Camera.Far,
		},
		aspect: defaultAspect,
		ground: geom.HorizontalQuad(geom.FromArray(l.Ground.Position), l.Ground.Size[0], l.Ground.Size[2]),
	}
	m.Reset()
	return m
}

// Reset puts markers, lights and the overlay back to the layout's initial state.
func (m *Model) Reset() {
	for _, id := range interaction.Markers {
		def, _ := m.layout.Marker(id)
		p := geom.FromArray(def.Position)
		m.markers[id] = marker{position: p, radius: def.Radius}
		m.lights[id] = light{position: p}
	}
	m.opacity = clamp01(m.layout.Overlay.Opacity)
}

// Layout returns the layout the model was built from.
func (m *Model) Layout() Layout {
	return m.layout
}

// Camera returns the picking camera.
func (m *Model) Camera() geom.Camera {
	return m.camera
}

// Aspect returns the viewport aspect ratio used for picking.
func (m *Model) Aspect() float32 {
	return m.aspect
}

// SetAspect sets the viewport aspect ratio (width / height). Non-positive values are ignored.
func (m *Model) SetAspect(aspect float32) {
	if aspect > 0 {
		m.aspect = aspect
	}
}

// Ray returns the world ray under ndc.
func (m *Model) Ray(ndc geom.Vec2) geom.Ray {
	return m.camera.Ray(ndc, m.aspect)
}

// PickMarker casts the ray under ndc against every marker sphere and returns the nearest hit.
// The ray is unbounded; the camera's far plane does not limit picking.
func (m *Model) PickMarker(ndc geom.Vec2) (interaction.MarkerID, bool) {
	r := m.Ray(ndc)
	best, bestT := interaction.NoMarker, math32.Inf(1)
	for _, id := range interaction.Markers {
		mk := m.markers[id]
		if mk.radius <= 0 {
			continue
		}
		t, ok := geom.IntersectSphere(r, mk.position, mk.radius)
		if !ok || t >= bestT {
			continue
		}
		best, bestT = id, t
	}
	return best, best != interaction.NoMarker
}

// PickGround returns where the ray under ndc meets the ground rectangle.
func (m *Model) PickGround(ndc geom.Vec2) (geom.Vec3, bool) {
	return geom.IntersectQuad(m.Ray(ndc), m.ground)
}

func valid(id interaction.MarkerID) bool {
	return id.Valid()
}

// MarkerPosition returns the marker's position; the zero vector for an unknown id.
func (m *Model) MarkerPosition(id interaction.MarkerID) geom.Vec3 {
	if !valid(id) {
		return geom.Vec3{}
	}
	return m.markers[id].position
}

// MarkerRadius returns the marker sphere's radius.
func (m *Model) MarkerRadius(id interaction.MarkerID) float32 {
	if !valid(id) {
		return 0
	}
	return m.markers[id].radius
}

// SetMarkerPosition moves a marker.
func (m *Model) SetMarkerPosition(id interaction.MarkerID, p geom.Vec3) {
	if valid(id) {
		m.markers[id].position = p
	}
}

// LightPosition returns the position of the light paired with id.
func (m *Model) LightPosition(id interaction.MarkerID) geom.Vec3 {
	if !valid(id) {
		return geom.Vec3{}
	}
	return m.lights[id].position
}

// SetLightPosition moves the light paired with id, attached or not.
func (m *Model) SetLightPosition(id interaction.MarkerID, p geom.Vec3) {
	if valid(id) {
		m.lights[id].position = p
	}
}

// AttachLight adds the light paired with id to the scene. The model does not enforce a single
// attached light; that is the controller's job.
func (m *Model) AttachLight(id interaction.MarkerID) {
	if valid(id) {
		m.lights[id].attached = true
	}
}

// DetachLight removes the light paired with id from the scene. Detaching a detached light is a no-op.
func (m *Model) DetachLight(id interaction.MarkerID) {
	if valid(id) {
		m.lights[id].attached = false
	}
}

// LightAttached reports whether the light paired with id is in the scene.
func (m *Model) LightAttached(id interaction.MarkerID) bool {
	return valid(id) && m.lights[id].attached
}

// AttachedLights returns the ids of every attached light, in marker order.
func (m *Model) AttachedLights() []interaction.MarkerID {
	var out []interaction.MarkerID
	for _, id := range interaction.Markers {
		if m.lights[id].attached {
			out = append(out, id)
		}
	}
	return out
}

// OverlayOpacity returns the overlay's opacity in [0, 1].
func (m *Model) OverlayOpacity() float32 {
	return m.opacity
}

// SetOverlayOpacity stores v clamped to [0, 1].
func (m *Model) SetOverlayOpacity(v float32) {
	m.opacity = clamp01(v)
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(v, 1))
}
