// Package render draws a scene.Model with raylib: lit primitives, the marker spheres, a glow for
// the attached light and the full-screen overlay. It holds no scene state of its own.
package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"marker-lights/internal/geom"
	"marker-lights/internal/interaction"
	"marker-lights/internal/scene"
)

const (
	// glowRadius is the radius of the unlit sphere drawn at the attached light's position.
	glowRadius = 0.15
	glowAlpha  = 0.8
)

// Renderer draws a scene model. GPU resources are created on the first Draw, so New may be
// called before the window exists.
type Renderer struct {
	model    *scene.Model
	reg      *registry
	camera   rl.Camera3D
	sunDir   [3]float32
	sunColor [3]float32
}

// New returns a renderer for model. The raylib camera and sun direction come from the layout.
func New(model *scene.Model) *Renderer {
	l := model.Layout()
	r := &Renderer{
		model:    model,
		reg:      newRegistry(),
		camera:   camera3D(model.Camera()),
		sunDir:   geom.FromArray(l.Sun.Position).Normalize().Array(),
		sunColor: rgb(scene.ColorOrWhite(l.Sun.Color)),
	}
	return r
}

func camera3D(c geom.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(c.Position),
		Target:     vec3(c.Target),
		Up:         vec3(c.Up),
		Fovy:       c.FovY,
		Projection: rl.CameraPerspective,
	}
}

func vec3(v geom.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X, v.Y, v.Z)
}

func color(c scene.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// rgb returns c as normalized shader floats.
func rgb(c scene.Color) [3]float32 {
	return [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

// lighting collects this frame's shader input. Only the first attached light is fed to the
// shader; the controller keeps at most one attached.
func (r *Renderer) lighting() Lighting {
	l := r.model.Layout()
	out := Lighting{
		ViewPos:      vec3Array(r.camera.Position),
		SunDir:       r.sunDir,
		SunColor:     r.sunColor,
		SunIntensity: l.Sun.Intensity,
	}
	attached := r.model.AttachedLights()
	if len(attached) == 0 {
		return out
	}
	id := attached[0]
	def, ok := l.Marker(id)
	if !ok {
		return out
	}
	out.Point = PointLight{
		On:        true,
		Position:  r.model.LightPosition(id).Array(),
		Color:     rgb(scene.ColorOrWhite(def.Light.Color)),
		Intensity: def.Light.Intensity,
		Range:     def.Light.Range,
	}
	return out
}

func vec3Array(v rl.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// Draw renders the 3D scene then the overlay. Call between BeginDrawing and EndDrawing, before
// any 2D UI (console, debug).
func (r *Renderer) Draw() {
	l := r.model.Layout()
	r.reg.setLighting(r.lighting())

	rl.BeginMode3D(r.camera)
	r.reg.draw(kindPlane, l.Ground.Position, l.Ground.Size, color(scene.ColorOrWhite(l.Ground.Color)))
	r.reg.draw(kindCube, l.Cube.Position, l.Cube.Size, color(scene.ColorOrWhite(l.Cube.Color)))
	for _, id := range r.model.AttachedLights() {
		def, _ := l.Marker(id)
		glow := rl.Fade(color(scene.ColorOrWhite(def.Light.Color)), glowAlpha)
		rl.DrawSphere(vec3(r.model.LightPosition(id)), glowRadius, glow)
	}
	for _, id := range interaction.Markers {
		def, _ := l.Marker(id)
		rad := r.model.MarkerRadius(id)
		r.reg.draw(kindSphere, r.model.MarkerPosition(id).Array(), [3]float32{rad, rad, rad}, color(scene.ColorOrWhite(def.Color)))
	}
	rl.EndMode3D()

	r.drawOverlay(l.Overlay)
}

// drawOverlay covers the screen with the overlay color at the model's opacity. Fully transparent
// overlays are skipped.
func (r *Renderer) drawOverlay(def scene.OverlayDef) {
	op := r.model.OverlayOpacity()
	if op <= 0 {
		return
	}
	c := rl.Fade(color(scene.ColorOrWhite(def.Color)), op)
	rl.DrawRectangle(0, 0, int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()), c)
}

// Unload frees GPU resources. Call before the window closes.
func (r *Renderer) Unload() {
	r.reg.unload()
}
