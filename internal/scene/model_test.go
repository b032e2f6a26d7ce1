package scene

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marker-lights/internal/geom"
	"marker-lights/internal/interaction"
)

const viewW, viewH = 1280, 720

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel(DefaultLayout())
	m.SetAspect(float32(viewW) / viewH)
	return m
}

// screenOf returns the pixel position of world point p on the test viewport.
func screenOf(t *testing.T, m *Model, p geom.Vec3) (float32, float32) {
	t.Helper()
	x, y, ok := m.Camera().Project(p, viewW, viewH)
	require.True(t, ok, "point %v behind camera", p)
	return x, y
}

func ndcOf(t *testing.T, m *Model, p geom.Vec3) geom.Vec2 {
	x, y := screenOf(t, m, p)
	return geom.ScreenToNDC(x, y, viewW, viewH)
}

func TestNewModelInitialState(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, geom.V3(-9, 1, 0), m.MarkerPosition(interaction.MarkerA))
	assert.Equal(t, geom.V3(9, 1, 0), m.MarkerPosition(interaction.MarkerB))
	assert.Equal(t, float32(0.2), m.MarkerRadius(interaction.MarkerA))
	assert.Empty(t, m.AttachedLights())
	assert.Equal(t, float32(0), m.OverlayOpacity())
}

func TestPickMarker(t *testing.T) {
	m := newTestModel(t)

	id, ok := m.PickMarker(ndcOf(t, m, geom.V3(-9, 1, 0)))
	require.True(t, ok)
	assert.Equal(t, interaction.MarkerA, id)

	id, ok = m.PickMarker(ndcOf(t, m, geom.V3(9, 1, 0)))
	require.True(t, ok)
	assert.Equal(t, interaction.MarkerB, id)

	_, ok = m.PickMarker(ndcOf(t, m, geom.V3(0, 1, 0)))
	assert.False(t, ok, "cube center is not a marker")
}

func TestPickMarkerNearestWins(t *testing.T) {
	m := newTestModel(t)
	// Line B up behind A along the same camera ray.
	cam := m.Camera()
	dir := m.MarkerPosition(interaction.MarkerA).Sub(cam.Position).Normalize()
	m.SetMarkerPosition(interaction.MarkerB, m.MarkerPosition(interaction.MarkerA).Add(dir.Scale(3)))

	id, ok := m.PickMarker(ndcOf(t, m, m.MarkerPosition(interaction.MarkerA)))
	require.True(t, ok)
	assert.Equal(t, interaction.MarkerA, id)

	// Swap: put B in front.
	m.SetMarkerPosition(interaction.MarkerB, m.MarkerPosition(interaction.MarkerA).Sub(dir.Scale(3)))
	id, ok = m.PickMarker(ndcOf(t, m, m.MarkerPosition(interaction.MarkerA)))
	require.True(t, ok)
	assert.Equal(t, interaction.MarkerB, id)
}

func TestPickMarkerBeyondFarPlane(t *testing.T) {
	m := newTestModel(t)
	cam := m.Camera()
	far := geom.V3(0, 5, cam.Position.Z-2*cam.Far)
	m.SetMarkerPosition(interaction.MarkerB, far)

	id, ok := m.PickMarker(ndcOf(t, m, far))
	require.True(t, ok)
	assert.Equal(t, interaction.MarkerB, id)
}

func TestPickGround(t *testing.T) {
	m := newTestModel(t)
	target := geom.V3(3, -1, 5)
	p, ok := m.PickGround(ndcOf(t, m, target))
	require.True(t, ok)
	assert.InDelta(t, 0, p.Distance(target), 1e-3)

	_, ok = m.PickGround(geom.Vec2{X: 0, Y: 0.9})
	assert.False(t, ok, "looking above the horizon")
}

func TestLightsAndOverlay(t *testing.T) {
	m := newTestModel(t)
	m.AttachLight(interaction.MarkerB)
	assert.True(t, m.LightAttached(interaction.MarkerB))
	assert.Equal(t, []interaction.MarkerID{interaction.MarkerB}, m.AttachedLights())
	m.DetachLight(interaction.MarkerB)
	m.DetachLight(interaction.MarkerB)
	assert.False(t, m.LightAttached(interaction.MarkerB))

	m.SetLightPosition(interaction.MarkerA, geom.V3(1, 2, 3))
	assert.Equal(t, geom.V3(1, 2, 3), m.LightPosition(interaction.MarkerA))

	m.SetOverlayOpacity(1.5)
	assert.Equal(t, float32(1), m.OverlayOpacity())
	m.SetOverlayOpacity(-1)
	assert.Equal(t, float32(0), m.OverlayOpacity())

	// Unknown ids are ignored.
	m.AttachLight(interaction.NoMarker)
	m.SetMarkerPosition(interaction.NoMarker, geom.V3(1, 1, 1))
	assert.Equal(t, geom.Vec3{}, m.MarkerPosition(interaction.NoMarker))
	assert.Empty(t, m.AttachedLights())
}

func TestReset(t *testing.T) {
	m := newTestModel(t)
	m.SetMarkerPosition(interaction.MarkerA, geom.V3(0, 0, 0))
	m.AttachLight(interaction.MarkerA)
	m.SetOverlayOpacity(0.5)
	m.Reset()
	assert.Equal(t, geom.V3(-9, 1, 0), m.MarkerPosition(interaction.MarkerA))
	assert.Empty(t, m.AttachedLights())
	assert.Equal(t, float32(0), m.OverlayOpacity())
}

func newController(m *Model, mode interaction.Mode) *interaction.Controller {
	s := interaction.DefaultSettings()
	s.Mode = mode
	c := interaction.New(m, s, zerolog.Nop())
	c.SetViewport(viewW, viewH)
	return c
}

func TestControllerClickScenario(t *testing.T) {
	m := newTestModel(t)
	c := newController(m, interaction.ModeDrag)
	ax, ay := screenOf(t, m, m.MarkerPosition(interaction.MarkerA))
	bx, by := screenOf(t, m, m.MarkerPosition(interaction.MarkerB))

	c.OnPointerDown(ax, ay)
	c.OnPointerUp()
	assert.Equal(t, []interaction.MarkerID{interaction.MarkerA}, m.AttachedLights())
	assert.Equal(t, geom.V3(0, 2, 0), m.LightPosition(interaction.MarkerA))

	c.OnPointerDown(bx, by)
	c.OnPointerUp()
	assert.Equal(t, []interaction.MarkerID{interaction.MarkerB}, m.AttachedLights())
	assert.Equal(t, geom.V3(0, 2, 0), m.LightPosition(interaction.MarkerB))

	c.OnPointerDown(bx, by)
	c.OnPointerUp()
	assert.Empty(t, m.AttachedLights())
}

func TestControllerDragAcrossGround(t *testing.T) {
	m := newTestModel(t)
	c := newController(m, interaction.ModeDrag)
	ax, ay := screenOf(t, m, m.MarkerPosition(interaction.MarkerA))
	target := geom.V3(-4, -1, 6)
	tx, ty := screenOf(t, m, target)

	c.OnPointerDown(ax, ay)
	c.OnPointerMove(tx, ty)
	c.OnPointerUp()

	assert.InDelta(t, 0, m.MarkerPosition(interaction.MarkerA).Distance(target), 1e-3)
	assert.Equal(t, m.MarkerPosition(interaction.MarkerA), m.LightPosition(interaction.MarkerA))
	assert.Equal(t, geom.V3(9, 1, 0), m.MarkerPosition(interaction.MarkerB))
	assert.True(t, m.LightAttached(interaction.MarkerA))

	// Clicking the marker at its new position still works.
	nx, ny := screenOf(t, m, m.MarkerPosition(interaction.MarkerA))
	c.OnPointerDown(nx, ny)
	assert.Empty(t, m.AttachedLights())
}

func TestControllerAmbientSaturates(t *testing.T) {
	m := newTestModel(t)
	c := newController(m, interaction.ModeAmbient)
	for i := 0; i < 150; i++ {
		c.OnPointerMove(viewW/2, viewH)
	}
	assert.Equal(t, float32(1), m.OverlayOpacity())
	assert.InDelta(t, -1, m.MarkerPosition(interaction.MarkerB).Y, 1e-6)
	assert.Equal(t, geom.V3(0, -10, 0), m.LightPosition(interaction.MarkerA))
}
