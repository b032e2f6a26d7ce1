package interaction

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marker-lights/internal/geom"
)

// fakeScene resolves picks by screen quadrant: the left half of the viewport hits marker A,
// the right quarter hits marker B, anything between misses. The ground is hit only in the
// bottom half of the viewport.
type fakeScene struct {
	aspect   float32
	markers  map[MarkerID]geom.Vec3
	lights   map[MarkerID]geom.Vec3
	attached map[MarkerID]bool
	opacity  float32
	groundAt geom.Vec3
}

func newFakeScene() *fakeScene {
	return &fakeScene{
		markers:  map[MarkerID]geom.Vec3{MarkerA: geom.V3(-9, 1, 0), MarkerB: geom.V3(9, 1, 0)},
		lights:   map[MarkerID]geom.Vec3{},
		attached: map[MarkerID]bool{},
		groundAt: geom.V3(4, -1, 3),
	}
}

func (s *fakeScene) SetAspect(a float32) { s.aspect = a }

func (s *fakeScene) PickMarker(ndc geom.Vec2) (MarkerID, bool) {
	switch {
	case ndc.X < 0:
		return MarkerA, true
	case ndc.X > 0.5:
		return MarkerB, true
	}
	return NoMarker, false
}

func (s *fakeScene) PickGround(ndc geom.Vec2) (geom.Vec3, bool) {
	if ndc.Y > 0 {
		return geom.Vec3{}, false
	}
	return s.groundAt, true
}

func (s *fakeScene) MarkerPosition(id MarkerID) geom.Vec3       { return s.markers[id] }
func (s *fakeScene) SetMarkerPosition(id MarkerID, p geom.Vec3) { s.markers[id] = p }
func (s *fakeScene) SetLightPosition(id MarkerID, p geom.Vec3)  { s.lights[id] = p }
func (s *fakeScene) AttachLight(id MarkerID)                    { s.attached[id] = true }
func (s *fakeScene) DetachLight(id MarkerID)                    { delete(s.attached, id) }
func (s *fakeScene) OverlayOpacity() float32                    { return s.opacity }
func (s *fakeScene) SetOverlayOpacity(v float32)                { s.opacity = v }

func (s *fakeScene) attachedIDs() []MarkerID {
	var out []MarkerID
	for _, id := range Markers {
		if s.attached[id] {
			out = append(out, id)
		}
	}
	return out
}

// Screen positions on an 800×600 viewport matching fakeScene's pick regions.
const (
	vw, vh          = 800, 600
	clickAX, clickY = 100, 300
	clickBX         = 700
	missX           = 500
	upperY          = 100
	lowerY          = 500
)

func newTestController(mode Mode) (*Controller, *fakeScene) {
	s := newFakeScene()
	settings := DefaultSettings()
	settings.Mode = mode
	c := New(s, settings, zerolog.Nop())
	c.SetViewport(vw, vh)
	return c, s
}

func TestNewStartsEmpty(t *testing.T) {
	c, s := newTestController(ModeDrag)
	assert.Equal(t, emptyState(), c.State())
	assert.Equal(t, ModeDrag, c.Mode())
	assert.InDelta(t, float32(vw)/vh, s.aspect, 1e-6)
	assert.Empty(t, s.attachedIDs())
}

func TestSetViewportIgnoresDegenerateSizes(t *testing.T) {
	c, s := newTestController(ModeDrag)
	c.SetViewport(0, 100)
	c.SetViewport(100, -1)
	assert.InDelta(t, float32(vw)/vh, s.aspect, 1e-6)
}

func TestClickScenario(t *testing.T) {
	for _, mode := range []Mode{ModeDrag, ModeAmbient} {
		t.Run(mode.String(), func(t *testing.T) {
			c, s := newTestController(mode)

			c.OnPointerDown(clickAX, clickY)
			c.OnPointerUp()
			assert.Equal(t, []MarkerID{MarkerA}, s.attachedIDs())
			assert.Equal(t, geom.V3(0, 2, 0), s.lights[MarkerA])
			assert.Equal(t, MarkerA, c.State().ActiveLight)

			c.OnPointerDown(clickBX, clickY)
			c.OnPointerUp()
			assert.Equal(t, []MarkerID{MarkerB}, s.attachedIDs())
			assert.Equal(t, geom.V3(0, 2, 0), s.lights[MarkerB])
			assert.Equal(t, MarkerB, c.State().ActiveLight)
			assert.Equal(t, MarkerB, c.State().LastClicked)

			c.OnPointerDown(clickBX, clickY)
			c.OnPointerUp()
			assert.Empty(t, s.attachedIDs())
			assert.Equal(t, NoMarker, c.State().ActiveLight)
			assert.Equal(t, NoMarker, c.State().LastClicked)
		})
	}
}

func TestDoubleClickSameMarkerTurnsLightOff(t *testing.T) {
	c, s := newTestController(ModeDrag)
	c.OnPointerDown(clickAX, clickY)
	c.OnPointerDown(clickAX, clickY)
	assert.Empty(t, s.attachedIDs())

	// A third click starts over.
	c.OnPointerDown(clickAX, clickY)
	assert.Equal(t, []MarkerID{MarkerA}, s.attachedIDs())
}

func TestClickOutsideMarkersIsNoop(t *testing.T) {
	c, s := newTestController(ModeAmbient)
	c.OnPointerDown(clickAX, clickY)
	before := c.State()

	c.OnPointerDown(missX, clickY)
	assert.Equal(t, before, c.State())
	assert.Equal(t, []MarkerID{MarkerA}, s.attachedIDs())
}

func TestAtMostOneLightAttached(t *testing.T) {
	c, s := newTestController(ModeDrag)
	rng := rand.New(rand.NewSource(7))
	xs := []float32{clickAX, clickBX, missX}
	for i := 0; i < 500; i++ {
		c.OnPointerDown(xs[rng.Intn(len(xs))], clickY)
		if rng.Intn(2) == 0 {
			c.OnPointerUp()
		}
		attached := s.attachedIDs()
		require.LessOrEqual(t, len(attached), 1, "step %d", i)
		if len(attached) == 1 {
			assert.Equal(t, attached[0], c.State().ActiveLight)
		} else {
			assert.Equal(t, NoMarker, c.State().ActiveLight)
		}
	}
}

func TestDragMovesActiveMarkerAndLight(t *testing.T) {
	c, s := newTestController(ModeDrag)
	c.OnPointerDown(clickAX, clickY)
	assert.True(t, c.State().Pressed)
	assert.Equal(t, MarkerA, c.State().ActiveMarker)

	c.OnPointerMove(400, lowerY)
	assert.Equal(t, s.groundAt, s.markers[MarkerA])
	assert.Equal(t, s.groundAt, s.lights[MarkerA])
	assert.Equal(t, geom.V3(9, 1, 0), s.markers[MarkerB])

	c.OnPointerUp()
	assert.False(t, c.State().Pressed)
	assert.Equal(t, NoMarker, c.State().ActiveMarker)

	s.groundAt = geom.V3(-2, -1, -2)
	c.OnPointerMove(400, lowerY)
	assert.Equal(t, geom.V3(4, -1, 3), s.markers[MarkerA], "released marker stays put")
}

func TestDragAfterTogglingOffStillDrags(t *testing.T) {
	c, s := newTestController(ModeDrag)
	c.OnPointerDown(clickAX, clickY)
	c.OnPointerUp()
	c.OnPointerDown(clickAX, clickY)
	require.Empty(t, s.attachedIDs())

	c.OnPointerMove(400, lowerY)
	assert.Equal(t, s.groundAt, s.markers[MarkerA])
}

func TestDragWithoutActiveMarkerIsNoop(t *testing.T) {
	c, s := newTestController(ModeDrag)
	start := map[MarkerID]geom.Vec3{MarkerA: s.markers[MarkerA], MarkerB: s.markers[MarkerB]}

	c.OnPointerMove(400, lowerY) // not pressed
	c.OnPointerDown(missX, clickY)
	assert.True(t, c.State().Pressed)
	c.OnPointerMove(400, lowerY) // pressed, nothing active
	c.OnPointerUp()

	assert.Equal(t, start[MarkerA], s.markers[MarkerA])
	assert.Equal(t, start[MarkerB], s.markers[MarkerB])
	assert.Empty(t, s.lights)
}

func TestDragGroundMissIsNoop(t *testing.T) {
	c, s := newTestController(ModeDrag)
	c.OnPointerDown(clickAX, clickY)
	c.OnPointerMove(400, upperY)
	assert.Equal(t, geom.V3(-9, 1, 0), s.markers[MarkerA])
	assert.Equal(t, geom.V3(0, 2, 0), s.lights[MarkerA])
}

func TestAmbientMoveMapsPointerHeight(t *testing.T) {
	c, s := newTestController(ModeAmbient)

	c.OnPointerMove(400, 0) // ndcY = 1
	assert.InDelta(t, 9, s.markers[MarkerA].Y, 1e-5)
	assert.InDelta(t, 9, s.markers[MarkerB].Y, 1e-5)
	assert.InDelta(t, -9, s.markers[MarkerA].X, 1e-5, "only height changes")
	assert.Equal(t, geom.V3(0, 10, 0), s.lights[MarkerA])
	assert.Equal(t, geom.V3(0, 10, 0), s.lights[MarkerB])
	assert.Empty(t, s.attachedIDs(), "moving lights does not attach them")

	c.OnPointerMove(400, 300) // ndcY = 0
	assert.InDelta(t, 4, s.markers[MarkerB].Y, 1e-5)
	assert.Equal(t, geom.V3(0, 0, 0), s.lights[MarkerB])
}

func TestAmbientOverlayFadesInBelowThreshold(t *testing.T) {
	c, s := newTestController(ModeAmbient)

	c.OnPointerMove(400, vh) // ndcY = -1 → markerY = -1
	assert.InDelta(t, -1, s.markers[MarkerA].Y, 1e-6)
	assert.InDelta(t, 0.01, s.opacity, 1e-6)

	for i := 0; i < 100; i++ {
		c.OnPointerMove(400, vh)
	}
	assert.Equal(t, float32(1), s.opacity)

	c.OnPointerMove(400, 0)
	assert.InDelta(t, 0.99, s.opacity, 1e-6)
}

func TestAmbientOverlayFadesOutToZero(t *testing.T) {
	c, s := newTestController(ModeAmbient)
	s.opacity = 0.015
	c.OnPointerMove(400, 0)
	assert.InDelta(t, 0.005, s.opacity, 1e-6)
	c.OnPointerMove(400, 0)
	assert.Equal(t, float32(0), s.opacity)
}

func TestAmbientOpacityStaysInRange(t *testing.T) {
	c, s := newTestController(ModeAmbient)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		c.OnPointerMove(rng.Float32()*vw, rng.Float32()*vh)
		require.GreaterOrEqual(t, s.opacity, float32(0))
		require.LessOrEqual(t, s.opacity, float32(1))
	}
}

func TestAmbientIgnoresPressAndRelease(t *testing.T) {
	c, _ := newTestController(ModeAmbient)
	c.OnPointerDown(clickAX, clickY)
	assert.False(t, c.State().Pressed)
	assert.Equal(t, NoMarker, c.State().ActiveMarker)
	c.OnPointerUp()
	assert.Equal(t, MarkerA, c.State().ActiveLight)
}

func TestSetModeDropsDragKeepsLight(t *testing.T) {
	c, s := newTestController(ModeDrag)
	c.OnPointerDown(clickAX, clickY)
	c.SetMode(ModeAmbient)

	st := c.State()
	assert.False(t, st.Pressed)
	assert.Equal(t, NoMarker, st.ActiveMarker)
	assert.Equal(t, MarkerA, st.ActiveLight)
	assert.Equal(t, ModeAmbient, c.Mode())
	assert.Equal(t, []MarkerID{MarkerA}, s.attachedIDs())
}

func TestReset(t *testing.T) {
	c, s := newTestController(ModeDrag)
	c.OnPointerDown(clickBX, clickY)
	c.Reset()
	assert.Equal(t, emptyState(), c.State())
	assert.Empty(t, s.attachedIDs())
}

func TestParseHelpers(t *testing.T) {
	m, err := ParseMode(" Ambient ")
	require.NoError(t, err)
	assert.Equal(t, ModeAmbient, m)
	_, err = ParseMode("hover")
	assert.Error(t, err)

	id, err := ParseMarker("B")
	require.NoError(t, err)
	assert.Equal(t, MarkerB, id)
	_, err = ParseMarker("c")
	assert.Error(t, err)

	assert.Equal(t, "none", NoMarker.String())
	assert.Equal(t, "pressed=false active=none last=none light=none", emptyState().String())
	assert.False(t, NoMarker.Valid())
}
