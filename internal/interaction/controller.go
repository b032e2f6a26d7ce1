package interaction

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/rs/zerolog"

	"marker-lights/internal/geom"
)

// Scene is the scene graph the controller drives. Picking takes normalized device coordinates;
// the scene owns the camera that turns them into rays.
type Scene interface {
	// SetAspect updates the camera aspect ratio (viewport width / height) used for picking.
	SetAspect(aspect float32)
	// PickMarker returns the marker nearest to the camera under ndc, if any.
	PickMarker(ndc geom.Vec2) (MarkerID, bool)
	// PickGround returns the point where the ray under ndc meets the ground plane, if it does.
	PickGround(ndc geom.Vec2) (geom.Vec3, bool)

	MarkerPosition(id MarkerID) geom.Vec3
	SetMarkerPosition(id MarkerID, p geom.Vec3)
	SetLightPosition(id MarkerID, p geom.Vec3)
	AttachLight(id MarkerID)
	DetachLight(id MarkerID)

	OverlayOpacity() float32
	SetOverlayOpacity(v float32)
}

// Settings are the controller's tunables. DefaultSettings matches the stock scene.
type Settings struct {
	Mode Mode
	// Anchor is where a light snaps when its marker is clicked on.
	Anchor geom.Vec3
	// Ambient mode: markerY = (ndcY+1)*MarkerYScale + MarkerYOffset, lightY = ndcY*LightYScale.
	MarkerYScale  float32
	MarkerYOffset float32
	LightYScale   float32
	// Ambient mode: the overlay fades in by OpacityStep per move while marker A is at or below
	// OpacityThreshold, and fades out otherwise.
	OpacityThreshold float32
	OpacityStep      float32
}

// DefaultSettings returns drag mode with the anchor at (0,2,0) and the stock ambient mapping.
func DefaultSettings() Settings {
	return Settings{
		Mode:             ModeDrag,
		Anchor:           geom.V3(0, 2, 0),
		MarkerYScale:     5,
		MarkerYOffset:    -1,
		LightYScale:      10,
		OpacityThreshold: -1,
		OpacityStep:      0.01,
	}
}

// State is the controller's interaction state. Marker and light references are identities,
// NoMarker when unset.
type State struct {
	Pressed      bool
	ActiveMarker MarkerID
	LastClicked  MarkerID
	ActiveLight  MarkerID
}

// String summarizes the state for the debug overlay, e.g. "pressed=false active=none last=A light=A".
func (s State) String() string {
	return fmt.Sprintf("pressed=%t active=%s last=%s light=%s", s.Pressed, s.ActiveMarker, s.LastClicked, s.ActiveLight)
}

func emptyState() State {
	return State{ActiveMarker: NoMarker, LastClicked: NoMarker, ActiveLight: NoMarker}
}

// Controller turns pointer events into scene mutations. It is not safe for concurrent use:
// the host delivers events one at a time from its frame loop.
type Controller struct {
	scene    Scene
	settings Settings
	strategy PointerStrategy
	state    State
	width    float32
	height   float32
	log      zerolog.Logger
}

// New returns a controller for scene with empty interaction state and the strategy for
// settings.Mode. Call SetViewport before delivering pointer events.
func New(scene Scene, settings Settings, log zerolog.Logger) *Controller {
	c := &Controller{
		scene:    scene,
		settings: settings,
		state:    emptyState(),
		log:      log.With().Str("component", "interaction").Logger(),
	}
	c.strategy = strategyFor(settings.Mode)
	return c
}

// SetViewport sets the screen size used to convert pointer coordinates and forwards the
// aspect ratio to the scene camera. Non-positive sizes are ignored.
func (c *Controller) SetViewport(width, height float32) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.scene.SetAspect(width / height)
}

// Mode returns the active interaction mode.
func (c *Controller) Mode() Mode {
	return c.settings.Mode
}

// SetMode switches the pointer strategy. Any drag in progress is dropped; light state is kept.
func (c *Controller) SetMode(m Mode) {
	c.settings.Mode = m
	c.strategy = strategyFor(m)
	c.state.Pressed = false
	c.state.ActiveMarker = NoMarker
	c.log.Info().Stringer("mode", m).Msg("interaction mode changed")
}

// State returns a copy of the interaction state.
func (c *Controller) State() State {
	return c.state
}

// Settings returns the controller's current settings.
func (c *Controller) Settings() Settings {
	return c.settings
}

// Reset detaches every light and clears the interaction state.
func (c *Controller) Reset() {
	for _, id := range Markers {
		c.scene.DetachLight(id)
	}
	c.state = emptyState()
	c.log.Info().Msg("interaction state reset")
}

// OnPointerDown handles a button press at screen coordinates (x, y).
func (c *Controller) OnPointerDown(x, y float32) {
	c.strategy.OnDown(c, c.ndc(x, y))
}

// OnPointerMove handles pointer movement to screen coordinates (x, y).
func (c *Controller) OnPointerMove(x, y float32) {
	c.strategy.OnMove(c, c.ndc(x, y))
}

// OnPointerUp handles a button release.
func (c *Controller) OnPointerUp() {
	c.strategy.OnUp(c)
}

func (c *Controller) ndc(x, y float32) geom.Vec2 {
	return geom.ScreenToNDC(x, y, c.width, c.height)
}

// pick returns the marker under ndc, NoMarker on a miss.
func (c *Controller) pick(ndc geom.Vec2) MarkerID {
	id, ok := c.scene.PickMarker(ndc)
	if !ok || !id.Valid() {
		return NoMarker
	}
	return id
}

// toggle applies a click on marker id: a repeat click on the last clicked marker turns its
// light off, any other click moves the single attached light to id's pair.
func (c *Controller) toggle(id MarkerID) {
	if id == c.state.LastClicked {
		c.detachActive()
		c.state.LastClicked = NoMarker
		c.log.Debug().Stringer("marker", id).Msg("light off")
		return
	}
	c.detachActive()
	c.scene.SetLightPosition(id, c.settings.Anchor)
	c.scene.AttachLight(id)
	c.state.ActiveLight = id
	c.state.LastClicked = id
	c.log.Debug().Stringer("marker", id).Msg("light on")
}

func (c *Controller) detachActive() {
	if c.state.ActiveLight == NoMarker {
		return
	}
	c.scene.DetachLight(c.state.ActiveLight)
	c.state.ActiveLight = NoMarker
}

// fadeOverlay steps the overlay opacity toward 1 when in is true, toward 0 otherwise.
func (c *Controller) fadeOverlay(in bool) {
	op := c.scene.OverlayOpacity()
	if in {
		op += c.settings.OpacityStep
	} else {
		op -= c.settings.OpacityStep
	}
	c.scene.SetOverlayOpacity(clamp01(op))
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(v, 1))
}
