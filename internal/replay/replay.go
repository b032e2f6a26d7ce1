// Package replay drives the controller from a YAML script of pointer events without opening a
// window, recording the scene state after every event. Used by the --replay flag and by tests.
package replay

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"marker-lights/internal/geom"
	"marker-lights/internal/interaction"
	"marker-lights/internal/scene"
)

// Event types.
const (
	EventDown = "down"
	EventMove = "move"
	EventUp   = "up"
)

const (
	defaultWidth  = 1280
	defaultHeight = 720
)

// Event is one pointer event. The pointer position is X/Y in pixels unless Marker names a
// marker ("a" or "b") or Point names a world position, in which case the position is that
// target projected through the camera at the time the event runs. Repeat > 1 sends the event
// that many times.
type Event struct {
	Type   string      `yaml:"type"`
	X      float32     `yaml:"x,omitempty"`
	Y      float32     `yaml:"y,omitempty"`
	Marker string      `yaml:"marker,omitempty"`
	Point  *[3]float32 `yaml:"point,omitempty"`
	Repeat int         `yaml:"repeat,omitempty"`
}

// Script is a replay file. Mode overrides the configured interaction mode when set.
// Viewport is [width, height] in pixels, 1280×720 when omitted.
type Script struct {
	Mode     string     `yaml:"mode,omitempty"`
	Viewport [2]float32 `yaml:"viewport,omitempty"`
	Events   []Event    `yaml:"events"`
}

// Frame is the scene state after one event.
type Frame struct {
	Index    int
	Event    Event
	State    interaction.State
	Attached []interaction.MarkerID
	Markers  [2]geom.Vec3
	Lights   [2]geom.Vec3
	Opacity  float32
}

// LoadScript reads and validates a script file.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("replay: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes and validates a script.
func ParseScript(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("replay: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// Validate checks event types, marker names and the mode.
func (s Script) Validate() error {
	if s.Mode != "" {
		if _, err := interaction.ParseMode(s.Mode); err != nil {
			return fmt.Errorf("replay: %w", err)
		}
	}
	if s.Viewport[0] < 0 || s.Viewport[1] < 0 {
		return fmt.Errorf("replay: viewport must be positive, got %v", s.Viewport)
	}
	for i, e := range s.Events {
		switch strings.ToLower(e.Type) {
		case EventDown, EventMove, EventUp:
		default:
			return fmt.Errorf("replay: event %d: unknown type %q (use down, move or up)", i, e.Type)
		}
		if e.Marker != "" {
			if _, err := interaction.ParseMarker(e.Marker); err != nil {
				return fmt.Errorf("replay: event %d: %w", i, err)
			}
		}
		if e.Repeat < 0 {
			return fmt.Errorf("replay: event %d: negative repeat", i)
		}
	}
	return nil
}

func (s Script) viewport() (float32, float32) {
	w, h := s.Viewport[0], s.Viewport[1]
	if w == 0 || h == 0 {
		return defaultWidth, defaultHeight
	}
	return w, h
}

// Run builds a fresh scene from layout and a controller from settings, then plays every event
// in order. Each frame is logged at info level. Run stops early if ctx is cancelled.
func Run(ctx context.Context, s Script, layout scene.Layout, settings interaction.Settings, log zerolog.Logger) ([]Frame, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Mode != "" {
		settings.Mode, _ = interaction.ParseMode(s.Mode)
	}
	w, h := s.viewport()
	model := scene.NewModel(layout)
	ctrl := interaction.New(model, settings, log)
	ctrl.SetViewport(w, h)
	log = log.With().Str("component", "replay").Logger()
	log.Info().Stringer("mode", settings.Mode).Int("events", len(s.Events)).Msg("replay started")

	var frames []Frame
	for i, e := range s.Events {
		n := e.Repeat
		if n < 1 {
			n = 1
		}
		for k := 0; k < n; k++ {
			if err := ctx.Err(); err != nil {
				return frames, err
			}
			x, y, err := position(model, e, w, h)
			if err != nil {
				return frames, fmt.Errorf("replay: event %d: %w", i, err)
			}
			switch strings.ToLower(e.Type) {
			case EventDown:
				ctrl.OnPointerDown(x, y)
			case EventMove:
				ctrl.OnPointerMove(x, y)
			case EventUp:
				ctrl.OnPointerUp()
			}
		}
		f := snapshot(i, e, ctrl, model)
		frames = append(frames, f)
		logFrame(log, f)
	}
	return frames, nil
}

func position(m *scene.Model, e Event, w, h float32) (float32, float32, error) {
	var target geom.Vec3
	switch {
	case e.Marker != "":
		id, err := interaction.ParseMarker(e.Marker)
		if err != nil {
			return 0, 0, err
		}
		target = m.MarkerPosition(id)
	case e.Point != nil:
		target = geom.FromArray(*e.Point)
	default:
		return e.X, e.Y, nil
	}
	x, y, ok := m.Camera().Project(target, w, h)
	if !ok {
		return 0, 0, fmt.Errorf("target %v is behind the camera", target)
	}
	return x, y, nil
}

func snapshot(i int, e Event, c *interaction.Controller, m *scene.Model) Frame {
	f := Frame{
		Index:    i,
		Event:    e,
		State:    c.State(),
		Attached: m.AttachedLights(),
		Opacity:  m.OverlayOpacity(),
	}
	for _, id := range interaction.Markers {
		f.Markers[id] = m.MarkerPosition(id)
		f.Lights[id] = m.LightPosition(id)
	}
	return f
}

func logFrame(log zerolog.Logger, f Frame) {
	attached := make([]string, len(f.Attached))
	for i, id := range f.Attached {
		attached[i] = id.String()
	}
	log.Info().
		Int("event", f.Index).
		Str("type", f.Event.Type).
		Bool("pressed", f.State.Pressed).
		Stringer("activeMarker", f.State.ActiveMarker).
		Stringer("activeLight", f.State.ActiveLight).
		Strs("attached", attached).
		Float32("opacity", f.Opacity).
		Msg("frame")
}
