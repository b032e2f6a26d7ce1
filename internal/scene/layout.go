package scene

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"marker-lights/internal/interaction"
)

// LayoutPaths are tried in order so the layout is found whether run from repo root or cmd/marker-lights.
var LayoutPaths = []string{
	"assets/scene.yaml",
	"../../assets/scene.yaml",
}

// PrimitiveDef is the YAML definition of a static primitive (cube or ground plane).
// Size is the full extent on each axis; a plane ignores Y.
type PrimitiveDef struct {
	Type     string     `yaml:"type"`
	Position [3]float32 `yaml:"position"`
	Size     [3]float32 `yaml:"size,omitempty"`
	Color    string     `yaml:"color,omitempty"`
}

// CameraDef places the perspective camera. FovY is the vertical field of view in degrees.
type CameraDef struct {
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
	FovY     float32    `yaml:"fovy"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
}

// SunDef is the always-on directional light.
type SunDef struct {
	Position  [3]float32 `yaml:"position"`
	Color     string     `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
}

// PointLightDef describes the point light paired with a marker.
type PointLightDef struct {
	Color     string  `yaml:"color"`
	Intensity float32 `yaml:"intensity"`
	Range     float32 `yaml:"range"`
}

// MarkerDef is a marker sphere and its paired light.
type MarkerDef struct {
	Position [3]float32    `yaml:"position"`
	Radius   float32       `yaml:"radius"`
	Color    string        `yaml:"color"`
	Light    PointLightDef `yaml:"light"`
}

// OverlayDef is the full-screen tint faded in by ambient mode.
type OverlayDef struct {
	Color   string  `yaml:"color"`
	Opacity float32 `yaml:"opacity"`
}

// MarkerDefs are marker definitions keyed by marker name. Decoding merges each entry into the
// definition already present under that key, so a file only needs the marker fields it changes.
type MarkerDefs map[string]MarkerDef

// UnmarshalYAML implements yaml.Unmarshaler. The receiver's map is copied, not mutated.
func (m *MarkerDefs) UnmarshalYAML(value *yaml.Node) error {
	var nodes map[string]yaml.Node
	if err := value.Decode(&nodes); err != nil {
		return err
	}
	out := make(MarkerDefs, len(*m)+len(nodes))
	for k, def := range *m {
		out[k] = def
	}
	for k, node := range nodes {
		k = strings.ToLower(k)
		def := out[k]
		if err := node.Decode(&def); err != nil {
			return err
		}
		out[k] = def
	}
	*m = out
	return nil
}

// Layout is everything static about the scene: camera, geometry, colors and the seed positions
// of the markers. Markers are keyed "a" and "b".
type Layout struct {
	Camera  CameraDef    `yaml:"camera"`
	Cube    PrimitiveDef `yaml:"cube"`
	Ground  PrimitiveDef `yaml:"ground"`
	Sun     SunDef       `yaml:"sun"`
	Markers MarkerDefs   `yaml:"markers"`
	Overlay OverlayDef   `yaml:"overlay"`
}

// DefaultLayout returns the stock scene: a teal cube on a grey 40×40 ground, markers either side
// of the cube with a green (A) and red (B) light, and a green overlay starting transparent.
func DefaultLayout() Layout {
	return Layout{
		Camera: CameraDef{
			Position: [3]float32{0, 5, 20},
			Target:   [3]float32{0, 5, 19},
			FovY:     75,
			Near:     0.1,
			Far:      100,
		},
		Cube: PrimitiveDef{
			Type:     "cube",
			Position: [3]float32{0, 1, 0},
			Size:     [3]float32{2, 2, 2},
			Color:    "#44aa88",
		},
		Ground: PrimitiveDef{
			Type:     "plane",
			Position: [3]float32{0, -1, 0},
			Size:     [3]float32{40, 0, 40},
			Color:    "#808080",
		},
		Sun: SunDef{
			Position:  [3]float32{5, 10, 5},
			Color:     "#ffffff",
			Intensity: 1,
		},
		Markers: MarkerDefs{
			"a": {
				Position: [3]float32{-9, 1, 0},
				Radius:   0.2,
				Color:    "#ffffff",
				Light:    PointLightDef{Color: "#00ff00", Intensity: 20, Range: 50},
			},
			"b": {
				Position: [3]float32{9, 1, 0},
				Radius:   0.2,
				Color:    "#ffffff",
				Light:    PointLightDef{Color: "#ff0000", Intensity: 20, Range: 50},
			},
		},
		Overlay: OverlayDef{Color: "#00ff00", Opacity: 0},
	}
}

// LoadLayout reads a YAML layout from path on top of DefaultLayout, so a file only needs the
// fields it changes. An empty path tries LayoutPaths; a missing file yields the default layout.
func LoadLayout(path string) (Layout, error) {
	l := DefaultLayout()
	data, err := readFirst(path)
	if err != nil {
		return l, err
	}
	if data == nil {
		return l, nil
	}
	if err := yaml.Unmarshal(data, &l); err != nil {
		return DefaultLayout(), fmt.Errorf("scene layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return DefaultLayout(), fmt.Errorf("scene layout: %w", err)
	}
	return l, nil
}

func readFirst(path string) ([]byte, error) {
	paths := LayoutPaths
	if path != "" {
		paths = []string{path}
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("scene layout: %w", err)
		}
	}
	return nil, nil
}

// Marker returns the definition for id. ok is false if the layout has none.
func (l Layout) Marker(id interaction.MarkerID) (MarkerDef, bool) {
	m, ok := l.Markers[strings.ToLower(id.String())]
	return m, ok
}

// Validate checks the layout can be built into a Model and rendered.
func (l Layout) Validate() error {
	if l.Camera.FovY <= 0 || l.Camera.FovY >= 180 {
		return fmt.Errorf("camera fovy %v out of range (0, 180)", l.Camera.FovY)
	}
	if l.Camera.Position == l.Camera.Target {
		return fmt.Errorf("camera position equals target")
	}
	if l.Ground.Size[0] <= 0 || l.Ground.Size[2] <= 0 {
		return fmt.Errorf("ground size must be positive, got %v", l.Ground.Size)
	}
	for key := range l.Markers {
		if _, err := interaction.ParseMarker(key); err != nil {
			return err
		}
	}
	colors := []string{l.Cube.Color, l.Ground.Color, l.Sun.Color, l.Overlay.Color}
	for _, id := range interaction.Markers {
		m, ok := l.Marker(id)
		if !ok {
			return fmt.Errorf("marker %s missing", id)
		}
		if m.Radius <= 0 {
			return fmt.Errorf("marker %s radius must be positive", id)
		}
		if m.Light.Range <= 0 {
			return fmt.Errorf("marker %s light range must be positive", id)
		}
		colors = append(colors, m.Color, m.Light.Color)
	}
	for _, c := range colors {
		if _, err := ParseColor(c); err != nil {
			return err
		}
	}
	if l.Overlay.Opacity < 0 || l.Overlay.Opacity > 1 {
		return fmt.Errorf("overlay opacity %v out of range [0, 1]", l.Overlay.Opacity)
	}
	return nil
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// ParseColor parses "#rrggbb", "0xrrggbb" or "rrggbb" (opaque), with an optional trailing "aa".
// An empty string is opaque white.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{255, 255, 255, 255}, nil
	}
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "#"), "0x")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// ColorOrWhite is ParseColor for layouts that already passed Validate; invalid input yields white.
func ColorOrWhite(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		return Color{255, 255, 255, 255}
	}
	return c
}
