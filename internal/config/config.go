package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"marker-lights/internal/geom"
	"marker-lights/internal/interaction"
)

// ConfigPath is the default preferences file, relative to the process working directory.
const ConfigPath = "config/marker-lights.json"

// EnvPrefix prefixes environment overrides, e.g. MARKERLIGHTS_INTERACTION_MODE=ambient.
const EnvPrefix = "MARKERLIGHTS"

// WindowConfig holds window settings.
type WindowConfig struct {
	Title      string `json:"title" mapstructure:"title"`
	Width      int    `json:"width" mapstructure:"width"`
	Height     int    `json:"height" mapstructure:"height"`
	Fullscreen bool   `json:"fullscreen" mapstructure:"fullscreen"`
	TargetFPS  int    `json:"targetFps" mapstructure:"targetFps"`
	// Font is a font file or family name searched under assets/fonts; empty uses raylib's default.
	Font string `json:"font" mapstructure:"font"`
}

// InteractionConfig holds the controller tunables; see interaction.Settings.
type InteractionConfig struct {
	Mode             string     `json:"mode" mapstructure:"mode"`
	Anchor           [3]float32 `json:"anchor" mapstructure:"anchor"`
	MarkerYScale     float32    `json:"markerYScale" mapstructure:"markerYScale"`
	MarkerYOffset    float32    `json:"markerYOffset" mapstructure:"markerYOffset"`
	LightYScale      float32    `json:"lightYScale" mapstructure:"lightYScale"`
	OpacityThreshold float32    `json:"opacityThreshold" mapstructure:"opacityThreshold"`
	OpacityStep      float32    `json:"opacityStep" mapstructure:"opacityStep"`
}

// SceneConfig points at the scene layout. An empty Layout searches scene.LayoutPaths.
type SceneConfig struct {
	Layout string `json:"layout" mapstructure:"layout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file" mapstructure:"file"`
}

// DebugConfig holds debug overlay preferences.
type DebugConfig struct {
	ShowFPS   bool `json:"showFps" mapstructure:"showFps"`
	ShowState bool `json:"showState" mapstructure:"showState"`
}

// Config is the full set of preferences. Persisted across runs with Save.
type Config struct {
	Window      WindowConfig      `json:"window" mapstructure:"window"`
	Interaction InteractionConfig `json:"interaction" mapstructure:"interaction"`
	Scene       SceneConfig       `json:"scene" mapstructure:"scene"`
	Log         LogConfig         `json:"log" mapstructure:"log"`
	Debug       DebugConfig       `json:"debug" mapstructure:"debug"`
}

// Default returns the default preferences: a 1280×720 window in drag mode, debug overlays off.
func Default() Config {
	s := interaction.DefaultSettings()
	return Config{
		Window: WindowConfig{
			Title:     "marker lights",
			Width:     1280,
			Height:    720,
			TargetFPS: 60,
		},
		Interaction: InteractionConfig{
			Mode:             s.Mode.String(),
			Anchor:           s.Anchor.Array(),
			MarkerYScale:     s.MarkerYScale,
			MarkerYOffset:    s.MarkerYOffset,
			LightYScale:      s.LightYScale,
			OpacityThreshold: s.OpacityThreshold,
			OpacityStep:      s.OpacityStep,
		},
		Log: LogConfig{Level: "info"},
	}
}

// apply feeds every key of c to set (viper.SetDefault or viper.Set).
func apply(set func(key string, value any), c Config) {
	set("window.title", c.Window.Title)
	set("window.width", c.Window.Width)
	set("window.height", c.Window.Height)
	set("window.fullscreen", c.Window.Fullscreen)
	set("window.targetFps", c.Window.TargetFPS)
	set("window.font", c.Window.Font)

	set("interaction.mode", c.Interaction.Mode)
	set("interaction.anchor", c.Interaction.Anchor[:])
	set("interaction.markerYScale", c.Interaction.MarkerYScale)
	set("interaction.markerYOffset", c.Interaction.MarkerYOffset)
	set("interaction.lightYScale", c.Interaction.LightYScale)
	set("interaction.opacityThreshold", c.Interaction.OpacityThreshold)
	set("interaction.opacityStep", c.Interaction.OpacityStep)

	set("scene.layout", c.Scene.Layout)

	set("log.level", c.Log.Level)
	set("log.file", c.Log.File)

	set("debug.showFps", c.Debug.ShowFPS)
	set("debug.showState", c.Debug.ShowState)
}

// Load reads preferences from path (ConfigPath when empty) on top of Default, then applies
// MARKERLIGHTS_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = ConfigPath
	}
	v := viper.New()
	apply(v.SetDefault, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType(configType(path))
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Default(), fmt.Errorf("error reading config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Default(), fmt.Errorf("error decoding config: %w", err)
	}
	if _, err := c.Interaction.Settings(); err != nil {
		return Default(), err
	}
	return c, nil
}

// Save writes c to path (ConfigPath when empty), creating the directory if needed.
func Save(path string, c Config) error {
	if path == "" {
		path = ConfigPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	v := viper.New()
	apply(v.Set, c)
	v.SetConfigType(configType(path))
	return v.WriteConfigAs(path)
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	}
	return "json"
}

// Settings converts the interaction preferences to controller settings.
func (c InteractionConfig) Settings() (interaction.Settings, error) {
	mode, err := interaction.ParseMode(c.Mode)
	if err != nil {
		return interaction.Settings{}, err
	}
	if c.OpacityStep < 0 || c.OpacityStep > 1 {
		return interaction.Settings{}, fmt.Errorf("interaction.opacityStep %v out of range [0, 1]", c.OpacityStep)
	}
	return interaction.Settings{
		Mode:             mode,
		Anchor:           geom.FromArray(c.Anchor),
		MarkerYScale:     c.MarkerYScale,
		MarkerYOffset:    c.MarkerYOffset,
		LightYScale:      c.LightYScale,
		OpacityThreshold: c.OpacityThreshold,
		OpacityStep:      c.OpacityStep,
	}, nil
}
