package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/pflag"

	"marker-lights/internal/config"
	"marker-lights/internal/debug"
	"marker-lights/internal/env"
	"marker-lights/internal/fonts"
	"marker-lights/internal/graphics"
	"marker-lights/internal/input"
	"marker-lights/internal/interaction"
	"marker-lights/internal/logger"
	"marker-lights/internal/render"
	"marker-lights/internal/replay"
	"marker-lights/internal/scene"
	"marker-lights/internal/terminal"
)

// flags are the command-line overrides. Empty values keep the configured preference.
type flags struct {
	config     string
	envFile    string
	layout     string
	mode       string
	replay     string
	logLevel   string
	fullscreen bool
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := pflag.NewFlagSet("marker-lights", pflag.ContinueOnError)
	fs.StringVarP(&f.config, "config", "c", config.ConfigPath, "preferences file (json, yaml or toml)")
	fs.StringVar(&f.envFile, "env", env.DefaultPath, "dotenv file loaded before the config")
	fs.StringVarP(&f.layout, "layout", "l", "", "scene layout YAML (default: assets/scene.yaml)")
	fs.StringVarP(&f.mode, "mode", "m", "", "interaction mode: drag or ambient")
	fs.StringVarP(&f.replay, "replay", "r", "", "run a pointer-event script headlessly and exit")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	fs.BoolVar(&f.fullscreen, "fullscreen", false, "open the window fullscreen")
	err := fs.Parse(args)
	return f, err
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "marker-lights: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if err := env.Load(f.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	if f.mode != "" {
		cfg.Interaction.Mode = f.mode
	}
	if f.layout != "" {
		cfg.Scene.Layout = f.layout
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.fullscreen {
		cfg.Window.Fullscreen = true
	}
	settings, err := cfg.Interaction.Settings()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		NoFile: f.replay != "",
	})
	if err != nil {
		return err
	}
	defer log.Close()

	layout, err := scene.LoadLayout(cfg.Scene.Layout)
	if err != nil {
		log.Warn().Err(err).Msg("using default scene layout")
	}

	if f.replay != "" {
		return runReplay(f.replay, layout, settings, log)
	}

	a := &app{cfg: cfg, cfgPath: f.config, log: log}
	a.model = scene.NewModel(layout)
	a.ctrl = interaction.New(a.model, settings, log.Logger)
	a.dbg = debug.New()
	a.dbg.SetShowFPS(cfg.Debug.ShowFPS)
	a.dbg.SetShowState(cfg.Debug.ShowState)
	a.dbg.State = a.stateLine

	term := terminal.New(log, a.registry())
	pointer := input.NewPointer(a.ctrl)
	pointer.Suspended = term.IsOpen
	renderer := render.New(a.model)

	log.Info().
		Stringer("mode", a.ctrl.Mode()).
		Str("layout", cfg.Scene.Layout).
		Msg("starting; press ESC for the console")

	var font rl.Font
	started := false
	update := func() {
		if !started {
			// GPU resources need the window, which graphics.Run opens.
			started = true
			if font = loadFont(cfg.Window.Font, log); font.Texture.ID != 0 {
				term.SetFont(font)
				a.dbg.SetFont(font)
			}
		}
		term.Update()
		pointer.Update()
	}
	draw := func() {
		renderer.Draw()
		term.Draw()
		a.dbg.Draw()
	}
	graphics.Run(graphics.Options{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		TargetFPS:  cfg.Window.TargetFPS,
	}, update, draw, func() {
		if font.Texture.ID != 0 {
			rl.UnloadFont(font)
		}
		renderer.Unload()
	})
	log.Info().Msg("window closed")
	return nil
}

func runReplay(path string, layout scene.Layout, settings interaction.Settings, log *logger.Logger) error {
	script, err := replay.LoadScript(path)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	frames, err := replay.Run(ctx, script, layout, settings, log.Logger)
	if err != nil {
		return err
	}
	log.Info().Str("script", path).Int("frames", len(frames)).Msg("replay finished")
	return nil
}

// loadFont resolves name under assets/fonts and loads it. Any failure falls back to raylib's
// default font (zero Font).
func loadFont(name string, log *logger.Logger) rl.Font {
	if name == "" {
		return rl.Font{}
	}
	path, err := fonts.Find(name)
	if err != nil {
		log.Warn().Err(err).Str("font", name).Msg("font not found; using default")
		return rl.Font{}
	}
	f := rl.LoadFont(path)
	if f.Texture.ID == 0 {
		log.Warn().Str("path", path).Msg("font failed to load; using default")
		return rl.Font{}
	}
	log.Debug().Str("path", path).Msg("font loaded")
	return f
}
