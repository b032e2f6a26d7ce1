package main

import (
	"errors"
	"fmt"

	"marker-lights/internal/commands"
	"marker-lights/internal/config"
	"marker-lights/internal/debug"
	"marker-lights/internal/interaction"
	"marker-lights/internal/logger"
	"marker-lights/internal/scene"
)

// app is the interactive session: the pieces console commands act on.
type app struct {
	cfg     config.Config
	cfgPath string
	log     *logger.Logger
	model   *scene.Model
	ctrl    *interaction.Controller
	dbg     *debug.Debug
}

// stateLine is the debug overlay's state readout.
func (a *app) stateLine() string {
	return fmt.Sprintf("%s %s opacity=%.2f", a.ctrl.Mode(), a.ctrl.State(), a.model.OverlayOpacity())
}

// registry builds the console commands:
//
//	cmd mode --drag | --ambient
//	cmd reset
//	cmd fps --show | --hide
//	cmd state [--show | --hide]
//	cmd save
func (a *app) registry() *commands.Registry {
	reg := commands.NewRegistry()

	modeFS := commands.NewFlagSet("mode")
	drag := modeFS.Bool("drag", false, "press-and-drag markers")
	ambient := modeFS.Bool("ambient", false, "markers and lights follow the pointer height")
	reg.Register("mode", modeFS, func([]string) error {
		defer resetBools(drag, ambient)
		switch {
		case *drag && *ambient:
			return errors.New("use only one of --drag or --ambient")
		case *drag:
			a.setMode(interaction.ModeDrag)
		case *ambient:
			a.setMode(interaction.ModeAmbient)
		default:
			a.log.Info().Stringer("mode", a.ctrl.Mode()).Msg("current mode")
		}
		return nil
	})

	reg.Register("reset", nil, func([]string) error {
		a.model.Reset()
		a.ctrl.Reset()
		return nil
	})

	fpsFS := commands.NewFlagSet("fps")
	fpsShow := fpsFS.Bool("show", false, "show the FPS counter")
	fpsHide := fpsFS.Bool("hide", false, "hide the FPS counter")
	reg.Register("fps", fpsFS, func([]string) error {
		defer resetBools(fpsShow, fpsHide)
		show, err := showHide(*fpsShow, *fpsHide)
		if err != nil {
			return err
		}
		a.dbg.SetShowFPS(show)
		a.cfg.Debug.ShowFPS = show
		return nil
	})

	stateFS := commands.NewFlagSet("state")
	stateShow := stateFS.Bool("show", false, "show the state readout")
	stateHide := stateFS.Bool("hide", false, "hide the state readout")
	reg.Register("state", stateFS, func([]string) error {
		defer resetBools(stateShow, stateHide)
		if *stateShow || *stateHide {
			show, err := showHide(*stateShow, *stateHide)
			if err != nil {
				return err
			}
			a.dbg.SetShowState(show)
			a.cfg.Debug.ShowState = show
		}
		s := a.ctrl.State()
		a.log.Info().
			Stringer("mode", a.ctrl.Mode()).
			Bool("pressed", s.Pressed).
			Stringer("activeMarker", s.ActiveMarker).
			Stringer("lastClicked", s.LastClicked).
			Stringer("activeLight", s.ActiveLight).
			Float32("opacity", a.model.OverlayOpacity()).
			Msg("state")
		return nil
	})

	reg.Register("save", nil, func([]string) error {
		if err := config.Save(a.cfgPath, a.cfg); err != nil {
			return err
		}
		a.log.Info().Str("path", a.cfgPath).Msg("preferences saved")
		return nil
	})

	return reg
}

func (a *app) setMode(m interaction.Mode) {
	a.ctrl.SetMode(m)
	a.cfg.Interaction.Mode = m.String()
}

func showHide(show, hide bool) (bool, error) {
	if show == hide {
		return false, errors.New("use exactly one of --show or --hide")
	}
	return show, nil
}

// resetBools clears flag values after a run; flag sets are reused across console lines.
func resetBools(vals ...*bool) {
	for _, v := range vals {
		*v = false
	}
}
