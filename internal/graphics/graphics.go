package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Options configure the window. Zero Width/Height use the monitor size; zero TargetFPS uses 60.
type Options struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	TargetFPS  int
}

// Run opens the window and runs the main loop. Each frame it calls update (input, console), then
// clears the screen and calls draw (scene, overlay, UI). ESC toggles the console; close via the
// window button. Run returns after the window closes; onClose, if set, runs first while the GL
// context still exists.
func Run(opts Options, update, draw, onClose func()) {
	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	if opts.Fullscreen {
		flags |= rl.FlagFullscreenMode
	}
	rl.SetConfigFlags(flags)
	w, h := opts.Width, opts.Height
	rl.InitWindow(int32(w), int32(h), opts.Title)
	defer rl.CloseWindow()
	if w == 0 || h == 0 {
		rl.SetWindowSize(rl.GetMonitorWidth(rl.GetCurrentMonitor()), rl.GetMonitorHeight(rl.GetCurrentMonitor()))
	}

	rl.SetExitKey(rl.KeyNull) // ESC is used to toggle the console, not to quit
	fps := opts.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	rl.SetTargetFPS(int32(fps))

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		draw()
		rl.EndDrawing()
	}
	if onClose != nil {
		onClose()
	}
}
