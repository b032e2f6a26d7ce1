package env

import (
	"errors"
	"fmt"
	"os"

	"github.com/subosito/gotenv"
)

// DefaultPath is the dotenv file loaded at startup, relative to the working directory.
const DefaultPath = ".env"

// Load reads the given file (e.g. ".env") and sets environment variables for each
// KEY=VALUE line, so MARKERLIGHTS_* overrides can live next to the binary.
// Variables already set in the process environment win. The file may be missing; that is not an error.
func Load(path string) error {
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("env: %w", err)
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("env: %w", err)
	}
	return nil
}
