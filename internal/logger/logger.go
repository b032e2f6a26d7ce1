package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// LogFilePath is the default log file, relative to the working directory (project root when run via go run ./cmd/marker-lights).
const LogFilePath = "logs/marker-lights.log"

// maxLines caps the in-memory history shown by the console.
const maxLines = 500

const timeFormat = "2006-01-02 15:04:05"

// Logger is a zerolog.Logger that fans out to the console, an append-mode JSON file on disk, and
// an in-memory list of formatted lines that the in-app console draws.
type Logger struct {
	zerolog.Logger
	mem  *lineBuffer
	file *os.File
}

// Options configures New. Zero values mean: info level, LogFilePath, stderr console.
type Options struct {
	Level   string
	File    string
	Console io.Writer
	// NoFile disables the file sink (replay runs, tests).
	NoFile bool
}

// New returns a Logger and ensures the log directory exists. An unknown level falls back to info.
func New(opts Options) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		lvl = zerolog.InfoLevel
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	mem := &lineBuffer{}
	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: console, TimeFormat: timeFormat},
		zerolog.ConsoleWriter{Out: mem, NoColor: true, TimeFormat: timeFormat},
	}

	l := &Logger{mem: mem}
	if !opts.NoFile {
		path := opts.File
		if path == "" {
			path = LogFilePath
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		l.file = f
		writers = append(writers, f)
	}

	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().Timestamp().Logger()
	return l, nil
}

// Log records a line typed into the console at info level.
func (l *Logger) Log(line string) {
	l.Info().Str("source", "console").Msg(line)
}

// Lines returns a copy of the most recent formatted lines, oldest first.
func (l *Logger) Lines() []string {
	return l.mem.snapshot()
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// lineBuffer collects the output of a ConsoleWriter, which writes one complete event per call.
type lineBuffer struct {
	mu    sync.Mutex
	lines []string
}

func (b *lineBuffer) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	b.mu.Lock()
	b.lines = append(b.lines, line)
	if len(b.lines) > maxLines {
		b.lines = b.lines[len(b.lines)-maxLines:]
	}
	b.mu.Unlock()
	return len(p), nil
}

func (b *lineBuffer) snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}
