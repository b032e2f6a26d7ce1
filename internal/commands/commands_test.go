package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line   string
		want   []string
		wantOK bool
	}{
		{"cmd mode --ambient", []string{"mode", "--ambient"}, true},
		{"cmd   reset  ", []string{"reset"}, true},
		{"cmd ", nil, true},
		{"hello there", nil, false},
		{"CMD mode", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := Parse(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEditLine(t *testing.T) {
	tests := []struct {
		name       string
		buf, typed string
		backspaces int
		want       string
	}{
		{"type", "cmd", " reset", 0, "cmd reset"},
		{"backspace", "cmd resetx", "", 1, "cmd reset"},
		{"backspace past start", "ab", "", 5, ""},
		{"multibyte rune", "café", "", 1, "caf"},
		{"paste with newline", "cmd ", "mode\n--drag\r", 0, "cmd mode --drag"},
		{"type then erase", "", "xy", 1, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EditLine(tt.buf, tt.typed, tt.backspaces))
		})
	}
}

func TestExecute(t *testing.T) {
	r := NewRegistry()

	fs := NewFlagSet("fps")
	show := fs.Bool("show", false, "show the FPS counter")
	var gotArgs []string
	r.Register("fps", fs, func(args []string) error {
		gotArgs = args
		return nil
	})
	r.Register("fail", nil, func([]string) error { return errors.New("boom") })

	require.NoError(t, r.Execute([]string{"fps", "--show", "extra"}))
	assert.True(t, *show)
	assert.Equal(t, []string{"extra"}, gotArgs)

	err := r.Execute([]string{"fps", "--nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fps:")

	assert.EqualError(t, r.Execute([]string{"fail"}), "boom")
	assert.EqualError(t, r.Execute([]string{"zap"}), "unknown command: zap")

	err = r.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fail, fps")
	assert.Equal(t, []string{"fail", "fps"}, r.Names())
}
