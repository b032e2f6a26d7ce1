// Package fonts locates TTF/OTF files for the console and debug overlays.
package fonts

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Extensions we consider as font files.
var Exts = []string{".ttf", ".otf"}

// BaseDirs are searched in order so fonts are found whether run from repo root or cmd/marker-lights.
var BaseDirs = []string{"assets/fonts", "../../assets/fonts"}

// ScanDir returns relative paths of all font files under dir (e.g. "Inter/Inter-Regular.ttf").
// Paths use forward slashes. A missing dir yields no paths and no error.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalize lowercases and removes spaces, dashes, and underscores for fuzzy matching.
func normalize(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// Find resolves name to a font file. name may be a path to an existing file, or a family or
// partial file name ("Inter", "Google Sans", "Inter-Bold") searched under BaseDirs. When several
// files match, one containing "Regular" wins. Returns fs.ErrNotExist if nothing matches.
func Find(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fs.ErrNotExist
	}
	if isFont(name) {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	norm := normalize(strings.TrimSuffix(name, filepath.Ext(name)))
	var matches []string
	for _, base := range BaseDirs {
		list, err := ScanDir(base)
		if err != nil {
			return "", err
		}
		for _, rel := range list {
			if strings.Contains(normalize(rel), norm) {
				matches = append(matches, filepath.Join(base, filepath.FromSlash(rel)))
			}
		}
	}
	if len(matches) == 0 {
		return "", fs.ErrNotExist
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(m), "regular") {
			return m, nil
		}
	}
	return matches[0], nil
}
