package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader finds themes by name or path.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader creates a Loader with the standard search directories.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "boxlabel", "themes"),
		SystemDir: "/usr/share/boxlabel/themes",
	}
}

// Load resolves name in this order: an existing file path, a built-in
// theme, <ConfigDir>/<name>.theme, <SystemDir>/<name>.theme. An empty name
// is the default theme.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		return parseFile(name)
	}
	if t, ok := Builtin(name); ok {
		return t, nil
	}
	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, filename)
		if _, err := os.Stat(p); err == nil {
			return parseFile(p)
		}
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
