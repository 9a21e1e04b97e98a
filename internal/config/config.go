package config

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/example/boxlabel/internal/theme"
)

// Environment variables that override the file.
const (
	EnvTheme    = "BOXLABEL_THEME"
	EnvLogLevel = "BOXLABEL_LOG_LEVEL"
)

// Notify holds desktop notification settings.
type Notify struct {
	Save    bool
	Export  bool
	Capture bool
}

// Config holds the application configuration.
type Config struct {
	Theme     string
	ImagesDir string
	LogLevel  string
	Delta     float64
	Notify    Notify
	Themes    map[string]*theme.Theme
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Delta:    10,
		Themes:   make(map[string]*theme.Theme),
	}
}

// ApplyEnv overrides fields from the environment. getenv is normally
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvTheme); v != "" {
		c.Theme = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// ResolveTheme returns the configured theme: a [theme.<name>] section of
// this file first, then whatever the loader finds.
func (c *Config) ResolveTheme(l *theme.Loader) (*theme.Theme, error) {
	if t, ok := c.Themes[c.Theme]; ok {
		return t, nil
	}
	return l.Load(c.Theme)
}

// String returns the configuration in rc format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.ImagesDir != "" {
		fmt.Fprintf(&sb, "images_dir = %s\n", c.ImagesDir)
	}
	fmt.Fprintf(&sb, "log_level = %s\n", c.LogLevel)
	fmt.Fprintf(&sb, "delta = %s\n", strconv.FormatFloat(c.Delta, 'g', -1, 64))
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)

	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "\n[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		theme.Fields(t, func(field string, col color.RGBA) {
			fmt.Fprintf(&sb, "%s: %s\n", field, theme.Hex(col))
		})
	}
	return sb.String()
}
