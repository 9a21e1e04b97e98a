package theme

import (
	"image/color"
	"sort"
	"strings"
)

// Theme defines the colour palette of the labelling window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // behind the panels and the canvas
	Foreground color.RGBA

	// Side panels (file list, annotation and instance tables)
	PanelBackground color.RGBA
	PanelText       color.RGBA
	PanelHeader     color.RGBA
	RowSelected     color.RGBA
	RowSelectedText color.RGBA
	Divider         color.RGBA

	// Shortcut bar
	StatusBackground color.RGBA
	StatusText       color.RGBA
	ErrorText        color.RGBA

	// Canvas
	CanvasBackground color.RGBA
	LabelBackground  color.RGBA // behind box captions
	LabelText        color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:             "default",
		Background:       color.RGBA{220, 220, 220, 255},
		Foreground:       color.RGBA{0, 0, 0, 255},
		PanelBackground:  color.RGBA{235, 235, 235, 255},
		PanelText:        color.RGBA{20, 20, 20, 255},
		PanelHeader:      color.RGBA{200, 200, 200, 255},
		RowSelected:      color.RGBA{60, 120, 200, 255},
		RowSelectedText:  color.RGBA{255, 255, 255, 255},
		Divider:          color.RGBA{180, 180, 180, 255},
		StatusBackground: color.RGBA{200, 200, 200, 255},
		StatusText:       color.RGBA{0, 0, 0, 255},
		ErrorText:        color.RGBA{180, 0, 0, 255},
		CanvasBackground: color.RGBA{128, 128, 128, 255},
		LabelBackground:  color.RGBA{0, 0, 0, 160},
		LabelText:        color.RGBA{255, 255, 255, 255},
	}
}

// Dark returns the built-in dark theme.
func Dark() *Theme {
	t := Default()
	t.Name = "dark"
	t.Background = color.RGBA{30, 30, 30, 255}
	t.Foreground = color.RGBA{230, 230, 230, 255}
	t.PanelBackground = color.RGBA{40, 40, 40, 255}
	t.PanelText = color.RGBA{220, 220, 220, 255}
	t.PanelHeader = color.RGBA{55, 55, 55, 255}
	t.RowSelected = color.RGBA{70, 110, 170, 255}
	t.Divider = color.RGBA{70, 70, 70, 255}
	t.StatusBackground = color.RGBA{50, 50, 50, 255}
	t.StatusText = color.RGBA{220, 220, 220, 255}
	t.ErrorText = color.RGBA{255, 110, 110, 255}
	t.CanvasBackground = color.RGBA{20, 20, 20, 255}
	return t
}

var builtins = map[string]func() *Theme{
	"default": Default,
	"light":   Default,
	"dark":    Dark,
}

// Builtin returns a built-in theme by name.
func Builtin(name string) (*Theme, bool) {
	fn, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// BuiltinNames lists the built-in theme names.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
