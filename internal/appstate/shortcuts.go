package appstate

import (
	"image"
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/boxlabel/internal/render"
	"github.com/example/boxlabel/internal/theme"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

func shortcutOf(e key.Event) KeyShortcut {
	if e.Rune > 0 {
		return KeyShortcut{Rune: unicode.ToLower(e.Rune)}
	}
	return KeyShortcut{Code: e.Code}
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, th *theme.Theme, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// Shortcut is a clickable entry of the shortcut bar.
type Shortcut struct {
	label  string
	action string
	rect   image.Rectangle
	run    func(action string)
}

var _ Button = (*Shortcut)(nil)

func (s *Shortcut) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	bg := th.StatusBackground
	switch state {
	case StateHover:
		bg = th.PanelHeader
	case StatePressed:
		bg = th.Divider
	}
	render.Fill(dst, s.rect, bg)
	render.Rect(dst, s.rect, th.Divider, 1)
	render.Text(dst, s.rect.Min.X+3, s.rect.Min.Y+2, s.label, th.StatusText, barFace())
}

func (s *Shortcut) Rect() image.Rectangle { return s.rect }

func (s *Shortcut) SetRect(r image.Rectangle) { s.rect = r }

func (s *Shortcut) Activate() {
	if s.run != nil {
		s.run(s.action)
	}
}

// shortcutBar lays out entries left to right starting at x.
func shortcutBar(bar image.Rectangle, x int, entries []Shortcut) []Shortcut {
	face := barFace()
	for i := range entries {
		w, _ := render.Measure(face, entries[i].label)
		entries[i].SetRect(image.Rect(x, bar.Min.Y+3, x+w+6, bar.Max.Y-3))
		x = entries[i].rect.Max.X + 6
	}
	return entries
}
