// Package appstate is the labelling window: a file list, the canvas with
// the current image and its boxes, the annotation and box tables and a
// shortcut bar, all driven by a session.Session.
package appstate

import (
	"image"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/boxlabel/internal/session"
	"github.com/example/boxlabel/internal/theme"
)

const (
	defaultWidth  = 1280
	defaultHeight = 800
)

// AppState holds application configuration for the UI.
type AppState struct {
	Session *session.Session
	Theme   *theme.Theme
	Width   int
	Height  int
	// Start is the image shown first, -1 for none.
	Start int

	log       zerolog.Logger
	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithTheme sets the colour palette.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithLogger sets the logger for UI events.
func WithLogger(l zerolog.Logger) Option { return func(a *AppState) { a.log = l } }

// WithSize sets the initial window size.
func WithSize(w, h int) Option {
	return func(a *AppState) {
		if w > 0 && h > 0 {
			a.Width, a.Height = w, h
		}
	}
}

// WithStartImage selects the image shown when the window opens.
func WithStartImage(i int) Option { return func(a *AppState) { a.Start = i } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState for s with the provided options.
func New(s *session.Session, opts ...Option) *AppState {
	a := &AppState{
		Session: s,
		Theme:   theme.Default(),
		Width:   defaultWidth,
		Height:  defaultHeight,
		log:     zerolog.Nop(),
	}
	if len(s.Images) == 0 {
		a.Start = -1
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the event loop on s until the window closes or the user quits.
// Every session call happens on this goroutine.
func (a *AppState) Main(s screen.Screen) {
	defer a.notifyClose()

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: a.Width, Height: a.Height, Title: "boxlabel"})
	if err != nil {
		a.log.Error().Err(err).Msg("new window")
		return
	}
	defer w.Release()

	c := newController(a.Session, a.Theme, a.log)
	c.resize(a.Width, a.Height)
	if a.Start >= 0 {
		c.selectImage(a.Start)
	}
	var cache scaledCache

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			c.resize(e.WidthPx, e.HeightPx)
			w.Send(paint.Event{})
		case paint.Event:
			a.publish(s, w, c, &cache)
		case mouse.Event:
			if c.handleMouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if c.handleKey(e) {
				w.Send(paint.Event{})
			}
		case error:
			a.log.Error().Err(e).Msg("window event")
		}
		if c.quit {
			return
		}
	}
}

func (a *AppState) publish(s screen.Screen, w screen.Window, c *controller, cache *scaledCache) {
	b, err := s.NewBuffer(image.Point{c.width, c.height})
	if err != nil {
		a.log.Error().Err(err).Msg("new buffer")
		return
	}
	defer b.Release()
	c.paint(b.RGBA(), cache)
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
