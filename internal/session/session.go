// Package session drives one labelling session over an images folder: it
// owns the annotation document, the current image and its view, and turns
// per-frame input into state machine transitions.
//
// A Session is not safe for concurrent use. The GUI calls it only from its
// event loop goroutine.
package session

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/boxlabel/internal/annotation"
	"github.com/example/boxlabel/internal/fsm"
	"github.com/example/boxlabel/internal/geom"
	"github.com/example/boxlabel/internal/imagefs"
	"github.com/example/boxlabel/internal/store"
)

var (
	// ErrNoImage is returned by operations that need a displayed image.
	ErrNoImage = errors.New("no image selected")
	// ErrNotFound is returned for unknown annotations, instances or images.
	ErrNotFound = annotation.ErrNotFound
)

// Transition describes one status change of an instance.
type Transition struct {
	Annotation uuid.UUID
	Instance   uuid.UUID
	Event      fsm.StatusEvent
	From, To   fsm.Status
}

// Session is the headless core of the labelling UI.
type Session struct {
	Dir    string
	Images []string
	Doc    *annotation.Document
	View   geom.View
	Delta  float64

	store   *store.Store
	log     zerolog.Logger
	current int
	image   image.Image

	onTransition []func(Transition)
	onSave       []func(path string)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The store logs through it as well.
func WithLogger(l zerolog.Logger) Option { return func(s *Session) { s.log = l } }

// WithDelta sets the hover band width in screen pixels.
func WithDelta(d float64) Option {
	return func(s *Session) {
		if d > 0 {
			s.Delta = d
		}
	}
}

// WithTransitionListener registers fn for every status transition.
func WithTransitionListener(fn func(Transition)) Option {
	return func(s *Session) { s.onTransition = append(s.onTransition, fn) }
}

// WithSaveListener registers fn to run after each successful save.
func WithSaveListener(fn func(path string)) Option {
	return func(s *Session) { s.onSave = append(s.onSave, fn) }
}

// Open scans dir and loads its annotation file. A malformed file aborts
// opening. No image is selected yet.
func Open(dir string, opts ...Option) (*Session, error) {
	s := &Session{
		Dir:     dir,
		View:    geom.Identity,
		Delta:   annotation.DefaultDelta,
		log:     zerolog.Nop(),
		current: -1,
	}
	for _, o := range opts {
		o(s)
	}
	images, err := imagefs.Scan(dir)
	if err != nil {
		return nil, err
	}
	s.Images = images
	s.store = store.New(dir, store.WithLogger(s.log))
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	s.Doc = doc
	s.log.Info().Str("dir", dir).Int("images", len(images)).Int("annotations", len(doc.Annotations)).Msg("folder opened")
	return s, nil
}

// StorePath is the annotation file of the session.
func (s *Session) StorePath() string { return s.store.Path }

// Current returns the index, file name and decoded image on display.
func (s *Session) Current() (int, string, image.Image) {
	if s.current < 0 {
		return -1, "", nil
	}
	return s.current, s.Images[s.current], s.image
}

// SelectImage loads image i. On failure the previous image stays on display.
// Switching away drops any box still being created and cancels any edit.
func (s *Session) SelectImage(i int) error {
	if i < 0 || i >= len(s.Images) {
		return fmt.Errorf("image #%d: %w", i+1, ErrNotFound)
	}
	path := filepath.Join(s.Dir, s.Images[i])
	img, err := imagefs.Load(path)
	if err != nil {
		s.log.Error().Err(err).Str("file", s.Images[i]).Msg("image not loaded")
		return err
	}
	if n := s.Doc.DropPending(); n > 0 {
		s.log.Debug().Int("count", n).Msg("pending box dropped")
	}
	s.abandonEdits()
	s.current, s.image = i, img
	s.log.Info().Str("file", s.Images[i]).Msg("image selected")
	return nil
}

// Step moves the selection by d images, wrapping around.
func (s *Session) Step(d int) error {
	n := len(s.Images)
	if n == 0 {
		return ErrNoImage
	}
	i := s.current
	if i < 0 {
		i = 0
		if d > 0 {
			d--
		}
	}
	return s.SelectImage(((i+d)%n + n) % n)
}

// FitTo centres the current image inside area.
func (s *Session) FitTo(area geom.Rect) {
	if s.image == nil {
		return
	}
	s.View = imagefs.Fit(imagefs.Size(s.image), area)
}

// OverImage reports whether widget point p lies on the displayed image.
func (s *Session) OverImage(p geom.Point) bool {
	if s.image == nil {
		return false
	}
	r := s.View.ToScreen(geom.Rect{Size: imagefs.Size(s.image)})
	return r.Inside(p)
}

func (s *Session) abandonEdits() {
	for _, a := range s.Doc.Annotations {
		for _, in := range a.Instances {
			switch in.Status {
			case fsm.StatusEdit:
				s.fire(a, in, fsm.Cancel)
				s.fire(a, in, fsm.Settle)
			case fsm.StatusCancel:
				s.fire(a, in, fsm.Settle)
			}
		}
	}
}

func (s *Session) fire(a *annotation.Annotation, in *annotation.Instance, ev fsm.StatusEvent) bool {
	from, err := in.Fire(ev)
	if err != nil {
		s.log.Error().Err(err).Str("label", a.Label).Msg("state machine")
		return false
	}
	t := Transition{Annotation: a.ID, Instance: in.ID, Event: ev, From: from, To: in.Status}
	s.log.Debug().Str("label", a.Label).Stringer("event", ev).Stringer("from", from).Stringer("to", in.Status).Msg("transition")
	for _, fn := range s.onTransition {
		fn(t)
	}
	return true
}

func (s *Session) save() error {
	if err := s.store.Save(s.Doc); err != nil {
		s.log.Error().Err(err).Msg("annotations not saved")
		return err
	}
	for _, fn := range s.onSave {
		fn(s.store.Path)
	}
	return nil
}

// Save rewrites the annotation file.
func (s *Session) Save() error { return s.save() }
