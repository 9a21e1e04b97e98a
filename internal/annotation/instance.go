package annotation

import (
	"math"

	"github.com/google/uuid"

	"github.com/example/boxlabel/internal/fsm"
	"github.com/example/boxlabel/internal/geom"
)

// DefaultDelta is the width, in screen pixels, of the hover band around a
// box edge.
const DefaultDelta = 10

// Instance is one box drawn on one image.
type Instance struct {
	ID      uuid.UUID
	File    string
	OnImage geom.Rect
	// Anchor is the first corner while the instance is being created.
	Anchor geom.Point
	Status fsm.Status
	Hover  fsm.Hover

	// Screen, Outer and Inner are recomputed by Layout every frame.
	Screen geom.Rect
	Outer  geom.Rect
	Inner  geom.Rect

	saved geom.Rect
}

// Layout recomputes the screen rectangles for view v. Outer is the screen
// rectangle grown by delta in span, Inner shrunk by delta with a floor of
// one pixel. Both share the screen rectangle's center.
func (in *Instance) Layout(v geom.View, delta float64) {
	in.Screen = v.ToScreen(in.OnImage)
	span := in.Screen.Span()
	in.Outer = in.Screen.WithSpan(span.AddScalar(delta))
	in.Inner = in.Screen.WithSpan(geom.Pt(math.Max(1, span.X-delta), math.Max(1, span.Y-delta)))
}

// Fire applies a status event and returns the previous status.
func (in *Instance) Fire(ev fsm.StatusEvent) (fsm.Status, error) {
	from := in.Status
	to, err := fsm.StepStatus(from, ev)
	if err != nil {
		return from, err
	}
	switch ev {
	case fsm.Edit:
		in.saved = in.OnImage
	case fsm.Cancel:
		in.OnImage = in.saved
	}
	in.Status = to
	return from, nil
}

// Track sets the moving corner while the instance is being created.
func (in *Instance) Track(p geom.Point) {
	in.OnImage = geom.FromCorners(in.Anchor, p)
}

// Nudge moves the rectangle by d image pixels.
func (in *Instance) Nudge(d geom.Point) {
	in.OnImage = in.OnImage.Translate(d)
}

// Persisted returns the rectangle that belongs on disk. An edit in
// progress keeps the rectangle it started from until it is committed.
func (in *Instance) Persisted() geom.Rect {
	if in.Status == fsm.StatusEdit {
		return in.saved
	}
	return in.OnImage
}

// Emphasized reports whether the box is drawn with the thicker outline.
func (in *Instance) Emphasized() bool {
	return in.Status == fsm.StatusEdit || (in.Status == fsm.StatusIdle && in.Hover == fsm.HoverBorder)
}
