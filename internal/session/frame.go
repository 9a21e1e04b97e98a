package session

import (
	"github.com/example/boxlabel/internal/fsm"
	"github.com/example/boxlabel/internal/geom"
)

// Input is what the UI observed during one frame. Pointer is in widget
// coordinates; Nudge is in image pixels.
type Input struct {
	Pointer   geom.Point
	OverImage bool
	Click     bool
	Escape    bool
	Enter     bool
	Nudge     geom.Point
}

// Frame advances every instance of the current image by one frame and then
// runs the creation protocol. The returned error is a save failure; the
// in-memory state has already advanced.
func (s *Session) Frame(in Input) error {
	if s.image == nil {
		return ErrNoImage
	}
	file := s.Images[s.current]
	dirty := false
	pending := false
	if _, ok := s.Doc.PendingCreation(); ok {
		pending = true
	}
	clickUsed := false
	for _, p := range s.Doc.InstancesOn(file) {
		a, inst := p.Annotation, p.Instance
		inst.Layout(s.View, s.Delta)
		inst.Hover = fsm.UpdateHover(inst.Hover, inst.Outer, inst.Inner, in.Pointer)

		switch inst.Status {
		case fsm.StatusIdle:
			if in.Click && !clickUsed && !pending && inst.Hover == fsm.HoverBorder {
				if s.fire(a, inst, fsm.Edit) {
					clickUsed = true
					_ = s.Doc.SelectInstance(inst.ID)
				}
			}
		case fsm.StatusEdit:
			switch {
			case in.Escape || (in.Click && inst.Hover == fsm.HoverOutside):
				s.fire(a, inst, fsm.Cancel)
			case in.Enter:
				if s.fire(a, inst, fsm.Commit) {
					dirty = true
				}
			case !in.Nudge.Eq(geom.Point{}):
				inst.Nudge(in.Nudge)
				inst.Layout(s.View, s.Delta)
			}
		case fsm.StatusCancel:
			s.fire(a, inst, fsm.Settle)
		case fsm.StatusCreate:
			if in.OverImage {
				inst.Track(s.View.ToImage(in.Pointer))
				inst.Layout(s.View, s.Delta)
			}
		}
	}

	if p, ok := s.Doc.PendingCreation(); ok {
		switch {
		case in.Escape:
			// rollback: the box never existed, so no transition is reported
			_ = s.Doc.RemoveInstance(p.Instance.ID)
			s.log.Debug().Str("label", p.Annotation.Label).Msg("box creation abandoned")
		case in.Click && in.OverImage:
			p.Instance.Track(s.View.ToImage(in.Pointer))
			if s.fire(p.Annotation, p.Instance, fsm.Confirm) {
				p.Instance.Layout(s.View, s.Delta)
				_ = s.Doc.SelectInstance(p.Instance.ID)
				dirty = true
			}
		}
	} else if in.Click && in.OverImage && !s.Doc.Busy() {
		if a := s.Doc.Selected(); a != nil {
			inst := a.Spawn(file, s.View.ToImage(in.Pointer))
			inst.Layout(s.View, s.Delta)
			s.log.Debug().Str("label", a.Label).Str("file", file).Msg("box creation started")
		}
	}

	if dirty {
		return s.save()
	}
	return nil
}
