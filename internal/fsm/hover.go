package fsm

import (
	"fmt"

	"github.com/example/boxlabel/internal/geom"
)

// Hover classifies the pointer against the border band of a box.
type Hover int

const (
	// HoverBorder means the pointer is neither strictly inside the inner
	// rectangle nor strictly outside the outer one. It is the initial state.
	HoverBorder Hover = iota
	HoverInside
	HoverOutside
)

func (h Hover) String() string {
	switch h {
	case HoverBorder:
		return "HOVER"
	case HoverInside:
		return "INSIDE"
	case HoverOutside:
		return "OUTSIDE"
	}
	return fmt.Sprintf("Hover(%d)", int(h))
}

// HoverEvent names a hover transition.
type HoverEvent int

const (
	// Leave: HOVER -> OUTSIDE.
	Leave HoverEvent = iota
	// Enter: OUTSIDE -> HOVER.
	Enter
	// Dive: HOVER -> INSIDE.
	Dive
	// Surface: INSIDE -> HOVER.
	Surface
)

func (e HoverEvent) String() string {
	switch e {
	case Leave:
		return "leave"
	case Enter:
		return "enter"
	case Dive:
		return "dive"
	case Surface:
		return "surface"
	}
	return fmt.Sprintf("HoverEvent(%d)", int(e))
}

// StepHover applies ev to h.
func StepHover(h Hover, ev HoverEvent) (Hover, error) {
	switch {
	case h == HoverBorder && ev == Leave:
		return HoverOutside, nil
	case h == HoverOutside && ev == Enter:
		return HoverBorder, nil
	case h == HoverBorder && ev == Dive:
		return HoverInside, nil
	case h == HoverInside && ev == Surface:
		return HoverBorder, nil
	}
	return h, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, h)
}

// SampleHover picks the hover event, if any, for pointer p given the outer
// and inner rectangles of a box. At most one event fires per sample, so a
// pointer jumping from inside to far outside takes two frames to settle.
func SampleHover(h Hover, outer, inner geom.Rect, p geom.Point) (HoverEvent, bool) {
	switch h {
	case HoverBorder:
		if !outer.Inside(p) {
			return Leave, true
		}
		if inner.Inside(p) {
			return Dive, true
		}
	case HoverOutside:
		if outer.Inside(p) {
			return Enter, true
		}
	case HoverInside:
		if !inner.Inside(p) {
			return Surface, true
		}
	}
	return 0, false
}

// UpdateHover samples p and applies the resulting event.
func UpdateHover(h Hover, outer, inner geom.Rect, p geom.Point) Hover {
	ev, ok := SampleHover(h, outer, inner, p)
	if !ok {
		return h
	}
	next, err := StepHover(h, ev)
	if err != nil {
		// SampleHover only proposes events defined for h.
		panic(err)
	}
	return next
}
