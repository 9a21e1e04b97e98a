package fsm

import (
	"errors"
	"testing"

	"github.com/example/boxlabel/internal/geom"
)

func TestStepStatusDefined(t *testing.T) {
	tests := []struct {
		from Status
		ev   StatusEvent
		want Status
	}{
		{StatusCreate, Confirm, StatusIdle},
		{StatusIdle, Edit, StatusEdit},
		{StatusEdit, Cancel, StatusCancel},
		{StatusCancel, Settle, StatusIdle},
		{StatusEdit, Commit, StatusIdle},
	}
	for _, tt := range tests {
		got, err := StepStatus(tt.from, tt.ev)
		if err != nil {
			t.Fatalf("%s on %s: unexpected error %v", tt.ev, tt.from, err)
		}
		if got != tt.want {
			t.Fatalf("%s on %s = %s, want %s", tt.ev, tt.from, got, tt.want)
		}
	}
}

func TestStepStatusRejectsUndefined(t *testing.T) {
	defined := map[[2]int]bool{
		{int(StatusCreate), int(Confirm)}: true,
		{int(StatusIdle), int(Edit)}:      true,
		{int(StatusEdit), int(Cancel)}:    true,
		{int(StatusCancel), int(Settle)}:  true,
		{int(StatusEdit), int(Commit)}:    true,
	}
	for s := StatusCreate; s <= StatusCancel; s++ {
		for ev := Confirm; ev <= Commit; ev++ {
			if defined[[2]int{int(s), int(ev)}] {
				continue
			}
			got, err := StepStatus(s, ev)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("%s on %s: expected ErrInvalidTransition, got %v", ev, s, err)
			}
			if got != s {
				t.Fatalf("%s on %s changed state to %s", ev, s, got)
			}
		}
	}
}

func TestStepHover(t *testing.T) {
	tests := []struct {
		from Hover
		ev   HoverEvent
		want Hover
		ok   bool
	}{
		{HoverBorder, Leave, HoverOutside, true},
		{HoverBorder, Dive, HoverInside, true},
		{HoverOutside, Enter, HoverBorder, true},
		{HoverInside, Surface, HoverBorder, true},
		{HoverInside, Leave, HoverInside, false},
		{HoverOutside, Dive, HoverOutside, false},
		{HoverBorder, Enter, HoverBorder, false},
	}
	for _, tt := range tests {
		got, err := StepHover(tt.from, tt.ev)
		if (err == nil) != tt.ok {
			t.Fatalf("%s on %s: err=%v, want ok=%v", tt.ev, tt.from, err, tt.ok)
		}
		if got != tt.want {
			t.Fatalf("%s on %s = %s, want %s", tt.ev, tt.from, got, tt.want)
		}
	}
}

func TestUpdateHoverWalk(t *testing.T) {
	box := geom.FromCorners(geom.Pt(100, 100), geom.Pt(200, 200))
	outer := box.WithSpan(box.Span().AddScalar(10))
	inner := box.WithSpan(box.Span().AddScalar(-10))

	h := HoverBorder
	steps := []struct {
		p    geom.Point
		want Hover
	}{
		{geom.Pt(10, 10), HoverOutside},
		{geom.Pt(101, 150), HoverBorder},
		{geom.Pt(150, 150), HoverInside},
		{geom.Pt(150, 150), HoverInside},
		{geom.Pt(103, 150), HoverBorder},
		// jumping from inside to far outside settles over two frames
		{geom.Pt(150, 150), HoverInside},
		{geom.Pt(500, 500), HoverBorder},
		{geom.Pt(500, 500), HoverOutside},
	}
	for i, s := range steps {
		h = UpdateHover(h, outer, inner, s.p)
		if h != s.want {
			t.Fatalf("step %d at %v: got %s, want %s", i, s.p, h, s.want)
		}
	}
}
