// Package annotation models label categories and the boxes drawn for them.
//
// An Annotation is a category (label, shape type, colour) and owns the
// Instances placed on images. A Document is the ordered set of annotations
// of one images folder together with the current selection.
package annotation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/boxlabel/internal/fsm"
	"github.com/example/boxlabel/internal/geom"
)

// ShapeType is the kind of annotation. Its integer value is the on-disk
// encoding.
type ShapeType int

const (
	Point ShapeType = 0
	Area  ShapeType = 1
)

func (t ShapeType) String() string {
	switch t {
	case Point:
		return "point"
	case Area:
		return "area"
	}
	return fmt.Sprintf("ShapeType(%d)", int(t))
}

// Valid reports whether t is a known shape type.
func (t ShapeType) Valid() bool { return t == Point || t == Area }

// Toggle switches between point and area.
func (t ShapeType) Toggle() ShapeType {
	if t == Point {
		return Area
	}
	return Point
}

// ParseShapeType accepts "point", "area" or their integer codes.
func ParseShapeType(s string) (ShapeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "point", "0":
		return Point, nil
	case "area", "1":
		return Area, nil
	}
	return 0, fmt.Errorf("unknown shape type %q", s)
}

// DefaultLabel is given to annotations created from the UI.
const DefaultLabel = "new label"

// Annotation is a label category. Labels are user editable and need not be
// unique, so the runtime ID identifies an annotation.
type Annotation struct {
	ID        uuid.UUID
	Label     string
	Type      ShapeType
	Color     Color
	Instances []*Instance
}

// New returns an annotation with a fresh ID.
func New(label string, t ShapeType, c Color) *Annotation {
	return &Annotation{ID: uuid.New(), Label: label, Type: t, Color: c}
}

// Spawn starts a new instance in CREATE status on file with both corners at p.
func (a *Annotation) Spawn(file string, p geom.Point) *Instance {
	in := &Instance{
		ID:      uuid.New(),
		File:    file,
		Anchor:  p,
		OnImage: geom.FromCorners(p, p),
		Status:  fsm.StatusCreate,
		Hover:   fsm.HoverBorder,
	}
	a.Instances = append(a.Instances, in)
	return in
}

// Restore adds an already placed instance, as read from disk.
func (a *Annotation) Restore(file string, r geom.Rect) (*Instance, error) {
	in := a.Spawn(file, r.Min)
	in.OnImage = r
	if _, err := in.Fire(fsm.Confirm); err != nil {
		a.Instances = a.Instances[:len(a.Instances)-1]
		return nil, err
	}
	return in, nil
}

// Instance returns the instance with the given ID.
func (a *Annotation) Instance(id uuid.UUID) *Instance {
	for _, in := range a.Instances {
		if in.ID == id {
			return in
		}
	}
	return nil
}

// RemoveInstance drops the instance with the given ID and reports whether it
// was present.
func (a *Annotation) RemoveInstance(id uuid.UUID) bool {
	for i, in := range a.Instances {
		if in.ID == id {
			a.Instances = append(a.Instances[:i], a.Instances[i+1:]...)
			return true
		}
	}
	return false
}

// CountOn returns the number of instances on file.
func (a *Annotation) CountOn(file string) int {
	n := 0
	for _, in := range a.Instances {
		if in.File == file {
			n++
		}
	}
	return n
}
