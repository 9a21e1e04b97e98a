package annotation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/boxlabel/internal/fsm"
)

// ErrNotFound is returned when an ID does not name an annotation or instance.
var ErrNotFound = errors.New("not found")

// Document is the ordered set of annotations for one images folder.
//
// Selection is held here rather than on the entities, so at most one
// annotation and one instance are selected at any time.
type Document struct {
	Annotations []*Annotation

	selected         uuid.UUID
	selectedInstance uuid.UUID
}

// NewDocument returns an empty document.
func NewDocument() *Document { return &Document{} }

// Add appends an annotation and returns it.
func (d *Document) Add(label string, t ShapeType, c Color) *Annotation {
	a := New(label, t, c)
	d.Annotations = append(d.Annotations, a)
	return a
}

// AddDefault appends an annotation the way the UI creates one: default
// label, point type, random colour.
func (d *Document) AddDefault() *Annotation {
	return d.Add(DefaultLabel, Point, RandomColor())
}

// Find returns the annotation with the given ID.
func (d *Document) Find(id uuid.UUID) (*Annotation, error) {
	for _, a := range d.Annotations {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("annotation %s: %w", id, ErrNotFound)
}

// At returns the annotation at index i.
func (d *Document) At(i int) (*Annotation, error) {
	if i < 0 || i >= len(d.Annotations) {
		return nil, fmt.Errorf("annotation #%d: %w", i+1, ErrNotFound)
	}
	return d.Annotations[i], nil
}

// Remove deletes an annotation together with its instances.
func (d *Document) Remove(id uuid.UUID) error {
	for i, a := range d.Annotations {
		if a.ID != id {
			continue
		}
		d.Annotations = append(d.Annotations[:i], d.Annotations[i+1:]...)
		if d.selected == id {
			d.selected = uuid.Nil
		}
		if a.Instance(d.selectedInstance) != nil {
			d.selectedInstance = uuid.Nil
		}
		return nil
	}
	return fmt.Errorf("annotation %s: %w", id, ErrNotFound)
}

// Rename sets the label of an annotation.
func (d *Document) Rename(id uuid.UUID, label string) error {
	a, err := d.Find(id)
	if err != nil {
		return err
	}
	a.Label = label
	return nil
}

// SetType sets the shape type of an annotation.
func (d *Document) SetType(id uuid.UUID, t ShapeType) error {
	if !t.Valid() {
		return fmt.Errorf("set type: unknown shape type %d", int(t))
	}
	a, err := d.Find(id)
	if err != nil {
		return err
	}
	a.Type = t
	return nil
}

// SetColor sets the colour of an annotation.
func (d *Document) SetColor(id uuid.UUID, c Color) error {
	if !c.Valid() {
		return fmt.Errorf("set colour: component out of range %v", c)
	}
	a, err := d.Find(id)
	if err != nil {
		return err
	}
	a.Color = c
	return nil
}

// Select makes id the selected annotation.
func (d *Document) Select(id uuid.UUID) error {
	if _, err := d.Find(id); err != nil {
		return err
	}
	d.selected = id
	return nil
}

// Deselect clears the annotation selection.
func (d *Document) Deselect() { d.selected = uuid.Nil }

// Selected returns the selected annotation or nil.
func (d *Document) Selected() *Annotation {
	if d.selected == uuid.Nil {
		return nil
	}
	a, _ := d.Find(d.selected)
	return a
}

// IsSelected reports whether a is the selected annotation.
func (d *Document) IsSelected(a *Annotation) bool {
	return a != nil && a.ID == d.selected && d.selected != uuid.Nil
}

// LocateInstance returns the instance with the given ID and its owner.
func (d *Document) LocateInstance(id uuid.UUID) (*Annotation, *Instance, error) {
	for _, a := range d.Annotations {
		if in := a.Instance(id); in != nil {
			return a, in, nil
		}
	}
	return nil, nil, fmt.Errorf("instance %s: %w", id, ErrNotFound)
}

// SelectInstance makes id the selected instance.
func (d *Document) SelectInstance(id uuid.UUID) error {
	if _, _, err := d.LocateInstance(id); err != nil {
		return err
	}
	d.selectedInstance = id
	return nil
}

// SelectedInstance returns the selected instance and its owner, or nils.
func (d *Document) SelectedInstance() (*Annotation, *Instance) {
	if d.selectedInstance == uuid.Nil {
		return nil, nil
	}
	a, in, err := d.LocateInstance(d.selectedInstance)
	if err != nil {
		return nil, nil
	}
	return a, in
}

// RemoveInstance deletes an instance. The owning annotation stays even when
// it has no instances left.
func (d *Document) RemoveInstance(id uuid.UUID) error {
	for _, a := range d.Annotations {
		if a.RemoveInstance(id) {
			if d.selectedInstance == id {
				d.selectedInstance = uuid.Nil
			}
			return nil
		}
	}
	return fmt.Errorf("instance %s: %w", id, ErrNotFound)
}

// Placed pairs an instance with the annotation that owns it.
type Placed struct {
	Annotation *Annotation
	Instance   *Instance
}

// InstancesOn lists the instances drawn on file in document order.
func (d *Document) InstancesOn(file string) []Placed {
	var out []Placed
	for _, a := range d.Annotations {
		for _, in := range a.Instances {
			if in.File == file {
				out = append(out, Placed{Annotation: a, Instance: in})
			}
		}
	}
	return out
}

// PendingCreation returns the first instance, across all annotations, that
// is still in CREATE status.
func (d *Document) PendingCreation() (Placed, bool) {
	for _, a := range d.Annotations {
		for _, in := range a.Instances {
			if in.Status == fsm.StatusCreate {
				return Placed{Annotation: a, Instance: in}, true
			}
		}
	}
	return Placed{}, false
}

// Busy reports whether any instance is not IDLE.
func (d *Document) Busy() bool {
	for _, a := range d.Annotations {
		for _, in := range a.Instances {
			if in.Status != fsm.StatusIdle {
				return true
			}
		}
	}
	return false
}

// DropPending removes every instance still in CREATE status and returns how
// many were removed.
func (d *Document) DropPending() int {
	n := 0
	for _, a := range d.Annotations {
		kept := a.Instances[:0]
		for _, in := range a.Instances {
			if in.Status == fsm.StatusCreate {
				if d.selectedInstance == in.ID {
					d.selectedInstance = uuid.Nil
				}
				n++
				continue
			}
			kept = append(kept, in)
		}
		a.Instances = kept
	}
	return n
}

// Files lists the distinct files that carry instances, in first-seen order.
func (d *Document) Files() []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range d.Annotations {
		for _, in := range a.Instances {
			if !seen[in.File] {
				seen[in.File] = true
				out = append(out, in.File)
			}
		}
	}
	return out
}
