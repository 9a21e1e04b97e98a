package session

import (
	"github.com/google/uuid"

	"github.com/example/boxlabel/internal/annotation"
)

// AddAnnotation appends a category and saves.
func (s *Session) AddAnnotation(label string, t annotation.ShapeType, c annotation.Color) (*annotation.Annotation, error) {
	a := s.Doc.Add(label, t, c)
	s.log.Info().Str("label", label).Stringer("type", t).Msg("annotation added")
	return a, s.save()
}

// AddDefaultAnnotation appends a category with the default label, point
// type and a random colour, selects it and saves.
func (s *Session) AddDefaultAnnotation() (*annotation.Annotation, error) {
	a := s.Doc.AddDefault()
	_ = s.Doc.Select(a.ID)
	s.log.Info().Str("label", a.Label).Msg("annotation added")
	return a, s.save()
}

// RemoveAnnotation deletes a category with all its boxes and saves.
func (s *Session) RemoveAnnotation(id uuid.UUID) error {
	a, err := s.Doc.Find(id)
	if err != nil {
		return err
	}
	if err := s.Doc.Remove(id); err != nil {
		return err
	}
	s.log.Info().Str("label", a.Label).Int("instances", len(a.Instances)).Msg("annotation removed")
	return s.save()
}

// RenameAnnotation changes a label and saves.
func (s *Session) RenameAnnotation(id uuid.UUID, label string) error {
	if err := s.Doc.Rename(id, label); err != nil {
		return err
	}
	return s.save()
}

// SetAnnotationType changes a shape type and saves.
func (s *Session) SetAnnotationType(id uuid.UUID, t annotation.ShapeType) error {
	if err := s.Doc.SetType(id, t); err != nil {
		return err
	}
	return s.save()
}

// SetAnnotationColor changes a colour and saves.
func (s *Session) SetAnnotationColor(id uuid.UUID, c annotation.Color) error {
	if err := s.Doc.SetColor(id, c); err != nil {
		return err
	}
	return s.save()
}

// SelectAnnotation makes id the category new boxes are drawn for.
func (s *Session) SelectAnnotation(id uuid.UUID) error { return s.Doc.Select(id) }

// SelectAnnotationAt selects the i-th category.
func (s *Session) SelectAnnotationAt(i int) (*annotation.Annotation, error) {
	a, err := s.Doc.At(i)
	if err != nil {
		return nil, err
	}
	return a, s.Doc.Select(a.ID)
}

// SelectInstance highlights a box in the instance table.
func (s *Session) SelectInstance(id uuid.UUID) error { return s.Doc.SelectInstance(id) }

// RemoveInstance deletes one box and saves. Its category stays.
func (s *Session) RemoveInstance(id uuid.UUID) error {
	if err := s.Doc.RemoveInstance(id); err != nil {
		return err
	}
	return s.save()
}
