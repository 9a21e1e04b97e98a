// Package store reads and writes the annotations.json file that sits next to
// the images of a folder.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/example/boxlabel/internal/annotation"
	"github.com/example/boxlabel/internal/fsm"
	"github.com/example/boxlabel/internal/geom"
)

// FileName is the name of the annotation file inside an images folder.
const FileName = "annotations.json"

// ErrMalformed wraps every failure to interpret the file contents.
var ErrMalformed = errors.New("malformed annotations file")

type config struct {
	Type  int       `json:"type"`
	Color []float32 `json:"color"`
}

type instance struct {
	File   string  `json:"file"`
	XStart float64 `json:"x_start"`
	YStart float64 `json:"y_start"`
	XEnd   float64 `json:"x_end"`
	YEnd   float64 `json:"y_end"`
}

type entry struct {
	Config    *config    `json:"config,omitempty"`
	Instances []instance `json:"instances"`
}

// Store persists a Document to a single JSON file.
type Store struct {
	Path string
	log  zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for warnings and save events.
func WithLogger(l zerolog.Logger) Option { return func(s *Store) { s.log = l } }

// New returns a store for the annotation file of dir.
func New(dir string, opts ...Option) *Store {
	s := &Store{Path: filepath.Join(dir, FileName), log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads the file. A missing file yields an empty document and nothing
// is created on disk.
func (s *Store) Load() (*annotation.Document, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info().Str("path", s.Path).Msg("no annotations yet")
		return annotation.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	s.log.Info().Str("path", s.Path).Int("annotations", len(doc.Annotations)).Msg("annotations loaded")
	return doc, nil
}

// Decode parses file contents into a document. Labels are visited in
// sorted order and every instance comes back IDLE.
func Decode(data []byte) (*annotation.Document, error) {
	var raw map[string]entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	labels := make([]string, 0, len(raw))
	for k := range raw {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	doc := annotation.NewDocument()
	for _, label := range labels {
		e := raw[label]
		typ, col := annotation.Point, annotation.DefaultColor
		if e.Config != nil {
			typ = annotation.ShapeType(e.Config.Type)
			if !typ.Valid() {
				return nil, fmt.Errorf("%w: %q: unknown type %d", ErrMalformed, label, e.Config.Type)
			}
			if e.Config.Color != nil {
				if len(e.Config.Color) != 4 {
					return nil, fmt.Errorf("%w: %q: colour has %d components", ErrMalformed, label, len(e.Config.Color))
				}
				copy(col[:], e.Config.Color)
				if !col.Valid() {
					return nil, fmt.Errorf("%w: %q: colour component out of range", ErrMalformed, label)
				}
			}
		}
		a := doc.Add(label, typ, col)
		for _, in := range e.Instances {
			r := geom.FromCorners(geom.Pt(in.XStart, in.YStart), geom.Pt(in.XEnd, in.YEnd))
			if _, err := a.Restore(in.File, r); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

// Encode renders the document with four-space indentation. Instances still
// being created are left out and boxes being edited keep their committed
// position. When two annotations share a label the later one wins and dups
// lists the overwritten labels.
func Encode(doc *annotation.Document) (data []byte, dups []string, err error) {
	out := make(map[string]entry, len(doc.Annotations))
	for _, a := range doc.Annotations {
		if _, ok := out[a.Label]; ok {
			dups = append(dups, a.Label)
		}
		e := entry{
			Config:    &config{Type: int(a.Type), Color: a.Color[:]},
			Instances: []instance{},
		}
		for _, in := range a.Instances {
			if in.Status == fsm.StatusCreate {
				continue
			}
			r := in.Persisted()
			tl, br := r.Min, r.Max()
			e.Instances = append(e.Instances, instance{
				File:   in.File,
				XStart: tl.X,
				YStart: tl.Y,
				XEnd:   br.X,
				YEnd:   br.Y,
			})
		}
		out[a.Label] = e
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), dups, nil
}

// Save rewrites the whole file through a temporary file and a rename.
func (s *Store) Save(doc *annotation.Document) error {
	data, dups, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("encode annotations: %w", err)
	}
	for _, d := range dups {
		s.log.Warn().Str("label", d).Msg("duplicate label, earlier annotation not saved")
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".annotations-*.json")
	if err != nil {
		return fmt.Errorf("save annotations: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("save annotations: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save annotations: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save annotations: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("save annotations: %w", err)
	}
	s.log.Debug().Str("path", s.Path).Int("bytes", len(data)).Msg("annotations saved")
	return nil
}
