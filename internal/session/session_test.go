package session

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/boxlabel/internal/annotation"
	"github.com/example/boxlabel/internal/fsm"
	"github.com/example/boxlabel/internal/geom"
	"github.com/example/boxlabel/internal/store"
)

func makeFolder(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		f, err := os.Create(filepath.Join(dir, n))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 100, 100))); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}
	return dir
}

type recorder struct{ got []Transition }

func (r *recorder) add(t Transition) { r.got = append(r.got, t) }

func (r *recorder) events() []fsm.StatusEvent {
	var out []fsm.StatusEvent
	for _, t := range r.got {
		out = append(out, t.Event)
	}
	return out
}

func open(t *testing.T, dir string) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s, err := Open(dir, WithTransitionListener(rec.add))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s, rec
}

func frame(t *testing.T, s *Session, in Input) {
	t.Helper()
	in.OverImage = s.OverImage(in.Pointer)
	if err := s.Frame(in); err != nil {
		t.Fatalf("Frame: %v", err)
	}
}

func at(x, y float64) geom.Point { return geom.Pt(x, y) }

// drawBox creates and confirms one box for the selected annotation.
func drawBox(t *testing.T, s *Session, a, b geom.Point) {
	t.Helper()
	frame(t, s, Input{Pointer: a, Click: true})
	frame(t, s, Input{Pointer: b.Add(a).Div(2)})
	frame(t, s, Input{Pointer: b, Click: true})
}

func TestOpenEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	s, _ := open(t, dir)
	if len(s.Doc.Annotations) != 0 || len(s.Images) != 0 {
		t.Fatalf("unexpected content: %d annotations, %d images", len(s.Doc.Annotations), len(s.Images))
	}
	if _, err := os.Stat(filepath.Join(dir, store.FileName)); !os.IsNotExist(err) {
		t.Fatalf("open created the annotation file: %v", err)
	}
	if err := s.Frame(Input{}); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}

func TestOpenMalformedAborts(t *testing.T) {
	dir := makeFolder(t, "a.png")
	if err := os.WriteFile(filepath.Join(dir, store.FileName), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(dir); !errors.Is(err, store.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestCreateBox(t *testing.T) {
	dir := makeFolder(t, "a.png")
	s, rec := open(t, dir)
	car, err := s.AddAnnotation("car", annotation.Area, annotation.Color{1, 0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SelectAnnotation(car.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectImage(0); err != nil {
		t.Fatal(err)
	}

	frame(t, s, Input{Pointer: at(10, 10), Click: true})
	if len(car.Instances) != 1 || car.Instances[0].Status != fsm.StatusCreate {
		t.Fatalf("click did not start a box: %+v", car.Instances)
	}
	if !car.Instances[0].OnImage.Empty() {
		t.Fatalf("new box should start with both corners equal: %+v", car.Instances[0].OnImage)
	}
	frame(t, s, Input{Pointer: at(30, 30)})
	frame(t, s, Input{Pointer: at(50, 40), Click: true})

	in := car.Instances[0]
	if in.Status != fsm.StatusIdle {
		t.Fatalf("status = %s", in.Status)
	}
	if want := geom.FromCorners(at(10, 10), at(50, 40)); in.OnImage != want {
		t.Fatalf("rect = %+v, want %+v", in.OnImage, want)
	}
	if ev := rec.events(); len(ev) != 1 || ev[0] != fsm.Confirm {
		t.Fatalf("transitions = %v", ev)
	}

	back, err := store.New(dir).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Annotations) != 1 || len(back.Annotations[0].Instances) != 1 {
		t.Fatalf("saved document = %+v", back.Annotations)
	}
	if got := back.Annotations[0].Instances[0]; got.File != "a.png" || got.OnImage != in.OnImage {
		t.Fatalf("saved instance = %s %+v", got.File, got.OnImage)
	}
}

func TestEscapeAbandonsCreation(t *testing.T) {
	dir := makeFolder(t, "a.png")
	s, rec := open(t, dir)
	car, _ := s.AddAnnotation("car", annotation.Area, annotation.DefaultColor)
	_ = s.SelectAnnotation(car.ID)
	_ = s.SelectImage(0)
	drawBox(t, s, at(60, 60), at(90, 90))
	rec.got = nil
	before, _ := os.ReadFile(s.StorePath())

	frame(t, s, Input{Pointer: at(10, 10), Click: true})
	if len(car.Instances) != 2 {
		t.Fatalf("expected a pending box, have %d instances", len(car.Instances))
	}
	frame(t, s, Input{Pointer: at(20, 20), Escape: true})

	if len(car.Instances) != 1 || car.Instances[0].Status != fsm.StatusIdle {
		t.Fatalf("escape left %+v", car.Instances)
	}
	if len(rec.got) != 0 {
		t.Fatalf("escape recorded transitions: %v", rec.events())
	}
	after, _ := os.ReadFile(s.StorePath())
	if string(before) != string(after) {
		t.Fatalf("file changed by abandoned creation")
	}
}

func TestSecondCreationRejected(t *testing.T) {
	dir := makeFolder(t, "a.png")
	s, _ := open(t, dir)
	car, _ := s.AddAnnotation("car", annotation.Area, annotation.DefaultColor)
	dog, _ := s.AddAnnotation("dog", annotation.Point, annotation.DefaultColor)
	_ = s.SelectAnnotation(car.ID)
	_ = s.SelectImage(0)

	frame(t, s, Input{Pointer: at(10, 10), Click: true})
	_ = s.SelectAnnotation(dog.ID)
	frame(t, s, Input{Pointer: at(40, 40), Click: true})

	if len(dog.Instances) != 0 {
		t.Fatalf("second creation was accepted")
	}
	if len(car.Instances) != 1 || car.Instances[0].Status != fsm.StatusIdle {
		t.Fatalf("pending box not completed by the click: %+v", car.Instances)
	}
	creating := 0
	for _, a := range s.Doc.Annotations {
		for _, in := range a.Instances {
			if in.Status == fsm.StatusCreate {
				creating++
			}
		}
	}
	if creating != 0 {
		t.Fatalf("%d boxes still in creation", creating)
	}
}

func TestClickOffImageIgnored(t *testing.T) {
	dir := makeFolder(t, "a.png")
	s, _ := open(t, dir)
	car, _ := s.AddAnnotation("car", annotation.Area, annotation.DefaultColor)
	_ = s.SelectAnnotation(car.ID)
	_ = s.SelectImage(0)
	frame(t, s, Input{Pointer: at(150, 150), Click: true})
	if len(car.Instances) != 0 {
		t.Fatalf("click outside the image started a box")
	}
}

func TestRemoveOnlyInstance(t *testing.T) {
	dir := makeFolder(t, "a.png")
	s, _ := open(t, dir)
	car, _ := s.AddAnnotation("car", annotation.Area, annotation.DefaultColor)
	_ = s.SelectAnnotation(car.ID)
	_ = s.SelectImage(0)
	drawBox(t, s, at(10, 10), at(50, 40))

	if err := s.RemoveInstance(car.Instances[0].ID); err != nil {
		t.Fatal(err)
	}
	if len(s.Doc.Annotations) != 1 || len(car.Instances) != 0 {
		t.Fatalf("unexpected document after removal")
	}
	data, err := os.ReadFile(s.StorePath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"instances": []`) {
		t.Fatalf("file not rewritten with empty instances:\n%s", data)
	}
}

func TestEditCommitAndCancel(t *testing.T) {
	dir := makeFolder(t, "a.png")
	s, rec := open(t, dir)
	car, _ := s.AddAnnotation("car", annotation.Area, annotation.DefaultColor)
	_ = s.SelectAnnotation(car.ID)
	_ = s.SelectImage(0)
	drawBox(t, s, at(10, 10), at(50, 40))
	in := car.Instances[0]
	rec.got = nil

	// pointer on the left edge band
	frame(t, s, Input{Pointer: at(10, 25)})
	if in.Hover != fsm.HoverBorder {
		t.Fatalf("hover = %s", in.Hover)
	}
	frame(t, s, Input{Pointer: at(10, 25), Click: true})
	if in.Status != fsm.StatusEdit {
		t.Fatalf("status = %s", in.Status)
	}
	if len(car.Instances) != 1 {
		t.Fatalf("edit click also started a box")
	}
	frame(t, s, Input{Pointer: at(10, 25), Nudge: at(5, 0)})
	frame(t, s, Input{Pointer: at(10, 25), Enter: true})
	moved := geom.FromCorners(at(15, 10), at(55, 40))
	if in.Status != fsm.StatusIdle || in.OnImage != moved {
		t.Fatalf("after commit: %s %+v", in.Status, in.OnImage)
	}
	back, err := store.New(dir).Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := back.Annotations[0].Instances[0].OnImage; got != moved {
		t.Fatalf("committed edit not saved: %+v", got)
	}

	frame(t, s, Input{Pointer: at(15, 25)})
	frame(t, s, Input{Pointer: at(15, 25), Click: true})
	frame(t, s, Input{Pointer: at(15, 25), Nudge: at(0, 5)})
	frame(t, s, Input{Pointer: at(15, 25), Escape: true})
	if in.Status != fsm.StatusCancel || in.OnImage != moved {
		t.Fatalf("after cancel: %s %+v", in.Status, in.OnImage)
	}
	frame(t, s, Input{Pointer: at(15, 25)})
	if in.Status != fsm.StatusIdle {
		t.Fatalf("cancel did not settle: %s", in.Status)
	}

	want := []fsm.StatusEvent{fsm.Edit, fsm.Commit, fsm.Edit, fsm.Cancel, fsm.Settle}
	got := rec.events()
	if len(got) != len(want) {
		t.Fatalf("transitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transitions = %v, want %v", got, want)
		}
	}
}

func TestEditInProgressNotPersisted(t *testing.T) {
	dir := makeFolder(t, "a.png")
	s, _ := open(t, dir)
	car, _ := s.AddAnnotation("car", annotation.Area, annotation.DefaultColor)
	_ = s.SelectAnnotation(car.ID)
	_ = s.SelectImage(0)
	drawBox(t, s, at(10, 10), at(50, 40))
	in := car.Instances[0]
	drawn := in.OnImage

	frame(t, s, Input{Pointer: at(10, 25)})
	frame(t, s, Input{Pointer: at(10, 25), Click: true})
	frame(t, s, Input{Pointer: at(10, 25), Nudge: at(20, 0)})
	if in.Status != fsm.StatusEdit || in.OnImage == drawn {
		t.Fatalf("box not moved in edit: %s %+v", in.Status, in.OnImage)
	}
	if err := s.SetAnnotationType(car.ID, annotation.Point); err != nil {
		t.Fatal(err)
	}
	frame(t, s, Input{Pointer: at(10, 25), Escape: true})
	frame(t, s, Input{Pointer: at(10, 25)})
	if in.Status != fsm.StatusIdle || in.OnImage != drawn {
		t.Fatalf("after cancel: %s %+v", in.Status, in.OnImage)
	}

	back, err := store.New(dir).Load()
	if err != nil {
		t.Fatal(err)
	}
	if back.Annotations[0].Type != annotation.Point {
		t.Fatalf("type change not saved")
	}
	if got := back.Annotations[0].Instances[0].OnImage; got != drawn {
		t.Fatalf("disk = %+v, memory = %+v", got, drawn)
	}
}

func TestOutsideClickCancelsEdit(t *testing.T) {
	dir := makeFolder(t, "a.png")
	s, _ := open(t, dir)
	car, _ := s.AddAnnotation("car", annotation.Area, annotation.DefaultColor)
	_ = s.SelectAnnotation(car.ID)
	_ = s.SelectImage(0)
	drawBox(t, s, at(10, 10), at(50, 40))
	in := car.Instances[0]

	frame(t, s, Input{Pointer: at(10, 25)})
	frame(t, s, Input{Pointer: at(10, 25), Click: true})
	frame(t, s, Input{Pointer: at(90, 90)})
	frame(t, s, Input{Pointer: at(90, 90), Click: true})
	if in.Status != fsm.StatusCancel {
		t.Fatalf("status = %s", in.Status)
	}
	if len(car.Instances) != 1 {
		t.Fatalf("cancelling click started a new box")
	}
}

func TestSelectImage(t *testing.T) {
	dir := makeFolder(t, "a.png", "b.png")
	if err := os.WriteFile(filepath.Join(dir, "c.png"), []byte("broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, _ := open(t, dir)
	car, _ := s.AddAnnotation("car", annotation.Area, annotation.DefaultColor)
	_ = s.SelectAnnotation(car.ID)
	if err := s.SelectImage(0); err != nil {
		t.Fatal(err)
	}
	frame(t, s, Input{Pointer: at(10, 10), Click: true})

	if err := s.SelectImage(2); err == nil {
		t.Fatal("broken image loaded")
	}
	if i, name, _ := s.Current(); i != 0 || name != "a.png" {
		t.Fatalf("current = %d %s after failed load", i, name)
	}
	if len(car.Instances) != 1 {
		t.Fatalf("failed load dropped the pending box")
	}

	if err := s.Step(1); err != nil {
		t.Fatal(err)
	}
	if _, name, _ := s.Current(); name != "b.png" {
		t.Fatalf("current = %s", name)
	}
	if len(car.Instances) != 0 {
		t.Fatalf("switching image kept the pending box")
	}
	if err := s.SelectImage(5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMutationsPersist(t *testing.T) {
	dir := makeFolder(t, "a.png")
	s, _ := open(t, dir)
	a, err := s.AddDefaultAnnotation()
	if err != nil {
		t.Fatal(err)
	}
	if s.Doc.Selected() != a {
		t.Fatalf("new annotation not selected")
	}
	if err := s.RenameAnnotation(a.ID, "tree"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAnnotationType(a.ID, annotation.Area); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAnnotationColor(a.ID, annotation.Color{0, 0, 1, 1}); err != nil {
		t.Fatal(err)
	}
	back, err := store.New(dir).Load()
	if err != nil {
		t.Fatal(err)
	}
	got := back.Annotations[0]
	if got.Label != "tree" || got.Type != annotation.Area || got.Color != (annotation.Color{0, 0, 1, 1}) {
		t.Fatalf("saved = %s %s %v", got.Label, got.Type, got.Color)
	}

	if err := s.RemoveAnnotation(a.ID); err != nil {
		t.Fatal(err)
	}
	back, _ = store.New(dir).Load()
	if len(back.Annotations) != 0 {
		t.Fatalf("removal not saved")
	}
	if err := s.RemoveAnnotation(a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
