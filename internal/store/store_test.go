package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/example/boxlabel/internal/annotation"
	"github.com/example/boxlabel/internal/fsm"
	"github.com/example/boxlabel/internal/geom"
)

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Annotations) != 0 {
		t.Fatalf("expected empty document, got %d annotations", len(doc.Annotations))
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Fatalf("load created the file: %v", err)
	}
}

func TestSaveCarScenario(t *testing.T) {
	dir := t.TempDir()
	doc := annotation.NewDocument()
	car := doc.Add("car", annotation.Area, annotation.Color{1, 0, 0, 1})
	in := car.Spawn("a.png", geom.Pt(10, 10))
	in.Track(geom.Pt(50, 40))
	if _, err := in.Fire(fsm.Confirm); err != nil {
		t.Fatal(err)
	}

	if err := New(dir).Save(doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "{\n    \"car\"") || !strings.HasSuffix(string(data), "}\n") {
		t.Fatalf("unexpected layout:\n%s", data)
	}

	var got, want map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	const expected = `{"car": {"config": {"type":1,"color":[1,0,0,1]}, "instances":[{"file":"a.png","x_start":10,"y_start":10,"x_end":50,"y_end":40}]}}`
	if err := json.Unmarshal([]byte(expected), &want); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v\nwant %v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	doc := annotation.NewDocument()
	car := doc.Add("car", annotation.Area, annotation.Color{1, 0, 0, 1})
	dog := doc.Add("dog", annotation.Point, annotation.Color{0.25, 0.5, 0.75, 0.5})
	doc.Add("empty", annotation.Point, annotation.Color{0, 0, 0, 1})

	// corners given bottom-right first
	if _, err := car.Restore("a.png", geom.FromCorners(geom.Pt(50, 40), geom.Pt(10, 10))); err != nil {
		t.Fatal(err)
	}
	edited, err := dog.Restore("b.jpg", geom.FromCorners(geom.Pt(1.5, 2.5), geom.Pt(3, 4)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := edited.Fire(fsm.Edit); err != nil {
		t.Fatal(err)
	}

	s := New(dir)
	if err := s.Save(doc); err != nil {
		t.Fatal(err)
	}
	back, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Annotations) != 3 {
		t.Fatalf("got %d annotations", len(back.Annotations))
	}
	for i, want := range doc.Annotations {
		got := back.Annotations[i]
		if got.Label != want.Label || got.Type != want.Type || got.Color != want.Color {
			t.Fatalf("annotation %d: got %s/%s/%v want %s/%s/%v", i, got.Label, got.Type, got.Color, want.Label, want.Type, want.Color)
		}
		if len(got.Instances) != len(want.Instances) {
			t.Fatalf("%s: %d instances, want %d", got.Label, len(got.Instances), len(want.Instances))
		}
		for j, in := range got.Instances {
			if in.File != want.Instances[j].File || in.OnImage != want.Instances[j].OnImage {
				t.Fatalf("%s[%d]: got %s %+v want %s %+v", got.Label, j, in.File, in.OnImage, want.Instances[j].File, want.Instances[j].OnImage)
			}
			if in.Status != fsm.StatusIdle {
				t.Fatalf("%s[%d]: restored status %s", got.Label, j, in.Status)
			}
		}
	}
}

func TestSaveSkipsPendingCreation(t *testing.T) {
	doc := annotation.NewDocument()
	a := doc.Add("car", annotation.Area, annotation.DefaultColor)
	a.Spawn("a.png", geom.Pt(1, 1))
	data, _, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(back.Annotations[0].Instances); n != 0 {
		t.Fatalf("pending instance was saved: %d instances", n)
	}
}

func TestDuplicateLabelsLastWins(t *testing.T) {
	doc := annotation.NewDocument()
	doc.Add("car", annotation.Point, annotation.Color{1, 0, 0, 1})
	doc.Add("car", annotation.Area, annotation.Color{0, 1, 0, 1})
	data, dups, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(dups) != 1 || dups[0] != "car" {
		t.Fatalf("dups = %v", dups)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Annotations) != 1 || back.Annotations[0].Type != annotation.Area {
		t.Fatalf("later annotation did not win: %+v", back.Annotations)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"car": `},
		{"wrong shape", `["car"]`},
		{"bad type", `{"car": {"config": {"type": 7, "color": [1,0,0,1]}, "instances": []}}`},
		{"short colour", `{"car": {"config": {"type": 0, "color": [1,0,0]}, "instances": []}}`},
		{"colour out of range", `{"car": {"config": {"type": 0, "color": [1,0,2.5,1]}, "instances": []}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data)); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestDecodeMissingConfig(t *testing.T) {
	doc, err := Decode([]byte(`{"tree": {"instances": [{"file": "x.png", "x_start": 0, "y_start": 0, "x_end": 2, "y_end": 2}]}}`))
	if err != nil {
		t.Fatal(err)
	}
	a := doc.Annotations[0]
	if a.Type != annotation.Point || a.Color != annotation.DefaultColor {
		t.Fatalf("defaults not applied: %s %v", a.Type, a.Color)
	}
}

func TestDecodeSortedLabels(t *testing.T) {
	doc, err := Decode([]byte(`{"zebra": {"instances": []}, "apple": {"instances": []}, "mango": {"instances": []}}`))
	if err != nil {
		t.Fatal(err)
	}
	var labels []string
	for _, a := range doc.Annotations {
		labels = append(labels, a.Label)
	}
	if strings.Join(labels, ",") != "apple,mango,zebra" {
		t.Fatalf("labels = %v", labels)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir).Load(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}
