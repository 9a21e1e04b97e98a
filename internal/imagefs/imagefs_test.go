package imagefs

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/example/boxlabel/internal/geom"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.png", "a.JPG", "c.jpeg", ".hidden.png", "notes.txt", "d.webp"} {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.JPG", "b.png", "c.jpeg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Scan = %v, want %v", got, want)
	}
}

func TestScanMissingDir(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.png")
	writePNG(t, p, 40, 30)
	img, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if s := Size(img); !s.Eq(geom.Pt(40, 30)) {
		t.Fatalf("size = %v", s)
	}
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(broken, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(broken); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := Load(filepath.Join(dir, "x.gif")); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		img, area geom.Point
		want      float64
	}{
		{geom.Pt(200, 100), geom.Pt(100, 100), 0.5},
		{geom.Pt(100, 200), geom.Pt(100, 100), 0.5},
		{geom.Pt(50, 50), geom.Pt(100, 200), 2},
		{geom.Pt(0, 50), geom.Pt(100, 200), 1},
	}
	for _, tt := range tests {
		if got := FitScale(tt.img, tt.area); got != tt.want {
			t.Errorf("FitScale(%v, %v) = %v, want %v", tt.img, tt.area, got, tt.want)
		}
	}

	v := Fit(geom.Pt(200, 100), geom.FromCorners(geom.Pt(10, 0), geom.Pt(110, 100)))
	if v.Scale != 0.5 || !v.Origin.Eq(geom.Pt(10, 25)) {
		t.Fatalf("Fit = %+v", v)
	}
}
