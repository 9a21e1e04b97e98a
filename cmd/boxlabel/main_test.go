package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/boxlabel/internal/capture"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	r := newRoot(&stdout, &stderr, func(string) string { return "" })
	err := r.Run(args)
	return stdout.String(), err
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 30))); err != nil {
		t.Fatal(err)
	}
}

func TestNoCommandIsUsageError(t *testing.T) {
	_, err := run(t)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "Usage: boxlabel") {
		t.Fatalf("help not rendered:\n%s", uerr.Error())
	}
}

func TestSubcommandHelpRenders(t *testing.T) {
	for _, name := range []string{"label", "list", "add", "export", "render", "capture", "config"} {
		_, err := run(t, name, "-h")
		var uerr *UsageError
		if !errors.As(err, &uerr) {
			t.Fatalf("%s -h: expected usage error, got %v", name, err)
		}
		help := uerr.Error()
		if !strings.Contains(help, "Usage: boxlabel "+name) || !strings.Contains(help, "Flags:") {
			t.Fatalf("%s help:\n%s", name, help)
		}
	}
}

func TestAddThenList(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "add", "-dir", dir, "-type", "area", "-color", "orange", "car"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "add", "-dir", dir, "car"); err == nil {
		t.Fatal("duplicate label accepted")
	}
	out, err := run(t, "list", "-dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"car", "area", "#ffa500 (orange)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "add", "-dir", dir, "-type", "circle", "x"); err == nil {
		t.Fatal("bad type accepted")
	}
	if _, err := run(t, "add", "-dir", dir, "-color", "notacolour", "x"); err == nil {
		t.Fatal("bad colour accepted")
	}
	if _, err := os.Stat(filepath.Join(dir, "annotations.json")); !os.IsNotExist(err) {
		t.Fatal("file written after a rejected add")
	}
}

const carDoc = `{
    "car": {
        "config": {"type": 1, "color": [0, 0, 1, 1]},
        "instances": [
            {"file": "a.png", "x_start": 5, "y_start": 5, "x_end": 20, "y_end": 15}
        ]
    }
}`

func TestExport(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "annotations.json"), []byte(carDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "export", "-dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"car"`) || !strings.Contains(out, `"x_end": 20`) {
		t.Fatalf("export output:\n%s", out)
	}

	var copied string
	prev := writeClipboardText
	writeClipboardText = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboardText = prev })
	if _, err := run(t, "export", "-dir", dir, "-clipboard"); err != nil {
		t.Fatal(err)
	}
	if copied != strings.TrimSuffix(out, "\n") && copied != out {
		t.Fatalf("clipboard = %q", copied)
	}

	if _, err := run(t, "export", "-dir", dir, "-clipboard", "-o", "x.json"); err == nil {
		t.Fatal("-clipboard with -o accepted")
	}
}

func TestRenderWritesPreviews(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))
	writePNG(t, filepath.Join(dir, "b.png"))
	if err := os.WriteFile(filepath.Join(dir, "annotations.json"), []byte(carDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "render", "-dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1 previews") {
		t.Fatalf("output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "annotated", "a.png")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "annotated", "b.png")); !os.IsNotExist(err) {
		t.Fatal("preview written for an image without boxes")
	}
}

func TestCaptureSavesIntoFolder(t *testing.T) {
	dir := t.TempDir()
	prevShot, prevNow := captureScreenshotFn, now
	captureScreenshotFn = func(context.Context, capture.Options) (*image.RGBA, error) {
		return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
	}
	now = func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { captureScreenshotFn, now = prevShot, prevNow })

	out, err := run(t, "capture", "-dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "capture-20261016-120000.png")
	if strings.TrimSpace(out) != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatal(err)
	}
}

func TestCaptureError(t *testing.T) {
	prev := captureScreenshotFn
	sentinel := errors.New("boom")
	captureScreenshotFn = func(context.Context, capture.Options) (*image.RGBA, error) { return nil, sentinel }
	t.Cleanup(func() { captureScreenshotFn = prev })

	_, err := run(t, "capture", "-dir", t.TempDir())
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if want := "failed to capture screen"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected %q in %v", want, err)
	}
}

func TestCaptureClipboardRejectsMonitor(t *testing.T) {
	_, err := run(t, "capture", "-from-clipboard", "-monitor", "primary")
	if err == nil || !strings.Contains(err.Error(), "-from-clipboard cannot be combined") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestConfigPrintAndVersion(t *testing.T) {
	out, err := run(t, "-log-level", "debug", "config", "print")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "log_level") || !strings.Contains(out, "debug") {
		t.Fatalf("config print:\n%s", out)
	}
	out, err = run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "boxlabel version dev\n" {
		t.Fatalf("version = %q", out)
	}
}

func TestConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxlabel.rc")
	if _, err := run(t, "-theme", "dark", "config", "-o", path, "save"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "dark") {
		t.Fatalf("saved config:\n%s", data)
	}
}
