package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"time"

	"github.com/example/boxlabel/internal/capture"
	"github.com/example/boxlabel/internal/clipboard"
)

var (
	captureScreenshotFn = capture.Screenshot
	readClipboardImage  = clipboard.ReadImage
	now                 = time.Now
)

type captureCmd struct {
	sub
	source        string
	monitor       string
	interactive   bool
	includeCursor bool
	fromClipboard bool
	timeout       time.Duration
}

func parseCaptureCmd(args []string, r *root) (*captureCmd, error) {
	c := &captureCmd{sub: newSub(r, "capture")}
	c.dirFlag()
	c.fs.StringVar(&c.source, "source", "auto", "capture backend: auto, portal or x11")
	c.fs.StringVar(&c.monitor, "monitor", "", "crop to a monitor: primary, an index or part of its name")
	c.fs.BoolVar(&c.interactive, "interactive", false, "let the desktop portal ask for the region")
	c.fs.BoolVar(&c.includeCursor, "include-cursor", false, "embed the cursor in captures when supported")
	c.fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "save the image on the clipboard instead of capturing")
	c.fs.DurationVar(&c.timeout, "timeout", 2*time.Minute, "give up waiting for the portal after this long")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.fromClipboard && (c.monitor != "" || c.interactive) {
		return nil, fmt.Errorf("-from-clipboard cannot be combined with -monitor or -interactive")
	}
	return c, nil
}

func (c *captureCmd) grab() (image.Image, error) {
	if c.fromClipboard {
		img, err := readClipboardImage()
		if err != nil {
			return nil, fmt.Errorf("failed to read clipboard: %w", err)
		}
		return img, nil
	}
	src, err := capture.ParseSource(c.source)
	if err != nil {
		return nil, err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	img, err := captureScreenshotFn(ctx, capture.Options{
		Source:        src,
		Interactive:   c.interactive,
		IncludeCursor: c.includeCursor,
		Monitor:       c.monitor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}
	return img, nil
}

func (c *captureCmd) Run() error {
	img, err := c.grab()
	if err != nil {
		return err
	}
	path, err := capture.SaveInto(c.dir, img, now())
	if err != nil {
		return err
	}
	c.log.Info().Str("file", path).Msg("capture saved")
	fmt.Fprintln(c.stdout, path)
	c.notifier.Capture(path)
	return nil
}
