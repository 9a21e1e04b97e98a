package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/example/boxlabel/internal/imagefs"
	"github.com/example/boxlabel/internal/render"
	"github.com/example/boxlabel/internal/store"
)

type renderCmd struct {
	sub
	out    string
	thumb  int
	all    bool
	shadow bool
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	c := &renderCmd{sub: newSub(r, "render")}
	c.dirFlag()
	c.fs.StringVar(&c.out, "out", "", "output folder (default: <dir>/annotated)")
	c.fs.IntVar(&c.thumb, "thumb", 0, "shrink previews to fit this many pixels on the longest side")
	c.fs.BoolVar(&c.all, "all", false, "also write images without boxes")
	c.fs.BoolVar(&c.shadow, "shadow", false, "add a drop shadow behind each preview")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 0 || c.thumb < 0 {
		return nil, &UsageError{of: c}
	}
	if c.out == "" {
		c.out = filepath.Join(c.dir, "annotated")
	}
	return c, nil
}

func previewName(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + ".png"
}

func (c *renderCmd) Run() error {
	doc, err := store.New(c.dir, store.WithLogger(c.log)).Load()
	if err != nil {
		return err
	}
	images, err := imagefs.Scan(c.dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.out, 0o755); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	written := 0
	for _, name := range images {
		if !c.all && len(doc.InstancesOn(name)) == 0 {
			continue
		}
		img, err := imagefs.Load(filepath.Join(c.dir, name))
		if err != nil {
			c.log.Warn().Err(err).Str("file", name).Msg("skipped")
			continue
		}
		preview := render.Annotated(img, doc, name)
		if c.shadow {
			preview, _ = render.WithShadow(preview, render.PreviewShadow)
		}
		dest := filepath.Join(c.out, previewName(name))
		if c.thumb > 0 {
			err = imaging.Save(imagefs.Thumbnail(preview, c.thumb, c.thumb), dest)
		} else {
			err = imaging.Save(preview, dest)
		}
		if err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		c.log.Debug().Str("file", dest).Msg("preview written")
		written++
	}
	fmt.Fprintf(c.stdout, "%d previews written to %s\n", written, c.out)
	if written > 0 {
		c.notifier.Export(c.out)
	}
	return nil
}
