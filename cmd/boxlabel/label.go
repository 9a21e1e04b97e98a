package main

import (
	"fmt"

	"github.com/example/boxlabel/internal/appstate"
	"github.com/example/boxlabel/internal/session"
	"github.com/example/boxlabel/internal/theme"
)

type labelCmd struct {
	sub
	delta         float64
	start         string
	width, height int
}

func parseLabelCmd(args []string, r *root) (*labelCmd, error) {
	c := &labelCmd{sub: newSub(r, "label")}
	c.dirFlag()
	c.fs.Float64Var(&c.delta, "delta", 0, "hover band width in pixels (default: delta from the config)")
	c.fs.StringVar(&c.start, "image", "", "file name of the image to open first")
	c.fs.IntVar(&c.width, "width", 1280, "initial window width")
	c.fs.IntVar(&c.height, "height", 800, "initial window height")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() == 1 {
		c.dir = c.fs.Arg(0)
	} else if c.fs.NArg() > 1 {
		return nil, &UsageError{of: c}
	}
	if c.delta == 0 {
		c.delta = r.config.Delta
	}
	return c, nil
}

func (c *labelCmd) openSession() (*session.Session, error) {
	return session.Open(c.dir,
		session.WithLogger(c.log),
		session.WithDelta(c.delta),
		session.WithSaveListener(c.notifier.Save),
	)
}

func (c *labelCmd) startIndex(s *session.Session) (int, error) {
	if len(s.Images) == 0 {
		return -1, nil
	}
	if c.start == "" {
		return 0, nil
	}
	for i, name := range s.Images {
		if name == c.start {
			return i, nil
		}
	}
	return -1, fmt.Errorf("image %q: %w", c.start, session.ErrNotFound)
}

func (c *labelCmd) Run() error {
	s, err := c.openSession()
	if err != nil {
		return fmt.Errorf("open %s: %w", c.dir, err)
	}
	start, err := c.startIndex(s)
	if err != nil {
		return err
	}
	th, err := c.config.ResolveTheme(theme.NewLoader())
	if err != nil {
		c.log.Warn().Err(err).Str("theme", c.config.Theme).Msg("theme not loaded, using default")
		th = theme.Default()
	}
	app := appstate.New(s,
		appstate.WithTheme(th),
		appstate.WithLogger(c.log),
		appstate.WithSize(c.width, c.height),
		appstate.WithStartImage(start),
		appstate.WithOnClose(func() { c.log.Info().Str("dir", c.dir).Msg("window closed") }),
	)
	app.Run()
	return nil
}
