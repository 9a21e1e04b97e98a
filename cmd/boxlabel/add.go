package main

import (
	"fmt"
	"strings"

	"github.com/example/boxlabel/internal/annotation"
	"github.com/example/boxlabel/internal/session"
)

type addCmd struct {
	sub
	shape  string
	colour string
	label  string
}

func parseAddCmd(args []string, r *root) (*addCmd, error) {
	c := &addCmd{sub: newSub(r, "add")}
	c.dirFlag()
	c.fs.StringVar(&c.shape, "type", "point", "shape type: point or area")
	c.fs.StringVar(&c.colour, "color", "", "colour name or hex value (default: random)")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() < 1 {
		return nil, &UsageError{of: c}
	}
	c.label = strings.Join(c.fs.Args(), " ")
	return c, nil
}

func (c *addCmd) Run() error {
	t, err := annotation.ParseShapeType(c.shape)
	if err != nil {
		return err
	}
	col := annotation.RandomColor()
	if c.colour != "" {
		if col, err = annotation.ParseColor(c.colour); err != nil {
			return err
		}
	}
	s, err := session.Open(c.dir, session.WithLogger(c.log), session.WithSaveListener(c.notifier.Save))
	if err != nil {
		return fmt.Errorf("open %s: %w", c.dir, err)
	}
	for _, a := range s.Doc.Annotations {
		if a.Label == c.label {
			return fmt.Errorf("annotation %q already exists", c.label)
		}
	}
	a, err := s.AddAnnotation(c.label, t, col)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "added %q (%s, %s) to %s\n", a.Label, a.Type, a.Color.Hex(), s.StorePath())
	return nil
}
