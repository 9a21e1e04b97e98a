package main

import (
	"fmt"
	"math"
	"sort"
	"text/tabwriter"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/example/boxlabel/internal/annotation"
	"github.com/example/boxlabel/internal/store"
)

type listCmd struct {
	sub
	files bool
}

func parseListCmd(args []string, r *root) (*listCmd, error) {
	c := &listCmd{sub: newSub(r, "list")}
	c.dirFlag()
	c.fs.BoolVar(&c.files, "files", false, "also print the box count of every annotated file")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

// nearestColorName returns the SVG colour name closest to c in Lab space.
func nearestColorName(c annotation.Color) string {
	want, _ := colorful.MakeColor(c.RGBA())
	best, bestDist := "", math.Inf(1)
	for _, name := range colornames.Names {
		cf, _ := colorful.MakeColor(colornames.Map[name])
		if d := want.DistanceLab(cf); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func (c *listCmd) Run() error {
	doc, err := store.New(c.dir, store.WithLogger(c.log)).Load()
	if err != nil {
		return err
	}
	if len(doc.Annotations) == 0 {
		fmt.Fprintf(c.stdout, "no annotations in %s\n", c.dir)
		return nil
	}
	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tLABEL\tTYPE\tCOLOUR\tBOXES\tFILES")
	for i, a := range doc.Annotations {
		files := map[string]bool{}
		for _, in := range a.Instances {
			files[in.File] = true
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s (%s)\t%d\t%d\n",
			i+1, a.Label, a.Type, a.Color.Hex(), nearestColorName(a.Color), len(a.Instances), len(files))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !c.files {
		return nil
	}
	fmt.Fprintln(c.stdout)
	tw = tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tBOXES")
	files := doc.Files()
	sort.Strings(files)
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%d\n", f, len(doc.InstancesOn(f)))
	}
	return tw.Flush()
}
