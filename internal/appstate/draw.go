package appstate

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"golang.org/x/image/font"

	"github.com/example/boxlabel/internal/annotation"
	"github.com/example/boxlabel/internal/fsm"
	"github.com/example/boxlabel/internal/geom"
	"github.com/example/boxlabel/internal/render"
)

var (
	checkerLight = color.RGBA{220, 220, 220, 255}
	checkerDark  = color.RGBA{192, 192, 192, 255}
)

func barFace() font.Face  { return render.Face(12) }
func listFace() font.Face { return render.Face(13) }

// scaledCache keeps the last image scaled to the canvas so that pointer
// moves do not rescale it.
type scaledCache struct {
	file string
	rect image.Rectangle
	img  *image.RGBA
}

func (sc *scaledCache) get(file string, src image.Image, r image.Rectangle) *image.RGBA {
	if sc.img != nil && sc.file == file && sc.rect == r {
		return sc.img
	}
	img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	render.Checkerboard(img, img.Bounds(), 8, checkerLight, checkerDark)
	render.Scaled(img, img.Bounds(), src)
	sc.file, sc.rect, sc.img = file, r, img
	return img
}

// paint draws the whole window into dst.
func (c *controller) paint(dst *image.RGBA, cache *scaledCache) {
	th := c.theme
	c.syncTables()
	render.Fill(dst, dst.Bounds(), th.Background)
	c.paintCanvas(dst, cache)
	c.paintFiles(dst)
	c.paintAnnotations(dst)
	c.paintInstances(dst)
	c.paintBar(dst)
}

func (c *controller) paintCanvas(dst *image.RGBA, cache *scaledCache) {
	canvas, ok := dst.SubImage(c.lay.Canvas).(*image.RGBA)
	if !ok {
		return
	}
	render.Fill(canvas, canvas.Bounds(), c.theme.CanvasBackground)
	_, file, img := c.sess.Current()
	if img == nil {
		msg := "no image selected"
		if len(c.sess.Images) == 0 {
			msg = "no images in " + c.sess.Dir
		}
		w, h := render.Measure(listFace(), msg)
		ctr := canvas.Bounds().Min.Add(canvas.Bounds().Size().Div(2))
		render.Text(canvas, ctr.X-w/2, ctr.Y-h/2, msg, c.theme.Foreground, listFace())
		return
	}
	r := render.Rectangle(c.sess.View.ToScreen(geom.Rect{Size: geom.Pt(float64(img.Bounds().Dx()), float64(img.Bounds().Dy()))}))
	scaled := cache.get(file, img, r)
	copyInto(canvas, r, scaled)

	face := render.Face(render.LabelSize)
	for _, p := range c.sess.Doc.InstancesOn(file) {
		st := render.StyleFor(p.Instance)
		st.CaptionText, st.CaptionBackground = c.theme.LabelText, c.theme.LabelBackground
		if _, sel := c.sess.Doc.SelectedInstance(); sel == p.Instance {
			st.Thick++
		}
		render.Box(canvas, p.Instance.Screen, p.Annotation, st, face)
	}
}

func copyInto(dst *image.RGBA, r image.Rectangle, src *image.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		if y < dst.Rect.Min.Y || y >= dst.Rect.Max.Y {
			continue
		}
		x0, x1 := max(r.Min.X, dst.Rect.Min.X), min(r.Max.X, dst.Rect.Max.X)
		if x0 >= x1 {
			continue
		}
		so := src.PixOffset(x0-r.Min.X, y-r.Min.Y)
		do := dst.PixOffset(x0, y)
		copy(dst.Pix[do:do+(x1-x0)*4], src.Pix[so:so+(x1-x0)*4])
	}
}

func (c *controller) paintHeader(dst *image.RGBA, r image.Rectangle, title string) {
	th := c.theme
	render.Fill(dst, r, th.PanelBackground)
	hdr := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+headerHeight)
	render.Fill(dst, hdr, th.PanelHeader)
	render.Text(dst, hdr.Min.X+4, hdr.Min.Y+2, title, th.PanelText, listFace())
	render.Rect(dst, r, th.Divider, 1)
}

// paintRow draws one table row; swatch, when not nil, is a colour square
// before the text.
func (c *controller) paintRow(dst *image.RGBA, t table, i int, text string, selected bool, swatch *color.RGBA) {
	th := c.theme
	r := t.rowRect(i).Inset(1)
	fg := th.PanelText
	if selected {
		render.Fill(dst, r, th.RowSelected)
		fg = th.RowSelectedText
	}
	x := r.Min.X + 4
	if swatch != nil {
		sw := image.Rect(x, r.Min.Y+3, x+rowHeight-6, r.Max.Y-3)
		render.Fill(dst, sw, *swatch)
		render.Rect(dst, sw, th.Divider, 1)
		x = sw.Max.X + 4
	}
	text = render.Truncate(listFace(), text, r.Max.X-x-4)
	render.Text(dst, x, r.Min.Y+1, text, fg, listFace())
}

func (c *controller) paintFiles(dst *image.RGBA) {
	cur, _, _ := c.sess.Current()
	images := c.sess.Images
	c.paintHeader(dst, c.files.Rect, fmt.Sprintf("Images (%d)", len(images)))
	for i := c.files.First; i < len(images) && i-c.files.First < c.files.visible(); i++ {
		name := images[i]
		if n := len(c.sess.Doc.InstancesOn(name)); n > 0 {
			name = fmt.Sprintf("%s (%d)", name, n)
		}
		c.paintRow(dst, c.files, i, name, i == cur, nil)
	}
}

func (c *controller) paintAnnotations(dst *image.RGBA) {
	doc := c.sess.Doc
	_, file, _ := c.sess.Current()
	c.paintHeader(dst, c.annotations.Rect, "Annotations")
	for i := c.annotations.First; i < len(doc.Annotations) && i-c.annotations.First < c.annotations.visible(); i++ {
		a := doc.Annotations[i]
		text := fmt.Sprintf("%d %s  %s  %d", i+1, a.Label, a.Type, a.CountOn(file))
		if c.renaming && doc.IsSelected(a) {
			text = fmt.Sprintf("%d %s|", i+1, c.renameText)
		}
		col := a.Color.RGBA()
		c.paintRow(dst, c.annotations, i, text, doc.IsSelected(a), &col)
	}
}

func statusText(in *annotation.Instance) string {
	if in.Status == fsm.StatusIdle {
		return ""
	}
	return " " + in.Status.String()
}

func (c *controller) paintInstances(dst *image.RGBA) {
	_, file, _ := c.sess.Current()
	placed := c.currentInstances()
	_, sel := c.sess.Doc.SelectedInstance()
	c.paintHeader(dst, c.instances.Rect, "Boxes on "+filepath.Base(file))
	for i := c.instances.First; i < len(placed) && i-c.instances.First < c.instances.visible(); i++ {
		p := placed[i]
		r := p.Instance.OnImage
		text := fmt.Sprintf("%s %.0f,%.0f %.0fx%.0f%s", p.Annotation.Label, r.Min.X, r.Min.Y, r.Size.X, r.Size.Y, statusText(p.Instance))
		col := p.Annotation.Color.RGBA()
		c.paintRow(dst, c.instances, i, text, p.Instance == sel, &col)
	}
}

func (c *controller) barEntries() []Shortcut {
	entries := make([]Shortcut, 0, len(c.order))
	for _, name := range c.order {
		entries = append(entries, Shortcut{label: c.labels[name], action: name, run: c.trigger})
	}
	return shortcutBar(c.lay.Bar, c.lay.Bar.Min.X+4, entries)
}

func (c *controller) paintBar(dst *image.RGBA) {
	th := c.theme
	bar := c.lay.Bar
	render.Fill(dst, bar, th.StatusBackground)
	x := bar.Min.X + 4
	for i := range c.shortcuts {
		state := StateDefault
		if i == c.hoverBar {
			state = StateHover
		}
		c.shortcuts[i].Draw(dst, th, state)
		x = c.shortcuts[i].rect.Max.X + 6
	}
	msg, isErr := c.status()
	col := th.StatusText
	if isErr {
		col = th.ErrorText
	}
	if msg != "" {
		render.Text(dst, x+8, bar.Min.Y+5, render.Truncate(barFace(), msg, bar.Max.X-x-12), col, barFace())
	}
}

// status is the text shown after the shortcuts.
func (c *controller) status() (string, bool) {
	if c.renaming {
		return "rename: Enter to keep, Esc to abort", false
	}
	if c.message == "" || c.now().After(c.messageUntil) {
		return "", false
	}
	return c.message, c.messageErr
}
