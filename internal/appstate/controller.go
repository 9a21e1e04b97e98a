package appstate

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/boxlabel/internal/annotation"
	"github.com/example/boxlabel/internal/geom"
	"github.com/example/boxlabel/internal/session"
	"github.com/example/boxlabel/internal/theme"
)

const messageTTL = 3 * time.Second

// controller turns window events into session calls. It holds everything
// the window shows apart from the session itself and is only used from
// the event loop goroutine.
type controller struct {
	sess  *session.Session
	theme *theme.Theme
	log   zerolog.Logger
	now   func() time.Time

	width, height int
	lay           layout
	pointer       image.Point

	files, annotations, instances table

	renaming   bool
	renameText string

	confirmDelete bool
	message       string
	messageErr    bool
	messageUntil  time.Time

	quit      bool
	shortcuts []Shortcut
	hoverBar  int

	actions        map[string]func()
	keyboardAction map[KeyShortcut]string
	labels         map[string]string
	order          []string
}

func newController(s *session.Session, th *theme.Theme, log zerolog.Logger) *controller {
	c := &controller{
		sess:     s,
		theme:    th,
		log:      log,
		now:      time.Now,
		hoverBar: -1,
	}
	c.registerActions()
	return c
}

func (c *controller) register(name, label string, keys KeyboardShortcuts, fn func()) {
	c.actions[name] = fn
	c.order = append(c.order, name)
	c.labels[name] = label
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			c.keyboardAction[sc] = name
		}
	}
}

func (c *controller) registerActions() {
	c.actions = map[string]func(){}
	c.keyboardAction = map[KeyShortcut]string{}
	c.labels = map[string]string{}
	c.order = nil

	c.register("add", "N:add", shortcutList{{Rune: 'n'}}, c.addAnnotation)
	c.register("type", "T:type", shortcutList{{Rune: 't'}}, c.toggleType)
	c.register("colour", "C:colour", shortcutList{{Rune: 'c'}}, c.newColour)
	c.register("rename", "R:rename", shortcutList{{Rune: 'r'}}, c.startRename)
	c.register("delete", "Del:delete", shortcutList{{Code: key.CodeDeleteForward}}, c.deleteAnnotation)
	c.register("remove", "X:remove box", shortcutList{{Rune: 'x'}}, c.removeInstance)
	c.register("prev", "PgUp:prev", shortcutList{{Code: key.CodePageUp}}, func() { c.step(-1) })
	c.register("next", "PgDn:next", shortcutList{{Code: key.CodePageDown}}, func() { c.step(1) })
	c.register("quit", "Q:quit", shortcutList{{Rune: 'q'}}, func() { c.quit = true })
}

// trigger runs a registered action. Delete needs two consecutive presses.
func (c *controller) trigger(action string) {
	fn, ok := c.actions[action]
	if !ok {
		return
	}
	if action == "delete" && !c.confirmDelete {
		a := c.sess.Doc.Selected()
		if a == nil {
			c.inform("select an annotation first")
			return
		}
		c.confirmDelete = true
		c.inform(fmt.Sprintf("press Delete again to remove %q", a.Label))
		return
	}
	c.confirmDelete = false
	fn()
}

func (c *controller) inform(msg string) {
	c.message, c.messageErr, c.messageUntil = msg, false, c.now().Add(messageTTL)
	c.log.Info().Msg(msg)
}

func (c *controller) fail(err error) {
	if err == nil {
		return
	}
	c.message, c.messageErr, c.messageUntil = err.Error(), true, c.now().Add(messageTTL)
	c.log.Error().Err(err).Msg("action failed")
}

// resize recomputes the layout and refits the current image.
func (c *controller) resize(width, height int) {
	c.width, c.height = width, height
	c.lay = computeLayout(width, height)
	c.files.Rect = c.lay.Files
	c.annotations.Rect = c.lay.Annotations
	c.instances.Rect = c.lay.Instances
	c.sess.FitTo(c.lay.canvasArea())
	c.shortcuts = c.barEntries()
	c.frame(session.Input{})
}

func (c *controller) pointerGeom() geom.Point {
	return geom.Pt(float64(c.pointer.X), float64(c.pointer.Y))
}

// frame feeds one input into the session. Before a click, empty frames let
// the hover state catch up with a pointer that jumped, since it moves one
// step per frame. A second empty frame afterwards lets cancelled edits
// settle back to idle.
func (c *controller) frame(in session.Input) {
	in.Pointer = c.pointerGeom()
	in.OverImage = c.pointer.In(c.lay.Canvas) && c.sess.OverImage(in.Pointer)
	idle := session.Input{Pointer: in.Pointer, OverImage: in.OverImage}
	if in.Click {
		for i := 0; i < 2; i++ {
			if c.sess.Frame(idle) != nil {
				break
			}
		}
	}
	err := c.sess.Frame(in)
	if err == nil && (in.Click || in.Escape || in.Enter) {
		err = c.sess.Frame(idle)
	}
	c.syncTables()
	if errors.Is(err, session.ErrNoImage) {
		return
	}
	c.fail(err)
}

func (c *controller) selectImage(i int) {
	if err := c.sess.SelectImage(i); err != nil {
		c.fail(err)
		return
	}
	c.sess.FitTo(c.lay.canvasArea())
	c.frame(session.Input{})
}

func (c *controller) step(d int) {
	if err := c.sess.Step(d); err != nil {
		c.fail(err)
		return
	}
	c.sess.FitTo(c.lay.canvasArea())
	c.frame(session.Input{})
}

func (c *controller) addAnnotation() {
	a, err := c.sess.AddDefaultAnnotation()
	if err != nil {
		c.fail(err)
		return
	}
	c.inform(fmt.Sprintf("added %q", a.Label))
}

func (c *controller) toggleType() {
	a := c.sess.Doc.Selected()
	if a == nil {
		return
	}
	c.fail(c.sess.SetAnnotationType(a.ID, a.Type.Toggle()))
}

func (c *controller) newColour() {
	a := c.sess.Doc.Selected()
	if a == nil {
		return
	}
	c.fail(c.sess.SetAnnotationColor(a.ID, annotation.RandomColor()))
}

func (c *controller) startRename() {
	a := c.sess.Doc.Selected()
	if a == nil {
		c.inform("select an annotation first")
		return
	}
	c.renaming = true
	c.renameText = a.Label
}

func (c *controller) deleteAnnotation() {
	a := c.sess.Doc.Selected()
	if a == nil {
		return
	}
	label := a.Label
	if err := c.sess.RemoveAnnotation(a.ID); err != nil {
		c.fail(err)
		return
	}
	c.inform(fmt.Sprintf("removed %q", label))
}

func (c *controller) removeInstance() {
	_, in := c.sess.Doc.SelectedInstance()
	if in == nil {
		c.inform("select a box first")
		return
	}
	c.fail(c.sess.RemoveInstance(in.ID))
}

// rename handles a key while the rename prompt is open.
func (c *controller) rename(e key.Event) {
	switch e.Code {
	case key.CodeReturnEnter:
		c.renaming = false
		if a := c.sess.Doc.Selected(); a != nil {
			c.fail(c.sess.RenameAnnotation(a.ID, c.renameText))
		}
		return
	case key.CodeEscape:
		c.renaming = false
		return
	case key.CodeDeleteBackspace:
		if r := []rune(c.renameText); len(r) > 0 {
			c.renameText = string(r[:len(r)-1])
		}
		return
	}
	if e.Rune > 0 {
		c.renameText += string(e.Rune)
	}
}

// handleKey processes a key event and reports whether the window needs a
// repaint.
func (c *controller) handleKey(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	if c.renaming {
		if e.Direction == key.DirPress {
			c.rename(e)
		}
		return true
	}
	if nudge, ok := arrowNudge(e); ok {
		c.confirmDelete = false
		c.frame(session.Input{Nudge: nudge})
		return true
	}
	if e.Direction != key.DirPress {
		return false
	}
	switch e.Code {
	case key.CodeEscape:
		c.confirmDelete = false
		c.frame(session.Input{Escape: true})
		return true
	case key.CodeReturnEnter:
		c.confirmDelete = false
		c.frame(session.Input{Enter: true})
		return true
	}
	if e.Rune >= '1' && e.Rune <= '9' {
		c.confirmDelete = false
		if _, err := c.sess.SelectAnnotationAt(int(e.Rune - '1')); err != nil {
			c.inform(fmt.Sprintf("no annotation %c", e.Rune))
		}
		return true
	}
	if action, ok := c.keyboardAction[shortcutOf(e)]; ok {
		c.trigger(action)
		return true
	}
	c.confirmDelete = false
	return false
}

func arrowNudge(e key.Event) (geom.Point, bool) {
	step := 1.0
	if e.Modifiers&key.ModShift != 0 {
		step = 10
	}
	switch e.Code {
	case key.CodeLeftArrow:
		return geom.Pt(-step, 0), true
	case key.CodeRightArrow:
		return geom.Pt(step, 0), true
	case key.CodeUpArrow:
		return geom.Pt(0, -step), true
	case key.CodeDownArrow:
		return geom.Pt(0, step), true
	}
	return geom.Point{}, false
}

// handleMouse processes a mouse event and reports whether the window needs
// a repaint.
func (c *controller) handleMouse(e mouse.Event) bool {
	c.pointer = image.Pt(int(e.X), int(e.Y))
	if e.Direction == mouse.DirNone {
		c.hoverBar = c.barIndexAt(c.pointer)
		c.frame(session.Input{})
		return true
	}
	if e.Button != mouse.ButtonLeft || e.Direction != mouse.DirPress {
		return false
	}
	c.confirmDelete = false
	c.syncTables()
	switch p := c.pointer; {
	case p.In(c.lay.Canvas):
		c.frame(session.Input{Click: true})
	case p.In(c.lay.Files):
		if i, ok := c.files.rowAt(p); ok {
			c.selectImage(i)
		}
	case p.In(c.lay.Annotations):
		if i, ok := c.annotations.rowAt(p); ok {
			_, err := c.sess.SelectAnnotationAt(i)
			c.fail(err)
		}
	case p.In(c.lay.Instances):
		if i, ok := c.instances.rowAt(p); ok {
			placed := c.currentInstances()
			if i < len(placed) {
				c.fail(c.sess.SelectInstance(placed[i].Instance.ID))
			}
		}
	case p.In(c.lay.Bar):
		if i := c.barIndexAt(p); i >= 0 {
			c.shortcuts[i].Activate()
		}
	}
	return true
}

func (c *controller) barIndexAt(p image.Point) int {
	for i := range c.shortcuts {
		if p.In(c.shortcuts[i].rect) {
			return i
		}
	}
	return -1
}

// syncTables updates row counts and scrolling from the session so hit
// testing and painting agree on what each row shows.
func (c *controller) syncTables() {
	cur, _, _ := c.sess.Current()
	c.files.Count = len(c.sess.Images)
	if cur >= 0 {
		c.files = c.files.scrolledTo(cur)
	}

	doc := c.sess.Doc
	c.annotations.Count = len(doc.Annotations)
	for i, a := range doc.Annotations {
		if doc.IsSelected(a) {
			c.annotations = c.annotations.scrolledTo(i)
		}
	}

	placed := c.currentInstances()
	_, sel := doc.SelectedInstance()
	c.instances.Count = len(placed)
	for i, p := range placed {
		if p.Instance == sel {
			c.instances = c.instances.scrolledTo(i)
		}
	}
}

func (c *controller) currentInstances() []annotation.Placed {
	_, file, _ := c.sess.Current()
	if file == "" {
		return nil
	}
	return c.sess.Doc.InstancesOn(file)
}
