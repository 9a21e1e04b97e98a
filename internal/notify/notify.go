// Package notify turns labelling events into desktop notifications.
package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/boxlabel/internal/config"
	"github.com/example/boxlabel/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave fires after annotations.json is rewritten.
	EventSave Event = "save"
	// EventExport fires after annotations are exported or copied.
	EventExport Event = "export"
	// EventCapture fires after a screenshot is added to the folder.
	EventCapture Event = "capture"
)

// Preferences holds the title and per-event message templates. Each
// template takes one %s for the event detail.
type Preferences struct {
	Title     string
	Templates map[Event]string
}

// DefaultPreferences returns the built-in wording.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "boxlabel",
		Templates: map[Event]string{
			EventSave:    "Saved %s",
			EventExport:  "Exported %s",
			EventCapture: "Captured %s",
		},
	}
}

// LoadPreferences applies BOXLABEL_NOTIFY_* overrides from getenv.
func LoadPreferences(getenv func(string) string) Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(getenv("BOXLABEL_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for _, ev := range []Event{EventSave, EventExport, EventCapture} {
		if v := strings.TrimSpace(getenv("BOXLABEL_NOTIFY_" + strings.ToUpper(string(ev)) + "_TEXT")); v != "" {
			prefs.Templates[ev] = v
		}
	}
	return prefs
}

// Sender delivers one notification. platform.Notify is the default.
type Sender func(title, body string, opts platform.Options) error

// Notifier sends notifications for the events enabled in configuration.
// A nil Notifier is valid and sends nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
	log     zerolog.Logger
	// saves arrive on every edit; keep them from flooding the desktop
	minGap   time.Duration
	lastSent map[Event]time.Time
	now      func() time.Time
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSender replaces platform.Notify.
func WithSender(s Sender) Option { return func(n *Notifier) { n.send = s } }

// WithLogger sets where delivery failures are logged.
func WithLogger(l zerolog.Logger) Option { return func(n *Notifier) { n.log = l } }

// WithMinGap limits each event to one notification per gap.
func WithMinGap(d time.Duration) Option { return func(n *Notifier) { n.minGap = d } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(n *Notifier) { n.now = now } }

// New creates a Notifier with everything disabled.
func New(prefs Preferences, opts ...Option) *Notifier {
	n := &Notifier{
		prefs:    Preferences{Title: prefs.Title, Templates: make(map[Event]string, len(prefs.Templates))},
		enabled:  make(map[Event]bool),
		send:     platform.Notify,
		log:      zerolog.Nop(),
		minGap:   5 * time.Second,
		lastSent: make(map[Event]time.Time),
		now:      time.Now,
	}
	for k, v := range prefs.Templates {
		n.prefs.Templates[k] = v
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// FromConfig creates a Notifier with the events enabled in cfg.
func FromConfig(cfg *config.Config, opts ...Option) *Notifier {
	n := New(LoadPreferences(os.Getenv), opts...)
	n.Enable(EventSave, cfg.Notify.Save)
	n.Enable(EventExport, cfg.Notify.Export)
	n.Enable(EventCapture, cfg.Notify.Capture)
	return n
}

// Enable toggles one event.
func (n *Notifier) Enable(ev Event, on bool) {
	if n == nil {
		return
	}
	n.enabled[ev] = on
}

// Save reports that the annotation file at path was written.
func (n *Notifier) Save(path string) { n.dispatch(EventSave, filepath.Base(path), platform.Options{}) }

// Export reports an export to dest, such as a file name or "clipboard".
func (n *Notifier) Export(dest string) { n.dispatch(EventExport, dest, platform.Options{}) }

// Capture reports a screenshot saved at path and shows it as the icon.
func (n *Notifier) Capture(path string) {
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		opts.IconPath = abs
	}
	n.dispatch(EventCapture, filepath.Base(path), opts)
}

func (n *Notifier) dispatch(ev Event, detail string, opts platform.Options) {
	if n == nil || !n.enabled[ev] {
		return
	}
	tmpl := strings.TrimSpace(n.prefs.Templates[ev])
	if tmpl == "" {
		return
	}
	now := n.now()
	if last, ok := n.lastSent[ev]; ok && now.Sub(last) < n.minGap {
		return
	}
	n.lastSent[ev] = now
	body := strings.TrimSpace(fmt.Sprintf(tmpl, strings.TrimSpace(detail)))
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.log.Warn().Err(err).Str("event", string(ev)).Msg("notification not delivered")
	}
}
