// Package platform sends desktop notifications through the host's native
// notification service.
package platform

import "time"

// AppName is reported to notification services that ask for one.
const AppName = "boxlabel"

// Options configures how a notification is displayed.
type Options struct {
	// IconPath, when non-empty, points to an image shown next to the text
	// where the platform supports it.
	IconPath string
	// Timeout is how long the notification stays visible. Zero uses the
	// platform default.
	Timeout time.Duration
}
