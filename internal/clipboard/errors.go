package clipboard

import "errors"

var (
	// ErrNoDisplay means there is no X11 or Wayland session to talk to.
	ErrNoDisplay = errors.New("clipboard requires DISPLAY or WAYLAND_DISPLAY")
	// ErrUnsupported means this build has no clipboard backend.
	ErrUnsupported = errors.New("clipboard is not supported by this build")
	// ErrEmpty means the clipboard holds no data of the requested kind.
	ErrEmpty = errors.New("clipboard holds no image")
)
