// Package camera abstracts the still-frame source. Frames are loaned:
// every frame obtained from Capture must be handed back with Release
// exactly once, after the upload that uses it has finished.
package camera

import "errors"

var ErrNoFrame = errors.New("camera: no frame available")

type Frame struct {
	Data []byte // encoded JPEG

	released bool
}

type Camera interface {
	// Capture acquires the next frame. The frame stays valid until
	// Release is called on it.
	Capture() (*Frame, error)

	// Release returns a frame to the source. Calling it twice on the
	// same frame is a bug in the caller.
	Release(*Frame)
}
