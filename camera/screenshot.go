package camera

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/kbinani/screenshot"
)

const jpegQuality = 80

// Screen captures the primary display and encodes it as JPEG. It stands
// in for the image sensor when running on a desktop.
type Screen struct {
	display int
}

func NewScreen() (*Screen, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, fmt.Errorf("camera: no active displays")
	}
	return &Screen{display: 0}, nil
}

func (s *Screen) Capture() (*Frame, error) {
	img, err := screenshot.CaptureDisplay(s.display)
	if err != nil {
		return nil, fmt.Errorf("camera: capture display %d: %w", s.display, err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("camera: jpeg encode: %w", err)
	}
	return &Frame{Data: buf.Bytes()}, nil
}

func (s *Screen) Release(frame *Frame) {
	if frame.released {
		panic("camera: frame released twice")
	}
	frame.released = true
	frame.Data = nil
}
