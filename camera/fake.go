package camera

import "fmt"

// Fake serves scripted frames and tracks the loan discipline, so tests
// can assert that every captured frame is released exactly once.
type Fake struct {
	frames [][]byte
	next   int

	FailNext bool // next Capture returns an error

	Captured int
	Released int
	loaned   map[*Frame]bool
}

func NewFake(frames ...[]byte) *Fake {
	if len(frames) == 0 {
		frames = [][]byte{[]byte("jpeg")}
	}
	return &Fake{frames: frames, loaned: make(map[*Frame]bool)}
}

func (f *Fake) Capture() (*Frame, error) {
	if f.FailNext {
		f.FailNext = false
		return nil, ErrNoFrame
	}
	data := f.frames[f.next%len(f.frames)]
	f.next++
	f.Captured++
	frame := &Frame{Data: data}
	f.loaned[frame] = true
	return frame, nil
}

func (f *Fake) Release(frame *Frame) {
	if frame.released {
		panic("camera: frame released twice")
	}
	if !f.loaned[frame] {
		panic("camera: releasing frame not loaned by this fake")
	}
	frame.released = true
	delete(f.loaned, frame)
	f.Released++
}

// Outstanding reports frames captured but not yet released.
func (f *Fake) Outstanding() int { return len(f.loaned) }

// CheckBalanced fails if any frame is still loaned out.
func (f *Fake) CheckBalanced() error {
	if n := f.Outstanding(); n != 0 {
		return fmt.Errorf("camera: %d frame(s) never released", n)
	}
	return nil
}
