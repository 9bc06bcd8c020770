package touchpad

import "sync/atomic"

// Fake is a settable sensor for tests and the sim driver. Safe to set
// from a goroutine other than the reader.
type Fake struct {
	value atomic.Int32
}

func NewFake() *Fake {
	f := &Fake{}
	f.value.Store(ValueIdle)
	return f
}

func (f *Fake) Read() int { return int(f.value.Load()) }

func (f *Fake) Touch()   { f.value.Store(ValueTouched) }
func (f *Fake) Release() { f.value.Store(ValueIdle) }

// Set overrides the raw value directly, for threshold-edge tests.
func (f *Fake) Set(v int) { f.value.Store(int32(v)) }
