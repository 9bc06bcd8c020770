//go:build !linux

package touchpad

import (
	"sync/atomic"

	"golang.design/x/hotkey"
)

// Hotkey maps a held global key combo (Ctrl+Shift+Space) onto the touch
// surface: held reads as touched, otherwise idle.
type Hotkey struct {
	hk   *hotkey.Hotkey
	held atomic.Bool
}

func NewHotkey() *Hotkey {
	return &Hotkey{
		hk: hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, hotkey.KeySpace),
	}
}

func (h *Hotkey) Register() error {
	if err := h.hk.Register(); err != nil {
		return err
	}
	go func() {
		for {
			<-h.hk.Keydown()
			h.held.Store(true)
			<-h.hk.Keyup()
			h.held.Store(false)
		}
	}()
	return nil
}

func (h *Hotkey) Unregister() {
	h.hk.Unregister()
}

func (h *Hotkey) Read() int {
	if h.held.Load() {
		return ValueTouched
	}
	return ValueIdle
}
