//go:build linux

package touchpad

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
)

// Linux global hotkeys need no display server if we read evdev
// directly. Requires membership in the input group.
const (
	evKey      = 1
	keyPress   = 1
	keyRelease = 0
	keyLCtrl   = 29
	keyRCtrl   = 97
	keyLShift  = 42
	keyRShift  = 54
	keySpace   = 57

	inputEventSize = 24
)

// Hotkey maps a held Ctrl+Shift+Space onto the touch surface: held
// reads as touched, otherwise idle.
type Hotkey struct {
	held  atomic.Bool
	files []*os.File
	stop  chan struct{}
	once  sync.Once
}

func NewHotkey() *Hotkey {
	return &Hotkey{}
}

func (h *Hotkey) Register() error {
	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	h.stop = make(chan struct{})

	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		h.files = append(h.files, f)
		go h.readEvents(f)
	}

	if len(h.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}

	return nil
}

func (h *Hotkey) readEvents(f *os.File) {
	buf := make([]byte, inputEventSize*16)
	var ctrlHeld, shiftHeld, comboHeld bool

	for {
		select {
		case <-h.stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey {
				continue
			}

			pressed := evValue == keyPress
			released := evValue == keyRelease

			switch evCode {
			case keyLCtrl, keyRCtrl:
				ctrlHeld = pressed || (!released && ctrlHeld)
			case keyLShift, keyRShift:
				shiftHeld = pressed || (!released && shiftHeld)
			case keySpace:
				if pressed && !comboHeld && ctrlHeld && shiftHeld {
					comboHeld = true
					h.held.Store(true)
				} else if released && comboHeld {
					comboHeld = false
					h.held.Store(false)
				}
			}
		}
	}
}

func (h *Hotkey) Unregister() {
	h.once.Do(func() {
		if h.stop != nil {
			close(h.stop)
		}
		for _, f := range h.files {
			f.Close()
		}
	})
}

func (h *Hotkey) Read() int {
	if h.held.Load() {
		return ValueTouched
	}
	return ValueIdle
}

// findKeyboards locates evdev devices that report the keys we need, by
// checking the EV and KEY capability bitmaps in sysfs.
func findKeyboards() ([]string, error) {
	entries, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, dev := range entries {
		name := filepath.Base(dev)
		capPath := filepath.Join("/sys/class/input", name, "device/capabilities/key")
		data, err := os.ReadFile(capPath)
		if err != nil {
			continue
		}
		if hasKeyboardKeys(strings.TrimSpace(string(data))) {
			keyboards = append(keyboards, dev)
		}
	}
	return keyboards, nil
}

// hasKeyboardKeys checks the KEY capability bitmap (hex words, most
// significant first) for space and left ctrl.
func hasKeyboardKeys(capStr string) bool {
	words := strings.Fields(capStr)
	checkBit := func(keycode int) bool {
		wordIdx := keycode / 64
		bitIdx := keycode % 64
		pos := len(words) - 1 - wordIdx
		if pos < 0 || pos >= len(words) {
			return false
		}
		var w uint64
		if _, err := fmt.Sscanf(words[pos], "%x", &w); err != nil {
			return false
		}
		return w&(1<<bitIdx) != 0
	}
	return checkBit(keySpace) && checkBit(keyLCtrl)
}
