// Package link carries captured audio and photos off the device and
// accepts control writes coming back. The wire model mirrors a GATT
// service: a handful of characteristics, small notify payloads, and
// single-byte-ish control writes.
package link

import "fmt"

type Characteristic int

const (
	PhotoData Characteristic = iota
	PhotoControl
	AudioData
	AudioControl
	BatteryLevel
)

func (c Characteristic) String() string {
	switch c {
	case PhotoData:
		return "photo-data"
	case PhotoControl:
		return "photo-control"
	case AudioData:
		return "audio-data"
	case AudioControl:
		return "audio-control"
	case BatteryLevel:
		return "battery-level"
	default:
		return fmt.Sprintf("characteristic(%d)", int(c))
	}
}

// Transport sends notify payloads and surfaces inbound control writes.
// Send must not block the control loop for long; transports that can
// stall should buffer or drop.
type Transport interface {
	Send(ch Characteristic, payload []byte) error
	Connected() bool
	// Control returns the channel inbound control writes arrive on.
	Control() <-chan ControlMsg
	Close()
}

type ControlMsg struct {
	Ch      Characteristic
	Payload []byte
}

// Photo control values, written by the host.
const (
	PhotoSingleShot  = -1 // capture one photo now
	PhotoStop        = 0  // stop interval capture and reset photo state
	PhotoIntervalMin = 5  // seconds
	PhotoIntervalMax = 300
)

// Audio control values.
const (
	AudioModeOff     = 0
	AudioModeStream  = 1
	AudioModeCapture = 2
)

// ControlMux dispatches control writes to per-characteristic handlers.
// Unhandled characteristics and malformed payloads are reported to the
// error callback instead of being silently dropped.
type ControlMux struct {
	handlers map[Characteristic]func(payload []byte) error
	onError  func(ch Characteristic, err error)
}

func NewControlMux(onError func(ch Characteristic, err error)) *ControlMux {
	if onError == nil {
		onError = func(Characteristic, error) {}
	}
	return &ControlMux{
		handlers: make(map[Characteristic]func([]byte) error),
		onError:  onError,
	}
}

func (m *ControlMux) Handle(ch Characteristic, fn func(payload []byte) error) {
	m.handlers[ch] = fn
}

func (m *ControlMux) Dispatch(msg ControlMsg) {
	fn, ok := m.handlers[msg.Ch]
	if !ok {
		m.onError(msg.Ch, fmt.Errorf("no handler for control write"))
		return
	}
	if err := fn(msg.Payload); err != nil {
		m.onError(msg.Ch, err)
	}
}

// ParsePhotoControl decodes a photo control write. The value is a
// signed byte: -1 single shot, 0 stop, 5..300 interval seconds.
func ParsePhotoControl(payload []byte) (int, error) {
	if len(payload) < 1 {
		return 0, fmt.Errorf("empty photo control write")
	}
	v := int(int8(payload[0]))
	switch {
	case v == PhotoSingleShot, v == PhotoStop:
		return v, nil
	case v >= PhotoIntervalMin && v <= PhotoIntervalMax:
		return v, nil
	default:
		return 0, fmt.Errorf("photo control value %d out of range", v)
	}
}

// ParseAudioControl decodes an audio control write (modes 0..2).
func ParseAudioControl(payload []byte) (int, error) {
	if len(payload) < 1 {
		return 0, fmt.Errorf("empty audio control write")
	}
	v := int(payload[0])
	if v < AudioModeOff || v > AudioModeCapture {
		return 0, fmt.Errorf("audio control value %d out of range", v)
	}
	return v, nil
}
