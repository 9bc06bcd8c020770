package link

import "errors"

var errSendFailed = errors.New("link: send failed")

// Fake records every Send for inspection and lets tests inject control
// writes and connection state.
type Fake struct {
	Sent      []SentMsg
	Online    bool
	FailSends int // next N sends fail

	control chan ControlMsg
}

type SentMsg struct {
	Ch      Characteristic
	Payload []byte
}

func NewFake() *Fake {
	return &Fake{Online: true, control: make(chan ControlMsg, controlDepth)}
}

func (f *Fake) Send(ch Characteristic, payload []byte) error {
	if f.FailSends > 0 {
		f.FailSends--
		return errSendFailed
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	f.Sent = append(f.Sent, SentMsg{Ch: ch, Payload: cp})
	return nil
}

func (f *Fake) Connected() bool            { return f.Online }
func (f *Fake) Control() <-chan ControlMsg { return f.control }
func (f *Fake) Close()                     {}

// Write injects an inbound control write as if the host sent it.
func (f *Fake) Write(ch Characteristic, payload []byte) {
	f.control <- ControlMsg{Ch: ch, Payload: payload}
}

// SentOn filters recorded sends by characteristic.
func (f *Fake) SentOn(ch Characteristic) []SentMsg {
	var out []SentMsg
	for _, m := range f.Sent {
		if m.Ch == ch {
			out = append(out, m)
		}
	}
	return out
}
