package link

// Nop discards everything. Used when no broker is configured, so the
// device still runs standalone.
type Nop struct {
	control chan ControlMsg
}

func NewNop() *Nop {
	return &Nop{control: make(chan ControlMsg)}
}

func (n *Nop) Send(Characteristic, []byte) error { return nil }
func (n *Nop) Connected() bool                   { return false }
func (n *Nop) Control() <-chan ControlMsg        { return n.control }
func (n *Nop) Close()                            {}
