package link

import "encoding/binary"

// Photo payloads are notified in chunks small enough for a single
// notify. Each chunk is prefixed with a little-endian 16-bit frame
// index; after the last chunk a 0xFF 0xFF marker tells the host the
// photo is complete.
const (
	ChunkSize       = 200
	chunkHeaderSize = 2
)

var endMarker = []byte{0xFF, 0xFF}

// Cursor walks a photo one chunk per call, so the control loop can
// interleave photo upload with its other duties.
type Cursor struct {
	data  []byte
	pos   int
	index uint16
	done  bool
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Next returns the next wire payload, or nil once the terminal marker
// has been emitted. The terminal marker is produced as its own payload
// after the data is exhausted, including for empty photos.
func (c *Cursor) Next() []byte {
	if c.done {
		return nil
	}
	if c.pos >= len(c.data) {
		c.done = true
		return endMarker
	}

	end := min(c.pos+ChunkSize, len(c.data))
	payload := make([]byte, chunkHeaderSize+end-c.pos)
	binary.LittleEndian.PutUint16(payload, c.index)
	copy(payload[chunkHeaderSize:], c.data[c.pos:end])

	c.pos = end
	c.index++
	return payload
}

// Done reports whether the terminal marker has been emitted.
func (c *Cursor) Done() bool { return c.done }

// Remaining reports payloads still to be produced, terminal marker
// included.
func (c *Cursor) Remaining() int {
	if c.done {
		return 0
	}
	left := len(c.data) - c.pos
	return (left+ChunkSize-1)/ChunkSize + 1
}

// SendAll pushes every remaining payload of the cursor through the
// transport in one go. Used for flushes where interleaving does not
// matter, like draining on shutdown.
func SendAll(t Transport, ch Characteristic, c *Cursor) error {
	for {
		payload := c.Next()
		if payload == nil {
			return nil
		}
		if err := t.Send(ch, payload); err != nil {
			return err
		}
	}
}
