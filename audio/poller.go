package audio

import (
	"encoding/binary"
	"sync"
)

// Poller adapts a push-style capture callback into non-blocking,
// fixed-size block polls. The capture thread enqueues; the control
// loop polls once per tick with zero timeout. When the queue is full
// the oldest block is dropped so a stalled consumer never blocks the
// capture thread.
type Poller struct {
	queue chan []int16

	mu  sync.Mutex
	rem []int16 // partial block carried between callbacks
}

const pollerDepth = 8 // ~0.5s of backlog at 1024 samples/block

func NewPoller() *Poller {
	return &Poller{queue: make(chan []int16, pollerDepth)}
}

// Callback returns the DataCallback to register on a CaptureDevice.
func (p *Poller) Callback() DataCallback {
	return func(data []byte, _ uint32) {
		n := len(data) / 2
		samples := make([]int16, n)
		for i := 0; i < n; i++ {
			samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
		}

		p.mu.Lock()
		p.rem = append(p.rem, samples...)
		var blocks [][]int16
		for len(p.rem) >= BlockSize {
			block := make([]int16, BlockSize)
			copy(block, p.rem[:BlockSize])
			p.rem = p.rem[BlockSize:]
			blocks = append(blocks, block)
		}
		p.mu.Unlock()

		for _, block := range blocks {
			p.push(block)
		}
	}
}

func (p *Poller) push(block []int16) {
	for {
		select {
		case p.queue <- block:
			return
		default:
		}
		select {
		case <-p.queue: // drop oldest
		default:
		}
	}
}

// Poll returns the next complete block, or nil if none is ready.
// Never blocks.
func (p *Poller) Poll() []int16 {
	select {
	case block := <-p.queue:
		return block
	default:
		return nil
	}
}

// Drain discards any queued blocks and the partial remainder.
func (p *Poller) Drain() {
	for {
		select {
		case <-p.queue:
		default:
			p.mu.Lock()
			p.rem = p.rem[:0]
			p.mu.Unlock()
			return
		}
	}
}
