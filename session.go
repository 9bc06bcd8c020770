package main

// recordingSession is the fixed-capacity audio arena for one
// touch-gated capture. The buffer is allocated once and reused; Reset
// rewinds the cursor. On overflow the session keeps running but stops
// appending, and reports the overflow exactly once so the scheduler
// can log it.
type recordingSession struct {
	arena      []byte
	used       int
	overflowed bool
}

func newRecordingSession(capacity int) *recordingSession {
	return &recordingSession{arena: make([]byte, capacity)}
}

func (s *recordingSession) Reset() {
	s.used = 0
	s.overflowed = false
}

// Append copies a PCM block into the arena as little-endian bytes.
// Returns false on the first overflow, so the caller logs once.
func (s *recordingSession) Append(samples []int16) bool {
	if s.overflowed {
		return true
	}
	need := len(samples) * 2
	if s.used+need > len(s.arena) {
		s.overflowed = true
		return false
	}
	for _, v := range samples {
		s.arena[s.used] = byte(uint16(v))
		s.arena[s.used+1] = byte(uint16(v) >> 8)
		s.used += 2
	}
	return true
}

// Bytes returns the recorded audio. Valid until the next Reset.
func (s *recordingSession) Bytes() []byte {
	return s.arena[:s.used]
}

func (s *recordingSession) Len() int { return s.used }

func (s *recordingSession) Overflowed() bool { return s.overflowed }

func (s *recordingSession) Capacity() int { return len(s.arena) }
