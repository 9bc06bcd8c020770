package main

import "time"

// recordingState is the touch-gated capture lifecycle.
type recordingState int

const (
	stateIdle recordingState = iota
	stateDetected
	stateRecordingActive
	stateRecordingSilence
	stateProcessing
)

func (s recordingState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateDetected:
		return "detected"
	case stateRecordingActive:
		return "recording"
	case stateRecordingSilence:
		return "recording-silence"
	case stateProcessing:
		return "processing"
	default:
		return "unknown"
	}
}

// machineEvent tells the scheduler what just happened. The machine
// itself performs no I/O; the scheduler acts on the event.
type machineEvent int

const (
	eventNone machineEvent = iota
	eventTouchDetected         // debounced press confirmed
	eventTouchBounced          // press released before debounce
	eventRecordingStarted      // finger lifted, session begins
	eventSilenceStarted        // level fell to the silence floor
	eventSpeechResumed         // silence broken before timeout
	eventProcessingSilence     // session ended by sustained silence
	eventProcessingMaxDuration // session ended by the safety ceiling
)

// machineInputs is one tick's worth of sensor state. Level is the
// estimate from the previous tick's block; audio is polled after the
// machine steps, so the one-tick skew is part of the loop contract.
type machineInputs struct {
	TouchValue int
	Level      int
	Speech     bool
}

type machineConfig struct {
	TouchThreshold int
	Debounce       time.Duration
	SilenceLevel   int
	SilenceAfter   time.Duration
	MinDuration    time.Duration
	MaxDuration    time.Duration
}

// touchMachine drives the capture lifecycle from touch and level
// inputs. Step is side-effect-free: one call per tick, returning at
// most one event.
type touchMachine struct {
	cfg   machineConfig
	state recordingState

	touchStart     time.Time
	recordingStart time.Time
	silenceStart   time.Time
}

func newTouchMachine(cfg machineConfig) *touchMachine {
	return &touchMachine{cfg: cfg}
}

func (m *touchMachine) State() recordingState { return m.state }

func (m *touchMachine) Recording() bool {
	return m.state == stateRecordingActive || m.state == stateRecordingSilence
}

func (m *touchMachine) Step(now time.Time, in machineInputs) machineEvent {
	touched := in.TouchValue <= m.cfg.TouchThreshold

	switch m.state {
	case stateIdle:
		if touched {
			// A re-touch inside the debounce window is contact
			// bounce: merge it with the original press instead of
			// counting a second one.
			if m.touchStart.IsZero() || now.Sub(m.touchStart) >= m.cfg.Debounce {
				m.touchStart = now
			}
			m.state = stateDetected
		}
		return eventNone

	case stateDetected:
		if !touched {
			if now.Sub(m.touchStart) < m.cfg.Debounce {
				m.state = stateIdle
				return eventTouchBounced
			}
			// Recording starts on release, not on press, so the
			// finger noise never lands in the session.
			m.state = stateRecordingActive
			m.recordingStart = now
			return eventRecordingStarted
		}
		if now.Sub(m.touchStart) >= m.cfg.Debounce {
			return eventTouchDetected
		}
		return eventNone

	case stateRecordingActive:
		if now.Sub(m.recordingStart) >= m.cfg.MaxDuration {
			m.state = stateProcessing
			return eventProcessingMaxDuration
		}
		if in.Level <= m.cfg.SilenceLevel && !in.Speech {
			m.state = stateRecordingSilence
			m.silenceStart = now
			return eventSilenceStarted
		}
		return eventNone

	case stateRecordingSilence:
		if now.Sub(m.recordingStart) >= m.cfg.MaxDuration {
			m.state = stateProcessing
			return eventProcessingMaxDuration
		}
		if in.Level > m.cfg.SilenceLevel || in.Speech {
			m.state = stateRecordingActive
			return eventSpeechResumed
		}
		if now.Sub(m.silenceStart) >= m.cfg.SilenceAfter {
			if now.Sub(m.recordingStart) < m.cfg.MinDuration {
				// Too short to ship; keep listening but restart
				// the silence clock.
				m.silenceStart = now
				return eventNone
			}
			m.state = stateProcessing
			return eventProcessingSilence
		}
		return eventNone

	case stateProcessing:
		// Parked until the scheduler finishes the flush and photo.
		return eventNone
	}

	return eventNone
}

// FinishProcessing returns the machine to Idle once the scheduler has
// flushed audio and drained the photo upload.
func (m *touchMachine) FinishProcessing() {
	if m.state == stateProcessing {
		m.state = stateIdle
	}
}
