package main

// ledMode is the indication the device shows. Recomputed every tick
// from machine state and upload progress; the sink renders it.
type ledMode int

const (
	ledOff ledMode = iota
	ledSolid     // recording
	ledBlinkSlow // silence countdown running
	ledBlinkFast // processing or uploading
)

func (m ledMode) String() string {
	switch m {
	case ledOff:
		return "off"
	case ledSolid:
		return "solid"
	case ledBlinkSlow:
		return "blink-slow"
	case ledBlinkFast:
		return "blink-fast"
	default:
		return "unknown"
	}
}

func computeLed(state recordingState, uploading bool) ledMode {
	if uploading {
		return ledBlinkFast
	}
	switch state {
	case stateRecordingActive, stateDetected:
		return ledSolid
	case stateRecordingSilence:
		return ledBlinkSlow
	case stateProcessing:
		return ledBlinkFast
	default:
		return ledOff
	}
}
