package main

// EventSink decouples the control loop from whatever front-end is
// attached. The TUI implements it; sim and tests use nopSink or a
// recorder.
type EventSink interface {
	StateChanged(state recordingState)
	LevelChanged(level LevelState)
	LedChanged(mode ledMode)
	LinkChanged(connected bool)
	BatteryChanged(percent int)
	PhotoProgress(sentChunks, totalChunks int)
	Message(msg string)
}

type nopSink struct{}

func (nopSink) StateChanged(recordingState) {}
func (nopSink) LevelChanged(LevelState)     {}
func (nopSink) LedChanged(ledMode)          {}
func (nopSink) LinkChanged(bool)            {}
func (nopSink) BatteryChanged(int)          {}
func (nopSink) PhotoProgress(int, int)      {}
func (nopSink) Message(string)              {}
