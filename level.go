package main

import "math"

// LevelState is the per-block loudness estimate the state machine and
// the UI consume.
type LevelState struct {
	Level int // 0..100, percent of full scale
	Peak  int // highest Level seen since the last reset
}

// levelEstimator turns raw 16-bit PCM blocks into a percentage level.
// The mic sits behind a weak analog stage, so the chain is: remove the
// block's DC offset, apply fixed digital gain, gate out residual hiss,
// then RMS over whatever survives.
type levelEstimator struct {
	gain      int
	noiseGate int
	state     LevelState
}

func newLevelEstimator(gain, noiseGate int) *levelEstimator {
	return &levelEstimator{gain: gain, noiseGate: noiseGate}
}

// Update processes one block and returns the new state. An empty or
// fully gated block reports level 0 and leaves the peak alone.
func (e *levelEstimator) Update(samples []int16) LevelState {
	if len(samples) == 0 {
		e.state.Level = 0
		return e.state
	}

	var sum int64
	for _, s := range samples {
		sum += int64(s)
	}
	offset := sum / int64(len(samples))

	var sumSquares float64
	survivors := 0
	for _, s := range samples {
		v := (int64(s) - offset) * int64(e.gain)
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			v = math.MinInt16
		}
		if v > -int64(e.noiseGate) && v < int64(e.noiseGate) {
			continue
		}
		sumSquares += float64(v) * float64(v)
		survivors++
	}

	if survivors == 0 {
		e.state.Level = 0
		return e.state
	}

	rms := math.Sqrt(sumSquares / float64(survivors))
	level := int(rms / 32768.0 * 100.0)
	if level > 100 {
		level = 100
	}

	e.state.Level = level
	if level > e.state.Peak {
		e.state.Peak = level
	}
	return e.state
}

func (e *levelEstimator) ResetPeak() {
	e.state.Peak = 0
}
