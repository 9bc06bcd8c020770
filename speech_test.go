package main

import "testing"

// The classifier is a coarse heuristic, so these cases pin its
// decision boundaries rather than claim real VAD accuracy.

func TestSpeechTinyBlockRejected(t *testing.T) {
	if isSpeech(make([]int16, 8)) {
		t.Fatal("blocks under the minimum length must not classify as speech")
	}
}

func TestSpeechSilenceRejected(t *testing.T) {
	if isSpeech(make([]int16, 1024)) {
		t.Fatal("silence classified as speech")
	}
}

func TestSpeechQuietToneRejected(t *testing.T) {
	// Loud enough to wiggle the bands, far under the energy floor.
	if isSpeech(genSquare(100, 1024)) {
		t.Fatal("quiet tone classified as speech")
	}
}

func TestSpeechBroadbandAccepted(t *testing.T) {
	// A loud alternating signal spreads successive differences evenly
	// across the three index bands, landing the mid fraction near 1/3.
	if !isSpeech(genSquare(8000, 1024)) {
		t.Fatal("loud broadband signal not classified as speech")
	}
}

// burstAt returns a loud block whose variation is confined to one
// index range; everywhere else carries a flat loud plateau so the
// energy floor still passes.
func burstAt(n, from, to int) []int16 {
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = 8000
	}
	for i := from; i < to; i++ {
		if i%2 == 0 {
			samples[i] = 16000
		} else {
			samples[i] = -16000
		}
	}
	return samples
}

func TestSpeechMidOnlyRejected(t *testing.T) {
	n := 1024
	// All variation inside [n/12, n/6): mid fraction ~1, above 0.8.
	if isSpeech(burstAt(n, n/12, n/6)) {
		t.Fatal("mid-band-only burst must exceed the upper ratio bound")
	}
}

func TestSpeechLowOnlyRejected(t *testing.T) {
	n := 1024
	// All variation inside [1, n/12): mid fraction ~0, below 0.2.
	if isSpeech(burstAt(n, 1, n/12)) {
		t.Fatal("low-band-only burst must fall under the lower ratio bound")
	}
}
