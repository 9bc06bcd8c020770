package main

import "testing"

// genSquare produces a zero-mean square wave of the given amplitude.
func genSquare(amplitude int16, n int) []int16 {
	samples := make([]int16, n)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = amplitude
		} else {
			samples[i] = -amplitude
		}
	}
	return samples
}

func TestLevelEmptyBlock(t *testing.T) {
	e := newLevelEstimator(16, 100)

	st := e.Update(nil)
	if st.Level != 0 || st.Peak != 0 {
		t.Fatalf("empty block: level=%d peak=%d, want 0/0", st.Level, st.Peak)
	}

	// Peak survives an empty block.
	e.Update(genSquare(2000, 1024))
	before := e.state.Peak
	st = e.Update(nil)
	if st.Level != 0 {
		t.Fatalf("empty block level = %d, want 0", st.Level)
	}
	if st.Peak != before {
		t.Fatalf("empty block changed peak: %d -> %d", before, st.Peak)
	}
}

func TestLevelSilenceIsZero(t *testing.T) {
	e := newLevelEstimator(16, 100)
	st := e.Update(make([]int16, 1024))
	if st.Level != 0 {
		t.Fatalf("silence level = %d, want 0", st.Level)
	}
}

func TestLevelDCOffsetRemoved(t *testing.T) {
	e := newLevelEstimator(16, 100)

	// A constant block is pure DC: after offset removal nothing
	// survives the gate.
	samples := make([]int16, 1024)
	for i := range samples {
		samples[i] = 500
	}
	st := e.Update(samples)
	if st.Level != 0 {
		t.Fatalf("pure DC level = %d, want 0", st.Level)
	}

	// The same tone with and without a DC shift measures the same.
	clean := e.Update(genSquare(1000, 1024))
	e2 := newLevelEstimator(16, 100)
	shifted := genSquare(1000, 1024)
	for i := range shifted {
		shifted[i] += 300
	}
	got := e2.Update(shifted)
	if got.Level != clean.Level {
		t.Fatalf("DC shift changed level: %d vs %d", got.Level, clean.Level)
	}
}

func TestLevelNoiseGate(t *testing.T) {
	e := newLevelEstimator(16, 100)

	// Amplitude 5 becomes 80 after 16x gain, under the gate of 100.
	if st := e.Update(genSquare(5, 1024)); st.Level != 0 {
		t.Fatalf("gated block level = %d, want 0", st.Level)
	}
	// Amplitude 10 becomes 160, which survives.
	if st := e.Update(genSquare(10, 1024)); st.Level == 0 {
		t.Fatal("expected nonzero level above the gate")
	}
}

func TestLevelGainClampsAtFullScale(t *testing.T) {
	e := newLevelEstimator(16, 100)
	st := e.Update(genSquare(30000, 1024))
	if st.Level < 99 {
		t.Fatalf("saturated block level = %d, want full scale", st.Level)
	}
}

func TestPeakMonotonicUntilReset(t *testing.T) {
	e := newLevelEstimator(16, 100)

	loud := e.Update(genSquare(2000, 1024))
	quiet := e.Update(genSquare(50, 1024))
	if quiet.Level >= loud.Level {
		t.Fatalf("quiet level %d not below loud level %d", quiet.Level, loud.Level)
	}
	if quiet.Peak != loud.Peak {
		t.Fatalf("peak dropped from %d to %d", loud.Peak, quiet.Peak)
	}

	e.ResetPeak()
	st := e.Update(genSquare(50, 1024))
	if st.Peak != st.Level {
		t.Fatalf("after reset peak = %d, want current level %d", st.Peak, st.Level)
	}
}
