package main

import (
	"testing"
	"time"
)

func testMachineConfig() machineConfig {
	return machineConfig{
		TouchThreshold: 40,
		Debounce:       50 * time.Millisecond,
		SilenceLevel:   10,
		SilenceAfter:   2 * time.Second,
		MinDuration:    1 * time.Second,
		MaxDuration:    30 * time.Second,
	}
}

const (
	rawTouched = 0
	rawIdle    = 100
)

// startRecording walks a machine through a clean debounced press and
// release, returning the release time.
func startRecording(t *testing.T, m *touchMachine, now time.Time) time.Time {
	t.Helper()
	if ev := m.Step(now, machineInputs{TouchValue: rawTouched}); ev != eventNone {
		t.Fatalf("press: got %v", ev)
	}
	now = now.Add(60 * time.Millisecond)
	if ev := m.Step(now, machineInputs{TouchValue: rawTouched}); ev != eventTouchDetected {
		t.Fatalf("held past debounce: got %v", ev)
	}
	now = now.Add(10 * time.Millisecond)
	if ev := m.Step(now, machineInputs{TouchValue: rawIdle}); ev != eventRecordingStarted {
		t.Fatalf("release: got %v", ev)
	}
	if m.State() != stateRecordingActive {
		t.Fatalf("state = %v, want recording", m.State())
	}
	return now
}

func TestTouchBounceCollapses(t *testing.T) {
	m := newTouchMachine(testMachineConfig())
	now := time.Unix(0, 0)

	m.Step(now, machineInputs{TouchValue: rawTouched})
	if m.State() != stateDetected {
		t.Fatalf("state = %v, want detected", m.State())
	}

	// Released 20ms in: under the 50ms debounce, so no session.
	now = now.Add(20 * time.Millisecond)
	if ev := m.Step(now, machineInputs{TouchValue: rawIdle}); ev != eventTouchBounced {
		t.Fatalf("got %v, want bounce", ev)
	}
	if m.State() != stateIdle {
		t.Fatalf("state = %v, want idle", m.State())
	}

	// Re-touch 30ms after the original press: contact bounce, merged
	// into the same press rather than counted as a second one.
	now = now.Add(10 * time.Millisecond)
	m.Step(now, machineInputs{TouchValue: rawTouched})
	if m.State() != stateDetected {
		t.Fatalf("state = %v, want detected", m.State())
	}

	// Released 100ms after the ORIGINAL press: held long enough in
	// aggregate, so one recording starts from the two blips.
	now = now.Add(70 * time.Millisecond)
	if ev := m.Step(now, machineInputs{TouchValue: rawIdle}); ev != eventRecordingStarted {
		t.Fatalf("got %v, want recording from merged press", ev)
	}
}

func TestTouchThresholdEdge(t *testing.T) {
	m := newTouchMachine(testMachineConfig())
	now := time.Unix(0, 0)

	// Exactly at the threshold counts as touched; one above does not.
	m.Step(now, machineInputs{TouchValue: 41})
	if m.State() != stateIdle {
		t.Fatal("value above threshold must not detect")
	}
	m.Step(now, machineInputs{TouchValue: 40})
	if m.State() != stateDetected {
		t.Fatal("value at threshold must detect")
	}
}

func TestRecordingRequiresDetectedFirst(t *testing.T) {
	m := newTouchMachine(testMachineConfig())
	now := time.Unix(0, 0)

	// Idle inputs never start a session, whatever the level says.
	for i := 0; i < 10; i++ {
		now = now.Add(20 * time.Millisecond)
		if ev := m.Step(now, machineInputs{TouchValue: rawIdle, Level: 90}); ev != eventNone {
			t.Fatalf("idle step produced %v", ev)
		}
	}
	if m.State() != stateIdle {
		t.Fatalf("state = %v, want idle", m.State())
	}
}

func TestSilenceNeedsMinimumDuration(t *testing.T) {
	cfg := testMachineConfig()
	cfg.MinDuration = 3 * time.Second // floor above the silence window
	m := newTouchMachine(cfg)
	now := startRecording(t, m, time.Unix(0, 0))

	// Immediate silence: the 2s window expires at 2s elapsed, under
	// the 3s floor, so the machine stays recording and rearms.
	if ev := m.Step(now.Add(10*time.Millisecond), machineInputs{TouchValue: rawIdle, Level: 0}); ev != eventSilenceStarted {
		t.Fatal("expected silence entry")
	}
	ev := m.Step(now.Add(2100*time.Millisecond), machineInputs{TouchValue: rawIdle, Level: 0})
	if ev != eventNone || m.State() != stateRecordingSilence {
		t.Fatalf("short session finished early: ev=%v state=%v", ev, m.State())
	}

	// The rearmed window expires past the floor and finishes.
	ev = m.Step(now.Add(4200*time.Millisecond), machineInputs{TouchValue: rawIdle, Level: 0})
	if ev != eventProcessingSilence {
		t.Fatalf("got %v, want processing by silence", ev)
	}
	if m.State() != stateProcessing {
		t.Fatalf("state = %v, want processing", m.State())
	}
}

func TestSpeechResumesFromSilence(t *testing.T) {
	m := newTouchMachine(testMachineConfig())
	now := startRecording(t, m, time.Unix(0, 0))

	m.Step(now.Add(100*time.Millisecond), machineInputs{TouchValue: rawIdle, Level: 0})
	if m.State() != stateRecordingSilence {
		t.Fatal("expected silence state")
	}

	// Level above the floor resumes.
	if ev := m.Step(now.Add(200*time.Millisecond), machineInputs{TouchValue: rawIdle, Level: 50}); ev != eventSpeechResumed {
		t.Fatalf("got %v, want resume", ev)
	}

	// Quiet but classifier-positive audio also resumes.
	m.Step(now.Add(300*time.Millisecond), machineInputs{TouchValue: rawIdle, Level: 0})
	if ev := m.Step(now.Add(400*time.Millisecond), machineInputs{TouchValue: rawIdle, Level: 5, Speech: true}); ev != eventSpeechResumed {
		t.Fatalf("got %v, want resume on speech", ev)
	}

	// A resume clears the silence clock: the next silence entry gets
	// a fresh window.
	m.Step(now.Add(500*time.Millisecond), machineInputs{TouchValue: rawIdle, Level: 0})
	ev := m.Step(now.Add(2400*time.Millisecond), machineInputs{TouchValue: rawIdle, Level: 0})
	if ev != eventNone {
		t.Fatalf("silence window not rearmed: got %v", ev)
	}
}

func TestSafetyCeiling(t *testing.T) {
	m := newTouchMachine(testMachineConfig())
	now := startRecording(t, m, time.Unix(0, 0))

	// Loud audio the whole way: only the ceiling can end it.
	for elapsed := time.Second; elapsed < 30*time.Second; elapsed += 5 * time.Second {
		if ev := m.Step(now.Add(elapsed), machineInputs{TouchValue: rawIdle, Level: 80}); ev != eventNone {
			t.Fatalf("at %v got %v", elapsed, ev)
		}
	}
	if ev := m.Step(now.Add(30*time.Second), machineInputs{TouchValue: rawIdle, Level: 80}); ev != eventProcessingMaxDuration {
		t.Fatalf("got %v, want ceiling", ev)
	}
}

func TestSafetyCeilingFromSilence(t *testing.T) {
	cfg := testMachineConfig()
	cfg.SilenceAfter = time.Hour // silence path disabled
	m := newTouchMachine(cfg)
	now := startRecording(t, m, time.Unix(0, 0))

	m.Step(now.Add(time.Second), machineInputs{TouchValue: rawIdle, Level: 0})
	if m.State() != stateRecordingSilence {
		t.Fatal("expected silence state")
	}
	if ev := m.Step(now.Add(31*time.Second), machineInputs{TouchValue: rawIdle, Level: 0}); ev != eventProcessingMaxDuration {
		t.Fatalf("got %v, want ceiling from silence", ev)
	}
}

func TestFinishProcessingReturnsToIdle(t *testing.T) {
	m := newTouchMachine(testMachineConfig())
	now := startRecording(t, m, time.Unix(0, 0))

	m.Step(now.Add(time.Second), machineInputs{TouchValue: rawIdle, Level: 0})
	m.Step(now.Add(4*time.Second), machineInputs{TouchValue: rawIdle, Level: 0})
	if m.State() != stateProcessing {
		t.Fatalf("state = %v, want processing", m.State())
	}

	// Parked until the scheduler finishes; steps do nothing.
	if ev := m.Step(now.Add(5*time.Second), machineInputs{TouchValue: rawTouched, Level: 90}); ev != eventNone {
		t.Fatalf("processing step produced %v", ev)
	}

	m.FinishProcessing()
	if m.State() != stateIdle {
		t.Fatalf("state = %v, want idle", m.State())
	}

	// FinishProcessing outside Processing is a no-op.
	m.FinishProcessing()
	if m.State() != stateIdle {
		t.Fatal("redundant finish changed state")
	}
}

// Level sequence walking a session through silence, speech resumption
// and a final silence that ends it. One step per 500ms.
func TestLevelSequenceScenario(t *testing.T) {
	cfg := testMachineConfig()
	m := newTouchMachine(cfg)
	start := startRecording(t, m, time.Unix(0, 0))

	levels := []int{0, 0, 0, 90, 90, 0, 0, 0, 0}
	wantEvents := []machineEvent{
		eventSilenceStarted,  // t=0.5s: quiet from the start
		eventNone,            // t=1.0s: window running
		eventNone,            // t=1.5s
		eventSpeechResumed,   // t=2.0s: speech before the 2s window fires
		eventNone,            // t=2.5s
		eventSilenceStarted,  // t=3.0s: quiet again
		eventNone,            // t=3.5s
		eventNone,            // t=4.0s
		eventNone,            // t=4.5s: window fires at 5.0s, not yet
	}

	now := start
	for i, level := range levels {
		now = now.Add(500 * time.Millisecond)
		ev := m.Step(now, machineInputs{TouchValue: rawIdle, Level: level})
		if ev != wantEvents[i] {
			t.Fatalf("step %d (level %d): got %v, want %v", i, level, ev, wantEvents[i])
		}
	}

	// One more quiet step past the window finishes the session; the
	// 1s floor passed long ago.
	now = now.Add(500 * time.Millisecond)
	if ev := m.Step(now, machineInputs{TouchValue: rawIdle, Level: 0}); ev != eventProcessingSilence {
		t.Fatalf("final step: got %v, want processing", ev)
	}
}
