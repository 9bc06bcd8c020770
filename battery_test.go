package main

import (
	"testing"
	"time"
)

// scriptedSampler replays millivolt readings, repeating the last one.
func scriptedSampler(readings ...int) batterySampler {
	i := 0
	return func() int {
		v := readings[i]
		if i < len(readings)-1 {
			i++
		}
		return v
	}
}

func TestBatteryFirstReadingUnsmoothed(t *testing.T) {
	// 1950mV at the pin is 3900mV pack: (3900-3300)/(4200-3300) = 66%.
	b := newBatteryMonitor(scriptedSampler(1950), time.Minute)

	now := time.Unix(0, 0)
	if !b.Due(now) {
		t.Fatal("fresh monitor must be due immediately")
	}
	if !b.Recompute(now) {
		t.Fatal("first recompute must report a change")
	}
	if b.Percent() != 66 {
		t.Fatalf("percent = %d, want 66", b.Percent())
	}
	if b.Voltage() != 3900 {
		t.Fatalf("voltage = %d, want 3900", b.Voltage())
	}
}

func TestBatterySmoothingLimitsStep(t *testing.T) {
	readings := make([]int, 0, 64)
	for i := 0; i < 16; i++ {
		readings = append(readings, 2100) // 4200mV pack = 100%
	}
	readings = append(readings, 1650) // 3300mV pack = 0%
	b := newBatteryMonitor(scriptedSampler(readings...), time.Minute)

	now := time.Unix(0, 0)
	b.Recompute(now)
	if b.Percent() != 100 {
		t.Fatalf("primed percent = %d, want 100", b.Percent())
	}

	// The pack did not really die; the reading glitched. Reported
	// level may only fall two points per recompute.
	for i := 1; i <= 3; i++ {
		now = now.Add(time.Minute)
		if !b.Recompute(now) {
			t.Fatalf("recompute %d reported no change", i)
		}
		want := 100 - i*batteryMaxStep
		if b.Percent() != want {
			t.Fatalf("after recompute %d percent = %d, want %d", i, b.Percent(), want)
		}
	}
}

func TestBatteryClamping(t *testing.T) {
	b := newBatteryMonitor(scriptedSampler(2500), time.Minute) // 5000mV, absurd
	b.Recompute(time.Unix(0, 0))
	if b.Percent() != 100 {
		t.Fatalf("over-voltage percent = %d, want 100", b.Percent())
	}
	if b.Voltage() != batteryMaxMV {
		t.Fatalf("voltage not clamped: %d", b.Voltage())
	}

	low := newBatteryMonitor(scriptedSampler(1000), time.Minute) // 2000mV
	low.Recompute(time.Unix(0, 0))
	if low.Percent() != 0 {
		t.Fatalf("under-voltage percent = %d, want 0", low.Percent())
	}
}

func TestBatteryDueInterval(t *testing.T) {
	b := newBatteryMonitor(scriptedSampler(1950), time.Minute)
	now := time.Unix(0, 0)
	b.Recompute(now)

	if b.Due(now.Add(30 * time.Second)) {
		t.Fatal("due before the interval elapsed")
	}
	if !b.Due(now.Add(time.Minute)) {
		t.Fatal("not due after the interval elapsed")
	}
}
