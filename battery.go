package main

import "time"

// batteryMonitor turns averaged pin voltage samples into a smoothed
// percentage. The pack sits behind a 1:2 divider; readings are
// averaged to ride out ADC noise, clamped to the LiPo working range,
// mapped linearly, then the reported value moves at most two points
// per recompute so the host never sees the level jitter.
const (
	batterySampleCount  = 16
	batteryDividerRatio = 2
	batteryMinMV        = 3300 // empty
	batteryMaxMV        = 4200 // full
	batteryMaxStep      = 2
)

// batterySampler reads the raw pin voltage in millivolts.
type batterySampler func() int

type batteryMonitor struct {
	sample   batterySampler
	interval time.Duration

	percent int
	voltage int // pack millivolts after the divider
	lastRun time.Time
	primed  bool
}

func newBatteryMonitor(sample batterySampler, interval time.Duration) *batteryMonitor {
	return &batteryMonitor{sample: sample, interval: interval}
}

func (b *batteryMonitor) Percent() int { return b.percent }
func (b *batteryMonitor) Voltage() int { return b.voltage }

// Due reports whether a recompute should run this tick.
func (b *batteryMonitor) Due(now time.Time) bool {
	return !b.primed || now.Sub(b.lastRun) >= b.interval
}

// Recompute samples the pin and updates the smoothed percentage.
// Returns true when the reported value changed.
func (b *batteryMonitor) Recompute(now time.Time) bool {
	b.lastRun = now

	var sum int
	for i := 0; i < batterySampleCount; i++ {
		sum += b.sample()
	}
	mv := sum / batterySampleCount * batteryDividerRatio

	if mv < batteryMinMV {
		mv = batteryMinMV
	} else if mv > batteryMaxMV {
		mv = batteryMaxMV
	}
	b.voltage = mv

	target := (mv - batteryMinMV) * 100 / (batteryMaxMV - batteryMinMV)

	if !b.primed {
		// First reading is taken as-is so boot does not crawl up
		// from zero.
		b.primed = true
		b.percent = target
		return true
	}

	prev := b.percent
	switch {
	case target > b.percent+batteryMaxStep:
		b.percent += batteryMaxStep
	case target < b.percent-batteryMaxStep:
		b.percent -= batteryMaxStep
	default:
		b.percent = target
	}
	return b.percent != prev
}
