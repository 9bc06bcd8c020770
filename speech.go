package main

// Speech detection without an FFT budget: successive sample
// differences approximate high-frequency content, and summing them
// over three coarse index bands gives a crude spectral shape. Speech
// concentrates energy in the middle band; hiss and hum do not. This is
// a heuristic tuned on-device, not a VAD.
const (
	speechEnergyFloor   = 2.0e7
	speechSpectralFloor = 5000.0
	speechMidRatioLow   = 0.2
	speechMidRatioHigh  = 0.8
)

func isSpeech(samples []int16) bool {
	n := len(samples)
	if n < 16 {
		return false
	}

	var energy float64
	for _, s := range samples {
		energy += float64(s) * float64(s)
	}
	energy /= float64(n)
	if energy < speechEnergyFloor {
		return false
	}

	bandEdge1 := n / 12
	bandEdge2 := n / 6
	bandEdge3 := n / 4

	var low, mid, high float64
	for i := 1; i < bandEdge3; i++ {
		diff := float64(samples[i]) - float64(samples[i-1])
		if diff < 0 {
			diff = -diff
		}
		switch {
		case i < bandEdge1:
			low += diff
		case i < bandEdge2:
			mid += diff
		default:
			high += diff
		}
	}

	total := low + mid + high
	if total < speechSpectralFloor {
		return false
	}

	midRatio := mid / total
	return midRatio > speechMidRatioLow && midRatio < speechMidRatioHigh
}
