// Package touchpad reads the capacitive touch surface. Lower readings
// mean touched; the threshold that decides is owned by the state
// machine, not the sensor.
package touchpad

type Sensor interface {
	// Read returns the current raw touch value. Must never block.
	Read() int
}

// Raw values reported by the substitute sensors. Real capacitive pads
// sit near the idle value and drop toward zero under a finger.
const (
	ValueTouched = 0
	ValueIdle    = 100
)
