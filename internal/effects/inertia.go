package effects

import "math"

// Inertia is a one-pole low-pass that mimics an actuator's inability to
// follow instant changes, softening clicks at event boundaries.
type Inertia struct {
	alpha  float32
	lp, rp float32
}

// NewInertia creates the filter with the given corner frequency in Hz.
func NewInertia(sampleRate int, cutoffHz float32) *Inertia {
	rc := 1.0 / (2.0 * math.Pi * float64(cutoffHz))
	dt := 1.0 / float64(sampleRate)
	return &Inertia{alpha: float32(dt / (rc + dt))}
}

func (in *Inertia) Process(l, r float32) (float32, float32) {
	in.lp += in.alpha * (l - in.lp)
	in.rp += in.alpha * (r - in.rp)
	return in.lp, in.rp
}

func (in *Inertia) Reset() {
	in.lp, in.rp = 0, 0
}
