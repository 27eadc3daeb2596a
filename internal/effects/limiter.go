package effects

import "math"

// Limiter holds the preview's peak level under a ceiling. Summed haptic
// voices easily exceed full scale when events overlap.
type Limiter struct {
	ceiling float32
	attack  float32 // coefficient
	release float32 // coefficient
	env     float32
}

// NewLimiter creates a limiter.
// ceilingDB: maximum output level in dBFS (e.g. -3)
// attackMs: how fast gain reduction engages
// releaseMs: how fast it recovers
func NewLimiter(sampleRate int, ceilingDB, attackMs, releaseMs float32) *Limiter {
	sr := float64(sampleRate)
	return &Limiter{
		ceiling: float32(math.Pow(10, float64(ceilingDB)/20)),
		attack:  float32(1.0 - math.Exp(-1.0/(float64(attackMs)*sr/1000.0))),
		release: float32(1.0 - math.Exp(-1.0/(float64(releaseMs)*sr/1000.0))),
	}
}

func (lm *Limiter) Process(l, r float32) (float32, float32) {
	peak := float32(math.Max(math.Abs(float64(l)), math.Abs(float64(r))))
	if peak > lm.env {
		lm.env += lm.attack * (peak - lm.env)
	} else {
		lm.env += lm.release * (peak - lm.env)
	}
	gain := float32(1)
	if lm.env > lm.ceiling {
		gain = lm.ceiling / lm.env
	}
	l, r = l*gain, r*gain
	// The envelope lags on attack; clamp whatever gets through.
	return clamp(l, lm.ceiling), clamp(r, lm.ceiling)
}

func (lm *Limiter) Reset() {
	lm.env = 0
}

func clamp(v, limit float32) float32 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
