package envelope

import (
	"math"

	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/haptic"
)

// Fade describes the editor's fade-in/fade-out controls for a continuous
// event. A zero duration disables that side of the fade. Levels scale the
// event's base intensity at the start (fade-in) or end (fade-out).
type Fade struct {
	InLevel  float64 `json:"fadeInLevel"`
	InMs     float64 `json:"fadeInMs"`
	OutLevel float64 `json:"fadeOutLevel"`
	OutMs    float64 `json:"fadeOutMs"`
}

// Enabled reports whether either side of the fade is active.
func (f Fade) Enabled() bool {
	return f.InMs > 0 || f.OutMs > 0
}

// FadedContinuous is a continuous event as the pattern editor holds it.
type FadedContinuous struct {
	RelativeTime float64 `json:"relativeTime"`
	Duration     float64 `json:"duration"`
	Intensity    float64 `json:"intensity"`
	Sharpness    float64 `json:"sharpness"`
	Fade
}

// Synthesize builds the intensity curve realizing ev's fades. It returns
// false when no fade is enabled and the base intensity alone applies.
func Synthesize(ev FadedContinuous) (haptic.Curve, bool) {
	if !ev.Enabled() {
		return haptic.Curve{}, false
	}
	duration := math.Max(ev.Duration, 0)
	fadeIn := ev.InMs > 0
	fadeOut := ev.OutMs > 0
	inMs := math.Min(math.Max(ev.InMs, 0), duration)
	outMs := math.Min(math.Max(ev.OutMs, 0), duration)

	points := make([]haptic.ControlPoint, 0, 4)
	start := ev.Intensity
	if fadeIn {
		start = ev.InLevel * ev.Intensity
	}
	points = append(points, haptic.ControlPoint{RelativeTime: 0, Value: start})

	var fadeInEnd float64
	if fadeIn {
		fadeInEnd = inMs
		points = append(points, haptic.ControlPoint{RelativeTime: fadeInEnd, Value: ev.Intensity})
	}

	// Sustain only when a flat region remains between the two ramps.
	fadeOutStart := math.Max(duration-outMs, 0)
	if fadeInEnd < fadeOutStart {
		points = append(points, haptic.ControlPoint{RelativeTime: fadeOutStart, Value: ev.Intensity})
	}

	if fadeOut {
		points = append(points, haptic.ControlPoint{RelativeTime: duration, Value: ev.OutLevel * ev.Intensity})
	}

	return haptic.Curve{
		Kind:          haptic.Intensity,
		RelativeTime:  ev.RelativeTime,
		ControlPoints: points,
	}, true
}
