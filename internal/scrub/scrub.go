package scrub

import (
	"math"
	"sort"

	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/haptic"
)

// Interpolate evaluates points at local time t. A point within 1ms of t is
// returned verbatim; outside the points' range the nearest end is held. An
// empty list yields fallback.
func Interpolate(points []haptic.ControlPoint, t, fallback float64) float64 {
	if len(points) == 0 {
		return fallback
	}
	for i := 0; i+1 < len(points); i++ {
		p1, p2 := points[i], points[i+1]
		if t < p1.RelativeTime || t > p2.RelativeTime {
			continue
		}
		if haptic.Near(t, p1.RelativeTime) {
			return p1.Value
		}
		if haptic.Near(t, p2.RelativeTime) {
			return p2.Value
		}
		span := p2.RelativeTime - p1.RelativeTime
		if span == 0 {
			return p2.Value
		}
		return p1.Value + (t-p1.RelativeTime)/span*(p2.Value-p1.Value)
	}
	if t <= points[0].RelativeTime {
		return points[0].Value
	}
	return points[len(points)-1].Value
}

// Expand turns a pattern back into the sample stream a capture would have
// produced: one sample per transient, and for each continuous event a start,
// an update at every curve point time, and an end.
func Expand(p haptic.Pattern) []haptic.RawSample {
	out := make([]haptic.RawSample, 0, len(p.Events)*2)
	for _, ev := range p.Events {
		switch e := ev.(type) {
		case haptic.Transient:
			out = append(out, haptic.RawSample{
				Kind:      haptic.SampleTransient,
				Timestamp: e.RelativeTime,
				Intensity: haptic.IntensityOf(e.Parameters),
				Sharpness: haptic.SharpnessOf(e.Parameters),
			})
		case haptic.Continuous:
			out = appendContinuous(out, e, p.Curves)
		}
	}
	return out
}

func appendContinuous(out []haptic.RawSample, e haptic.Continuous, curves []haptic.Curve) []haptic.RawSample {
	baseI := haptic.IntensityOf(e.Parameters)
	baseS := haptic.SharpnessOf(e.Parameters)
	out = append(out, haptic.RawSample{
		Kind:      haptic.SampleContinuousStart,
		Timestamp: e.RelativeTime,
		Intensity: baseI,
		Sharpness: baseS,
	})

	ic, hasI := haptic.CurveFor(curves, haptic.Intensity, e.RelativeTime)
	sc, hasS := haptic.CurveFor(curves, haptic.Sharpness, e.RelativeTime)
	for _, t := range updateTimes(ic.ControlPoints, sc.ControlPoints) {
		i, s := baseI, baseS
		if hasI {
			i = Interpolate(ic.ControlPoints, t, baseI)
		}
		if hasS {
			s = Interpolate(sc.ControlPoints, t, baseS)
		}
		out = append(out, haptic.RawSample{
			Kind:      haptic.SampleContinuousUpdate,
			Timestamp: e.RelativeTime + t,
			Intensity: i,
			Sharpness: s,
		})
	}

	return append(out, haptic.RawSample{
		Kind:      haptic.SampleContinuousEnd,
		Timestamp: e.End(),
		Intensity: baseI,
		Sharpness: baseS,
	})
}

// updateTimes is the sorted set of positive local times found in either list.
func updateTimes(a, b []haptic.ControlPoint) []float64 {
	seen := make(map[float64]struct{}, len(a)+len(b))
	times := make([]float64, 0, len(a)+len(b))
	for _, pts := range [][]haptic.ControlPoint{a, b} {
		for _, cp := range pts {
			if cp.RelativeTime <= 0 {
				continue
			}
			if _, ok := seen[cp.RelativeTime]; ok {
				continue
			}
			seen[cp.RelativeTime] = struct{}{}
			times = append(times, cp.RelativeTime)
		}
	}
	sort.Float64s(times)
	return times
}

// At reports the intensity and sharpness playing at ms. The latest-starting
// continuous event covering ms wins; active is false when none does.
func At(p haptic.Pattern, ms float64) (intensity, sharpness float64, active bool) {
	start := math.Inf(-1)
	for _, ev := range p.Events {
		e, ok := ev.(haptic.Continuous)
		if !ok || ms < e.RelativeTime || ms >= e.End() || e.RelativeTime < start {
			continue
		}
		start = e.RelativeTime
		intensity = haptic.IntensityOf(e.Parameters)
		sharpness = haptic.SharpnessOf(e.Parameters)
		if c, ok := haptic.CurveFor(p.Curves, haptic.Intensity, e.RelativeTime); ok {
			intensity = Interpolate(c.ControlPoints, ms-c.RelativeTime, intensity)
		}
		if c, ok := haptic.CurveFor(p.Curves, haptic.Sharpness, e.RelativeTime); ok {
			sharpness = Interpolate(c.ControlPoints, ms-c.RelativeTime, sharpness)
		}
		active = true
	}
	return intensity, sharpness, active
}
