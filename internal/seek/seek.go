package seek

import (
	"math"

	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/haptic"
)

// Trim returns the part of p that remains when playback starts at seekMs,
// re-based so that seekMs becomes time zero. Curves cut mid-way gain an
// interpolated point at their new start. A non-positive or NaN seekMs
// returns p.
func Trim(p haptic.Pattern, seekMs float64) haptic.Pattern {
	if seekMs <= 0 || math.IsNaN(seekMs) {
		return p
	}
	out := haptic.Pattern{
		Events: make([]haptic.Event, 0, len(p.Events)),
		Curves: make([]haptic.Curve, 0, len(p.Curves)),
	}
	for _, ev := range p.Events {
		if trimmed, ok := trimEvent(ev, seekMs); ok {
			out.Events = append(out.Events, trimmed)
		}
	}
	for _, c := range p.Curves {
		if trimmed, ok := trimCurve(c, seekMs, p.Events); ok {
			out.Curves = append(out.Curves, trimmed)
		}
	}
	return out
}

func trimEvent(ev haptic.Event, seekMs float64) (haptic.Event, bool) {
	switch e := ev.(type) {
	case haptic.Transient:
		if e.RelativeTime < seekMs {
			return nil, false
		}
		return haptic.ShiftEvent(e, seekMs), true
	case haptic.Continuous:
		end := e.End()
		switch {
		case end <= seekMs:
			return nil, false
		case e.RelativeTime >= seekMs:
			return haptic.ShiftEvent(e, seekMs), true
		}
		cut := haptic.ShiftEvent(e, seekMs).(haptic.Continuous)
		cut.RelativeTime = 0
		cut.Duration = end - seekMs
		return cut, true
	}
	return nil, false
}

func trimCurve(c haptic.Curve, seekMs float64, events []haptic.Event) (haptic.Curve, bool) {
	switch {
	case c.End() <= seekMs:
		return holdLast(c, seekMs, events)
	case c.RelativeTime >= seekMs:
		return haptic.ShiftCurve(c, seekMs), true
	}

	offset := seekMs - c.RelativeTime
	points := make([]haptic.ControlPoint, 0, len(c.ControlPoints)+1)
	var prev *haptic.ControlPoint
	for i, cp := range c.ControlPoints {
		if cp.RelativeTime < offset {
			prev = &c.ControlPoints[i]
			continue
		}
		if len(points) == 0 && cp.RelativeTime != offset {
			// Without an earlier point the first kept value is held back to zero.
			v := cp.Value
			if prev != nil {
				v = lerp(*prev, cp, offset)
			}
			points = append(points, haptic.ControlPoint{RelativeTime: 0, Value: v})
		}
		points = append(points, haptic.ControlPoint{RelativeTime: cp.RelativeTime - offset, Value: cp.Value})
	}
	if len(points) == 0 {
		return haptic.Curve{}, false
	}
	return haptic.Curve{Kind: c.Kind, RelativeTime: 0, ControlPoints: points}, true
}

// holdLast keeps a curve whose points all precede the seek as a single point
// at its final value, but only while the continuous event it belongs to is
// still playing at seekMs. Otherwise the curve is dropped.
func holdLast(c haptic.Curve, seekMs float64, events []haptic.Event) (haptic.Curve, bool) {
	if len(c.ControlPoints) == 0 {
		return haptic.Curve{}, false
	}
	for _, ev := range events {
		e, ok := ev.(haptic.Continuous)
		if !ok || !haptic.Near(e.RelativeTime, c.RelativeTime) {
			continue
		}
		if e.RelativeTime < seekMs && e.End() > seekMs {
			last := c.ControlPoints[len(c.ControlPoints)-1]
			return haptic.Curve{
				Kind:          c.Kind,
				RelativeTime:  0,
				ControlPoints: []haptic.ControlPoint{{RelativeTime: 0, Value: last.Value}},
			}, true
		}
	}
	return haptic.Curve{}, false
}

// lerp evaluates the segment a→b at local time t. A zero-width segment
// yields b's value.
func lerp(a, b haptic.ControlPoint, t float64) float64 {
	span := b.RelativeTime - a.RelativeTime
	if span == 0 {
		return b.Value
	}
	ratio := (t - a.RelativeTime) / span
	return a.Value + ratio*(b.Value-a.Value)
}
