package haptic

import "math"

// ParamValue returns the value of the first parameter of the given kind, or
// def when none is present.
func ParamValue(params []Parameter, kind ParamKind, def float64) float64 {
	for _, p := range params {
		if p.Kind == kind {
			return p.Value
		}
	}
	return def
}

func IntensityOf(params []Parameter) float64 {
	return ParamValue(params, Intensity, DefaultIntensity)
}

func SharpnessOf(params []Parameter) float64 {
	return ParamValue(params, Sharpness, DefaultSharpness)
}

// Params builds the canonical [intensity, sharpness] parameter list.
func Params(intensity, sharpness float64) []Parameter {
	return []Parameter{
		{Kind: Intensity, Value: intensity},
		{Kind: Sharpness, Value: sharpness},
	}
}

// Near reports whether two timestamps fall within MatchTolerance.
func Near(a, b float64) bool {
	return math.Abs(a-b) < MatchTolerance
}

// CurveFor returns the first curve of the given kind whose start matches t.
func CurveFor(curves []Curve, kind ParamKind, t float64) (Curve, bool) {
	for _, c := range curves {
		if c.Kind == kind && Near(c.RelativeTime, t) {
			return c, true
		}
	}
	return Curve{}, false
}

func cloneParams(params []Parameter) []Parameter {
	if params == nil {
		return nil
	}
	out := make([]Parameter, len(params))
	copy(out, params)
	return out
}

func clonePoints(points []ControlPoint) []ControlPoint {
	if points == nil {
		return nil
	}
	out := make([]ControlPoint, len(points))
	copy(out, points)
	return out
}

// Clone returns a deep copy of the pattern.
func (p Pattern) Clone() Pattern {
	out := Pattern{
		Events: make([]Event, 0, len(p.Events)),
		Curves: make([]Curve, 0, len(p.Curves)),
	}
	for _, ev := range p.Events {
		out.Events = append(out.Events, ShiftEvent(ev, 0))
	}
	for _, c := range p.Curves {
		out.Curves = append(out.Curves, Curve{Kind: c.Kind, RelativeTime: c.RelativeTime, ControlPoints: clonePoints(c.ControlPoints)})
	}
	return out
}

// ShiftEvent returns a copy of ev moved left by offset ms.
func ShiftEvent(ev Event, offset float64) Event {
	switch e := ev.(type) {
	case Transient:
		return Transient{RelativeTime: e.RelativeTime - offset, Parameters: cloneParams(e.Parameters)}
	case Continuous:
		return Continuous{RelativeTime: e.RelativeTime - offset, Duration: e.Duration, Parameters: cloneParams(e.Parameters)}
	}
	panic("haptic: unknown event type")
}

// ShiftCurve returns a copy of c moved left by offset ms.
func ShiftCurve(c Curve, offset float64) Curve {
	return Curve{Kind: c.Kind, RelativeTime: c.RelativeTime - offset, ControlPoints: clonePoints(c.ControlPoints)}
}
