package seek

import (
	"math"
	"reflect"
	"testing"

	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/capture"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/haptic"
)

func recorded() haptic.Pattern {
	return capture.Reconstruct([]haptic.RawSample{
		{Kind: haptic.SampleContinuousStart, Timestamp: 0, Intensity: 0.5, Sharpness: 0.5},
		{Kind: haptic.SampleContinuousUpdate, Timestamp: 200, Intensity: 0.8, Sharpness: 0.6},
		{Kind: haptic.SampleContinuousEnd, Timestamp: 500},
	})
}

func mixed() haptic.Pattern {
	return haptic.Pattern{
		Events: []haptic.Event{
			haptic.Transient{RelativeTime: 50, Parameters: haptic.Params(1, 0.5)},
			haptic.Continuous{RelativeTime: 0, Duration: 400, Parameters: haptic.Params(0.5, 0.25)},
			haptic.Transient{RelativeTime: 300, Parameters: haptic.Params(0.75, 1)},
			haptic.Continuous{RelativeTime: 256, Duration: 128, Parameters: haptic.Params(1, 1)},
		},
		Curves: []haptic.Curve{
			{Kind: haptic.Intensity, RelativeTime: 0, ControlPoints: []haptic.ControlPoint{{RelativeTime: 0, Value: 0}, {RelativeTime: 128, Value: 1}, {RelativeTime: 256, Value: 0.5}, {RelativeTime: 400, Value: 0}}},
			{Kind: haptic.Sharpness, RelativeTime: 0, ControlPoints: []haptic.ControlPoint{{RelativeTime: 0, Value: 0.25}, {RelativeTime: 400, Value: 0.75}}},
			{Kind: haptic.Intensity, RelativeTime: 256, ControlPoints: []haptic.ControlPoint{{RelativeTime: 0, Value: 1}, {RelativeTime: 64, Value: 0}, {RelativeTime: 128, Value: 1}}},
		},
	}
}

func TestTrimIdentity(t *testing.T) {
	p := mixed()
	if got := Trim(p, 0); !reflect.DeepEqual(got, p) {
		t.Fatalf("trim at 0 should be identity")
	}
	if got := Trim(p, -10); !reflect.DeepEqual(got, p) {
		t.Fatalf("negative seek should be identity")
	}
}

func TestTrimNaNIsIdentity(t *testing.T) {
	p := mixed()
	if got := Trim(p, math.NaN()); !reflect.DeepEqual(got, p) {
		t.Fatalf("trim at NaN should return the pattern unchanged")
	}
}

func TestTrimDropsPastTransient(t *testing.T) {
	p := haptic.Pattern{Events: []haptic.Event{haptic.Transient{RelativeTime: 50}}}
	if got := Trim(p, 100); len(got.Events) != 0 {
		t.Fatalf("expected no events, got %+v", got.Events)
	}
}

func TestTrimKeepsTransientAtSeek(t *testing.T) {
	p := haptic.Pattern{Events: []haptic.Event{haptic.Transient{RelativeTime: 100}}}
	got := Trim(p, 100)
	if len(got.Events) != 1 || got.Events[0].Start() != 0 {
		t.Fatalf("transient at seek should move to 0, got %+v", got.Events)
	}
}

func TestTrimBoundaryInterpolation(t *testing.T) {
	p := haptic.Pattern{Curves: []haptic.Curve{
		{Kind: haptic.Intensity, RelativeTime: 0, ControlPoints: []haptic.ControlPoint{{RelativeTime: 0, Value: 0.2}, {RelativeTime: 100, Value: 0.8}}},
	}}
	got := Trim(p, 50)
	if len(got.Curves) != 1 {
		t.Fatalf("expected 1 curve, got %d", len(got.Curves))
	}
	pts := got.Curves[0].ControlPoints
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %v", pts)
	}
	if pts[0].RelativeTime != 0 || math.Abs(pts[0].Value-0.5) > 1e-9 {
		t.Fatalf("first point = %+v, want {0 0.5}", pts[0])
	}
	if pts[1].RelativeTime != 50 || pts[1].Value != 0.8 {
		t.Fatalf("second point = %+v, want {50 0.8}", pts[1])
	}
}

func TestTrimExactPointBecomesStart(t *testing.T) {
	p := haptic.Pattern{Curves: []haptic.Curve{
		{Kind: haptic.Sharpness, RelativeTime: 10, ControlPoints: []haptic.ControlPoint{{RelativeTime: 0, Value: 0.1}, {RelativeTime: 40, Value: 0.3}, {RelativeTime: 90, Value: 0.9}}},
	}}
	got := Trim(p, 50)
	want := []haptic.ControlPoint{{RelativeTime: 0, Value: 0.3}, {RelativeTime: 50, Value: 0.9}}
	if !reflect.DeepEqual(got.Curves[0].ControlPoints, want) {
		t.Fatalf("points = %v, want %v", got.Curves[0].ControlPoints, want)
	}
}

func TestTrimZeroWidthSegmentUsesLaterValue(t *testing.T) {
	// Two points share t=50.
	c := haptic.Curve{Kind: haptic.Intensity, ControlPoints: []haptic.ControlPoint{{RelativeTime: 0, Value: 0}, {RelativeTime: 50, Value: 0.2}, {RelativeTime: 50, Value: 0.9}, {RelativeTime: 100, Value: 1}}}
	if v := lerp(c.ControlPoints[1], c.ControlPoints[2], 50); v != 0.9 {
		t.Fatalf("zero-width lerp = %v, want 0.9", v)
	}
	got := Trim(haptic.Pattern{Curves: []haptic.Curve{c}}, 50)
	pts := got.Curves[0].ControlPoints
	if pts[0].RelativeTime != 0 || pts[0].Value != 0.2 {
		t.Fatalf("expected exact point at seek to lead, got %v", pts)
	}
	for _, cp := range pts {
		if math.IsNaN(cp.Value) {
			t.Fatalf("NaN in trimmed curve %v", pts)
		}
	}
}

func TestTrimDropsCurveWithNoSurvivingPoints(t *testing.T) {
	p := haptic.Pattern{Curves: []haptic.Curve{
		{Kind: haptic.Intensity, RelativeTime: 0, ControlPoints: []haptic.ControlPoint{{RelativeTime: 0, Value: 1}, {RelativeTime: 100, Value: 0}}},
	}}
	if got := Trim(p, 100); len(got.Curves) != 0 {
		t.Fatalf("curve ending at seek should be dropped, got %+v", got.Curves)
	}
}

func TestTrimRecordedScenario(t *testing.T) {
	got := Trim(recorded(), 300)
	want := []haptic.Event{haptic.Continuous{RelativeTime: 0, Duration: 200, Parameters: haptic.Params(0.5, 0.5)}}
	if !reflect.DeepEqual(got.Events, want) {
		t.Fatalf("events = %+v, want %+v", got.Events, want)
	}
	// The event is still playing, so each curve holds its last value.
	wantCurves := []haptic.Curve{
		{Kind: haptic.Intensity, RelativeTime: 0, ControlPoints: []haptic.ControlPoint{{RelativeTime: 0, Value: 0.8}}},
		{Kind: haptic.Sharpness, RelativeTime: 0, ControlPoints: []haptic.ControlPoint{{RelativeTime: 0, Value: 0.6}}},
	}
	if !reflect.DeepEqual(got.Curves, wantCurves) {
		t.Fatalf("curves = %+v, want %+v", got.Curves, wantCurves)
	}
	if got.Curves[0].Significant() {
		t.Fatalf("held curve should not count as modulation")
	}
}

func TestTrimDropsCurveAfterOwnerEnds(t *testing.T) {
	if got := Trim(recorded(), 500); len(got.Events) != 0 || len(got.Curves) != 0 {
		t.Fatalf("expected empty pattern, got %+v", got)
	}
}

func TestTrimRecordedInsideCurve(t *testing.T) {
	got := Trim(recorded(), 100)
	if len(got.Curves) != 2 {
		t.Fatalf("expected 2 curves, got %d", len(got.Curves))
	}
	in := got.Curves[0].ControlPoints
	if len(in) != 2 || math.Abs(in[0].Value-0.65) > 1e-9 || in[1].RelativeTime != 100 || in[1].Value != 0.8 {
		t.Fatalf("intensity points = %v", in)
	}
	ev := got.Events[0].(haptic.Continuous)
	if ev.RelativeTime != 0 || ev.Duration != 400 {
		t.Fatalf("event = %+v", ev)
	}
}

func TestTrimStraddlingContinuous(t *testing.T) {
	got := Trim(mixed(), 100)
	var cont []haptic.Continuous
	for _, ev := range got.Events {
		if c, ok := ev.(haptic.Continuous); ok {
			cont = append(cont, c)
		}
	}
	if len(cont) != 2 {
		t.Fatalf("expected 2 continuous events, got %+v", got.Events)
	}
	if cont[0].RelativeTime != 0 || cont[0].Duration != 300 {
		t.Fatalf("straddling event = %+v, want {0 300}", cont[0])
	}
	if cont[1].RelativeTime != 156 || cont[1].Duration != 128 {
		t.Fatalf("later event = %+v, want {156 128}", cont[1])
	}
}

func TestTrimComposes(t *testing.T) {
	cases := []struct{ a, b float64 }{{100, 50}, {64, 64}, {1, 255}, {200, 100}, {300, 50}}
	for _, tc := range cases {
		p := mixed()
		twice := Trim(Trim(p, tc.a), tc.b)
		once := Trim(p, tc.a+tc.b)
		if !patternsClose(twice, once) {
			t.Fatalf("trim(trim(p,%v),%v) != trim(p,%v)\n got  %+v\n want %+v", tc.a, tc.b, tc.a+tc.b, twice, once)
		}
	}
}

func TestTrimDoesNotMutateInput(t *testing.T) {
	p := mixed()
	before := p.Clone()
	Trim(p, 130)
	if !reflect.DeepEqual(p, before) {
		t.Fatalf("input mutated")
	}
}

func TestTrimKeepsPointOrder(t *testing.T) {
	for seek := 1.0; seek < 400; seek += 37 {
		for _, c := range Trim(mixed(), seek).Curves {
			if c.ControlPoints[0].RelativeTime != 0 && c.RelativeTime == 0 {
				t.Fatalf("seek %v: cut curve does not start at 0: %v", seek, c.ControlPoints)
			}
			for i := 1; i < len(c.ControlPoints); i++ {
				if c.ControlPoints[i].RelativeTime < c.ControlPoints[i-1].RelativeTime {
					t.Fatalf("seek %v: points out of order %v", seek, c.ControlPoints)
				}
			}
		}
	}
}

func patternsClose(a, b haptic.Pattern) bool {
	if len(a.Events) != len(b.Events) || len(a.Curves) != len(b.Curves) {
		return false
	}
	for i := range a.Events {
		if reflect.TypeOf(a.Events[i]) != reflect.TypeOf(b.Events[i]) ||
			!near(a.Events[i].Start(), b.Events[i].Start()) ||
			!near(a.Events[i].End(), b.Events[i].End()) {
			return false
		}
	}
	for i := range a.Curves {
		ca, cb := a.Curves[i], b.Curves[i]
		if ca.Kind != cb.Kind || !near(ca.RelativeTime, cb.RelativeTime) || len(ca.ControlPoints) != len(cb.ControlPoints) {
			return false
		}
		for j := range ca.ControlPoints {
			if !near(ca.ControlPoints[j].RelativeTime, cb.ControlPoints[j].RelativeTime) ||
				!near(ca.ControlPoints[j].Value, cb.ControlPoints[j].Value) {
				return false
			}
		}
	}
	return true
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
