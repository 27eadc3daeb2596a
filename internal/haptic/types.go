package haptic

import "math"

// ParamKind names the axis a Parameter or Curve controls.
type ParamKind int

const (
	Intensity ParamKind = iota + 1
	Sharpness
)

const (
	DefaultIntensity = 1.0
	DefaultSharpness = 0.5
)

// MatchTolerance is how close (in ms) a curve's start must be to a continuous
// event's start for the two to be considered associated.
const MatchTolerance = 1.0

type Parameter struct {
	Kind  ParamKind
	Value float64
}

// Event is either a Transient or a Continuous. Consumers switch on the
// concrete type and must handle both.
type Event interface {
	Start() float64
	End() float64
	event()
}

type Transient struct {
	RelativeTime float64
	Parameters   []Parameter
}

type Continuous struct {
	RelativeTime float64
	Duration     float64
	Parameters   []Parameter
}

func (e Transient) Start() float64 { return e.RelativeTime }
func (e Transient) End() float64   { return e.RelativeTime }
func (Transient) event()           {}

func (e Continuous) Start() float64 { return e.RelativeTime }
func (e Continuous) End() float64   { return e.RelativeTime + e.Duration }
func (Continuous) event()           {}

type ControlPoint struct {
	RelativeTime float64
	Value        float64
}

// Curve modulates one axis of a continuous event. RelativeTime is absolute;
// control point times are local to the curve.
type Curve struct {
	Kind          ParamKind
	RelativeTime  float64
	ControlPoints []ControlPoint
}

// End returns the absolute time of the last control point.
func (c Curve) End() float64 {
	if len(c.ControlPoints) == 0 {
		return c.RelativeTime
	}
	return c.RelativeTime + c.ControlPoints[len(c.ControlPoints)-1].RelativeTime
}

// Significant reports whether the curve carries any modulation.
func (c Curve) Significant() bool {
	return len(c.ControlPoints) >= 2
}

type Pattern struct {
	Events []Event
	Curves []Curve
}

// Duration is the end of the latest event or curve in the pattern.
func (p Pattern) Duration() float64 {
	var end float64
	for _, ev := range p.Events {
		end = math.Max(end, ev.End())
	}
	for _, c := range p.Curves {
		end = math.Max(end, c.End())
	}
	return end
}

// Empty reports whether the pattern has nothing to play.
func (p Pattern) Empty() bool {
	return len(p.Events) == 0 && len(p.Curves) == 0
}

type SampleKind int

const (
	SampleTransient SampleKind = iota + 1
	SampleContinuousStart
	SampleContinuousUpdate
	SampleContinuousEnd
)

// RawSample is one entry of a live capture stream. Timestamp is in ms from
// the start of the recording.
type RawSample struct {
	Kind      SampleKind
	Timestamp float64
	Intensity float64
	Sharpness float64
}
