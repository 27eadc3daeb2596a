package haptic

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownKind = errors.New("unknown type discriminator")

var paramKindNames = map[ParamKind]string{
	Intensity: "intensity",
	Sharpness: "sharpness",
}

var sampleKindNames = map[SampleKind]string{
	SampleTransient:        "transient",
	SampleContinuousStart:  "continuous_start",
	SampleContinuousUpdate: "continuous_update",
	SampleContinuousEnd:    "continuous_end",
}

func (k ParamKind) String() string {
	if s, ok := paramKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ParamKind(%d)", int(k))
}

func (k SampleKind) String() string {
	if s, ok := sampleKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("SampleKind(%d)", int(k))
}

func (k ParamKind) MarshalText() ([]byte, error) {
	s, ok := paramKindNames[k]
	if !ok {
		return nil, fmt.Errorf("parameter kind %d: %w", int(k), ErrUnknownKind)
	}
	return []byte(s), nil
}

func (k *ParamKind) UnmarshalText(b []byte) error {
	for kind, name := range paramKindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("parameter kind %q: %w", b, ErrUnknownKind)
}

func (k SampleKind) MarshalText() ([]byte, error) {
	s, ok := sampleKindNames[k]
	if !ok {
		return nil, fmt.Errorf("sample kind %d: %w", int(k), ErrUnknownKind)
	}
	return []byte(s), nil
}

func (k *SampleKind) UnmarshalText(b []byte) error {
	for kind, name := range sampleKindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("sample kind %q: %w", b, ErrUnknownKind)
}

type wireParameter struct {
	Type  ParamKind `json:"type"`
	Value float64   `json:"value"`
}

type wireEvent struct {
	Type         string          `json:"type"`
	RelativeTime float64         `json:"relativeTime"`
	Duration     *float64        `json:"duration,omitempty"`
	Parameters   []wireParameter `json:"parameters"`
}

type wirePoint struct {
	RelativeTime float64 `json:"relativeTime"`
	Value        float64 `json:"value"`
}

type wireCurve struct {
	Type          ParamKind   `json:"type"`
	RelativeTime  float64     `json:"relativeTime"`
	ControlPoints []wirePoint `json:"controlPoints"`
}

type wirePattern struct {
	Events []wireEvent `json:"events"`
	Curves []wireCurve `json:"curves"`
}

type wireSample struct {
	Type      SampleKind `json:"type"`
	Timestamp float64    `json:"timestamp"`
	Intensity float64    `json:"intensity"`
	Sharpness float64    `json:"sharpness"`
}

func toWireParams(params []Parameter) []wireParameter {
	out := make([]wireParameter, 0, len(params))
	for _, p := range params {
		out = append(out, wireParameter{Type: p.Kind, Value: p.Value})
	}
	return out
}

func fromWireParams(params []wireParameter) []Parameter {
	out := make([]Parameter, 0, len(params))
	for _, p := range params {
		out = append(out, Parameter{Kind: p.Type, Value: p.Value})
	}
	return out
}

func toWireCurve(c Curve) wireCurve {
	wc := wireCurve{Type: c.Kind, RelativeTime: c.RelativeTime, ControlPoints: make([]wirePoint, 0, len(c.ControlPoints))}
	for _, cp := range c.ControlPoints {
		wc.ControlPoints = append(wc.ControlPoints, wirePoint{RelativeTime: cp.RelativeTime, Value: cp.Value})
	}
	return wc
}

func fromWireCurve(wc wireCurve) Curve {
	c := Curve{Kind: wc.Type, RelativeTime: wc.RelativeTime, ControlPoints: make([]ControlPoint, 0, len(wc.ControlPoints))}
	for _, cp := range wc.ControlPoints {
		c.ControlPoints = append(c.ControlPoints, ControlPoint{RelativeTime: cp.RelativeTime, Value: cp.Value})
	}
	return c
}

func (c Curve) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWireCurve(c))
}

func (c *Curve) UnmarshalJSON(b []byte) error {
	var wc wireCurve
	if err := json.Unmarshal(b, &wc); err != nil {
		return err
	}
	*c = fromWireCurve(wc)
	return nil
}

func (p Pattern) MarshalJSON() ([]byte, error) {
	w := wirePattern{
		Events: make([]wireEvent, 0, len(p.Events)),
		Curves: make([]wireCurve, 0, len(p.Curves)),
	}
	for _, ev := range p.Events {
		switch e := ev.(type) {
		case Transient:
			w.Events = append(w.Events, wireEvent{Type: "transient", RelativeTime: e.RelativeTime, Parameters: toWireParams(e.Parameters)})
		case Continuous:
			d := e.Duration
			w.Events = append(w.Events, wireEvent{Type: "continuous", RelativeTime: e.RelativeTime, Duration: &d, Parameters: toWireParams(e.Parameters)})
		default:
			return nil, fmt.Errorf("event %T: %w", ev, ErrUnknownKind)
		}
	}
	for _, c := range p.Curves {
		w.Curves = append(w.Curves, toWireCurve(c))
	}
	return json.Marshal(w)
}

func (p *Pattern) UnmarshalJSON(b []byte) error {
	var w wirePattern
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	out := Pattern{
		Events: make([]Event, 0, len(w.Events)),
		Curves: make([]Curve, 0, len(w.Curves)),
	}
	for i, we := range w.Events {
		switch we.Type {
		case "transient":
			out.Events = append(out.Events, Transient{RelativeTime: we.RelativeTime, Parameters: fromWireParams(we.Parameters)})
		case "continuous":
			var d float64
			if we.Duration != nil {
				d = *we.Duration
			}
			out.Events = append(out.Events, Continuous{RelativeTime: we.RelativeTime, Duration: d, Parameters: fromWireParams(we.Parameters)})
		default:
			return fmt.Errorf("events[%d] type %q: %w", i, we.Type, ErrUnknownKind)
		}
	}
	for _, wc := range w.Curves {
		out.Curves = append(out.Curves, fromWireCurve(wc))
	}
	*p = out
	return nil
}

func (s RawSample) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSample{Type: s.Kind, Timestamp: s.Timestamp, Intensity: s.Intensity, Sharpness: s.Sharpness})
}

func (s *RawSample) UnmarshalJSON(b []byte) error {
	var w wireSample
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*s = RawSample{Kind: w.Type, Timestamp: w.Timestamp, Intensity: w.Intensity, Sharpness: w.Sharpness}
	return nil
}
