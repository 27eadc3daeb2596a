package capture

import "github.com/Renegades-Studio/react-native-tickle-sub000/internal/haptic"

// state is the reconstructor's position in a capture stream: either idle or
// recording a continuous session that opened at start.
type state struct {
	recording bool
	start     int
}

var idle = state{}

// Reconstruct rebuilds events and curves from a time-ordered capture stream.
// Events appear in the order their transient or continuous_end sample was
// seen. Update and end samples outside a session are ignored.
func Reconstruct(samples []haptic.RawSample) haptic.Pattern {
	p := haptic.Pattern{
		Events: []haptic.Event{},
		Curves: []haptic.Curve{},
	}
	st := idle
	for i := range samples {
		st = step(st, i, samples, &p)
	}
	return p
}

func step(st state, i int, samples []haptic.RawSample, p *haptic.Pattern) state {
	s := samples[i]
	switch s.Kind {
	case haptic.SampleTransient:
		p.Events = append(p.Events, haptic.Transient{
			RelativeTime: s.Timestamp,
			Parameters:   haptic.Params(s.Intensity, s.Sharpness),
		})
		return st
	case haptic.SampleContinuousStart:
		return state{recording: true, start: i}
	case haptic.SampleContinuousEnd:
		if !st.recording {
			return st
		}
		closeSession(samples[st.start:i+1], p)
		return idle
	}
	// Updates are picked up when the session closes.
	return st
}

// closeSession emits the continuous event for session (start sample first,
// end sample last) and any curve with more than one point.
func closeSession(session []haptic.RawSample, p *haptic.Pattern) {
	start := session[0]
	end := session[len(session)-1]
	p.Events = append(p.Events, haptic.Continuous{
		RelativeTime: start.Timestamp,
		Duration:     end.Timestamp - start.Timestamp,
		Parameters:   haptic.Params(start.Intensity, start.Sharpness),
	})

	var intensity, sharpness []haptic.ControlPoint
	for _, s := range session {
		if s.Kind != haptic.SampleContinuousStart && s.Kind != haptic.SampleContinuousUpdate {
			continue
		}
		t := s.Timestamp - start.Timestamp
		intensity = append(intensity, haptic.ControlPoint{RelativeTime: t, Value: s.Intensity})
		sharpness = append(sharpness, haptic.ControlPoint{RelativeTime: t, Value: s.Sharpness})
	}
	if len(intensity) > 1 {
		p.Curves = append(p.Curves, haptic.Curve{Kind: haptic.Intensity, RelativeTime: start.Timestamp, ControlPoints: intensity})
	}
	if len(sharpness) > 1 {
		p.Curves = append(p.Curves, haptic.Curve{Kind: haptic.Sharpness, RelativeTime: start.Timestamp, ControlPoints: sharpness})
	}
}
