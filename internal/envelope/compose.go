package envelope

import "github.com/Renegades-Studio/react-native-tickle-sub000/internal/haptic"

// EditorEvent is one row of the pattern editor: a transient when Duration is
// zero and Continuous is false, otherwise a continuous event with optional
// fades.
type EditorEvent struct {
	Continuous   bool    `json:"continuous"`
	RelativeTime float64 `json:"relativeTime"`
	Duration     float64 `json:"duration"`
	Intensity    float64 `json:"intensity"`
	Sharpness    float64 `json:"sharpness"`
	Fade
}

// FromSeconds converts an editor event whose times are in seconds into ms.
func FromSeconds(ev EditorEvent) EditorEvent {
	ev.RelativeTime *= 1000
	ev.Duration *= 1000
	ev.InMs *= 1000
	ev.OutMs *= 1000
	return ev
}

// Compose turns editor rows into a pattern, appending a synthesized intensity
// curve after every faded continuous event.
func Compose(rows []EditorEvent) haptic.Pattern {
	p := haptic.Pattern{
		Events: make([]haptic.Event, 0, len(rows)),
		Curves: []haptic.Curve{},
	}
	for _, row := range rows {
		params := haptic.Params(row.Intensity, row.Sharpness)
		if !row.Continuous {
			p.Events = append(p.Events, haptic.Transient{RelativeTime: row.RelativeTime, Parameters: params})
			continue
		}
		p.Events = append(p.Events, haptic.Continuous{
			RelativeTime: row.RelativeTime,
			Duration:     row.Duration,
			Parameters:   params,
		})
		curve, ok := Synthesize(FadedContinuous{
			RelativeTime: row.RelativeTime,
			Duration:     row.Duration,
			Intensity:    row.Intensity,
			Sharpness:    row.Sharpness,
			Fade:         row.Fade,
		})
		if ok {
			p.Curves = append(p.Curves, curve)
		}
	}
	return p
}
