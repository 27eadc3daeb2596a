// Package tickle converts haptic patterns between the editor, the recorder
// and the scrubber, and previews them as audio.
package tickle

import (
	"log/slog"

	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/capture"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/envelope"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/haptic"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/render"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/scrub"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/seek"
)

type (
	Pattern         = haptic.Pattern
	Event           = haptic.Event
	Transient       = haptic.Transient
	Continuous      = haptic.Continuous
	Curve           = haptic.Curve
	ControlPoint    = haptic.ControlPoint
	Parameter       = haptic.Parameter
	RawSample       = haptic.RawSample
	FadedContinuous = envelope.FadedContinuous
	Fade            = envelope.Fade
	EditorEvent     = envelope.EditorEvent
	PreviewOptions  = render.Options
	Recorder        = capture.Recorder
)

// DefaultPreviewOptions returns the renderer defaults used by Player and
// RenderSamples.
func DefaultPreviewOptions() PreviewOptions {
	return render.DefaultOptions()
}

// Reconstruct rebuilds a pattern from a recorded sample stream.
func Reconstruct(samples []RawSample) Pattern {
	return capture.Reconstruct(samples)
}

// NewRecorder returns a live capture buffer. A nil logger disables tracing.
func NewRecorder(logger *slog.Logger) *Recorder {
	return capture.NewRecorder(logger)
}

// Trim returns the part of p that remains when playback starts at seekMs,
// re-based so seekMs becomes time 0.
func Trim(p Pattern, seekMs float64) Pattern {
	return seek.Trim(p, seekMs)
}

// Expand flattens p into the sample stream a live recorder would have seen.
func Expand(p Pattern) []RawSample {
	return scrub.Expand(p)
}

// At reports the intensity and sharpness playing at ms; active is false when
// no continuous event covers ms.
func At(p Pattern, ms float64) (intensity, sharpness float64, active bool) {
	return scrub.At(p, ms)
}

// SynthesizeFade builds the intensity curve for a faded continuous event.
func SynthesizeFade(ev FadedContinuous) (Curve, bool) {
	return envelope.Synthesize(ev)
}

// Compose builds a pattern from editor rows.
func Compose(rows []EditorEvent) Pattern {
	return envelope.Compose(rows)
}
