package capture

import (
	"log/slog"
	"sync"

	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/haptic"
)

// Recorder buffers samples from a live capture. It is safe to call from the
// gesture callback and a UI goroutine at the same time.
type Recorder struct {
	mu      sync.Mutex
	samples []haptic.RawSample
	st      state
	logger  *slog.Logger
}

// NewRecorder returns an empty recorder. A nil logger disables tracing.
func NewRecorder(logger *slog.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// Record appends s to the session.
func (r *Recorder) Record(s haptic.RawSample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch s.Kind {
	case haptic.SampleContinuousStart:
		if r.st.recording && r.logger != nil {
			r.logger.Debug("continuous session restarted", slog.Float64("timestamp", s.Timestamp))
		}
		r.st = state{recording: true, start: len(r.samples)}
	case haptic.SampleContinuousUpdate, haptic.SampleContinuousEnd:
		if !r.st.recording && r.logger != nil {
			r.logger.Debug("orphan sample ignored", slog.String("kind", s.Kind.String()), slog.Float64("timestamp", s.Timestamp))
		}
		if s.Kind == haptic.SampleContinuousEnd {
			r.st = idle
		}
	}
	r.samples = append(r.samples, s)
}

// Recording reports whether a continuous session is open.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.recording
}

// Samples returns a copy of everything recorded so far.
func (r *Recorder) Samples() []haptic.RawSample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]haptic.RawSample, len(r.samples))
	copy(out, r.samples)
	return out
}

// Pattern reconstructs the samples recorded so far. A session that is still
// open contributes nothing until its end sample arrives.
func (r *Recorder) Pattern() haptic.Pattern {
	return Reconstruct(r.Samples())
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = nil
	r.st = idle
}
