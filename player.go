package tickle

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"

	intaudio "github.com/Renegades-Studio/react-native-tickle-sub000/internal/audio"
	intfx "github.com/Renegades-Studio/react-native-tickle-sub000/internal/effects"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/render"
)

// PlaybackEvent carries playback events from Watch().
type PlaybackEvent struct {
	Kind int // EventLoopCompleted or EventPlaybackEnded
}

const (
	EventLoopCompleted = int(render.EventLoopCompleted)
	EventPlaybackEnded = int(render.EventPlaybackEnded)
)

type PlayerOption func(*playerConfig)

type playerConfig struct {
	loopPlayback bool
	sampleTap    func([]float32)
	preview      render.Options
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{preview: render.DefaultOptions()}
}

func WithLoopPlayback(enabled bool) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.loopPlayback = enabled
	}
}

// WithSampleTap installs a callback invoked with each generated stereo buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.sampleTap = tap
	}
}

// WithPreviewOptions replaces the renderer's tone and timing settings.
// LoopPattern, OnEvent and StartMs are managed by the player.
func WithPreviewOptions(opts PreviewOptions) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.preview = opts
	}
}

// Player previews patterns through the system audio device.
type Player struct {
	mu           sync.Mutex
	sampleRate   int
	audio        *intaudio.Player
	volume       float64
	gain         atomic.Uint64 // float64 bits read by the audio thread
	loopPlayback bool
	sampleTap    func([]float32)
	preview      render.Options
	startMs      float64
	lastMs       float64
	done         *signal
	eventCh      chan PlaybackEvent
	eventChMu    sync.Mutex
}

// previewSource wraps a sequencer and implements SampleSource +
// FinishingSource so non-looping playback ends the stream.
type previewSource struct {
	seq       *render.Sequencer
	startMs   float64
	finished  atomic.Bool
	effects   *intfx.Chain
	gain      *atomic.Uint64
	sampleTap func([]float32)
}

func (s *previewSource) Process(dst []float32) {
	s.seq.Process(dst)
	if s.effects != nil {
		s.effects.ProcessBuffer(dst)
	}
	g := float32(math.Float64frombits(s.gain.Load()))
	if g != 1 {
		for i := range dst {
			dst[i] *= g
		}
	}
	if s.sampleTap != nil {
		s.sampleTap(dst)
	}
}

func (s *previewSource) Finished() bool {
	return s.finished.Load()
}

// PositionMs is the untrimmed pattern time of the next frame.
func (s *previewSource) PositionMs() float64 {
	return s.startMs + s.seq.PositionMs()
}

func NewPlayer(sampleRate int, opts ...PlayerOption) (*Player, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &Player{
		sampleRate:   sampleRate,
		volume:       1,
		loopPlayback: cfg.loopPlayback,
		sampleTap:    cfg.sampleTap,
		preview:      cfg.preview,
	}
	p.gain.Store(math.Float64bits(1))
	return p, nil
}

// Play starts pattern from the beginning, replacing any current playback.
func (p *Player) Play(pattern Pattern) error {
	return p.PlayFrom(pattern, 0)
}

// PlayFrom starts pattern at seekMs. Everything before the seek point is
// trimmed away and curves are cut at the boundary.
func (p *Player) PlayFrom(pattern Pattern, seekMs float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Signal any existing Wait() that the previous playback was replaced
	if p.done != nil {
		p.done.fire()
	}
	done := newSignal()
	p.done = done

	if seekMs < 0 || math.IsNaN(seekMs) {
		seekMs = 0
	}
	src := &previewSource{
		startMs:   seekMs,
		effects:   intfx.NewPreviewChain(p.sampleRate),
		gain:      &p.gain,
		sampleTap: p.sampleTap,
	}
	opts := p.preview
	opts.LoopPattern = p.loopPlayback
	opts.StartMs = seekMs
	opts.OnEvent = func(kind render.EventKind) {
		if kind == render.EventPlaybackEnded {
			src.finished.Store(true)
		}
		p.sendEvent(PlaybackEvent{Kind: int(kind)})
		if kind == render.EventPlaybackEnded {
			done.fire()
		}
	}
	src.seq = render.NewWithOptions(pattern, p.sampleRate, opts)

	backend, err := intaudio.NewPlayer(p.sampleRate, src)
	if err != nil {
		return err
	}
	if p.audio != nil {
		_ = p.audio.Stop()
	}
	p.audio = backend
	p.startMs = seekMs
	p.audio.Play()
	return nil
}

// PositionMs reports the pattern time currently heard. After Stop it holds
// the position playback stopped at, so PlayFrom(pattern, PositionMs())
// resumes where the listener left off.
func (p *Player) PositionMs() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *Player) positionLocked() float64 {
	if p.audio == nil {
		return p.lastMs
	}
	if ms, ok := p.audio.PositionMs(); ok {
		return ms
	}
	return p.startMs
}

func (p *Player) sendEvent(ev PlaybackEvent) {
	p.eventChMu.Lock()
	ch := p.eventCh
	p.eventChMu.Unlock()
	if ch != nil {
		select {
		case ch <- ev:
		default:
			// Channel full; drop event
		}
	}
}

// signal is a one-shot channel close that may fire from the audio thread
// and from Stop without coordinating.
type signal struct {
	ch   chan struct{}
	once sync.Once
}

func newSignal() *signal {
	return &signal{ch: make(chan struct{})}
}

func (s *signal) fire() {
	s.once.Do(func() { close(s.ch) })
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Play()
	}
}

func (p *Player) Stop() error {
	p.mu.Lock()
	if p.audio == nil {
		p.mu.Unlock()
		return nil
	}
	p.lastMs = p.positionLocked()
	err := p.audio.Stop()
	p.audio = nil
	done := p.done
	p.done = nil
	p.mu.Unlock()
	p.sendEvent(PlaybackEvent{Kind: EventPlaybackEnded})
	if done != nil {
		done.fire()
	}
	return err
}

// Wait blocks until the current playback ends. When loop playback is enabled,
// Wait blocks until Stop (use Watch for loop-counting instead).
// Wait returns immediately if no playback is active.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done.ch
	}
}

// Watch returns a channel that receives playback events:
//   - EventLoopCompleted: a whole-pattern loop finished (when looping)
//   - EventPlaybackEnded: playback finished or was stopped
//
// The channel is buffered (cap 8); receive in a goroutine to avoid blocking the renderer.
// Only the most recent Watch() channel receives events; call Watch before Play.
func (p *Player) Watch() <-chan PlaybackEvent {
	ch := make(chan PlaybackEvent, 8)
	p.eventChMu.Lock()
	p.eventCh = ch
	p.eventChMu.Unlock()
	return ch
}

// SetMasterVolume sets runtime volume scalar. 1.0 is default.
// It takes effect immediately on the audio thread.
func (p *Player) SetMasterVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
	p.gain.Store(math.Float64bits(volume))
}

func (p *Player) MasterVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}
