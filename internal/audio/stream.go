package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// bufferSize keeps the driver queue short so the reported position stays
// close to what the preview is rendering.
const bufferSize = 50 * time.Millisecond

// markerWindow is how many buffer starts are remembered for position lookup.
// At the default 50ms buffer this spans several seconds of output.
const markerWindow = 64

// SampleSource fills interleaved stereo float32 frames.
type SampleSource interface {
	Process(dst []float32)
}

// FinishingSource is a SampleSource that can signal when the pattern has
// played out. The stream returns io.EOF on the Read after Finished is true.
type FinishingSource interface {
	SampleSource
	Finished() bool
}

// TimelineSource is a SampleSource that knows the pattern time, in ms, of
// the next frame it renders. Looping sources jump back when they wrap.
type TimelineSource interface {
	SampleSource
	PositionMs() float64
}

type marker struct {
	frame int64
	ms    float64
}

// StreamReader feeds a SampleSource to ebiten as little-endian float32 and
// records the pattern time at the start of every buffer, so a frame index
// reported by the driver can be mapped back onto the pattern.
type StreamReader struct {
	mu         sync.Mutex
	source     SampleSource
	msPerFrame float64
	buf        []float32
	frames     int64
	markers    [markerWindow]marker
	marked     int
}

func NewStreamReader(sampleRate int, source SampleSource) *StreamReader {
	return &StreamReader{source: source, msPerFrame: 1000 / float64(sampleRate)}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	if ts, ok := r.source.(TimelineSource); ok {
		r.markers[r.marked%markerWindow] = marker{frame: r.frames, ms: ts.PositionMs()}
		r.marked++
	}
	if need := frames * 2; cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	buf := r.buf[:frames*2]
	r.source.Process(buf)
	for i, s := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	r.frames += int64(frames)

	n := frames * 8
	if fs, ok := r.source.(FinishingSource); ok && fs.Finished() {
		return n, io.EOF
	}
	return n, nil
}

// FramesRead is the number of frames handed to the audio driver so far.
func (r *StreamReader) FramesRead() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// PositionAt maps a stream frame index to pattern time using the newest
// buffer that started at or before it. Frames older than the remembered
// window extrapolate from the oldest marker. It reports false when the
// source has no timeline or nothing has been read yet.
func (r *StreamReader) PositionAt(frame int64) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := min(r.marked, markerWindow)
	if n == 0 {
		return 0, false
	}
	var m marker
	for k := 0; k < n; k++ {
		m = r.markers[(r.marked-1-k)%markerWindow]
		if m.frame <= frame {
			break
		}
	}
	return m.ms + float64(frame-m.frame)*r.msPerFrame, true
}

func (r *StreamReader) Close() error { return nil }

// Player is a live preview on the shared audio context.
type Player struct {
	player     *ebitaudio.Player
	reader     *StreamReader
	sampleRate int
}

var (
	contextOnce sync.Once
	context     *ebitaudio.Context
	contextRate int
)

// sharedContext returns the process-wide audio context. ebiten allows one
// context per process, so every preview must use the same sample rate.
func sharedContext(sampleRate int) (*ebitaudio.Context, error) {
	contextOnce.Do(func() {
		contextRate = sampleRate
		context = ebitaudio.NewContext(sampleRate)
	})
	if contextRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", contextRate, sampleRate)
	}
	return context, nil
}

func NewPlayer(sampleRate int, source SampleSource) (*Player, error) {
	ctx, err := sharedContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(sampleRate, source)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, fmt.Errorf("create audio player: %w", err)
	}
	pl.SetBufferSize(bufferSize)
	return &Player{player: pl, reader: reader, sampleRate: sampleRate}, nil
}

func (p *Player) Play()  { p.player.Play() }
func (p *Player) Pause() { p.player.Pause() }

func (p *Player) IsPlaying() bool {
	return p.player.IsPlaying()
}

// PositionMs is the pattern time the listener hears now: the driver's
// played position, bounded by what was read, mapped through the stream's
// buffer markers.
func (p *Player) PositionMs() (float64, bool) {
	heard := int64(p.player.Position().Seconds() * float64(p.sampleRate))
	if read := p.reader.FramesRead(); heard > read {
		heard = read
	}
	return p.reader.PositionAt(heard)
}

func (p *Player) Stop() error {
	p.player.Pause()
	if err := p.player.Close(); err != nil {
		return err
	}
	return p.reader.Close()
}
