package render

import (
	"math"
	"sort"

	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/haptic"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/scrub"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/seek"
)

// EventKind identifies sequencer lifecycle events.
type EventKind int

const (
	EventLoopCompleted EventKind = iota
	EventPlaybackEnded
)

type Options struct {
	LoopPattern bool
	OnEvent     func(EventKind)
	StartMs     float64 // playback begins here; the pattern is trimmed to it
	TailMs      float64 // silence rendered after the last event before ending or looping
	MinFreqHz   float64 // tone at sharpness 0
	MaxFreqHz   float64 // tone at sharpness 1
	ClickMs     float64 // decay time of a transient click
	Gain        float64
}

func DefaultOptions() Options {
	return Options{
		TailMs:    100,
		MinFreqHz: 80,
		MaxFreqHz: 320,
		ClickMs:   25,
		Gain:      0.5,
	}
}

// voice is one scheduled event. Transients have end == start and ring for
// the click duration.
type voice struct {
	start, end float64
	transient  bool
	intensity  float64
	sharpness  float64
	iPoints    []haptic.ControlPoint
	sPoints    []haptic.ControlPoint
	iOrigin    float64 // curve start, within 1ms of start
	sOrigin    float64
	phase      float64
}

// Sequencer walks a pattern on a sample clock and renders a stereo preview
// in which intensity drives amplitude and sharpness drives pitch.
type Sequencer struct {
	sampleRate int
	msPerFrame float64
	opts       Options
	voices     []voice
	next       int
	active     []int
	frame      int64
	lengthMs   float64
	endedFired bool
}

func New(p haptic.Pattern, sampleRate int) *Sequencer {
	return NewWithOptions(p, sampleRate, DefaultOptions())
}

func NewWithOptions(p haptic.Pattern, sampleRate int, opts Options) *Sequencer {
	def := DefaultOptions()
	if opts.MaxFreqHz <= 0 {
		opts.MinFreqHz, opts.MaxFreqHz = def.MinFreqHz, def.MaxFreqHz
	}
	if opts.ClickMs <= 0 {
		opts.ClickMs = def.ClickMs
	}
	if opts.Gain <= 0 {
		opts.Gain = def.Gain
	}
	if opts.TailMs < 0 {
		opts.TailMs = 0
	}
	p = seek.Trim(p, opts.StartMs)
	s := &Sequencer{
		sampleRate: sampleRate,
		msPerFrame: 1000 / float64(sampleRate),
		opts:       opts,
		voices:     buildVoices(p),
	}
	s.lengthMs = p.Duration()
	for _, v := range s.voices {
		if v.transient {
			s.lengthMs = math.Max(s.lengthMs, v.start+opts.ClickMs)
		}
	}
	return s
}

func buildVoices(p haptic.Pattern) []voice {
	voices := make([]voice, 0, len(p.Events))
	for _, ev := range p.Events {
		switch e := ev.(type) {
		case haptic.Transient:
			voices = append(voices, voice{
				start:     e.RelativeTime,
				end:       e.RelativeTime,
				transient: true,
				intensity: haptic.IntensityOf(e.Parameters),
				sharpness: haptic.SharpnessOf(e.Parameters),
			})
		case haptic.Continuous:
			v := voice{
				start:     e.RelativeTime,
				end:       e.End(),
				intensity: haptic.IntensityOf(e.Parameters),
				sharpness: haptic.SharpnessOf(e.Parameters),
			}
			if c, ok := haptic.CurveFor(p.Curves, haptic.Intensity, e.RelativeTime); ok {
				v.iPoints, v.iOrigin = c.ControlPoints, c.RelativeTime
			}
			if c, ok := haptic.CurveFor(p.Curves, haptic.Sharpness, e.RelativeTime); ok {
				v.sPoints, v.sOrigin = c.ControlPoints, c.RelativeTime
			}
			voices = append(voices, v)
		}
	}
	sort.SliceStable(voices, func(i, j int) bool { return voices[i].start < voices[j].start })
	return voices
}

// PositionMs is the playback time of the next frame, relative to StartMs.
func (s *Sequencer) PositionMs() float64 {
	return float64(s.frame) * s.msPerFrame
}

// Finished reports whether a non-looping sequence has played to the end.
func (s *Sequencer) Finished() bool {
	return s.endedFired
}

func (s *Sequencer) Process(dst []float32) {
	frames := len(dst) / 2
	for f := 0; f < frames; f++ {
		if s.endedFired {
			dst[f*2], dst[f*2+1] = 0, 0
			continue
		}
		now := s.PositionMs()
		for s.next < len(s.voices) && s.voices[s.next].start <= now {
			s.active = append(s.active, s.next)
			s.next++
		}
		out := float32(s.renderFrame(now) * s.opts.Gain)
		dst[f*2] = out
		dst[f*2+1] = out
		s.frame++
		if s.next >= len(s.voices) && len(s.active) == 0 && now >= s.lengthMs+s.opts.TailMs {
			s.finishPass()
		}
	}
}

func (s *Sequencer) renderFrame(now float64) float64 {
	var sum float64
	kept := s.active[:0]
	for _, idx := range s.active {
		v := &s.voices[idx]
		amp, sharp, alive := s.voiceLevel(v, now)
		if !alive {
			continue
		}
		kept = append(kept, idx)
		freq := s.opts.MinFreqHz + sharp*(s.opts.MaxFreqHz-s.opts.MinFreqHz)
		sum += amp * math.Sin(2*math.Pi*v.phase)
		v.phase += freq / float64(s.sampleRate)
		v.phase -= math.Floor(v.phase)
	}
	s.active = kept
	return sum
}

func (s *Sequencer) voiceLevel(v *voice, now float64) (amp, sharp float64, alive bool) {
	local := now - v.start
	if v.transient {
		if local >= s.opts.ClickMs {
			return 0, 0, false
		}
		return v.intensity * math.Exp(-5*local/s.opts.ClickMs), v.sharpness, true
	}
	if now >= v.end {
		return 0, 0, false
	}
	return scrub.Interpolate(v.iPoints, now-v.iOrigin, v.intensity), scrub.Interpolate(v.sPoints, now-v.sOrigin, v.sharpness), true
}

func (s *Sequencer) finishPass() {
	if s.opts.LoopPattern && len(s.voices) > 0 {
		s.frame = 0
		s.next = 0
		for i := range s.voices {
			s.voices[i].phase = 0
		}
		if s.opts.OnEvent != nil {
			s.opts.OnEvent(EventLoopCompleted)
		}
		return
	}
	s.endedFired = true
	if s.opts.OnEvent != nil {
		s.opts.OnEvent(EventPlaybackEnded)
	}
}
