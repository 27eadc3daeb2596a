package tickle

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/haptic"
)

func energy(samples []float32) float64 {
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return sum
}

func TestRenderSamplesContinuous(t *testing.T) {
	p := Compose([]EditorEvent{{Continuous: true, Duration: 200, Intensity: 1, Sharpness: 0.5, Fade: Fade{OutMs: 100}}})
	samples := RenderSamples(p, 48000, DefaultPreviewOptions())
	if minLen := 48000 * 2 / 5; len(samples) < minLen {
		t.Fatalf("rendered %d samples, want at least %d", len(samples), minLen)
	}
	if energy(samples[:48000/10*2]) == 0 {
		t.Fatalf("expected audible output during the event")
	}
	for i, s := range samples {
		if math.Abs(float64(s)) > 0.75 {
			t.Fatalf("sample %d = %v exceeds limiter ceiling", i, s)
		}
	}
}

func TestRenderSamplesEmptyPatternIsSilent(t *testing.T) {
	samples := RenderSamples(haptic.Pattern{}, 48000, DefaultPreviewOptions())
	if len(samples) == 0 {
		t.Fatalf("expected the tail to be rendered")
	}
	if e := energy(samples); e != 0 {
		t.Fatalf("empty pattern energy = %v, want 0", e)
	}
}

func TestRenderSamplesFromSeek(t *testing.T) {
	p := Pattern{Events: []Event{Transient{RelativeTime: 0}, Continuous{RelativeTime: 500, Duration: 100}}}
	opts := DefaultPreviewOptions()
	full := RenderSamples(p, 8000, opts)
	opts.StartMs = 400
	trimmed := RenderSamples(p, 8000, opts)
	if len(trimmed) >= len(full) {
		t.Fatalf("seeked render should be shorter: full=%d trimmed=%d", len(full), len(trimmed))
	}
	if energy(trimmed[:8000/20*2]) != 0 {
		t.Fatalf("expected silence before the continuous event at 100ms after seek")
	}
}

func TestEncodeWAV(t *testing.T) {
	samples := []float32{0.5, -0.5, 2, -2, 0, 0}
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := EncodeWAV(f, samples, 44100); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	in, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer in.Close()
	d := wav.NewDecoder(in)
	if !d.IsValidFile() {
		t.Fatalf("encoded file is not a valid wav")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.SampleRate != 44100 || d.NumChans != 2 || d.BitDepth != 16 {
		t.Fatalf("format = %d Hz, %d ch, %d bit", d.SampleRate, d.NumChans, d.BitDepth)
	}
	want := []int{16384, -16384, 32767, -32767, 0, 0}
	if len(buf.Data) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), len(want))
	}
	for i := range want {
		if buf.Data[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, buf.Data[i], want[i])
		}
	}
}
