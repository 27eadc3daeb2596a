package tickle

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	intfx "github.com/Renegades-Studio/react-native-tickle-sub000/internal/effects"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/render"
)

const (
	renderChunkFrames = 1024
	maxRenderSeconds  = 600
	wavBitDepth       = 16
	wavChannels       = 2
	wavPCM            = 1
)

// RenderSamples renders pattern once to interleaved stereo float32 through
// the same chain the live preview uses. Looping is ignored and output is
// capped at ten minutes.
func RenderSamples(pattern Pattern, sampleRate int, opts PreviewOptions) []float32 {
	if sampleRate <= 0 {
		return nil
	}
	opts.LoopPattern = false
	opts.OnEvent = nil
	seq := render.NewWithOptions(pattern, sampleRate, opts)
	chain := intfx.NewPreviewChain(sampleRate)

	maxFrames := sampleRate * maxRenderSeconds
	out := make([]float32, 0, renderChunkFrames*2)
	chunk := make([]float32, renderChunkFrames*2)
	for frames := 0; !seq.Finished() && frames < maxFrames; frames += renderChunkFrames {
		seq.Process(chunk)
		chain.ProcessBuffer(chunk)
		out = append(out, chunk...)
	}
	return out
}

// EncodeWAV writes interleaved stereo samples as 16-bit PCM.
func EncodeWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(math.Round(float64(clampUnit(s)) * math.MaxInt16))
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: wavChannels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}
	enc := wav.NewEncoder(w, sampleRate, wavBitDepth, wavChannels, wavPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav: %w", err)
	}
	return nil
}

func clampUnit(s float32) float32 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
