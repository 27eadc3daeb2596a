package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	tickle "github.com/Renegades-Studio/react-native-tickle-sub000"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/envelope"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/patternio"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/server"
)

var (
	verbose    bool
	outputPath string
	seekMs     float64
	atMs       float64
	sampleRate int
	loop       bool
	loops      int
	volume     float64
	seconds    bool
	port       int
	fade       envelope.FadedContinuous
	logger     = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tickle",
	Short: "Convert, trim and preview haptic patterns",
	Long: `tickle works on haptic patterns: timelines of transient and continuous
events with intensity and sharpness curves.

Every command that takes a file reads stdin when the file is "-".`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	},
}

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct <samples.json>",
	Short: "Rebuild a pattern from a recorded sample stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runReconstruct,
}

var trimCmd = &cobra.Command{
	Use:   "trim <pattern.json>",
	Short: "Cut a pattern so playback starts at --seek",
	Long: `Drop everything before the seek point and re-base the rest so the seek
point becomes time 0. Curves crossing the seek point are cut with an
interpolated first point.

Example:
  tickle trim --seek 250 pattern.json`,
	Args: cobra.ExactArgs(1),
	RunE: runTrim,
}

var expandCmd = &cobra.Command{
	Use:   "expand <pattern.json>",
	Short: "Flatten a pattern into the sample stream a recorder would capture",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpand,
}

var fadeCmd = &cobra.Command{
	Use:   "fade",
	Short: "Print the intensity curve for a faded continuous event",
	Long: `Print the intensity curve realizing the fade-in and fade-out of one
continuous event, or null when neither fade is enabled.

Example:
  tickle fade --duration 1000 --intensity 0.8 --fade-in-ms 200 --fade-out-ms 300`,
	Args: cobra.NoArgs,
	RunE: runFade,
}

var composeCmd = &cobra.Command{
	Use:   "compose <rows.json>",
	Short: "Build a pattern from editor rows, synthesizing fade curves",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompose,
}

var atCmd = &cobra.Command{
	Use:   "at <pattern.json>",
	Short: "Print the intensity and sharpness playing at --ms",
	Args:  cobra.ExactArgs(1),
	RunE:  runAt,
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a live sample stream from stdin into a pattern",
	Long: `Read capture samples from stdin, one JSON object per line, as a gesture
recorder emits them. The reconstructed pattern is written when the stream
ends; a continuous session still open at that point is dropped.

Example:
  gesture-feed | tickle record -o take1.json`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

var renderCmd = &cobra.Command{
	Use:   "render <pattern.json>",
	Short: "Render an audible preview of a pattern to a WAV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var playCmd = &cobra.Command{
	Use:   "play <pattern.json>",
	Short: "Play an audible preview of a pattern",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pattern algorithms over HTTP",
	Long: `Start an HTTP service exposing reconstruct, trim, expand, at, fade and
compose under /v1.

Example:
  tickle serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(reconstructCmd)
	rootCmd.AddCommand(trimCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(fadeCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(atCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	for _, c := range []*cobra.Command{reconstructCmd, trimCmd, expandCmd, fadeCmd, composeCmd, atCmd, recordCmd} {
		c.Flags().StringVarP(&outputPath, "out", "o", "", "Output file (default: stdout)")
	}

	trimCmd.Flags().Float64Var(&seekMs, "seek", 0, "Seek position in milliseconds")
	trimCmd.MarkFlagRequired("seek")

	fadeCmd.Flags().Float64Var(&fade.RelativeTime, "start", 0, "Event start in milliseconds")
	fadeCmd.Flags().Float64Var(&fade.Duration, "duration", 0, "Event duration in milliseconds")
	fadeCmd.Flags().Float64Var(&fade.Intensity, "intensity", 1, "Base intensity (0-1)")
	fadeCmd.Flags().Float64Var(&fade.Sharpness, "sharpness", 0.5, "Base sharpness (0-1)")
	fadeCmd.Flags().Float64Var(&fade.InMs, "fade-in-ms", 0, "Fade-in duration in milliseconds (0 disables)")
	fadeCmd.Flags().Float64Var(&fade.InLevel, "fade-in-level", 0, "Fade-in start level as a fraction of intensity")
	fadeCmd.Flags().Float64Var(&fade.OutMs, "fade-out-ms", 0, "Fade-out duration in milliseconds (0 disables)")
	fadeCmd.Flags().Float64Var(&fade.OutLevel, "fade-out-level", 0, "Fade-out end level as a fraction of intensity")
	fadeCmd.MarkFlagRequired("duration")

	atCmd.Flags().Float64Var(&atMs, "ms", 0, "Pattern time in milliseconds")
	atCmd.MarkFlagRequired("ms")

	composeCmd.Flags().BoolVar(&seconds, "seconds", false, "Row times and fade lengths are in seconds")

	for _, c := range []*cobra.Command{renderCmd, playCmd} {
		c.Flags().IntVar(&sampleRate, "sample-rate", 48000, "Output sample rate")
		c.Flags().Float64Var(&seekMs, "seek", 0, "Start playback at this position in milliseconds")
	}
	renderCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Output WAV file")
	renderCmd.MarkFlagRequired("out")

	playCmd.Flags().BoolVar(&loop, "loop", false, "Loop playback; use with --loops to count then stop")
	playCmd.Flags().IntVar(&loops, "loops", 3, "When --loop, stop after N loops (0 = loop forever)")
	playCmd.Flags().Float64Var(&volume, "volume", 1.0, "Master volume scalar")

	serveCmd.Flags().IntVarP(&port, "port", "p", server.DefaultConfig().Port, "Port to listen on")
}

func runReconstruct(cmd *cobra.Command, args []string) error {
	samples, err := patternio.ReadSamples(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	p := tickle.Reconstruct(samples)
	logger.Debug("reconstructed pattern",
		slog.Int("samples", len(samples)),
		slog.Int("events", len(p.Events)),
		slog.Int("curves", len(p.Curves)),
	)
	return patternio.WriteFile(outputPath, cmd.OutOrStdout(), p)
}

// checkMs rejects NaN and infinite millisecond flags, which would poison
// every event time they touch.
func checkMs(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("--%s must be a finite number of milliseconds, got %v", name, v)
	}
	return nil
}

func runTrim(cmd *cobra.Command, args []string) error {
	if err := checkMs("seek", seekMs); err != nil {
		return err
	}
	p, err := patternio.ReadPattern(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	trimmed := tickle.Trim(p, seekMs)
	logger.Debug("trimmed pattern",
		slog.Float64("seek_ms", seekMs),
		slog.Int("events_before", len(p.Events)),
		slog.Int("events_after", len(trimmed.Events)),
	)
	return patternio.WriteFile(outputPath, cmd.OutOrStdout(), trimmed)
}

func runExpand(cmd *cobra.Command, args []string) error {
	p, err := patternio.ReadPattern(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	samples := tickle.Expand(p)
	logger.Debug("expanded pattern", slog.Int("samples", len(samples)))
	return patternio.WriteFile(outputPath, cmd.OutOrStdout(), samples)
}

func runFade(cmd *cobra.Command, args []string) error {
	curve, ok := tickle.SynthesizeFade(fade)
	if !ok {
		logger.Debug("no fade enabled; base intensity applies")
		return patternio.WriteFile(outputPath, cmd.OutOrStdout(), nil)
	}
	return patternio.WriteFile(outputPath, cmd.OutOrStdout(), curve)
}

func runCompose(cmd *cobra.Command, args []string) error {
	var rows []tickle.EditorEvent
	if err := patternio.ReadJSON(args[0], cmd.InOrStdin(), &rows); err != nil {
		return err
	}
	if seconds {
		for i := range rows {
			rows[i] = envelope.FromSeconds(rows[i])
		}
	}
	p := tickle.Compose(rows)
	if err := patternio.Check(p); err != nil {
		logger.Warn("composed pattern failed structural check", slog.Any("error", err))
	}
	return patternio.WriteFile(outputPath, cmd.OutOrStdout(), p)
}

func runAt(cmd *cobra.Command, args []string) error {
	if err := checkMs("ms", atMs); err != nil {
		return err
	}
	p, err := patternio.ReadPattern(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	intensity, sharpness, active := tickle.At(p, atMs)
	return patternio.WriteFile(outputPath, cmd.OutOrStdout(), map[string]any{
		"ms":        atMs,
		"intensity": intensity,
		"sharpness": sharpness,
		"active":    active,
	})
}

func runRecord(cmd *cobra.Command, args []string) error {
	rec := tickle.NewRecorder(logger)
	err := patternio.StreamSamples(cmd.InOrStdin(), func(s tickle.RawSample) error {
		rec.Record(s)
		return nil
	})
	if err != nil {
		return err
	}
	if rec.Recording() {
		logger.Warn("stream ended inside a continuous session; it is dropped")
	}
	p := rec.Pattern()
	logger.Debug("recorded pattern",
		slog.Int("samples", len(rec.Samples())),
		slog.Int("events", len(p.Events)),
		slog.Int("curves", len(p.Curves)),
	)
	return patternio.WriteFile(outputPath, cmd.OutOrStdout(), p)
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := checkMs("seek", seekMs); err != nil {
		return err
	}
	p, err := patternio.ReadPattern(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	opts := tickle.DefaultPreviewOptions()
	opts.StartMs = seekMs
	samples := tickle.RenderSamples(p, sampleRate, opts)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := tickle.EncodeWAV(f, samples, sampleRate); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("rendered preview",
		slog.String("path", outputPath),
		slog.Int("frames", len(samples)/2),
		slog.Int("sample_rate", sampleRate),
	)
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	if err := checkMs("seek", seekMs); err != nil {
		return err
	}
	p, err := patternio.ReadPattern(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	pl, err := tickle.NewPlayer(sampleRate, tickle.WithLoopPlayback(loop))
	if err != nil {
		return err
	}
	pl.SetMasterVolume(volume)
	ch := pl.Watch()
	if err := pl.PlayFrom(p, seekMs); err != nil {
		return err
	}
	loopCount := 0
	for {
		select {
		case <-cmd.Context().Done():
			err := pl.Stop()
			logger.Info("playback interrupted; resume with --seek", slog.Float64("position_ms", pl.PositionMs()))
			return err
		case event := <-ch:
			switch event.Kind {
			case tickle.EventPlaybackEnded:
				logger.Info("playback completed")
				return nil
			case tickle.EventLoopCompleted:
				loopCount++
				logger.Info("loop completed", slog.Int("loop", loopCount))
				if loops > 0 && loopCount >= loops {
					return pl.Stop()
				}
			}
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := server.DefaultConfig()
	cfg.Port = port
	return server.New(cfg, logger).Run(cmd.Context())
}
