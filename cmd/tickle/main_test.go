package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/haptic"
)

// resetFlags puts every flag back to its default so values parsed by one
// run do not leak into the next through the package-level variables.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("reset --%s: %v", f.Name, err)
		}
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(t)
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, errOut, err := run(t, stdin, args...)
	if err != nil {
		t.Fatalf("tickle %v: %v\n%s", args, err, errOut)
	}
	return out
}

func TestTrimFromStdin(t *testing.T) {
	in := `{"events":[{"type":"continuous","relativeTime":0,"duration":400,"parameters":[]}],"curves":[]}`
	out := execute(t, in, "trim", "--seek", "150", "-")
	var p haptic.Pattern
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(p.Events) != 1 || p.Events[0].Start() != 0 || p.Events[0].End() != 250 {
		t.Fatalf("unexpected trimmed pattern %s", out)
	}
}

func TestReconstructThenExpand(t *testing.T) {
	samples := `[{"type":"continuous_start","timestamp":0,"intensity":0.5,"sharpness":0.5},
		{"type":"continuous_update","timestamp":100,"intensity":1,"sharpness":0.5},
		{"type":"continuous_end","timestamp":200,"intensity":0,"sharpness":0}]`
	pattern := execute(t, samples, "reconstruct", "-")
	expanded := execute(t, pattern, "expand", "-")
	var back []haptic.RawSample
	if err := json.Unmarshal([]byte(expanded), &back); err != nil {
		t.Fatalf("decode output: %v\n%s", err, expanded)
	}
	if len(back) != 3 || back[1].Timestamp != 100 || back[1].Intensity != 1 {
		t.Fatalf("unexpected expansion %s", expanded)
	}
}

func TestFadeWithoutFadesPrintsNull(t *testing.T) {
	out := execute(t, "", "fade", "--duration", "500")
	if strings.TrimSpace(out) != "null" {
		t.Fatalf("fade output = %q, want null", out)
	}
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	execute(t, "", "fade", "--duration", "500", "--intensity", "0.3", "--fade-in-ms", "100")
	if fade.Intensity != 0.3 || fade.InMs != 100 {
		t.Fatalf("flags not applied: %+v", fade)
	}
	out := execute(t, "", "fade", "--duration", "500")
	if strings.TrimSpace(out) != "null" {
		t.Fatalf("fade-in from the previous run leaked: %q", out)
	}
	if fade.Intensity != 1 {
		t.Fatalf("intensity = %v, want default 1", fade.Intensity)
	}
}

func TestRejectsNonFiniteSeek(t *testing.T) {
	in := `{"events":[{"type":"continuous","relativeTime":0,"duration":400,"parameters":[]}],"curves":[]}`
	for _, seek := range []string{"NaN", "Inf", "-Inf"} {
		out, _, err := run(t, in, "trim", "--seek", seek, "-")
		if err == nil || !strings.Contains(err.Error(), "finite") {
			t.Fatalf("trim --seek %s: err = %v, want a finite-seek error", seek, err)
		}
		if out != "" {
			t.Fatalf("trim --seek %s wrote output %q", seek, out)
		}
	}
	if _, _, err := run(t, in, "render", "--seek", "NaN", "-o", t.TempDir()+"/x.wav", "-"); err == nil {
		t.Fatal("render --seek NaN: expected an error")
	}
}

func TestAtReadout(t *testing.T) {
	in := `{"events":[{"type":"continuous","relativeTime":100,"duration":200,"parameters":[{"type":"sharpness","value":0.2}]}],
		"curves":[{"type":"intensity","relativeTime":100,"controlPoints":[{"relativeTime":0,"value":0},{"relativeTime":200,"value":1}]}]}`
	var got struct {
		Intensity float64 `json:"intensity"`
		Sharpness float64 `json:"sharpness"`
		Active    bool    `json:"active"`
	}
	out := execute(t, in, "at", "--ms", "150", "-")
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if !got.Active || got.Intensity != 0.25 || got.Sharpness != 0.2 {
		t.Fatalf("unexpected readout %s", out)
	}

	out = execute(t, in, "at", "--ms", "50", "-")
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Active {
		t.Fatalf("readout before the event should be inactive: %s", out)
	}
}

func TestRecordFromLineStream(t *testing.T) {
	in := `{"type":"continuous_start","timestamp":0,"intensity":0.5,"sharpness":0.5}
{"type":"continuous_update","timestamp":100,"intensity":1,"sharpness":0.5}
{"type":"continuous_end","timestamp":200,"intensity":0,"sharpness":0}
{"type":"continuous_start","timestamp":300,"intensity":0.4,"sharpness":0.4}
`
	out, errOut, err := run(t, in, "record")
	if err != nil {
		t.Fatalf("record: %v\n%s", err, errOut)
	}
	var p haptic.Pattern
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(p.Events) != 1 || p.Events[0].End() != 200 {
		t.Fatalf("unexpected recorded pattern %s", out)
	}
	if !strings.Contains(errOut, "continuous session") {
		t.Fatalf("expected a warning about the open session, got %q", errOut)
	}

	if _, _, err := run(t, `{"type":"transient","timestamp":-1}`, "record"); err == nil {
		t.Fatal("expected an error for a negative timestamp")
	}
}
