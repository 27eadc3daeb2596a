package patternio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/haptic"
)

var (
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrEmptyInput     = errors.New("empty input")
)

// DecodeError reports where a payload failed to decode or check.
type DecodeError struct {
	Path  string // file name or "-" for stdin
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// DecodePattern reads one pattern document and checks its structure.
func DecodePattern(r io.Reader) (haptic.Pattern, error) {
	var p haptic.Pattern
	if err := decode(r, &p); err != nil {
		return haptic.Pattern{}, err
	}
	if err := Check(p); err != nil {
		return haptic.Pattern{}, err
	}
	return p, nil
}

// DecodeSamples reads a JSON array of capture samples.
func DecodeSamples(r io.Reader) ([]haptic.RawSample, error) {
	var samples []haptic.RawSample
	if err := decode(r, &samples); err != nil {
		return nil, err
	}
	for i, s := range samples {
		if err := checkSample(i, s); err != nil {
			return nil, err
		}
	}
	return samples, nil
}

// StreamSamples decodes a stream of capture samples, one JSON object after
// another (newline-delimited in practice), calling fn for each as it arrives.
func StreamSamples(r io.Reader, fn func(haptic.RawSample) error) error {
	dec := json.NewDecoder(r)
	for i := 0; ; i++ {
		var s haptic.RawSample
		if err := dec.Decode(&s); err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("sample %d: decode: %w", i, err)
		}
		if err := checkSample(i, s); err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
	}
}

func checkSample(i int, s haptic.RawSample) error {
	if s.Kind == 0 {
		return fmt.Errorf("samples[%d]: missing type: %w", i, ErrInvalidPattern)
	}
	if badNumber(s.Timestamp) || s.Timestamp < 0 {
		return fmt.Errorf("samples[%d].timestamp %v: %w", i, s.Timestamp, ErrInvalidPattern)
	}
	return nil
}

func decode(r io.Reader, v any) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return ErrEmptyInput
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// Check reports the first structural problem in p: negative times or
// durations, values outside [0,1], missing kinds, or control points out of
// order. It is not a schema validator.
func Check(p haptic.Pattern) error {
	for i, ev := range p.Events {
		var params []haptic.Parameter
		switch e := ev.(type) {
		case haptic.Transient:
			if badNumber(e.RelativeTime) || e.RelativeTime < 0 {
				return invalid("events[%d].relativeTime %v", i, e.RelativeTime)
			}
			params = e.Parameters
		case haptic.Continuous:
			if badNumber(e.RelativeTime) || e.RelativeTime < 0 {
				return invalid("events[%d].relativeTime %v", i, e.RelativeTime)
			}
			if badNumber(e.Duration) || e.Duration < 0 {
				return invalid("events[%d].duration %v", i, e.Duration)
			}
			params = e.Parameters
		}
		for j, prm := range params {
			if prm.Kind == 0 {
				return invalid("events[%d].parameters[%d] missing type", i, j)
			}
			if !unit(prm.Value) {
				return invalid("events[%d].parameters[%d].value %v", i, j, prm.Value)
			}
		}
	}
	for i, c := range p.Curves {
		if c.Kind == 0 {
			return invalid("curves[%d] missing type", i)
		}
		if badNumber(c.RelativeTime) || c.RelativeTime < 0 {
			return invalid("curves[%d].relativeTime %v", i, c.RelativeTime)
		}
		prev := math.Inf(-1)
		for j, cp := range c.ControlPoints {
			if badNumber(cp.RelativeTime) || cp.RelativeTime < 0 {
				return invalid("curves[%d].controlPoints[%d].relativeTime %v", i, j, cp.RelativeTime)
			}
			if cp.RelativeTime < prev {
				return invalid("curves[%d].controlPoints[%d] out of order", i, j)
			}
			if !unit(cp.Value) {
				return invalid("curves[%d].controlPoints[%d].value %v", i, j, cp.Value)
			}
			prev = cp.RelativeTime
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidPattern)...)
}

func badNumber(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func unit(v float64) bool {
	return !badNumber(v) && v >= 0 && v <= 1
}

// Encode writes v as indented JSON followed by a newline.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ReadPattern loads a pattern from path; "-" reads from in.
func ReadPattern(path string, in io.Reader) (haptic.Pattern, error) {
	var p haptic.Pattern
	err := withInput(path, in, func(r io.Reader) error {
		var err error
		p, err = DecodePattern(r)
		return err
	})
	return p, err
}

// ReadSamples loads a capture stream from path; "-" reads from in.
func ReadSamples(path string, in io.Reader) ([]haptic.RawSample, error) {
	var samples []haptic.RawSample
	err := withInput(path, in, func(r io.Reader) error {
		var err error
		samples, err = DecodeSamples(r)
		return err
	})
	return samples, err
}

// ReadJSON decodes any JSON document from path; "-" reads from in.
func ReadJSON(path string, in io.Reader, v any) error {
	return withInput(path, in, func(r io.Reader) error {
		return decode(r, v)
	})
}

func withInput(path string, in io.Reader, fn func(io.Reader) error) error {
	if path == "" || path == "-" {
		if err := fn(in); err != nil {
			return &DecodeError{Path: "-", Cause: err}
		}
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open pattern: %w", err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return &DecodeError{Path: path, Cause: err}
	}
	return nil
}

// WriteFile encodes v to path, or to out when path is empty or "-".
func WriteFile(path string, out io.Writer, v any) error {
	if path == "" || path == "-" {
		return Encode(out, v)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := Encode(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
