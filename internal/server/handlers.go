package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/capture"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/envelope"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/patternio"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/scrub"
	"github.com/Renegades-Studio/react-native-tickle-sub000/internal/seek"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReconstruct(w http.ResponseWriter, r *http.Request) {
	samples, err := patternio.DecodeSamples(s.body(w, r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, capture.Reconstruct(samples))
}

func (s *Server) handleTrim(w http.ResponseWriter, r *http.Request) {
	seekMs, ok := s.queryMs(w, r, "seek")
	if !ok {
		return
	}
	p, err := patternio.DecodePattern(s.body(w, r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, seek.Trim(p, seekMs))
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	p, err := patternio.DecodePattern(s.body(w, r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, scrub.Expand(p))
}

type readout struct {
	Intensity float64 `json:"intensity"`
	Sharpness float64 `json:"sharpness"`
	Active    bool    `json:"active"`
}

func (s *Server) handleAt(w http.ResponseWriter, r *http.Request) {
	ms, ok := s.queryMs(w, r, "ms")
	if !ok {
		return
	}
	p, err := patternio.DecodePattern(s.body(w, r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var out readout
	out.Intensity, out.Sharpness, out.Active = scrub.At(p, ms)
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFade(w http.ResponseWriter, r *http.Request) {
	var ev envelope.FadedContinuous
	if err := json.NewDecoder(s.body(w, r)).Decode(&ev); err != nil {
		s.writeError(w, err)
		return
	}
	curve, ok := envelope.Synthesize(ev)
	if !ok {
		s.writeJSON(w, http.StatusOK, map[string]any{"curve": nil})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"curve": curve})
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	var rows []envelope.EditorEvent
	if err := json.NewDecoder(s.body(w, r)).Decode(&rows); err != nil {
		s.writeError(w, err)
		return
	}
	if r.URL.Query().Get("units") == "s" {
		for i := range rows {
			rows[i] = envelope.FromSeconds(rows[i])
		}
	}
	s.writeJSON(w, http.StatusOK, envelope.Compose(rows))
}

// queryMs parses a finite millisecond value from the query string, answering
// 400 itself when it is missing or malformed.
func (s *Server) queryMs(w http.ResponseWriter, r *http.Request, name string) (float64, bool) {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": name + " query parameter must be a finite number of milliseconds"})
		return 0, false
	}
	return v, true
}

func (s *Server) body(w http.ResponseWriter, r *http.Request) io.Reader {
	return http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", slog.Any("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
