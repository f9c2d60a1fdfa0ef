package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lazypower/halflife/internal/decay"
	"github.com/lazypower/halflife/internal/dose"
)

// displayTime is the format used for chart axis labels, in local time.
const displayTime = "2006-01-02 15:04"

type doseJSON struct {
	ID      string  `json:"id"`
	Amount  float64 `json:"amount"`
	Unit    string  `json:"unit"`
	TakenAt string  `json:"taken_at"`
}

func toDoseJSON(d dose.Dose) doseJSON {
	return doseJSON{
		ID:      d.ID,
		Amount:  d.Amount,
		Unit:    string(d.Unit),
		TakenAt: d.TakenAt.Format(time.RFC3339),
	}
}

func (s *Server) handleListDoses(w http.ResponseWriter, r *http.Request) {
	doses, err := s.db.ListDoses()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	out := make([]doseJSON, len(doses))
	for i, d := range doses {
		out[i] = toDoseJSON(d)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count": len(out),
		"doses": out,
	})
}

func (s *Server) handleAddDose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount  float64 `json:"amount"`
		Unit    string  `json:"unit"`
		TakenAt string  `json:"taken_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	// Input boundary: a rejected dose must leave the collection unchanged,
	// so everything is validated before the insert.
	if err := dose.ValidateAmount(req.Amount); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	unit, err := dose.ParseUnit(req.Unit)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	takenAt := time.Now()
	if req.TakenAt != "" {
		takenAt, err = parseTimestamp(req.TakenAt)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
	}

	d := dose.Dose{
		ID:      uuid.NewString(),
		Amount:  req.Amount,
		Unit:    unit,
		TakenAt: takenAt,
	}
	if err := s.db.AddDose(d); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toDoseJSON(d))
}

func (s *Server) handleDeleteDose(w http.ResponseWriter, r *http.Request) {
	doseID := chi.URLParam(r, "doseID")

	removed, err := s.db.DeleteDose(doseID)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if !removed {
		http.Error(w, `{"error":"no such dose"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
}

func (s *Server) handleClearDoses(w http.ResponseWriter, r *http.Request) {
	n, err := s.db.ClearDoses()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "cleared",
		"removed": n,
	})
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	halfLife, err := s.halfLifeParam(r)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	// Resolve the default evaluation instant here so the computation and
	// the reported "at" use the same clock reading.
	at := time.Now()
	if v := r.URL.Query().Get("at"); v != "" {
		at, err = parseTimestamp(v)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
	}

	doses, err := s.db.ListDoses()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	cfg := decay.Config{HalfLifeHours: halfLife, At: at}
	level, err := decay.ActiveLevel(doses, cfg)
	if err != nil {
		// Only ErrInvalidHalfLife is reachable; surface it, never clamp.
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"level":           round2(level),
		"unit":            "mg",
		"at":              at.Format(time.RFC3339),
		"half_life_hours": halfLife,
		"doses":           len(doses),
	})
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	halfLife, err := s.halfLifeParam(r)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	doses, err := s.db.ListDoses()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	points, err := decay.Sample(doses, halfLife, time.Now())
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	type pointJSON struct {
		Time  string  `json:"time"`
		T     int64   `json:"t"`
		Level float64 `json:"level"`
	}
	out := make([]pointJSON, len(points))
	for i, p := range points {
		out[i] = pointJSON{
			Time:  p.At.Local().Format(displayTime),
			T:     p.At.UnixMilli(),
			Level: round2(p.Level),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"half_life_hours": halfLife,
		"count":           len(out),
		"points":          out,
	})
}

// halfLifeParam reads half_life_hours from the query, falling back to the
// configured default. Validation of the value itself happens in the decay
// package.
func (s *Server) halfLifeParam(r *http.Request) (float64, error) {
	v := r.URL.Query().Get("half_life_hours")
	if v == "" {
		return s.halfLife, nil
	}
	h, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("half_life_hours must be a number, got %q", v)
	}
	return h, nil
}

// parseTimestamp accepts RFC3339, or a local date-time without zone as
// entered by a browser datetime-local input.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("invalid timestamp (want RFC3339 or YYYY-MM-DDTHH:MM)")
}

// round2 rounds a level to 2 decimal places for display. Internal
// computation keeps full precision.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
