package adapthttp

import (
	"errors"
	"net/http"
	"time"

	"carelink/internal/app"
	"carelink/internal/domain"
)

type sampleRequest struct {
	UserID        string   `json:"user_id"`
	Timestamp     string   `json:"timestamp,omitempty"`
	HeartRate     *int     `json:"heart_rate,omitempty"`
	BPSystolic    *int     `json:"blood_pressure_systolic,omitempty"`
	BPDiastolic   *int     `json:"blood_pressure_diastolic,omitempty"`
	SleepHours    *float64 `json:"sleep_hours,omitempty"`
	SleepQuality  *int     `json:"sleep_quality,omitempty"`
	Steps         *int     `json:"steps,omitempty"`
	ActivityLevel *int     `json:"activity_level,omitempty"`
	Mood          string   `json:"mood,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	IsManualEntry *bool    `json:"is_manual_entry,omitempty"`
	DataSource    string   `json:"data_source,omitempty"`
}

func (s *Server) handleIngestSample(w http.ResponseWriter, r *http.Request) {
	var body sampleRequest
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	in := app.SampleInput{
		UserID:        body.UserID,
		HeartRate:     body.HeartRate,
		BPSystolic:    body.BPSystolic,
		BPDiastolic:   body.BPDiastolic,
		SleepHours:    body.SleepHours,
		SleepQuality:  body.SleepQuality,
		Steps:         body.Steps,
		ActivityLevel: body.ActivityLevel,
		Mood:          body.Mood,
		Notes:         body.Notes,
		IsManualEntry: body.IsManualEntry,
		DataSource:    body.DataSource,
	}
	if body.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, body.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("timestamp must be RFC 3339"))
			return
		}
		in.Timestamp = &ts
	}

	sample, alerts, err := s.health.IngestSample(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"data":   sample,
		"alerts": alerts,
	})
}

func (s *Server) handleListSamples(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	days := intQuery(r, "days", 7)

	samples, err := s.health.ListSamples(r.Context(), userID, days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if samples == nil {
		samples = []domain.HealthSample{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": samples, "count": len(samples)})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"user_id"`
		Days   int    `json:"days,omitempty"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	count, err := s.health.Resimulate(r.Context(), body.UserID, body.Days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"generated": count})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	summary, err := s.health.OverallStatus(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
