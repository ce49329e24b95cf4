package adapthttp

import (
	"net/http"

	"carelink/internal/app"
	"carelink/internal/domain"
)

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	includeDismissed := boolQuery(r, "include_dismissed")
	limit := intQuery(r, "limit", app.DefaultAlertLimit)

	alerts, err := s.alerts.List(r.Context(), userID, includeDismissed, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts, "count": len(alerts)})
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID  string `json:"user_id"`
		Type    string `json:"alert_type"`
		Title   string `json:"title"`
		Message string `json:"message"`
		Metric  string `json:"metric,omitempty"`
		Value   string `json:"value,omitempty"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	alert, err := s.alerts.CreateManual(r.Context(), app.ManualAlertInput{
		UserID:  body.UserID,
		Type:    body.Type,
		Title:   body.Title,
		Message: body.Message,
		Metric:  body.Metric,
		Value:   body.Value,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, alert)
}

func (s *Server) alertAction(w http.ResponseWriter, r *http.Request, do func(int64) error) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := do(id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "id": id})
}

func (s *Server) handleDismissAlert(w http.ResponseWriter, r *http.Request) {
	s.alertAction(w, r, func(id int64) error { return s.alerts.Dismiss(r.Context(), id) })
}

func (s *Server) handleAcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	s.alertAction(w, r, func(id int64) error { return s.alerts.Acknowledge(r.Context(), id) })
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	s.alertAction(w, r, func(id int64) error { return s.alerts.Delete(r.Context(), id) })
}
