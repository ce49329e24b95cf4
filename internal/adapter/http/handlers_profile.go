package adapthttp

import (
	"errors"
	"net/http"

	"carelink/internal/domain"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")

	profile, err := s.profiles.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")

	var body struct {
		Name            *string                    `json:"name,omitempty"`
		UserType        *string                    `json:"user_type,omitempty"`
		MonitoredUserID *string                    `json:"monitored_user_id,omitempty"`
		AlertThresholds *domain.ThresholdOverrides `json:"alert_thresholds,omitempty"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	upd := domain.ProfileUpdate{
		Name:            body.Name,
		UserType:        body.UserType,
		MonitoredUserID: body.MonitoredUserID,
	}
	// The override document joins the other fields in one profile write so a
	// rejected update cannot leave thresholds half-changed.
	if body.AlertThresholds != nil {
		doc, err := s.thresholds.OverrideDocument(*body.AlertThresholds)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		upd.AlertThresholds = &doc
	}

	profile, err := s.profiles.Update(r.Context(), userID, upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetThresholds(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, errors.New("user_id is required"))
		return
	}

	set, err := s.thresholds.Resolve(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}
