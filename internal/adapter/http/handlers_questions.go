package adapthttp

import (
	"net/http"

	"carelink/internal/domain"
)

func (s *Server) handleQuestionResponse(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID   string `json:"user_id"`
		Question string `json:"question"`
		Response string `json:"response"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	stored, alert, topic, err := s.checkins.SubmitResponse(r.Context(), body.UserID, body.Question, body.Response)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := map[string]any{
		"data":          stored,
		"alert_created": alert != nil,
	}
	if alert != nil {
		resp["alert"] = alert
		resp["topic"] = topic
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	days := intQuery(r, "days", 7)

	responses, err := s.checkins.ListResponses(r.Context(), userID, days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if responses == nil {
		responses = []domain.QuestionResponse{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": responses, "count": len(responses)})
}
