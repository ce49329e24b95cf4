package adapthttp

import (
	"net/http"

	"carelink/internal/app"
	"carelink/internal/domain"
)

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reminders, err := s.reminders.List(r.Context(),
		q.Get("user_id"), q.Get("status"), q.Get("reminder_type"), boolQuery(r, "today_only"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if reminders == nil {
		reminders = []domain.Reminder{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reminders": reminders, "count": len(reminders)})
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID       string `json:"user_id"`
		Title        string `json:"title"`
		Description  string `json:"description,omitempty"`
		Priority     string `json:"priority,omitempty"`
		ReminderType string `json:"reminder_type,omitempty"`
		StartDate    string `json:"start_date,omitempty"`
		CreatedBy    string `json:"created_by,omitempty"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	reminder, err := s.reminders.Create(r.Context(), app.ReminderInput{
		UserID:       body.UserID,
		Title:        body.Title,
		Description:  body.Description,
		Priority:     body.Priority,
		ReminderType: body.ReminderType,
		StartDate:    body.StartDate,
		CreatedBy:    body.CreatedBy,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reminder)
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Title        *string `json:"title,omitempty"`
		Description  *string `json:"description,omitempty"`
		Priority     *string `json:"priority,omitempty"`
		ReminderType *string `json:"reminder_type,omitempty"`
		StartDate    *string `json:"start_date,omitempty"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	reminder, err := s.reminders.Update(r.Context(), id, app.ReminderUpdate{
		Title:        body.Title,
		Description:  body.Description,
		Priority:     body.Priority,
		ReminderType: body.ReminderType,
		StartDate:    body.StartDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

func (s *Server) handleCompleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	reminder, err := s.reminders.Complete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.reminders.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "id": id})
}
