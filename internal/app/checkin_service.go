package app

import (
	"context"
	"time"

	"carelink/internal/domain"
)

// CheckinService stores conversational check-in responses and derives
// alerts from concerning answers.
type CheckinService struct {
	questions domain.QuestionRepository
	cache     StatusCache // optional
	notifier  Notifier    // optional
}

// NewCheckinService creates a CheckinService. cache and notifier may be nil.
func NewCheckinService(questions domain.QuestionRepository, cache StatusCache, notifier Notifier) *CheckinService {
	return &CheckinService{questions: questions, cache: cache, notifier: notifier}
}

// SubmitResponse stores a question/response pair, classifies it, and
// persists the derived alert (if any) atomically with the response. It
// returns the stored response, the persisted alert or nil, and the routed
// topic ("" when the response raised no alert).
func (s *CheckinService) SubmitResponse(ctx context.Context, userID, question, response string) (*domain.QuestionResponse, *domain.Alert, string, error) {
	if userID == "" || question == "" || response == "" {
		return nil, nil, "", invalidf("user_id, question, and response are required")
	}

	draft, topic := domain.ClassifyResponse(question, response)

	now := time.Now().UTC()
	stored, alert, err := s.questions.AddResponse(ctx, domain.QuestionResponse{
		UserID:       userID,
		QuestionText: question,
		Response:     response,
		AskedAt:      now,
		RespondedAt:  &now,
	}, draft)
	if err != nil {
		return nil, nil, "", err
	}

	if alert != nil {
		if s.cache != nil {
			_ = s.cache.InvalidateStatus(ctx, userID)
		}
		if s.notifier != nil && alert.Type == domain.AlertTypeAlert {
			s.notifier.AlertCreated(ctx, *alert)
		}
	}
	return stored, alert, topic, nil
}

// ListResponses returns a user's responses from the trailing days window,
// newest first.
func (s *CheckinService) ListResponses(ctx context.Context, userID string, days int) ([]domain.QuestionResponse, error) {
	if userID == "" {
		return nil, invalidf("user_id is required")
	}
	if days <= 0 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	return s.questions.ListResponses(ctx, userID, since)
}
