package domain

import (
	"context"
	"time"
)

// QuestionResponse is one conversational check-in: a question asked of the
// monitored person and their free-text answer. Immutable after creation;
// classified exactly once, at creation time.
type QuestionResponse struct {
	ID           int64      `json:"id"`
	UserID       string     `json:"user_id"`
	QuestionText string     `json:"question_text"`
	Response     string     `json:"response"`
	AskedAt      time.Time  `json:"asked_at"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
}

// QuestionRepository is the port for check-in persistence.
type QuestionRepository interface {
	// AddResponse stores the response and, when draft is non-nil, the alert
	// derived from it, in a single atomic write.
	AddResponse(ctx context.Context, q QuestionResponse, draft *AlertDraft) (*QuestionResponse, *Alert, error)
	ListResponses(ctx context.Context, userID string, since time.Time) ([]QuestionResponse, error)
}
