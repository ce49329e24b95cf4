package postgres

import (
	"context"
	"time"

	"carelink/internal/domain"
)

// AddResponse stores a check-in response and, when a draft is given, the
// alert derived from it, in one transaction.
func (d *DB) AddResponse(ctx context.Context, q domain.QuestionResponse, draft *domain.AlertDraft) (*domain.QuestionResponse, *domain.Alert, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	err = tx.QueryRowContext(ctx,
		`INSERT INTO question_responses (user_id, question_text, response, asked_at, responded_at)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id;`,
		q.UserID, q.QuestionText, q.Response, q.AskedAt.UTC(), q.RespondedAt,
	).Scan(&q.ID)
	if err != nil {
		return nil, nil, err
	}

	var alert *domain.Alert
	if draft != nil {
		alert, err = insertAlert(ctx, tx, q.UserID, *draft, time.Now().UTC())
		if err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return &q, alert, nil
}

// ListResponses returns a user's responses since the given time, newest
// first.
func (d *DB) ListResponses(ctx context.Context, userID string, since time.Time) ([]domain.QuestionResponse, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, user_id, question_text, response, asked_at, responded_at
		 FROM question_responses WHERE user_id=$1 AND asked_at >= $2
		 ORDER BY asked_at DESC;`,
		userID, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.QuestionResponse
	for rows.Next() {
		var q domain.QuestionResponse
		if err := rows.Scan(&q.ID, &q.UserID, &q.QuestionText, &q.Response, &q.AskedAt, &q.RespondedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
