package postgres

import (
	"context"
	"database/sql"
	"time"

	"carelink/internal/domain"
)

const alertColumns = `id, user_id, alert_type, title, message, metric, value,
	threshold_data, is_dismissed, is_acknowledged, created_at, dismissed_at,
	acknowledged_at`

type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertAlert(ctx context.Context, q execer, userID string, draft domain.AlertDraft, createdAt time.Time) (*domain.Alert, error) {
	alert := domain.Alert{
		UserID:    userID,
		Type:      draft.Type,
		Title:     draft.Title,
		Message:   draft.Message,
		Metric:    draft.Metric,
		Value:     draft.Value,
		CreatedAt: createdAt,
	}
	err := q.QueryRowContext(ctx,
		`INSERT INTO alerts (user_id, alert_type, title, message, metric, value, threshold_data, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id;`,
		userID, draft.Type, draft.Title, draft.Message, draft.Metric, draft.Value,
		alert.ThresholdData, createdAt,
	).Scan(&alert.ID)
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// AppendAlert persists a draft as a new active alert.
func (d *DB) AppendAlert(ctx context.Context, userID string, draft domain.AlertDraft) (*domain.Alert, error) {
	return insertAlert(ctx, d.sql, userID, draft, time.Now().UTC())
}

// GetAlert returns one alert by id.
func (d *DB) GetAlert(ctx context.Context, id int64) (*domain.Alert, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+alertColumns+" FROM alerts WHERE id=$1;", id)
	a, err := scanAlert(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAlerts returns a user's alerts newest-first, up to limit, hiding
// dismissed alerts unless asked for.
func (d *DB) ListAlerts(ctx context.Context, userID string, includeDismissed bool, limit int) ([]domain.Alert, error) {
	query := "SELECT " + alertColumns + " FROM alerts WHERE user_id=$1"
	if !includeDismissed {
		query += " AND NOT is_dismissed"
	}
	query += " ORDER BY created_at DESC LIMIT $2;"

	rows, err := d.sql.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Alert, 0, limit)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// ListActiveSince returns undismissed alerts created at or after since,
// newest first.
func (d *DB) ListActiveSince(ctx context.Context, userID string, since time.Time) ([]domain.Alert, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+alertColumns+" FROM alerts WHERE user_id=$1 AND NOT is_dismissed AND created_at >= $2 ORDER BY created_at DESC;",
		userID, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// DismissAlert marks an alert dismissed. COALESCE keeps the first dismissal
// timestamp on repeat calls.
func (d *DB) DismissAlert(ctx context.Context, id int64) error {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE alerts SET is_dismissed=TRUE, dismissed_at=COALESCE(dismissed_at, $2) WHERE id=$1;",
		id, time.Now().UTC())
	if err != nil {
		return err
	}
	return requireRow(res)
}

// AcknowledgeAlert marks an alert acknowledged, keeping the first
// acknowledgement timestamp.
func (d *DB) AcknowledgeAlert(ctx context.Context, id int64) error {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE alerts SET is_acknowledged=TRUE, acknowledged_at=COALESCE(acknowledged_at, $2) WHERE id=$1;",
		id, time.Now().UTC())
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteAlert removes an alert permanently.
func (d *DB) DeleteAlert(ctx context.Context, id int64) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM alerts WHERE id=$1;", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAlert(row rowScanner) (*domain.Alert, error) {
	var a domain.Alert
	err := row.Scan(&a.ID, &a.UserID, &a.Type, &a.Title, &a.Message, &a.Metric,
		&a.Value, &a.ThresholdData, &a.IsDismissed, &a.IsAcknowledged,
		&a.CreatedAt, &a.DismissedAt, &a.AcknowledgedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
