package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"carelink/internal/domain"
)

const reminderColumns = `id, user_id, title, description, priority, status,
	reminder_type, start_date, last_completed_date, created_at, completed_at,
	created_by`

// CreateReminder stores a new reminder.
func (d *DB) CreateReminder(ctx context.Context, r domain.Reminder) (*domain.Reminder, error) {
	r.CreatedAt = time.Now().UTC()
	err := d.sql.QueryRowContext(ctx,
		`INSERT INTO reminders (user_id, title, description, priority, status,
			reminder_type, start_date, last_completed_date, created_at, created_by)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id;`,
		r.UserID, r.Title, r.Description, r.Priority, r.Status, r.ReminderType,
		r.StartDate, r.LastCompletedDate, r.CreatedAt, r.CreatedBy,
	).Scan(&r.ID)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetReminder returns one reminder by id.
func (d *DB) GetReminder(ctx context.Context, id int64) (*domain.Reminder, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+reminderColumns+" FROM reminders WHERE id=$1;", id)
	r, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// SaveReminder writes back every mutable field of r.
func (d *DB) SaveReminder(ctx context.Context, r *domain.Reminder) error {
	res, err := d.sql.ExecContext(ctx,
		`UPDATE reminders SET title=$2, description=$3, priority=$4, status=$5,
			reminder_type=$6, start_date=$7, last_completed_date=$8,
			completed_at=$9 WHERE id=$1;`,
		r.ID, r.Title, r.Description, r.Priority, r.Status, r.ReminderType,
		r.StartDate, r.LastCompletedDate, r.CompletedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteReminder removes a reminder permanently.
func (d *DB) DeleteReminder(ctx context.Context, id int64) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM reminders WHERE id=$1;", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListReminders returns a user's reminders newest-first, filtered. The
// today filter keeps active event reminders started by the given day plus
// active daily reminders last completed before it.
func (d *DB) ListReminders(ctx context.Context, userID string, f domain.ReminderFilter) ([]domain.Reminder, error) {
	query := "SELECT " + reminderColumns + " FROM reminders WHERE user_id=$1"
	args := []any{userID}

	if f.Status != "" {
		args = append(args, f.Status)
		query += " AND status=$" + strconv.Itoa(len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		query += " AND reminder_type=$" + strconv.Itoa(len(args))
	}
	if f.TodayOnly {
		args = append(args, f.Today)
		n := strconv.Itoa(len(args))
		query += ` AND status='active' AND ((reminder_type='daily' AND (last_completed_date < $` + n + ` OR last_completed_date=''))
			OR (reminder_type='event' AND (start_date='' OR start_date <= $` + n + `)))`
	}
	query += " ORDER BY created_at DESC;"

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func scanReminder(row rowScanner) (*domain.Reminder, error) {
	var r domain.Reminder
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.Priority,
		&r.Status, &r.ReminderType, &r.StartDate, &r.LastCompletedDate,
		&r.CreatedAt, &r.CompletedAt, &r.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
