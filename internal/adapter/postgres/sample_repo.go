package postgres

import (
	"context"
	"database/sql"
	"time"

	"carelink/internal/domain"
)

const sampleColumns = `id, user_id, ts, heart_rate, bp_systolic, bp_diastolic,
	sleep_hours, sleep_quality, steps, activity_level, mood, notes,
	is_manual_entry, data_source, created_at, updated_at`

// AddSample stores the sample and the alerts derived from it in one
// transaction, so a failed alert insert also rolls the sample back.
func (d *DB) AddSample(ctx context.Context, sample domain.HealthSample, drafts []domain.AlertDraft) (*domain.HealthSample, []domain.Alert, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	sample.CreatedAt = now
	sample.UpdatedAt = now
	err = tx.QueryRowContext(ctx,
		`INSERT INTO health_samples
			(user_id, ts, heart_rate, bp_systolic, bp_diastolic, sleep_hours,
			 sleep_quality, steps, activity_level, mood, notes, is_manual_entry,
			 data_source, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		 RETURNING id;`,
		sample.UserID, sample.Timestamp.UTC(), sample.HeartRate, sample.BPSystolic,
		sample.BPDiastolic, sample.SleepHours, sample.SleepQuality, sample.Steps,
		sample.ActivityLevel, sample.Mood, sample.Notes, sample.IsManualEntry,
		sample.DataSource, sample.CreatedAt, sample.UpdatedAt,
	).Scan(&sample.ID)
	if err != nil {
		return nil, nil, err
	}

	alerts := make([]domain.Alert, 0, len(drafts))
	for _, draft := range drafts {
		alert, err := insertAlert(ctx, tx, sample.UserID, draft, now)
		if err != nil {
			return nil, nil, err
		}
		alerts = append(alerts, *alert)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return &sample, alerts, nil
}

// ListSamples returns a user's samples in [from, to), oldest first.
func (d *DB) ListSamples(ctx context.Context, userID string, from, to time.Time) ([]domain.HealthSample, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+sampleColumns+" FROM health_samples WHERE user_id=$1 AND ts >= $2 AND ts < $3 ORDER BY ts ASC;",
		userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.HealthSample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// LatestSample returns the user's newest sample by measurement time.
func (d *DB) LatestSample(ctx context.Context, userID string) (*domain.HealthSample, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+sampleColumns+" FROM health_samples WHERE user_id=$1 ORDER BY ts DESC LIMIT 1;",
		userID)
	s, err := scanSample(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ReplaceSimulated swaps out the user's simulated samples for a new batch
// in one transaction.
func (d *DB) ReplaceSimulated(ctx context.Context, userID string, samples []domain.HealthSample) (int, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM health_samples WHERE user_id=$1 AND data_source='simulation';", userID); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	for _, s := range samples {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO health_samples
				(user_id, ts, heart_rate, bp_systolic, bp_diastolic, sleep_hours,
				 sleep_quality, steps, activity_level, mood, notes, is_manual_entry,
				 data_source, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15);`,
			s.UserID, s.Timestamp.UTC(), s.HeartRate, s.BPSystolic, s.BPDiastolic,
			s.SleepHours, s.SleepQuality, s.Steps, s.ActivityLevel, s.Mood, s.Notes,
			s.IsManualEntry, s.DataSource, now, now); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(samples), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (*domain.HealthSample, error) {
	var s domain.HealthSample
	err := row.Scan(&s.ID, &s.UserID, &s.Timestamp, &s.HeartRate, &s.BPSystolic,
		&s.BPDiastolic, &s.SleepHours, &s.SleepQuality, &s.Steps, &s.ActivityLevel,
		&s.Mood, &s.Notes, &s.IsManualEntry, &s.DataSource, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
