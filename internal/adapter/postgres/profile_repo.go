package postgres

import (
	"context"
	"database/sql"
	"time"

	"carelink/internal/domain"
)

const profileColumns = `id, user_id, name, user_type, monitored_user_id,
	alert_thresholds, created_at, updated_at, last_login`

// GetProfile returns the profile for a user id.
func (d *DB) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM user_profiles WHERE user_id=$1;", userID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProfile stores a new profile.
func (d *DB) CreateProfile(ctx context.Context, profile domain.UserProfile) (*domain.UserProfile, error) {
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	err := d.sql.QueryRowContext(ctx,
		`INSERT INTO user_profiles (user_id, name, user_type, monitored_user_id, alert_thresholds, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id;`,
		profile.UserID, profile.Name, profile.UserType, profile.MonitoredUserID,
		profile.AlertThresholds, profile.CreatedAt, profile.UpdatedAt,
	).Scan(&profile.ID)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies a partial change and returns the updated row. An
// update for an unknown user creates the profile first.
func (d *DB) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.UserProfile, error) {
	p, err := d.GetProfile(ctx, userID)
	if err == domain.ErrNotFound {
		p, err = d.CreateProfile(ctx, domain.UserProfile{UserID: userID, UserType: "parent"})
	}
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.UserType != nil {
		p.UserType = *upd.UserType
	}
	if upd.MonitoredUserID != nil {
		p.MonitoredUserID = *upd.MonitoredUserID
	}
	if upd.AlertThresholds != nil {
		p.AlertThresholds = *upd.AlertThresholds
	}
	p.UpdatedAt = time.Now().UTC()

	_, err = d.sql.ExecContext(ctx,
		`UPDATE user_profiles SET name=$2, user_type=$3, monitored_user_id=$4,
			alert_thresholds=$5, updated_at=$6 WHERE user_id=$1;`,
		userID, p.Name, p.UserType, p.MonitoredUserID, p.AlertThresholds, p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanProfile(row rowScanner) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.UserType, &p.MonitoredUserID,
		&p.AlertThresholds, &p.CreatedAt, &p.UpdatedAt, &p.LastLogin)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
