package domain

import (
	"context"
	"fmt"
	"time"
)

// ThresholdSet holds the per-metric bounds a sample is judged against.
type ThresholdSet struct {
	HeartRateMin     int     `json:"heartRateMin"`
	HeartRateMax     int     `json:"heartRateMax"`
	BPSystolicMax    int     `json:"bpSystolicMax"`
	BPDiastolicMax   int     `json:"bpDiastolicMax"`
	SleepHoursMin    float64 `json:"sleepHoursMin"`
	ActivityLevelMin int     `json:"activityLevelMin"`
}

// DefaultThresholds returns the fixed global default set used when a user
// has no override for a metric.
func DefaultThresholds() ThresholdSet {
	return ThresholdSet{
		HeartRateMin:     60,
		HeartRateMax:     100,
		BPSystolicMax:    140,
		BPDiastolicMax:   90,
		SleepHoursMin:    6,
		ActivityLevelMin: 30,
	}
}

// Validate checks the structural invariants of a threshold set.
func (t ThresholdSet) Validate() error {
	if t.HeartRateMin <= 0 || t.HeartRateMax <= 0 || t.BPSystolicMax <= 0 ||
		t.BPDiastolicMax <= 0 || t.SleepHoursMin <= 0 || t.ActivityLevelMin <= 0 {
		return fmt.Errorf("all threshold bounds must be positive")
	}
	if t.HeartRateMin > t.HeartRateMax {
		return fmt.Errorf("heartRateMin %d exceeds heartRateMax %d", t.HeartRateMin, t.HeartRateMax)
	}
	return nil
}

// ThresholdOverrides is a partial threshold mapping stored per user. A nil
// field means "use the default", never zero.
type ThresholdOverrides struct {
	HeartRateMin     *int     `json:"heartRateMin,omitempty"`
	HeartRateMax     *int     `json:"heartRateMax,omitempty"`
	BPSystolicMax    *int     `json:"bpSystolicMax,omitempty"`
	BPDiastolicMax   *int     `json:"bpDiastolicMax,omitempty"`
	SleepHoursMin    *float64 `json:"sleepHoursMin,omitempty"`
	ActivityLevelMin *int     `json:"activityLevelMin,omitempty"`
}

// Apply merges the overrides onto base, left-biased: only the keys present
// in the override replace the base values.
func (o ThresholdOverrides) Apply(base ThresholdSet) ThresholdSet {
	out := base
	if o.HeartRateMin != nil {
		out.HeartRateMin = *o.HeartRateMin
	}
	if o.HeartRateMax != nil {
		out.HeartRateMax = *o.HeartRateMax
	}
	if o.BPSystolicMax != nil {
		out.BPSystolicMax = *o.BPSystolicMax
	}
	if o.BPDiastolicMax != nil {
		out.BPDiastolicMax = *o.BPDiastolicMax
	}
	if o.SleepHoursMin != nil {
		out.SleepHoursMin = *o.SleepHoursMin
	}
	if o.ActivityLevelMin != nil {
		out.ActivityLevelMin = *o.ActivityLevelMin
	}
	return out
}

// UserProfile describes a known user: a monitored parent or a caregiver.
// AlertThresholds holds the user's threshold overrides as the JSON document
// this system wrote; empty means no override.
type UserProfile struct {
	ID              int64      `json:"id"`
	UserID          string     `json:"user_id"`
	Name            string     `json:"name"`
	UserType        string     `json:"user_type"` // caregiver, parent
	MonitoredUserID string     `json:"monitored_user_id,omitempty"`
	AlertThresholds string     `json:"alert_thresholds,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
}

// ProfileUpdate is a partial profile change; nil fields are left untouched.
type ProfileUpdate struct {
	Name            *string
	UserType        *string
	MonitoredUserID *string
	AlertThresholds *string
}

// ProfileRepository is the port for user-profile persistence.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	CreateProfile(ctx context.Context, profile UserProfile) (*UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*UserProfile, error)
}
