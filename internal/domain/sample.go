// Package domain contains the core business entities, the repository ports,
// and the alert-derivation logic.
package domain

import (
	"context"
	"time"
)

// Data sources a health sample can originate from.
const (
	SourceManual     = "manual"
	SourceSimulation = "simulation"
	SourceDevice     = "device"
)

// HealthSample is one measurement batch for a monitored person at a point in
// time. Every metric is optional; a nil field means the metric was not
// measured. Samples are immutable after creation.
type HealthSample struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	Timestamp     time.Time `json:"timestamp"`
	HeartRate     *int      `json:"heart_rate,omitempty"`      // bpm
	BPSystolic    *int      `json:"blood_pressure_systolic,omitempty"`  // mmHg
	BPDiastolic   *int      `json:"blood_pressure_diastolic,omitempty"` // mmHg
	SleepHours    *float64  `json:"sleep_hours,omitempty"`
	SleepQuality  *int      `json:"sleep_quality,omitempty"`  // 1-10
	Steps         *int      `json:"steps,omitempty"`
	ActivityLevel *int      `json:"activity_level,omitempty"` // 1-100
	Mood          string    `json:"mood,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	IsManualEntry bool      `json:"is_manual_entry"`
	DataSource    string    `json:"data_source"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SampleRepository is the port for health-sample persistence.
type SampleRepository interface {
	// AddSample stores the sample together with the alerts derived from it
	// as a single atomic write: either the sample and every alert persist,
	// or nothing does.
	AddSample(ctx context.Context, sample HealthSample, drafts []AlertDraft) (*HealthSample, []Alert, error)
	ListSamples(ctx context.Context, userID string, from, to time.Time) ([]HealthSample, error)
	LatestSample(ctx context.Context, userID string) (*HealthSample, error)
	// ReplaceSimulated atomically deletes the user's prior simulated samples
	// and inserts the new batch, returning the number inserted.
	ReplaceSimulated(ctx context.Context, userID string, samples []HealthSample) (int, error)
}
