package domain

import (
	"context"
	"time"
)

// Alert severities, from least to most urgent.
const (
	AlertTypeInfo    = "info"
	AlertTypeWarning = "warning"
	AlertTypeAlert   = "alert"
)

// Metric tags carried by alerts.
const (
	MetricHeartRate     = "heartRate"
	MetricBloodPressure = "bloodPressure"
	MetricSleep         = "sleep"
	MetricActivity      = "activity"
	MetricMood          = "mood"
	MetricPain          = "pain"
	MetricMedication    = "medication"
	MetricEnergy        = "energy"
	MetricHydration     = "hydration"
)

// AlertDraft is a computed, not-yet-persisted alert produced by an evaluator
// and consumed immediately by the alert store.
type AlertDraft struct {
	Type    string
	Title   string
	Message string
	Metric  string
	Value   string
}

// Alert is a persisted alert record. Only the dismissed/acknowledged flags
// and their timestamps ever change after creation.
type Alert struct {
	ID             int64      `json:"id"`
	UserID         string     `json:"user_id"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	Metric         string     `json:"metric,omitempty"`
	Value          string     `json:"value,omitempty"`
	ThresholdData  string     `json:"threshold_data,omitempty"` // JSON snapshot, may be empty
	IsDismissed    bool       `json:"is_dismissed"`
	IsAcknowledged bool       `json:"is_acknowledged"`
	CreatedAt      time.Time  `json:"timestamp"`
	DismissedAt    *time.Time `json:"dismissed_at,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
}

// AlertRepository is the port for alert persistence. It exclusively owns the
// alert row lifecycle; evaluators only produce drafts.
type AlertRepository interface {
	// AppendAlert persists a draft for a user, assigning id and creation
	// timestamp. Dismissed and acknowledged default to false.
	AppendAlert(ctx context.Context, userID string, draft AlertDraft) (*Alert, error)
	GetAlert(ctx context.Context, id int64) (*Alert, error)
	// ListAlerts returns alerts newest-first, up to limit. Dismissed alerts
	// are excluded unless includeDismissed is set.
	ListAlerts(ctx context.Context, userID string, includeDismissed bool, limit int) ([]Alert, error)
	// ListActiveSince returns undismissed alerts created at or after since.
	ListActiveSince(ctx context.Context, userID string, since time.Time) ([]Alert, error)
	// DismissAlert marks the alert dismissed. Dismissing an already
	// dismissed alert keeps the original dismissal timestamp.
	DismissAlert(ctx context.Context, id int64) error
	// AcknowledgeAlert marks the alert acknowledged, retaining the first
	// acknowledgement timestamp.
	AcknowledgeAlert(ctx context.Context, id int64) error
	DeleteAlert(ctx context.Context, id int64) error
}
