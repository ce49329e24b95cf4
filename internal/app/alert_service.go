package app

import (
	"context"

	"carelink/internal/domain"
)

// DefaultAlertLimit caps alert listings unless the caller asks otherwise.
const DefaultAlertLimit = 20

// ManualAlertInput carries a caregiver-authored alert. Type, title and
// message are taken as given; no evaluator runs.
type ManualAlertInput struct {
	UserID  string
	Type    string
	Title   string
	Message string
	Metric  string
	Value   string
}

// AlertService manages the persisted alert lifecycle.
type AlertService struct {
	alerts   domain.AlertRepository
	cache    StatusCache // optional
	notifier Notifier    // optional
}

// NewAlertService creates an AlertService. cache and notifier may be nil.
func NewAlertService(alerts domain.AlertRepository, cache StatusCache, notifier Notifier) *AlertService {
	return &AlertService{alerts: alerts, cache: cache, notifier: notifier}
}

// List returns a user's alerts newest-first. Dismissed alerts are excluded
// unless includeDismissed is set; limit defaults to DefaultAlertLimit.
func (s *AlertService) List(ctx context.Context, userID string, includeDismissed bool, limit int) ([]domain.Alert, error) {
	if userID == "" {
		return nil, invalidf("user_id is required")
	}
	if limit <= 0 {
		limit = DefaultAlertLimit
	}
	return s.alerts.ListAlerts(ctx, userID, includeDismissed, limit)
}

// Dismiss marks an alert dismissed. Dismissing twice is not an error and
// keeps the first dismissal timestamp.
func (s *AlertService) Dismiss(ctx context.Context, id int64) error {
	alert, err := s.alerts.GetAlert(ctx, id)
	if err != nil {
		return err
	}
	if err := s.alerts.DismissAlert(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, alert.UserID)
	return nil
}

// Acknowledge marks an alert acknowledged, idempotently.
func (s *AlertService) Acknowledge(ctx context.Context, id int64) error {
	alert, err := s.alerts.GetAlert(ctx, id)
	if err != nil {
		return err
	}
	if err := s.alerts.AcknowledgeAlert(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, alert.UserID)
	return nil
}

// Delete removes an alert permanently.
func (s *AlertService) Delete(ctx context.Context, id int64) error {
	alert, err := s.alerts.GetAlert(ctx, id)
	if err != nil {
		return err
	}
	if err := s.alerts.DeleteAlert(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, alert.UserID)
	return nil
}

// CreateManual persists a caregiver-authored alert, bypassing evaluators.
func (s *AlertService) CreateManual(ctx context.Context, in ManualAlertInput) (*domain.Alert, error) {
	if in.UserID == "" || in.Type == "" || in.Title == "" || in.Message == "" {
		return nil, invalidf("user_id, alert_type, title, and message are required")
	}
	alert, err := s.alerts.AppendAlert(ctx, in.UserID, domain.AlertDraft{
		Type:    in.Type,
		Title:   in.Title,
		Message: in.Message,
		Metric:  in.Metric,
		Value:   in.Value,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, in.UserID)
	if s.notifier != nil && alert.Type == domain.AlertTypeAlert {
		s.notifier.AlertCreated(ctx, *alert)
	}
	return alert, nil
}

func (s *AlertService) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		_ = s.cache.InvalidateStatus(ctx, userID)
	}
}
