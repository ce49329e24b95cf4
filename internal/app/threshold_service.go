// Package app holds the application services and business logic.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"carelink/internal/domain"

	"go.uber.org/zap"
)

// ThresholdService resolves and updates per-user alert thresholds.
type ThresholdService struct {
	profiles domain.ProfileRepository
	logger   *zap.Logger
}

// NewThresholdService creates a ThresholdService backed by the given
// profile repository.
func NewThresholdService(profiles domain.ProfileRepository, logger *zap.Logger) *ThresholdService {
	return &ThresholdService{profiles: profiles, logger: logger}
}

// Resolve returns the active threshold set for a user: the stored override
// document merged left-biased onto the defaults. A user without a profile
// or without overrides gets the full default set. The only error source is
// the store read itself; resolution always yields a usable set otherwise.
func (s *ThresholdService) Resolve(ctx context.Context, userID string) (domain.ThresholdSet, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultThresholds(), nil
	}
	if err != nil {
		return domain.ThresholdSet{}, err
	}
	if profile.AlertThresholds == "" {
		return domain.DefaultThresholds(), nil
	}

	var overrides domain.ThresholdOverrides
	if err := json.Unmarshal([]byte(profile.AlertThresholds), &overrides); err != nil {
		// The override document is only ever written by this service, so a
		// decode failure means the stored state is corrupt. Refusing to
		// guess at thresholds for a monitored person is the safe option.
		s.logger.Fatal("alert_thresholds document is corrupt",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
	return overrides.Apply(domain.DefaultThresholds()), nil
}

// OverrideDocument validates overrides against the defaults and returns
// the JSON document to store on the profile. Callers that update other
// profile fields in the same request fold the document into their single
// profile write.
func (s *ThresholdService) OverrideDocument(overrides domain.ThresholdOverrides) (string, error) {
	merged := overrides.Apply(domain.DefaultThresholds())
	if err := merged.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	raw, err := json.Marshal(overrides)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// UpdateOverrides validates and replaces a user's threshold overrides,
// returning the resulting merged set. Metrics absent from the override keep
// their defaults.
func (s *ThresholdService) UpdateOverrides(ctx context.Context, userID string, overrides domain.ThresholdOverrides) (domain.ThresholdSet, error) {
	doc, err := s.OverrideDocument(overrides)
	if err != nil {
		return domain.ThresholdSet{}, err
	}
	if _, err := s.profiles.UpdateProfile(ctx, userID, domain.ProfileUpdate{AlertThresholds: &doc}); err != nil {
		return domain.ThresholdSet{}, err
	}
	return overrides.Apply(domain.DefaultThresholds()), nil
}
