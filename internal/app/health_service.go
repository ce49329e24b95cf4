package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carelink/internal/domain"
	"carelink/internal/sim"

	"go.uber.org/zap"
)

// StatusCache caches computed status summaries. Implementations must treat
// a miss as (nil, nil).
type StatusCache interface {
	GetStatus(ctx context.Context, userID string) (*StatusSummary, error)
	SetStatus(ctx context.Context, userID string, s StatusSummary) error
	InvalidateStatus(ctx context.Context, userID string) error
}

// Notifier delivers out-of-band notifications for persisted alerts.
// Delivery failures never fail the originating request.
type Notifier interface {
	AlertCreated(ctx context.Context, alert domain.Alert)
}

// StatusCounts breaks active alerts down by severity.
type StatusCounts struct {
	Urgent  int `json:"urgent"`
	Warning int `json:"warning"`
	Info    int `json:"info"`
}

// StatusSummary is the overall health status rollup for a user.
type StatusSummary struct {
	Status      string       `json:"status"` // good, warning, alert
	Message     string       `json:"message"`
	AlertCounts StatusCounts `json:"alert_counts"`
	LastUpdated *time.Time   `json:"last_updated"`
}

// SampleInput carries one ingested measurement batch. Nil metric fields
// were not measured.
type SampleInput struct {
	UserID        string
	Timestamp     *time.Time
	HeartRate     *int
	BPSystolic    *int
	BPDiastolic   *int
	SleepHours    *float64
	SleepQuality  *int
	Steps         *int
	ActivityLevel *int
	Mood          string
	Notes         string
	IsManualEntry *bool
	DataSource    string
}

// HealthService covers sample ingestion, history, simulation and the
// overall status rollup.
type HealthService struct {
	samples    domain.SampleRepository
	alerts     domain.AlertRepository
	thresholds *ThresholdService
	cache      StatusCache // optional
	notifier   Notifier    // optional
	simSeed    int64
	logger     *zap.Logger
}

// NewHealthService wires a HealthService. cache and notifier may be nil.
func NewHealthService(
	samples domain.SampleRepository,
	alerts domain.AlertRepository,
	thresholds *ThresholdService,
	cache StatusCache,
	notifier Notifier,
	simSeed int64,
	logger *zap.Logger,
) *HealthService {
	return &HealthService{
		samples:    samples,
		alerts:     alerts,
		thresholds: thresholds,
		cache:      cache,
		notifier:   notifier,
		simSeed:    simSeed,
		logger:     logger,
	}
}

// IngestSample validates and stores one sample, evaluates it against the
// user's thresholds, and persists any derived alerts atomically with the
// sample. Field validation failures are reported as one aggregate error and
// leave no state behind.
func (s *HealthService) IngestSample(ctx context.Context, in SampleInput) (*domain.HealthSample, []domain.Alert, error) {
	sample, err := buildSample(in)
	if err != nil {
		return nil, nil, err
	}

	set, err := s.thresholds.Resolve(ctx, in.UserID)
	if err != nil {
		return nil, nil, err
	}
	drafts := domain.EvaluateSample(*sample, set)

	stored, alerts, err := s.samples.AddSample(ctx, *sample, drafts)
	if err != nil {
		return nil, nil, err
	}

	s.invalidateStatus(ctx, in.UserID)
	s.notifyAll(ctx, alerts)
	return stored, alerts, nil
}

// ListSamples returns a user's samples for the trailing days window,
// oldest first. The window is widened by a day on both ends so the whole
// current day is always included.
func (s *HealthService) ListSamples(ctx context.Context, userID string, days int) ([]domain.HealthSample, error) {
	if userID == "" {
		return nil, invalidf("user_id is required")
	}
	if days <= 0 {
		days = 7
	}
	to := time.Now().UTC().Add(24 * time.Hour)
	from := to.AddDate(0, 0, -(days + 1))
	return s.samples.ListSamples(ctx, userID, from, to)
}

// Resimulate replaces the user's simulated samples with a fresh generated
// batch and returns how many samples were written.
func (s *HealthService) Resimulate(ctx context.Context, userID string, days int) (int, error) {
	if userID == "" {
		return 0, invalidf("user_id is required")
	}
	if days <= 0 {
		days = 7
	}

	seed := s.simSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := sim.New(seed)

	count, err := s.samples.ReplaceSimulated(ctx, userID, gen.Generate(userID, time.Now().UTC(), days))
	if err != nil {
		return 0, err
	}

	for _, draft := range gen.DemoAlerts() {
		alert, err := s.alerts.AppendAlert(ctx, userID, draft)
		if err != nil {
			return count, err
		}
		s.logger.Info("demo alert created",
			zap.String("user_id", userID),
			zap.String("title", alert.Title),
		)
	}

	s.invalidateStatus(ctx, userID)
	return count, nil
}

// OverallStatus rolls up the user's active alerts from the last 24 hours
// into a single status. Served from the cache when one is configured.
func (s *HealthService) OverallStatus(ctx context.Context, userID string) (*StatusSummary, error) {
	if userID == "" {
		return nil, invalidf("user_id is required")
	}

	if s.cache != nil {
		cached, err := s.cache.GetStatus(ctx, userID)
		if err != nil {
			s.logger.Warn("status cache read failed", zap.String("user_id", userID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	since := time.Now().UTC().Add(-24 * time.Hour)
	recent, err := s.alerts.ListActiveSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	var counts StatusCounts
	for _, a := range recent {
		switch a.Type {
		case domain.AlertTypeAlert:
			counts.Urgent++
		case domain.AlertTypeWarning:
			counts.Warning++
		default:
			counts.Info++
		}
	}

	summary := StatusSummary{AlertCounts: counts}
	switch {
	case counts.Urgent > 0:
		summary.Status = "alert"
		summary.Message = "Immediate attention required"
	case counts.Warning > 0:
		summary.Status = "warning"
		summary.Message = "Some patterns need attention"
	default:
		summary.Status = "good"
		summary.Message = "Everything looks normal"
	}

	latest, err := s.samples.LatestSample(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if latest != nil {
		ts := latest.Timestamp
		summary.LastUpdated = &ts
	}

	if s.cache != nil {
		if err := s.cache.SetStatus(ctx, userID, summary); err != nil {
			s.logger.Warn("status cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return &summary, nil
}

func (s *HealthService) invalidateStatus(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateStatus(ctx, userID); err != nil {
		s.logger.Warn("status cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *HealthService) notifyAll(ctx context.Context, alerts []domain.Alert) {
	if s.notifier == nil {
		return
	}
	for _, a := range alerts {
		if a.Type == domain.AlertTypeAlert {
			s.notifier.AlertCreated(ctx, a)
		}
	}
}

// buildSample validates the input and assembles the sample to store. All
// field problems are reported together so the caller sees one aggregate
// failure for the whole ingestion.
func buildSample(in SampleInput) (*domain.HealthSample, error) {
	var problems []error
	if in.UserID == "" {
		problems = append(problems, errors.New("user_id is required"))
	}
	if in.HeartRate != nil && *in.HeartRate <= 0 {
		problems = append(problems, errors.New("heart_rate must be positive"))
	}
	if (in.BPSystolic == nil) != (in.BPDiastolic == nil) {
		problems = append(problems, errors.New("blood pressure requires both systolic and diastolic"))
	}
	if in.SleepHours != nil && (*in.SleepHours < 0 || *in.SleepHours > 24) {
		problems = append(problems, errors.New("sleep_hours must be within [0, 24]"))
	}
	if in.SleepQuality != nil && (*in.SleepQuality < 1 || *in.SleepQuality > 10) {
		problems = append(problems, errors.New("sleep_quality must be within [1, 10]"))
	}
	if in.Steps != nil && *in.Steps < 0 {
		problems = append(problems, errors.New("steps must not be negative"))
	}
	if in.ActivityLevel != nil && (*in.ActivityLevel < 1 || *in.ActivityLevel > 100) {
		problems = append(problems, errors.New("activity_level must be within [1, 100]"))
	}

	source := in.DataSource
	if source == "" {
		source = domain.SourceManual
	}
	switch source {
	case domain.SourceManual, domain.SourceSimulation, domain.SourceDevice:
	default:
		problems = append(problems, fmt.Errorf("data_source %q unknown", source))
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(problems...))
	}

	ts := time.Now().UTC()
	if in.Timestamp != nil {
		ts = in.Timestamp.UTC()
	}
	manual := true
	if in.IsManualEntry != nil {
		manual = *in.IsManualEntry
	}

	return &domain.HealthSample{
		UserID:        in.UserID,
		Timestamp:     ts,
		HeartRate:     in.HeartRate,
		BPSystolic:    in.BPSystolic,
		BPDiastolic:   in.BPDiastolic,
		SleepHours:    in.SleepHours,
		SleepQuality:  in.SleepQuality,
		Steps:         in.Steps,
		ActivityLevel: in.ActivityLevel,
		Mood:          in.Mood,
		Notes:         in.Notes,
		IsManualEntry: manual,
		DataSource:    source,
	}, nil
}
