package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"carelink/internal/app"
	"carelink/internal/domain"

	"go.uber.org/zap"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

type mockSampleRepo struct {
	addFn     func(ctx context.Context, sample domain.HealthSample, drafts []domain.AlertDraft) (*domain.HealthSample, []domain.Alert, error)
	listFn    func(ctx context.Context, userID string, from, to time.Time) ([]domain.HealthSample, error)
	latestFn  func(ctx context.Context, userID string) (*domain.HealthSample, error)
	replaceFn func(ctx context.Context, userID string, samples []domain.HealthSample) (int, error)
}

func (m *mockSampleRepo) AddSample(ctx context.Context, sample domain.HealthSample, drafts []domain.AlertDraft) (*domain.HealthSample, []domain.Alert, error) {
	if m.addFn != nil {
		return m.addFn(ctx, sample, drafts)
	}
	stored := sample
	stored.ID = 1
	alerts := make([]domain.Alert, 0, len(drafts))
	for i, d := range drafts {
		alerts = append(alerts, domain.Alert{
			ID: int64(i + 1), UserID: sample.UserID, Type: d.Type, Title: d.Title,
			Message: d.Message, Metric: d.Metric, Value: d.Value, CreatedAt: time.Now(),
		})
	}
	return &stored, alerts, nil
}

func (m *mockSampleRepo) ListSamples(ctx context.Context, userID string, from, to time.Time) ([]domain.HealthSample, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, from, to)
	}
	return nil, nil
}

func (m *mockSampleRepo) LatestSample(ctx context.Context, userID string) (*domain.HealthSample, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSampleRepo) ReplaceSimulated(ctx context.Context, userID string, samples []domain.HealthSample) (int, error) {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, userID, samples)
	}
	return len(samples), nil
}

type mockCache struct {
	getFn       func(ctx context.Context, userID string) (*app.StatusSummary, error)
	setFn       func(ctx context.Context, userID string, s app.StatusSummary) error
	invalidated []string
}

func (m *mockCache) GetStatus(ctx context.Context, userID string) (*app.StatusSummary, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockCache) SetStatus(ctx context.Context, userID string, s app.StatusSummary) error {
	if m.setFn != nil {
		return m.setFn(ctx, userID, s)
	}
	return nil
}

func (m *mockCache) InvalidateStatus(_ context.Context, userID string) error {
	m.invalidated = append(m.invalidated, userID)
	return nil
}

type mockNotifier struct {
	created []domain.Alert
}

func (m *mockNotifier) AlertCreated(_ context.Context, alert domain.Alert) {
	m.created = append(m.created, alert)
}

func newHealthService(samples domain.SampleRepository, alerts domain.AlertRepository, cache app.StatusCache, notifier app.Notifier) *app.HealthService {
	thresholds := app.NewThresholdService(&mockProfileRepo{}, zap.NewNop())
	return app.NewHealthService(samples, alerts, thresholds, cache, notifier, 42, zap.NewNop())
}

func TestIngestSample_ElevatedHeartRate(t *testing.T) {
	var gotDrafts []domain.AlertDraft
	samples := &mockSampleRepo{
		addFn: func(_ context.Context, sample domain.HealthSample, drafts []domain.AlertDraft) (*domain.HealthSample, []domain.Alert, error) {
			gotDrafts = drafts
			stored := sample
			stored.ID = 7
			alerts := make([]domain.Alert, 0, len(drafts))
			for _, d := range drafts {
				alerts = append(alerts, domain.Alert{ID: 1, UserID: sample.UserID, Type: d.Type, Title: d.Title, Value: d.Value})
			}
			return &stored, alerts, nil
		},
	}
	cache := &mockCache{}
	svc := newHealthService(samples, &mockAlertRepo{}, cache, nil)

	stored, alerts, err := svc.IngestSample(context.Background(), app.SampleInput{
		UserID:    "parent-1",
		HeartRate: intPtr(130),
		Steps:     intPtr(500),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.ID != 7 {
		t.Fatalf("expected stored sample id 7, got %d", stored.ID)
	}
	if len(gotDrafts) != 1 || gotDrafts[0].Title != "Elevated Heart Rate" {
		t.Fatalf("expected exactly one Elevated Heart Rate draft, got %+v", gotDrafts)
	}
	if len(alerts) != 1 || alerts[0].Value != "130" {
		t.Fatalf("expected persisted alert with value \"130\", got %+v", alerts)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "parent-1" {
		t.Fatalf("expected status cache invalidation, got %v", cache.invalidated)
	}
}

func TestIngestSample_NotifiesOnAlertSeverity(t *testing.T) {
	notifier := &mockNotifier{}
	svc := newHealthService(&mockSampleRepo{}, &mockAlertRepo{}, nil, notifier)

	_, _, err := svc.IngestSample(context.Background(), app.SampleInput{
		UserID:      "parent-1",
		BPSystolic:  intPtr(160),
		BPDiastolic: intPtr(100),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.created) != 1 || notifier.created[0].Title != "High Blood Pressure" {
		t.Fatalf("expected one blood-pressure notification, got %+v", notifier.created)
	}

	// Warnings never notify.
	notifier.created = nil
	_, _, err = svc.IngestSample(context.Background(), app.SampleInput{
		UserID:    "parent-1",
		HeartRate: intPtr(130),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.created) != 0 {
		t.Fatalf("warnings must not notify, got %+v", notifier.created)
	}
}

func TestIngestSample_Validation(t *testing.T) {
	svc := newHealthService(&mockSampleRepo{
		addFn: func(context.Context, domain.HealthSample, []domain.AlertDraft) (*domain.HealthSample, []domain.Alert, error) {
			t.Fatal("invalid input must not reach the store")
			return nil, nil, nil
		},
	}, &mockAlertRepo{}, nil, nil)

	tests := []struct {
		name string
		in   app.SampleInput
	}{
		{"missing user id", app.SampleInput{HeartRate: intPtr(80)}},
		{"negative steps", app.SampleInput{UserID: "p", Steps: intPtr(-5)}},
		{"sleep quality out of scale", app.SampleInput{UserID: "p", SleepQuality: intPtr(11)}},
		{"activity out of scale", app.SampleInput{UserID: "p", ActivityLevel: intPtr(0)}},
		{"half a blood pressure", app.SampleInput{UserID: "p", BPSystolic: intPtr(120)}},
		{"unknown source", app.SampleInput{UserID: "p", DataSource: "guess"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.IngestSample(context.Background(), tc.in)
			if !errors.Is(err, app.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestIngestSample_StoreFailureIsNotInvalidInput(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := newHealthService(&mockSampleRepo{
		addFn: func(context.Context, domain.HealthSample, []domain.AlertDraft) (*domain.HealthSample, []domain.Alert, error) {
			return nil, nil, storeErr
		},
	}, &mockAlertRepo{}, nil, nil)

	_, _, err := svc.IngestSample(context.Background(), app.SampleInput{UserID: "parent-1", HeartRate: intPtr(72)})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected the store error to surface, got %v", err)
	}
	if errors.Is(err, app.ErrInvalidInput) {
		t.Fatal("a store failure must not look like caller input")
	}
}

func TestIngestSample_DefaultsSourceAndManualFlag(t *testing.T) {
	var got domain.HealthSample
	samples := &mockSampleRepo{
		addFn: func(_ context.Context, sample domain.HealthSample, _ []domain.AlertDraft) (*domain.HealthSample, []domain.Alert, error) {
			got = sample
			return &sample, nil, nil
		},
	}
	svc := newHealthService(samples, &mockAlertRepo{}, nil, nil)

	if _, _, err := svc.IngestSample(context.Background(), app.SampleInput{UserID: "parent-1", HeartRate: intPtr(72)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DataSource != domain.SourceManual || !got.IsManualEntry {
		t.Fatalf("expected manual defaults, got source=%q manual=%v", got.DataSource, got.IsManualEntry)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("expected a timestamp to be assigned")
	}
}

func TestResimulate_ReplacesSimulatedRows(t *testing.T) {
	var gotSamples []domain.HealthSample
	samples := &mockSampleRepo{
		replaceFn: func(_ context.Context, userID string, batch []domain.HealthSample) (int, error) {
			if userID != "parent-1" {
				t.Fatalf("unexpected user: %q", userID)
			}
			gotSamples = batch
			return len(batch), nil
		},
	}
	svc := newHealthService(samples, &mockAlertRepo{}, nil, nil)

	count, err := svc.Resimulate(context.Background(), "parent-1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count == 0 || count != len(gotSamples) {
		t.Fatalf("expected a generated batch, got count=%d len=%d", count, len(gotSamples))
	}
	for _, s := range gotSamples {
		if s.DataSource != domain.SourceSimulation {
			t.Fatalf("generated sample has wrong source: %q", s.DataSource)
		}
	}
}

func TestOverallStatus_Rollup(t *testing.T) {
	tests := []struct {
		name       string
		recent     []domain.Alert
		wantStatus string
	}{
		{"no alerts", nil, "good"},
		{"warnings only", []domain.Alert{{Type: domain.AlertTypeWarning}}, "warning"},
		{"critical present", []domain.Alert{{Type: domain.AlertTypeWarning}, {Type: domain.AlertTypeAlert}}, "alert"},
		{"info only", []domain.Alert{{Type: domain.AlertTypeInfo}}, "good"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			alerts := &mockAlertRepo{
				activeSinceFn: func(context.Context, string, time.Time) ([]domain.Alert, error) {
					return tc.recent, nil
				},
			}
			svc := newHealthService(&mockSampleRepo{}, alerts, nil, nil)

			got, err := svc.OverallStatus(context.Background(), "parent-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tc.wantStatus {
				t.Fatalf("expected status %q, got %q", tc.wantStatus, got.Status)
			}
		})
	}
}

func TestOverallStatus_ServedFromCache(t *testing.T) {
	cache := &mockCache{
		getFn: func(context.Context, string) (*app.StatusSummary, error) {
			return &app.StatusSummary{Status: "warning", Message: "Some patterns need attention"}, nil
		},
	}
	alerts := &mockAlertRepo{
		activeSinceFn: func(context.Context, string, time.Time) ([]domain.Alert, error) {
			t.Fatal("cache hit must not touch the store")
			return nil, nil
		},
	}
	svc := newHealthService(&mockSampleRepo{}, alerts, cache, nil)

	got, err := svc.OverallStatus(context.Background(), "parent-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != "warning" {
		t.Fatalf("expected cached status, got %+v", got)
	}
}

func TestOverallStatus_LastUpdatedFromLatestSample(t *testing.T) {
	ts := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	samples := &mockSampleRepo{
		latestFn: func(context.Context, string) (*domain.HealthSample, error) {
			return &domain.HealthSample{Timestamp: ts}, nil
		},
	}
	svc := newHealthService(samples, &mockAlertRepo{}, nil, nil)

	got, err := svc.OverallStatus(context.Background(), "parent-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.LastUpdated == nil || !got.LastUpdated.Equal(ts) {
		t.Fatalf("expected last_updated %v, got %v", ts, got.LastUpdated)
	}
}
