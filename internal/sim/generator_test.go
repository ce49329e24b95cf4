package sim_test

import (
	"testing"
	"time"

	"carelink/internal/domain"
	"carelink/internal/sim"
)

func TestGenerate_Deterministic(t *testing.T) {
	now := time.Date(2026, 8, 26, 14, 30, 0, 0, time.UTC)

	a := sim.New(42).Generate("parent-1", now, 7)
	b := sim.New(42).Generate("parent-1", now, 7)

	if len(a) != len(b) {
		t.Fatalf("same seed produced different lengths: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if *a[i].HeartRate != *b[i].HeartRate || *a[i].Steps != *b[i].Steps {
			t.Fatalf("same seed produced different sample %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerate_Shape(t *testing.T) {
	now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	samples := sim.New(1).Generate("parent-1", now, 3)

	// 11 hourly points for today (hours 0..10) plus one summary per prior day.
	if len(samples) != 11+2 {
		t.Fatalf("expected 13 samples, got %d", len(samples))
	}

	for i, s := range samples {
		if s.UserID != "parent-1" {
			t.Fatalf("sample %d has wrong user: %q", i, s.UserID)
		}
		if s.DataSource != domain.SourceSimulation {
			t.Fatalf("sample %d has wrong source: %q", i, s.DataSource)
		}
		if s.IsManualEntry {
			t.Fatalf("sample %d must not be a manual entry", i)
		}
		if *s.HeartRate < 60 || *s.HeartRate > 100 {
			t.Fatalf("sample %d heart rate out of range: %d", i, *s.HeartRate)
		}
		if *s.BPSystolic < 90 || *s.BPSystolic > 160 {
			t.Fatalf("sample %d systolic out of range: %d", i, *s.BPSystolic)
		}
	}

	// Daily summaries carry sleep data; hourly points do not.
	hourly, summaries := samples[:11], samples[11:]
	for _, s := range hourly {
		if s.SleepHours != nil {
			t.Fatalf("hourly point must not carry sleep hours: %+v", s)
		}
	}
	for _, s := range summaries {
		if s.SleepHours == nil || s.SleepQuality == nil {
			t.Fatalf("daily summary must carry sleep data: %+v", s)
		}
		if s.Timestamp.Hour() != 12 {
			t.Fatalf("daily summary must sit at midday, got %v", s.Timestamp)
		}
	}
}

func TestDemoAlerts_Deterministic(t *testing.T) {
	a := sim.New(7).DemoAlerts()
	b := sim.New(7).DemoAlerts()
	if len(a) != len(b) {
		t.Fatalf("same seed produced different alert counts: %d vs %d", len(a), len(b))
	}
	for _, d := range a {
		if d.Type != domain.AlertTypeInfo && d.Type != domain.AlertTypeWarning {
			t.Fatalf("unexpected demo alert type %q", d.Type)
		}
	}
}
