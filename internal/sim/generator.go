// Package sim generates plausible simulated health samples for demos. The
// generator is seeded and injectable so resimulation is reproducible.
package sim

import (
	"math/rand"
	"time"

	"carelink/internal/domain"
)

// Generator produces simulated health data from its own random source.
// It is not safe for concurrent use; create one per resimulation.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns simulated samples for the trailing days: hourly points
// for today up to the current hour, and a single midday summary for each
// prior day.
func (g *Generator) Generate(userID string, now time.Time, days int) []domain.HealthSample {
	var out []domain.HealthSample
	for day := 0; day < days; day++ {
		date := now.AddDate(0, 0, -day)
		if day == 0 {
			for hour := 0; hour <= now.Hour(); hour++ {
				ts := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, time.UTC)
				out = append(out, g.point(userID, ts, hour, false))
			}
			continue
		}
		ts := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, time.UTC)
		out = append(out, g.point(userID, ts, 12, true))
	}
	return out
}

// DemoAlerts occasionally returns sample pattern alerts to accompany a
// resimulation, mirroring what a trend analyser would produce.
func (g *Generator) DemoAlerts() []domain.AlertDraft {
	if g.rng.Float64() >= 0.3 {
		return nil
	}
	candidates := []domain.AlertDraft{
		{
			Type:    domain.AlertTypeInfo,
			Title:   "Heart Rate Pattern Change",
			Message: "Heart rate patterns show unusual variation",
			Metric:  domain.MetricHeartRate,
			Value:   "15",
		},
		{
			Type:    domain.AlertTypeWarning,
			Title:   "Low Activity Pattern",
			Message: "Activity levels have been consistently low",
			Metric:  domain.MetricActivity,
			Value:   "25",
		},
	}
	var out []domain.AlertDraft
	for _, c := range candidates {
		if g.rng.Float64() < 0.5 {
			out = append(out, c)
		}
	}
	return out
}

func (g *Generator) point(userID string, ts time.Time, hour int, dailySummary bool) domain.HealthSample {
	night := hour < 6 || hour > 22

	nightDip := 0
	if night {
		nightDip = -10
	}
	heartRate := clamp(int(72+(g.rng.Float64()-0.5)*20)+nightDip, 60, 100)
	systolic := clamp(int(120+(g.rng.Float64()-0.5)*30), 90, 160)
	diastolic := clamp(int(80+(g.rng.Float64()-0.5)*20), 60, 100)

	s := domain.HealthSample{
		UserID:      userID,
		Timestamp:   ts,
		HeartRate:   &heartRate,
		BPSystolic:  &systolic,
		BPDiastolic: &diastolic,
		DataSource:  domain.SourceSimulation,
	}

	if dailySummary {
		sleepHours := float64(int((6.5+g.rng.Float64()*2)*10)) / 10
		sleepQuality := int(6 + g.rng.Float64()*4)
		s.SleepHours = &sleepHours
		s.SleepQuality = &sleepQuality
	}

	var activity, steps int
	if night {
		activity = int(g.rng.Float64() * 10)
		steps = int(g.rng.Float64() * 100)
	} else {
		activity = int(20 + g.rng.Float64()*60)
		steps = int(3000 + g.rng.Float64()*7000)
		if !dailySummary {
			steps /= 16
		}
	}
	s.ActivityLevel = &activity
	s.Steps = &steps

	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
