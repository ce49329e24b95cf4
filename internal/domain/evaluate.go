package domain

import (
	"fmt"
	"strconv"
)

// EvaluateSample inspects one health sample against a resolved threshold set
// and returns zero or more alert drafts, in presentation order: heart rate,
// blood pressure, sleep, activity. Metrics are judged independently, so one
// sample can yield up to four drafts. A metric absent from the sample never
// produces a draft. The function is total: every branch falls through to
// "no alert".
func EvaluateSample(s HealthSample, t ThresholdSet) []AlertDraft {
	var drafts []AlertDraft

	if s.HeartRate != nil {
		hr := *s.HeartRate
		switch {
		case hr > t.HeartRateMax:
			drafts = append(drafts, AlertDraft{
				Type:    AlertTypeWarning,
				Title:   "Elevated Heart Rate",
				Message: fmt.Sprintf("Heart rate is %d bpm, above normal range (%d-%d bpm)", hr, t.HeartRateMin, t.HeartRateMax),
				Metric:  MetricHeartRate,
				Value:   strconv.Itoa(hr),
			})
		case hr < t.HeartRateMin:
			drafts = append(drafts, AlertDraft{
				Type:    AlertTypeWarning,
				Title:   "Low Heart Rate",
				Message: fmt.Sprintf("Heart rate is %d bpm, below normal range (%d-%d bpm)", hr, t.HeartRateMin, t.HeartRateMax),
				Metric:  MetricHeartRate,
				Value:   strconv.Itoa(hr),
			})
		}
	}

	// Blood pressure is only judged when both readings are present, and is
	// the one vital that escalates to alert severity.
	if s.BPSystolic != nil && s.BPDiastolic != nil {
		sys, dia := *s.BPSystolic, *s.BPDiastolic
		if sys > t.BPSystolicMax || dia > t.BPDiastolicMax {
			drafts = append(drafts, AlertDraft{
				Type:    AlertTypeAlert,
				Title:   "High Blood Pressure",
				Message: fmt.Sprintf("Blood pressure is %d/%d, above target range (%d/%d) mmHg", sys, dia, t.BPSystolicMax, t.BPDiastolicMax),
				Metric:  MetricBloodPressure,
				Value:   fmt.Sprintf("%d/%d", sys, dia),
			})
		}
	}

	if s.SleepHours != nil && *s.SleepHours < t.SleepHoursMin {
		drafts = append(drafts, AlertDraft{
			Type:    AlertTypeWarning,
			Title:   "Insufficient Sleep",
			Message: fmt.Sprintf("Only %s hours of sleep, below minimum (%s) hours", formatHours(*s.SleepHours), formatHours(t.SleepHoursMin)),
			Metric:  MetricSleep,
			Value:   formatHours(*s.SleepHours),
		})
	}

	if s.ActivityLevel != nil && *s.ActivityLevel < t.ActivityLevelMin {
		drafts = append(drafts, AlertDraft{
			Type:    AlertTypeWarning,
			Title:   "Low Activity Level",
			Message: fmt.Sprintf("Activity level is %d, below minimum (%d)", *s.ActivityLevel, t.ActivityLevelMin),
			Metric:  MetricActivity,
			Value:   strconv.Itoa(*s.ActivityLevel),
		})
	}

	return drafts
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
