package domain

import (
	"fmt"
	"strings"
)

// Topics a concerning check-in response can be routed to.
const (
	TopicWellness   = "wellness"
	TopicSleep      = "sleep"
	TopicPain       = "pain"
	TopicMedication = "medication"
	TopicEnergy     = "energy"
	TopicHydration  = "hydration"
	TopicActivity   = "activity"
)

// Affirmative answers that make a pain/discomfort question concerning.
var painLexicon = []string{"yes", "yeah", "yep", "quite a bit", "a lot", "severe"}

// Negative answers that make any other question concerning.
var negativeLexicon = []string{"not great", "not good", "poor", "no", "not really", "bad", "terrible"}

// responseRule routes a concerning response to one topic. Rules are checked
// in order; the first whose keyword appears in the question wins.
type responseRule struct {
	topic    string
	keywords []string
	alert    string
	metric   string
	title    string
	message  string // format string; %q receives the verbatim response
}

var responseRules = []responseRule{
	{TopicWellness, []string{"feeling", "how are you"}, AlertTypeWarning, MetricMood,
		"Wellness Check Concern", "Parent reported feeling %q when asked about their wellbeing"},
	{TopicSleep, []string{"sleep"}, AlertTypeWarning, MetricSleep,
		"Sleep Quality Concern", "Parent reported %q when asked about sleep"},
	{TopicPain, []string{"pain", "discomfort"}, AlertTypeAlert, MetricPain,
		"Pain or Discomfort Reported", "Parent reported %q when asked about pain or discomfort"},
	{TopicMedication, []string{"medication"}, AlertTypeWarning, MetricMedication,
		"Medication Adherence Concern", "Parent reported %q when asked about medications"},
	{TopicEnergy, []string{"energy"}, AlertTypeWarning, MetricEnergy,
		"Low Energy Reported", "Parent reported %q energy level"},
	{TopicHydration, []string{"hydrat", "water"}, AlertTypeInfo, MetricHydration,
		"Hydration Reminder Needed", "Parent reported %q when asked about hydration"},
	{TopicActivity, []string{"walk", "exercise"}, AlertTypeInfo, MetricActivity,
		"Activity Level Concern", "Parent reported %q when asked about physical activity"},
}

// ClassifyResponse decides whether a question/response pair is concerning
// and, if so, routes it to exactly one topic. It returns the alert draft and
// the topic name, or (nil, "") when the response warrants no alert. Matching
// is case-insensitive substring matching throughout; the draft quotes the
// verbatim response. Like EvaluateSample, the function is total.
func ClassifyResponse(question, response string) (*AlertDraft, string) {
	q := strings.ToLower(question)
	r := strings.ToLower(response)

	// For pain questions an affirmative answer is the concern; everywhere
	// else it is a negative answer.
	lexicon := negativeLexicon
	if strings.Contains(q, "pain") || strings.Contains(q, "discomfort") {
		lexicon = painLexicon
	}
	if !containsAny(r, lexicon) {
		return nil, ""
	}

	for _, rule := range responseRules {
		if !containsAny(q, rule.keywords) {
			continue
		}
		return &AlertDraft{
			Type:    rule.alert,
			Title:   rule.title,
			Message: fmt.Sprintf(rule.message, response),
			Metric:  rule.metric,
			Value:   response,
		}, rule.topic
	}

	// Concerning but no recognised topic: no generic fallback alert.
	return nil, ""
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
