package domain

import (
	"context"
	"time"
)

// Reminder priorities, statuses and types.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	ReminderActive    = "active"
	ReminderCompleted = "completed"

	ReminderDaily = "daily"
	ReminderEvent = "event"
)

// Reminder is a caregiver-authored reminder for a monitored person. Daily
// reminders recur: completing one only records the day it was last done.
// Event reminders complete once. Day fields use the "2006-01-02" form.
type Reminder struct {
	ID                int64      `json:"id"`
	UserID            string     `json:"user_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Priority          string     `json:"priority"`
	Status            string     `json:"status"`
	ReminderType      string     `json:"reminder_type"`
	StartDate         string     `json:"start_date,omitempty"`
	LastCompletedDate string     `json:"last_completed_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CreatedBy         string     `json:"created_by,omitempty"`
}

// ReminderFilter narrows a reminder listing. Zero values mean "no filter".
// When TodayOnly is set, Today must carry the local day to compare against
// and the listing returns event reminders started on or before that day
// plus daily reminders not yet completed that day.
type ReminderFilter struct {
	Status    string
	Type      string
	TodayOnly bool
	Today     string
}

// ReminderRepository is the port for reminder persistence.
type ReminderRepository interface {
	CreateReminder(ctx context.Context, r Reminder) (*Reminder, error)
	GetReminder(ctx context.Context, id int64) (*Reminder, error)
	// SaveReminder writes back every mutable field of r.
	SaveReminder(ctx context.Context, r *Reminder) error
	DeleteReminder(ctx context.Context, id int64) error
	ListReminders(ctx context.Context, userID string, f ReminderFilter) ([]Reminder, error)
}
