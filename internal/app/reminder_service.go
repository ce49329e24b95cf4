package app

import (
	"context"
	"time"

	"carelink/internal/domain"
)

// ReminderInput carries a new reminder. Priority defaults to medium and
// type to event; a daily reminder without a start date starts today.
type ReminderInput struct {
	UserID       string
	Title        string
	Description  string
	Priority     string
	ReminderType string
	StartDate    string // "2006-01-02", optional
	CreatedBy    string
}

// ReminderUpdate is a partial reminder change; nil fields stay untouched.
type ReminderUpdate struct {
	Title        *string
	Description  *string
	Priority     *string
	ReminderType *string
	StartDate    *string
}

// ReminderService manages caregiver-created reminders.
type ReminderService struct {
	reminders domain.ReminderRepository
}

// NewReminderService creates a ReminderService backed by the given
// repository.
func NewReminderService(reminders domain.ReminderRepository) *ReminderService {
	return &ReminderService{reminders: reminders}
}

// Create validates and stores a new reminder.
func (s *ReminderService) Create(ctx context.Context, in ReminderInput) (*domain.Reminder, error) {
	if in.UserID == "" || in.Title == "" {
		return nil, invalidf("user_id and title are required")
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if err := validatePriority(priority); err != nil {
		return nil, err
	}

	rtype := in.ReminderType
	if rtype == "" {
		rtype = domain.ReminderEvent
	}
	if err := validateReminderType(rtype); err != nil {
		return nil, err
	}

	startDate := in.StartDate
	if startDate != "" {
		if _, err := time.Parse("2006-01-02", startDate); err != nil {
			return nil, invalidf("start_date must be YYYY-MM-DD")
		}
	} else if rtype == domain.ReminderDaily {
		startDate = localDay(time.Now())
	}

	return s.reminders.CreateReminder(ctx, domain.Reminder{
		UserID:       in.UserID,
		Title:        in.Title,
		Description:  in.Description,
		Priority:     priority,
		Status:       domain.ReminderActive,
		ReminderType: rtype,
		StartDate:    startDate,
		CreatedBy:    in.CreatedBy,
	})
}

// Get returns one reminder by id.
func (s *ReminderService) Get(ctx context.Context, id int64) (*domain.Reminder, error) {
	return s.reminders.GetReminder(ctx, id)
}

// Update applies a partial change to a reminder.
func (s *ReminderService) Update(ctx context.Context, id int64, upd ReminderUpdate) (*domain.Reminder, error) {
	r, err := s.reminders.GetReminder(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		r.Title = *upd.Title
	}
	if upd.Description != nil {
		r.Description = *upd.Description
	}
	if upd.Priority != nil {
		if err := validatePriority(*upd.Priority); err != nil {
			return nil, err
		}
		r.Priority = *upd.Priority
	}
	if upd.ReminderType != nil {
		if err := validateReminderType(*upd.ReminderType); err != nil {
			return nil, err
		}
		r.ReminderType = *upd.ReminderType
	}
	if upd.StartDate != nil {
		if *upd.StartDate != "" {
			if _, err := time.Parse("2006-01-02", *upd.StartDate); err != nil {
				return nil, invalidf("start_date must be YYYY-MM-DD")
			}
		}
		r.StartDate = *upd.StartDate
	}

	if err := s.reminders.SaveReminder(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Complete marks a reminder done. Daily reminders stay active and only
// record the completion day; event reminders transition to completed.
func (s *ReminderService) Complete(ctx context.Context, id int64) (*domain.Reminder, error) {
	r, err := s.reminders.GetReminder(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.ReminderType == domain.ReminderDaily {
		r.LastCompletedDate = localDay(time.Now())
	} else {
		now := time.Now().UTC()
		r.Status = domain.ReminderCompleted
		r.CompletedAt = &now
	}

	if err := s.reminders.SaveReminder(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes a reminder permanently.
func (s *ReminderService) Delete(ctx context.Context, id int64) error {
	return s.reminders.DeleteReminder(ctx, id)
}

// List returns a user's reminders, newest first, filtered by status, type
// and the today-only toggle.
func (s *ReminderService) List(ctx context.Context, userID, status, rtype string, todayOnly bool) ([]domain.Reminder, error) {
	if userID == "" {
		return nil, invalidf("user_id is required")
	}
	f := domain.ReminderFilter{Status: status, Type: rtype, TodayOnly: todayOnly}
	if todayOnly {
		f.Today = localDay(time.Now())
	}
	return s.reminders.ListReminders(ctx, userID, f)
}

func validatePriority(p string) error {
	switch p {
	case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
		return nil
	}
	return invalidf("priority %q unknown: want low|medium|high", p)
}

func validateReminderType(t string) error {
	switch t {
	case domain.ReminderDaily, domain.ReminderEvent:
		return nil
	}
	return invalidf("reminder_type %q unknown: want daily|event", t)
}

func localDay(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02")
}
