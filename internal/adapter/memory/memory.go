// Package memory implements in-memory repositories for development and
// testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"carelink/internal/domain"
)

// DB implements every domain repository in memory.
type DB struct {
	mu        sync.Mutex
	samples   []domain.HealthSample
	alerts    []domain.Alert
	profiles  map[string]*domain.UserProfile
	questions []domain.QuestionResponse
	reminders []domain.Reminder
	accounts  []*domain.Account
	sessions  map[string]*domain.Session

	sampleIDCounter   int64
	alertIDCounter    int64
	profileIDCounter  int64
	questionIDCounter int64
	reminderIDCounter int64
	accountIDCounter  int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		profiles: make(map[string]*domain.UserProfile),
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.SampleRepository = (*DB)(nil)
var _ domain.AlertRepository = (*DB)(nil)
var _ domain.ProfileRepository = (*DB)(nil)
var _ domain.QuestionRepository = (*DB)(nil)
var _ domain.ReminderRepository = (*DB)(nil)
var _ domain.AccountRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- SampleRepository ---

// AddSample stores the sample and its derived alerts under one lock, so the
// write is atomic from the caller's point of view.
func (db *DB) AddSample(_ context.Context, sample domain.HealthSample, drafts []domain.AlertDraft) (*domain.HealthSample, []domain.Alert, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := time.Now().UTC()
	db.sampleIDCounter++
	sample.ID = db.sampleIDCounter
	sample.CreatedAt = now
	sample.UpdatedAt = now
	db.samples = append(db.samples, sample)

	alerts := make([]domain.Alert, 0, len(drafts))
	for _, draft := range drafts {
		alerts = append(alerts, *db.appendAlertLocked(sample.UserID, draft, now))
	}
	return &sample, alerts, nil
}

// ListSamples returns a user's samples in [from, to), oldest first.
func (db *DB) ListSamples(_ context.Context, userID string, from, to time.Time) ([]domain.HealthSample, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.HealthSample
	for _, s := range db.samples {
		if s.UserID == userID && !s.Timestamp.Before(from) && s.Timestamp.Before(to) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// LatestSample returns the user's newest sample by measurement time.
func (db *DB) LatestSample(_ context.Context, userID string) (*domain.HealthSample, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var latest *domain.HealthSample
	for i := range db.samples {
		s := &db.samples[i]
		if s.UserID != userID {
			continue
		}
		if latest == nil || s.Timestamp.After(latest.Timestamp) {
			latest = s
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	out := *latest
	return &out, nil
}

// ReplaceSimulated swaps the user's simulated samples for the new batch.
func (db *DB) ReplaceSimulated(_ context.Context, userID string, samples []domain.HealthSample) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	kept := db.samples[:0]
	for _, s := range db.samples {
		if s.UserID == userID && s.DataSource == domain.SourceSimulation {
			continue
		}
		kept = append(kept, s)
	}
	db.samples = kept

	now := time.Now().UTC()
	for _, s := range samples {
		db.sampleIDCounter++
		s.ID = db.sampleIDCounter
		s.CreatedAt = now
		s.UpdatedAt = now
		db.samples = append(db.samples, s)
	}
	return len(samples), nil
}

// --- AlertRepository ---

func (db *DB) appendAlertLocked(userID string, draft domain.AlertDraft, createdAt time.Time) *domain.Alert {
	db.alertIDCounter++
	alert := domain.Alert{
		ID:        db.alertIDCounter,
		UserID:    userID,
		Type:      draft.Type,
		Title:     draft.Title,
		Message:   draft.Message,
		Metric:    draft.Metric,
		Value:     draft.Value,
		CreatedAt: createdAt,
	}
	db.alerts = append(db.alerts, alert)
	return &alert
}

// AppendAlert persists a draft as a new active alert.
func (db *DB) AppendAlert(_ context.Context, userID string, draft domain.AlertDraft) (*domain.Alert, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.appendAlertLocked(userID, draft, time.Now().UTC()), nil
}

// GetAlert returns one alert by id.
func (db *DB) GetAlert(_ context.Context, id int64) (*domain.Alert, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, a := range db.alerts {
		if a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListAlerts returns a user's alerts newest-first, up to limit.
func (db *DB) ListAlerts(_ context.Context, userID string, includeDismissed bool, limit int) ([]domain.Alert, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Alert
	for _, a := range db.alerts {
		if a.UserID != userID {
			continue
		}
		if a.IsDismissed && !includeDismissed {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListActiveSince returns undismissed alerts created at or after since.
func (db *DB) ListActiveSince(_ context.Context, userID string, since time.Time) ([]domain.Alert, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Alert
	for _, a := range db.alerts {
		if a.UserID == userID && !a.IsDismissed && !a.CreatedAt.Before(since) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// DismissAlert marks an alert dismissed, keeping the first dismissal time.
func (db *DB) DismissAlert(_ context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.alerts {
		if db.alerts[i].ID == id {
			db.alerts[i].IsDismissed = true
			if db.alerts[i].DismissedAt == nil {
				now := time.Now().UTC()
				db.alerts[i].DismissedAt = &now
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

// AcknowledgeAlert marks an alert acknowledged, keeping the first
// acknowledgement time.
func (db *DB) AcknowledgeAlert(_ context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.alerts {
		if db.alerts[i].ID == id {
			db.alerts[i].IsAcknowledged = true
			if db.alerts[i].AcknowledgedAt == nil {
				now := time.Now().UTC()
				db.alerts[i].AcknowledgedAt = &now
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

// DeleteAlert removes an alert permanently.
func (db *DB) DeleteAlert(_ context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.alerts {
		if db.alerts[i].ID == id {
			db.alerts = append(db.alerts[:i], db.alerts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- ProfileRepository ---

// GetProfile returns the profile for a user id.
func (db *DB) GetProfile(_ context.Context, userID string) (*domain.UserProfile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *p
	return &out, nil
}

// CreateProfile stores a new profile.
func (db *DB) CreateProfile(_ context.Context, profile domain.UserProfile) (*domain.UserProfile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := time.Now().UTC()
	db.profileIDCounter++
	profile.ID = db.profileIDCounter
	profile.CreatedAt = now
	profile.UpdatedAt = now
	db.profiles[profile.UserID] = &profile
	out := profile
	return &out, nil
}

// UpdateProfile applies a partial change, creating the profile when absent.
func (db *DB) UpdateProfile(_ context.Context, userID string, upd domain.ProfileUpdate) (*domain.UserProfile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.profiles[userID]
	if !ok {
		db.profileIDCounter++
		p = &domain.UserProfile{
			ID:        db.profileIDCounter,
			UserID:    userID,
			UserType:  "parent",
			CreatedAt: time.Now().UTC(),
		}
		db.profiles[userID] = p
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.UserType != nil {
		p.UserType = *upd.UserType
	}
	if upd.MonitoredUserID != nil {
		p.MonitoredUserID = *upd.MonitoredUserID
	}
	if upd.AlertThresholds != nil {
		p.AlertThresholds = *upd.AlertThresholds
	}
	p.UpdatedAt = time.Now().UTC()

	out := *p
	return &out, nil
}

// --- QuestionRepository ---

// AddResponse stores the response and its derived alert under one lock.
func (db *DB) AddResponse(_ context.Context, q domain.QuestionResponse, draft *domain.AlertDraft) (*domain.QuestionResponse, *domain.Alert, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.questionIDCounter++
	q.ID = db.questionIDCounter
	db.questions = append(db.questions, q)

	var alert *domain.Alert
	if draft != nil {
		alert = db.appendAlertLocked(q.UserID, *draft, time.Now().UTC())
	}
	return &q, alert, nil
}

// ListResponses returns a user's responses since the given time, newest
// first.
func (db *DB) ListResponses(_ context.Context, userID string, since time.Time) ([]domain.QuestionResponse, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.QuestionResponse
	for _, q := range db.questions {
		if q.UserID == userID && !q.AskedAt.Before(since) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AskedAt.After(out[j].AskedAt) })
	return out, nil
}

// --- ReminderRepository ---

// CreateReminder stores a new reminder.
func (db *DB) CreateReminder(_ context.Context, r domain.Reminder) (*domain.Reminder, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.reminderIDCounter++
	r.ID = db.reminderIDCounter
	r.CreatedAt = time.Now().UTC()
	db.reminders = append(db.reminders, r)
	out := r
	return &out, nil
}

// GetReminder returns one reminder by id.
func (db *DB) GetReminder(_ context.Context, id int64) (*domain.Reminder, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, r := range db.reminders {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// SaveReminder writes back every mutable field of r.
func (db *DB) SaveReminder(_ context.Context, r *domain.Reminder) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.reminders {
		if db.reminders[i].ID == r.ID {
			db.reminders[i] = *r
			return nil
		}
	}
	return domain.ErrNotFound
}

// DeleteReminder removes a reminder permanently.
func (db *DB) DeleteReminder(_ context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.reminders {
		if db.reminders[i].ID == id {
			db.reminders = append(db.reminders[:i], db.reminders[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ListReminders returns a user's reminders newest-first, filtered.
func (db *DB) ListReminders(_ context.Context, userID string, f domain.ReminderFilter) ([]domain.Reminder, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Reminder
	for _, r := range db.reminders {
		if r.UserID != userID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Type != "" && r.ReminderType != f.Type {
			continue
		}
		if f.TodayOnly && !dueToday(r, f.Today) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// dueToday reports whether a reminder belongs in the today view: active
// daily reminders last completed before today, active event reminders
// started by today. Completed reminders never show up here.
func dueToday(r domain.Reminder, today string) bool {
	if r.Status != domain.ReminderActive {
		return false
	}
	if r.ReminderType == domain.ReminderDaily {
		return r.LastCompletedDate == "" || r.LastCompletedDate < today
	}
	return r.StartDate == "" || r.StartDate <= today
}

// --- AccountRepository ---

// GetByUsername retrieves an account by username.
func (db *DB) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, a := range db.accounts {
		if a.Username == username {
			out := *a
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetByID retrieves an account by id.
func (db *DB) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, a := range db.accounts {
		if a.ID == id {
			out := *a
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create creates a new account.
func (db *DB) Create(_ context.Context, username, passwordHash string) (*domain.Account, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.accountIDCounter++
	a := &domain.Account{
		ID:           db.accountIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.accounts = append(db.accounts, a)
	out := *a
	return &out, nil
}

// Count returns the total number of accounts.
func (db *DB) Count(_ context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.accounts), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(_ context.Context, accountID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		AccountID: accountID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(_ context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.sessions[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *s
	return &out, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(_ context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	for token, s := range r.db.sessions {
		if s.ExpiresAt.Before(now) {
			delete(r.db.sessions, token)
		}
	}
	return nil
}
