package app

import (
	"context"
	"errors"
	"time"

	"carelink/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrAccountNotFound indicates that the account does not exist.
	ErrAccountNotFound = errors.New("account not found")
)

const sessionTTL = 24 * time.Hour

// AuthService handles caregiver authentication and session management.
type AuthService struct {
	accounts domain.AccountRepository
	sessions domain.SessionRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(accounts domain.AccountRepository, sessions domain.SessionRepository) *AuthService {
	return &AuthService{accounts: accounts, sessions: sessions}
}

// Login authenticates a caregiver and creates a session.
func (s *AuthService) Login(ctx context.Context, username, password, userAgent, ip string) (string, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil || account == nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.createSession(ctx, account.ID, userAgent, ip)
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks a session token and returns its account.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.Account, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	account, err := s.accounts.GetByID(ctx, session.AccountID)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// CreateInitialAccount creates the first caregiver account if none exist.
func (s *AuthService) CreateInitialAccount(ctx context.Context, username, password string) error {
	count, err := s.accounts.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("accounts already exist")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.accounts.Create(ctx, username, string(hash))
	return err
}

// LoginWithAccount creates a session for an externally authenticated
// caregiver (SSO), auto-provisioning the account on first login.
func (s *AuthService) LoginWithAccount(ctx context.Context, username, userAgent, ip string) (string, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil || account == nil {
		// SSO accounts carry no local password.
		account, err = s.accounts.Create(ctx, username, "")
		if err != nil {
			// Creation can lose a race on the unique username; read again.
			account, err = s.accounts.GetByUsername(ctx, username)
			if err != nil {
				return "", err
			}
		}
	}
	return s.createSession(ctx, account.ID, userAgent, ip)
}

func (s *AuthService) createSession(ctx context.Context, accountID int64, userAgent, ip string) (string, error) {
	token := uuid.NewString()
	expiresAt := time.Now().Add(sessionTTL)
	if err := s.sessions.Create(ctx, accountID, token, userAgent, ip, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}
