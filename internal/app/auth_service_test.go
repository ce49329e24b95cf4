package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"carelink/internal/app"
	"carelink/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type mockAccountRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.Account, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.Account, error)
	createFn        func(ctx context.Context, username, passwordHash string) (*domain.Account, error)
	countFn         func(ctx context.Context) (int, error)
}

func (m *mockAccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, domain.ErrNotFound
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockAccountRepo) Create(ctx context.Context, username, passwordHash string) (*domain.Account, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, passwordHash)
	}
	return &domain.Account{ID: 1, Username: username, PasswordHash: passwordHash}, nil
}

func (m *mockAccountRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockSessionRepo struct {
	createFn     func(ctx context.Context, accountID int64, token, userAgent, ip string, expiresAt time.Time) error
	getByTokenFn func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn     func(ctx context.Context, token string) error
	deleted      []string
}

func (m *mockSessionRepo) Create(ctx context.Context, accountID int64, token, userAgent, ip string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, accountID, token, userAgent, ip, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	m.deleted = append(m.deleted, token)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(context.Context) error { return nil }

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func TestLogin_Success(t *testing.T) {
	accounts := &mockAccountRepo{
		getByUsernameFn: func(_ context.Context, username string) (*domain.Account, error) {
			return &domain.Account{ID: 1, Username: username, PasswordHash: hashOf(t, "secret")}, nil
		},
	}
	var gotAccountID int64
	sessions := &mockSessionRepo{
		createFn: func(_ context.Context, accountID int64, token, _, _ string, expiresAt time.Time) error {
			gotAccountID = accountID
			if token == "" {
				t.Fatal("expected a session token")
			}
			if !expiresAt.After(time.Now()) {
				t.Fatal("expected a future expiry")
			}
			return nil
		},
	}
	svc := app.NewAuthService(accounts, sessions)

	token, err := svc.Login(context.Background(), "carer", "secret", "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" || gotAccountID != 1 {
		t.Fatalf("expected session for account 1, got token=%q account=%d", token, gotAccountID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	accounts := &mockAccountRepo{
		getByUsernameFn: func(_ context.Context, username string) (*domain.Account, error) {
			return &domain.Account{ID: 1, Username: username, PasswordHash: hashOf(t, "secret")}, nil
		},
	}
	svc := app.NewAuthService(accounts, &mockSessionRepo{})

	if _, err := svc.Login(context.Background(), "carer", "nope", "", ""); !errors.Is(err, app.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := app.NewAuthService(&mockAccountRepo{}, &mockSessionRepo{})
	if _, err := svc.Login(context.Background(), "ghost", "secret", "", ""); !errors.Is(err, app.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateSession_Expired(t *testing.T) {
	sessions := &mockSessionRepo{
		getByTokenFn: func(_ context.Context, token string) (*domain.Session, error) {
			return &domain.Session{Token: token, AccountID: 1, ExpiresAt: time.Now().Add(-time.Minute)}, nil
		},
	}
	svc := app.NewAuthService(&mockAccountRepo{}, sessions)

	if _, err := svc.ValidateSession(context.Background(), "stale"); !errors.Is(err, app.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if len(sessions.deleted) != 1 || sessions.deleted[0] != "stale" {
		t.Fatalf("expected expired session removal, got %v", sessions.deleted)
	}
}

func TestValidateSession_ReturnsAccount(t *testing.T) {
	accounts := &mockAccountRepo{
		getByIDFn: func(_ context.Context, id int64) (*domain.Account, error) {
			return &domain.Account{ID: id, Username: "carer"}, nil
		},
	}
	sessions := &mockSessionRepo{
		getByTokenFn: func(_ context.Context, token string) (*domain.Session, error) {
			return &domain.Session{Token: token, AccountID: 7, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	svc := app.NewAuthService(accounts, sessions)

	account, err := svc.ValidateSession(context.Background(), "live")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID != 7 || account.Username != "carer" {
		t.Fatalf("unexpected account: %+v", account)
	}
}

func TestCreateInitialAccount_RefusesWhenAccountsExist(t *testing.T) {
	accounts := &mockAccountRepo{
		countFn: func(context.Context) (int, error) { return 1, nil },
		createFn: func(context.Context, string, string) (*domain.Account, error) {
			t.Fatal("create must not run when accounts exist")
			return nil, nil
		},
	}
	svc := app.NewAuthService(accounts, &mockSessionRepo{})

	if err := svc.CreateInitialAccount(context.Background(), "carer", "secret"); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateInitialAccount_HashesPassword(t *testing.T) {
	var storedHash string
	accounts := &mockAccountRepo{
		createFn: func(_ context.Context, _, passwordHash string) (*domain.Account, error) {
			storedHash = passwordHash
			return &domain.Account{ID: 1}, nil
		},
	}
	svc := app.NewAuthService(accounts, &mockSessionRepo{})

	if err := svc.CreateInitialAccount(context.Background(), "carer", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storedHash == "secret" || storedHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("secret")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestLoginWithAccount_ProvisionsOnFirstLogin(t *testing.T) {
	var created bool
	accounts := &mockAccountRepo{
		createFn: func(_ context.Context, username, passwordHash string) (*domain.Account, error) {
			created = true
			if passwordHash != "" {
				t.Fatal("sso accounts must not carry a local password")
			}
			return &domain.Account{ID: 2, Username: username}, nil
		},
	}
	svc := app.NewAuthService(accounts, &mockSessionRepo{})

	token, err := svc.LoginWithAccount(context.Background(), "sso-carer", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created || token == "" {
		t.Fatalf("expected auto-provisioned session, created=%v token=%q", created, token)
	}
}
