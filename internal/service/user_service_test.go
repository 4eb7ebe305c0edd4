package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"medai-lite/internal/domain"
)

type mockUserRepo struct {
	byID    map[string]domain.User
	byEmail map[string]domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]domain.User),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func TestUserService_CreateAndAuthenticate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:       "  User@Example.COM ",
		DisplayName: "Test",
		Password:    "super-secret",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "super-secret" {
		t.Fatalf("expected hashed password")
	}

	authed, err := svc.Authenticate(context.Background(), "user@example.com", "super-secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected same user id")
	}
}

func TestUserService_AuthenticateWrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	if _, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "user@example.com",
		Password: "super-secret",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "user@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_AuthenticateUnknownUser(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo())

	if _, err := svc.Authenticate(context.Background(), "ghost@example.com", "whatever-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_CreateUserValidation(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo())

	if _, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "not-an-email",
		Password: "super-secret",
	}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	if _, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "user@example.com",
		Password: "short",
	}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestUserService_GetByIDNotFound(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo())

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
