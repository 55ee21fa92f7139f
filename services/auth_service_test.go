package services

import (
	"context"
	"strings"
	"testing"
	"travel-server/store"
	"travel-server/utils/errors"
)

func newTestAuthService() *AuthService {
	users := NewUserService(store.NewMemoryStore())
	return NewAuthService(users, "test-secret")
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService()

	user, access, refresh, err := svc.Register(ctx, "alice@example.com", "hunter22", "Alice", map[string]any{"currency": "EUR"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ID == "" {
		t.Error("registered user has no id")
	}
	if access == "" || refresh == "" {
		t.Error("Register() returned empty tokens")
	}
	if user.Password == "hunter22" || !strings.HasPrefix(user.Password, "$2") {
		t.Error("password stored without bcrypt hashing")
	}
	if user.CreatedAt == "" || user.LastUpdated == "" {
		t.Error("timestamps not set on registration")
	}

	_, _, _, err = svc.Register(ctx, "alice@example.com", "other", "Alice Again", nil)
	apiErr, ok := err.(*errors.APIError)
	if !ok || apiErr.Status != 409 {
		t.Errorf("Register() duplicate email = %v, want 409 Conflict", err)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService()
	svc.Register(ctx, "alice@example.com", "hunter22", "Alice", nil)

	user, access, _, err := svc.Login(ctx, "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login() right after Register() error = %v", err)
	}
	if user.Email != "alice@example.com" || access == "" {
		t.Error("Login() returned incomplete result")
	}

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "alice@example.com", "wrong"},
		{"unknown email", "nobody@example.com", "hunter22"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := svc.Login(ctx, tt.email, tt.password)
			apiErr, ok := err.(*errors.APIError)
			if !ok || apiErr.Status != 401 {
				t.Errorf("Login() = %v, want 401", err)
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	svc := newTestAuthService()
	access, err := svc.Refresh("some-user-id")
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if access == "" {
		t.Error("Refresh() returned empty access token")
	}
}
