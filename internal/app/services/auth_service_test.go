package services

import (
	"testing"

	goerrors "errors"

	"github.com/stockpod/stockpod-core/internal/app/errors"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"golang.org/x/crypto/bcrypt"
)

func createTestAdmin(t *testing.T, s *testServices, email, password string) *models.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	admin := &models.AdminUser{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(admin).Error; err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}
	return admin
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	s := newTestServices(t)
	admin := createTestAdmin(t, s, "office@example.com", "hunter2hunter2")

	resp, err := s.auth.Login(&models.LoginRequest{
		Email:    "office@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	if resp.Email != admin.Email || resp.Token == "" {
		t.Fatalf("unexpected login response: %+v", resp)
	}

	claims, err := s.auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token must validate: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Email != admin.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServices(t)
	createTestAdmin(t, s, "office@example.com", "hunter2hunter2")

	cases := []models.LoginRequest{
		{Email: "office@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "hunter2hunter2"},
	}
	for _, req := range cases {
		_, err := s.auth.Login(&req)
		var appErr *errors.AppError
		if !goerrors.As(err, &appErr) || appErr.StatusCode != 401 {
			t.Fatalf("expected 401 for %s, got %v", req.Email, err)
		}
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	s := newTestServices(t)

	if _, err := s.auth.ValidateToken("not-a-jwt"); err == nil {
		t.Fatal("expected garbage token to be rejected")
	}
}

func TestChangePasswordChecksCurrent(t *testing.T) {
	s := newTestServices(t)
	admin := createTestAdmin(t, s, "office@example.com", "hunter2hunter2")

	err := s.auth.ChangePassword(admin.ID, &models.ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "new-password-1",
	})
	var appErr *errors.AppError
	if !goerrors.As(err, &appErr) || appErr.StatusCode != 400 {
		t.Fatalf("expected 400 for wrong current password, got %v", err)
	}

	if err := s.auth.ChangePassword(admin.ID, &models.ChangePasswordRequest{
		CurrentPassword: "hunter2hunter2",
		NewPassword:     "new-password-1",
	}); err != nil {
		t.Fatalf("failed to change password: %v", err)
	}

	if _, err := s.auth.Login(&models.LoginRequest{
		Email:    "office@example.com",
		Password: "new-password-1",
	}); err != nil {
		t.Fatalf("login with new password should succeed: %v", err)
	}
}
