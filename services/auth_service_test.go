package services

import (
	"testing"

	"mbta-delay-pipeline/config"
)

func newTestAuthService() *AuthService {
	return NewAuthService(config.JWTConfig{
		Secret:      "test-secret-key",
		ExpiryHours: 24,
	})
}

func TestHashAndCheckPassword(t *testing.T) {
	svc := newTestAuthService()

	hash, err := svc.HashPassword("mypassword123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "" || hash == "mypassword123" {
		t.Fatalf("hash = %q, want a non-empty value distinct from the plaintext", hash)
	}

	if !svc.CheckPassword(hash, "mypassword123") {
		t.Error("CheckPassword should accept the correct password")
	}
	if svc.CheckPassword(hash, "wrongpassword") {
		t.Error("CheckPassword should reject a wrong password")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestAuthService()

	token, err := svc.GenerateToken(7, "rider@example.com", "viewer")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if claims.Email != "rider@example.com" {
		t.Errorf("Email = %q, want rider@example.com", claims.Email)
	}
	if claims.Role != "viewer" {
		t.Errorf("Role = %q, want viewer", claims.Role)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Error("registered claims should carry timestamps")
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	svc := newTestAuthService()
	if _, err := svc.ValidateToken("invalid.token.string"); err == nil {
		t.Error("expected error for a malformed token")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc1 := NewAuthService(config.JWTConfig{Secret: "secret-1", ExpiryHours: 24})
	svc2 := NewAuthService(config.JWTConfig{Secret: "secret-2", ExpiryHours: 24})

	token, _ := svc1.GenerateToken(1, "rider@example.com", "viewer")
	if _, err := svc2.ValidateToken(token); err == nil {
		t.Error("expected error when validating with a different secret")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	svc := newTestAuthService()

	hash1, _ := svc.HashPassword("same-password")
	hash2, _ := svc.HashPassword("same-password")
	if hash1 == hash2 {
		t.Error("bcrypt hashes should differ due to random salt")
	}
	if !svc.CheckPassword(hash1, "same-password") || !svc.CheckPassword(hash2, "same-password") {
		t.Error("both hashes should validate the original password")
	}
}
