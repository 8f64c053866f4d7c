package auth

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	InitializeJWT("test-secret")

	token, err := GenerateToken("ana@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	email, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if email != "ana@example.com" {
		t.Errorf("expected subject ana@example.com, got %s", email)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	InitializeJWT("test-secret")

	token, err := GenerateToken("ana@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ValidateToken(token); err == nil {
		t.Error("expected an error for an expired token")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	InitializeJWT("first-secret")
	token, err := GenerateToken("ana@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	InitializeJWT("second-secret")
	if _, err := ValidateToken(token); err == nil {
		t.Error("expected an error when the secret changes")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	InitializeJWT("test-secret")

	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("expected an error for a malformed token")
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secreta123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if strings.Contains(hash, "secreta123") {
		t.Error("hash must not contain the plaintext password")
	}

	if err := VerifyPassword("secreta123", hash); err != nil {
		t.Errorf("expected the correct password to verify: %v", err)
	}
	if err := VerifyPassword("incorrecta", hash); err == nil {
		t.Error("expected the wrong password to fail")
	}
}

func TestSessionData_HasRole(t *testing.T) {
	session := SessionData{UserID: 1, Email: "ana@example.com", RolID: 2}

	if !session.HasRole(1, 2) {
		t.Error("expected role 2 to be allowed")
	}
	if session.HasRole(1) {
		t.Error("expected role 2 to be rejected for a supervisor-only check")
	}
}
