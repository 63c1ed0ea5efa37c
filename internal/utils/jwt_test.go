package utils

import (
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "jane@example.com", "Jane Doe", testSecret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Email != "jane@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "jane@example.com")
	}
	if claims.TokenType != "access" {
		t.Errorf("TokenType = %q, want %q", claims.TokenType, "access")
	}
}

func TestRefreshTokenType(t *testing.T) {
	token, err := GenerateRefreshToken("user-1", "jane@example.com", "Jane Doe", testSecret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := ValidateToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("TokenType = %q, want %q", claims.TokenType, "refresh")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "jane@example.com", "Jane Doe", testSecret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateToken(token, "other-secret"); err == nil {
		t.Error("token signed with a different secret should fail validation")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "jane@example.com", "Jane Doe", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateToken(token, testSecret); err == nil {
		t.Error("expired token should fail validation")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token", testSecret); err == nil {
		t.Error("malformed token should fail validation")
	}
}

func TestConfirmTokenRoundTrip(t *testing.T) {
	token, err := GenerateConfirmationToken("jane@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateConfirmationToken: %v", err)
	}

	email, err := ConfirmToken(token, testSecret)
	if err != nil {
		t.Fatalf("ConfirmToken: %v", err)
	}
	if email != "jane@example.com" {
		t.Errorf("email = %q, want %q", email, "jane@example.com")
	}
}

func TestConfirmTokenRejectsAccessToken(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "jane@example.com", "Jane Doe", testSecret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ConfirmToken(token, testSecret); err == nil {
		t.Error("access token should not pass as a confirmation token")
	}
}
