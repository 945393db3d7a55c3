package auth

import (
	"testing"

	"reelify.io/movie-advisor/internal/config"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateSessionToken("session-123")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	sessionID, err := ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("ValidateSessionToken: %v", err)
	}
	if sessionID != "session-123" {
		t.Errorf("session id = %q, want %q", sessionID, "session-123")
	}
}

func TestValidateSessionTokenRejectsGarbage(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	if _, err := ValidateSessionToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestValidateSessionTokenRejectsWrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	token, err := GenerateSessionToken("session-123")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	config.AppConfig.JWTSecret = "other-secret"
	if _, err := ValidateSessionToken(token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}
