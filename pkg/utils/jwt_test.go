package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, "ana@doceria.local", "Ana")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != userID || claims.Email != "ana@doceria.local" || claims.Name != "Ana" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	other := NewJWTManager("another-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), "ana@doceria.local", "Ana")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := other.ValidateAccessToken(token); err == nil {
		t.Error("expected validation to fail with a different secret")
	}
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), "ana@doceria.local", "Ana")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := manager.ValidateAccessToken(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	token, err := manager.GenerateRefreshToken(userID)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	got, err := manager.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if got != userID {
		t.Errorf("user ID = %s, want %s", got, userID)
	}
}

func TestGeneratePixCodeFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GeneratePixCode()
		if !strings.HasPrefix(code, "PIX") || len(code) != 23 {
			t.Fatalf("unexpected code %q", code)
		}
		if code != strings.ToUpper(code) {
			t.Fatalf("code %q is not uppercase", code)
		}
		if seen[code] {
			t.Fatalf("code %q generated twice", code)
		}
		seen[code] = true
	}
}
