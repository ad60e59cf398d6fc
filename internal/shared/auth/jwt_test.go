package auth

import (
	"testing"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "dev")

	token, err := SignJWT("user-1", "jane@example.com", "Jane Doe", "")
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected sub user-1, got %s", claims.Subject)
	}
	if claims.Email != "jane@example.com" {
		t.Fatalf("expected email to round-trip, got %s", claims.Email)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "dev")

	token, err := SignJWT("user-1", "", "", "")
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	if _, err := VerifyJWT(token + "x"); err == nil {
		t.Fatal("expected error for tampered token")
	}
}

func TestSignRequiresSub(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := SignJWT("", "", "", ""); err == nil {
		t.Fatal("expected error for empty sub")
	}
}
