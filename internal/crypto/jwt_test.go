package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateToken("user-42", "demo@example.com", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty string")
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	if claims.UserID != "user-42" {
		t.Errorf("ValidateToken() UserID = %q, want %q", claims.UserID, "user-42")
	}
	if claims.Subject != "user-42" {
		t.Errorf("ValidateToken() Subject = %q, want %q", claims.Subject, "user-42")
	}
	if claims.Email != "demo@example.com" {
		t.Errorf("ValidateToken() Email = %q", claims.Email)
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	if _, err := ValidateToken("not-a-valid-token", "test-secret"); err == nil {
		t.Error("ValidateToken() expected error for invalid token")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("u", "", "correct-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	if _, err := ValidateToken(token, "wrong-secret"); err == nil {
		t.Error("ValidateToken() expected error for wrong secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken("u", "", "test-secret", time.Millisecond)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := ValidateToken(token, "test-secret"); err == nil {
		t.Error("ValidateToken() expected error for expired token")
	}
}

func signClaims(t *testing.T, secret, issuer, audience, userID string) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}
	return s
}

func TestValidateTokenRejectsForeignClaims(t *testing.T) {
	secret := "test-secret"

	tests := []struct {
		name     string
		issuer   string
		audience string
		userID   string
	}{
		{"wrong issuer", "wrong-issuer", tokenAudience, "u"},
		{"wrong audience", tokenIssuer, "wrong-audience", "u"},
		{"missing user", tokenIssuer, tokenAudience, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token := signClaims(t, secret, tc.issuer, tc.audience, tc.userID)
			if _, err := ValidateToken(token, secret); err == nil {
				t.Error("ValidateToken() expected error")
			}
		})
	}
}
