package auth

import (
	"errors"
	"strconv"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func mintToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims(userID int64, issuer string) jwt.RegisteredClaims {
	now := time.Now().UTC()
	return jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
	}
}

func TestParseAccessTokenAcceptsValidToken(t *testing.T) {
	verifier := NewVerifier("secret", "idp.vivah.app")
	raw := mintToken(t, "secret", jwt.SigningMethodHS256, validClaims(42, "idp.vivah.app"))

	claims, err := verifier.ParseAccessToken(raw)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("unexpected user id: %d", claims.UserID)
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Fatal("expected future expiry")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	verifier := NewVerifier("secret", "")
	raw := mintToken(t, "other-secret", jwt.SigningMethodHS256, validClaims(42, ""))

	if _, err := verifier.ParseAccessToken(raw); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	verifier := NewVerifier("secret", "")
	claims := validClaims(42, "")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	raw := mintToken(t, "secret", jwt.SigningMethodHS256, claims)

	if _, err := verifier.ParseAccessToken(raw); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	verifier := NewVerifier("secret", "idp.vivah.app")
	raw := mintToken(t, "secret", jwt.SigningMethodHS256, validClaims(42, "someone-else"))

	if _, err := verifier.ParseAccessToken(raw); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestParseAccessTokenRejectsBadSubject(t *testing.T) {
	verifier := NewVerifier("secret", "")
	claims := validClaims(42, "")
	claims.Subject = "not-a-number"
	raw := mintToken(t, "secret", jwt.SigningMethodHS256, claims)

	if _, err := verifier.ParseAccessToken(raw); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestParseAccessTokenRejectsEmpty(t *testing.T) {
	verifier := NewVerifier("secret", "")
	if _, err := verifier.ParseAccessToken("  "); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
