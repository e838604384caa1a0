package apiapp

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	authsvc "github.com/vivahapp/backend/internal/services/auth"
)

func mintAccessToken(t *testing.T, secret string, userID int64) string {
	t.Helper()

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func identityEcho(t *testing.T, wantUserID int64) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok || identity.UserID != wantUserID {
			t.Fatalf("identity mismatch: got %+v ok=%v", identity, ok)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	verifier := authsvc.NewVerifier("secret", "")
	mw := AuthMiddleware(verifier, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintAccessToken(t, "secret", 42))
	rr := httptest.NewRecorder()

	mw(identityEcho(t, 42)).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	verifier := authsvc.NewVerifier("secret", "")
	mw := AuthMiddleware(verifier, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not be called without a token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsForgedToken(t *testing.T) {
	verifier := authsvc.NewVerifier("secret", "")
	mw := AuthMiddleware(verifier, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintAccessToken(t, "other-secret", 42))
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not be called with a forged token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	verifier := authsvc.NewVerifier("secret", "")
	mw := OptionalAuthMiddleware(verifier, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/1", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authsvc.IdentityFromContext(r.Context()); ok {
			t.Fatal("anonymous request must not carry an identity")
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestOptionalAuthSetsIdentityWhenTokenPresent(t *testing.T) {
	verifier := authsvc.NewVerifier("secret", "")
	mw := OptionalAuthMiddleware(verifier, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/1", nil)
	req.Header.Set("Authorization", "Bearer "+mintAccessToken(t, "secret", 7))
	rr := httptest.NewRecorder()

	mw(identityEcho(t, 7)).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestOptionalAuthRejectsInvalidToken(t *testing.T) {
	verifier := authsvc.NewVerifier("secret", "")
	mw := OptionalAuthMiddleware(verifier, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/1", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not be called with an invalid token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}
