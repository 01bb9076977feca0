package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	tok, err := j.Sign(42)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	uid, err := j.Verify(tok)
	if err != nil || uid != 42 {
		t.Fatalf("Verify: uid=%d err=%v", uid, err)
	}
}

func TestJWTRejectsExpiredAndForeignTokens(t *testing.T) {
	j := NewJWT("secret", time.Minute)
	tok, _ := j.Sign(1)

	j.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := j.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired: want ErrInvalidToken, got %v", err)
	}

	other := NewJWT("other-secret", time.Hour)
	foreign, _ := other.Sign(1)
	if _, err := NewJWT("secret", time.Hour).Verify(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign: want ErrInvalidToken, got %v", err)
	}
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !ComparePassword(h, "correct horse") || ComparePassword(h, "wrong horse") {
		t.Fatalf("ComparePassword mismatch")
	}
}

func TestRequireAuth(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	h := RequireAuth(j)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, _ := UserIDFromContext(r.Context())
		if uid != 5 {
			t.Fatalf("uid: want=5 got=%d", uid)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no header: want=401 got=%d", rec.Code)
	}

	tok, _ := j.Sign(5)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("valid token: want=204 got=%d", rec.Code)
	}
}
