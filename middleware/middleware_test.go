package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"everfresh/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func mintToken(t *testing.T, userID, role string) string {
	t.Helper()
	claims := &Claims{
		Name:   "Test User",
		Email:  "user@example.com",
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func stubSessions(t *testing.T, match bool) {
	t.Helper()
	prev := sessionMatches
	sessionMatches = func(userID, token string) bool { return match }
	t.Cleanup(func() { sessionMatches = prev })
}

func TestAuthenticatePassesLiveSession(t *testing.T) {
	stubSessions(t, true)

	var gotUserID string
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUserID, _ = r.Context().Value(globals.UserIDKey).(string)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "u1", globals.RoleCustomer))
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != "u1" {
		t.Errorf("user id in context = %q, want u1", gotUserID)
	}
}

func TestAuthenticateRejectsLoggedOutSession(t *testing.T) {
	// A structurally valid, unexpired token must still be refused once
	// the server-side session entry is gone (logout, ban).
	stubSessions(t, false)

	called := false
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "u1", globals.RoleCustomer))
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("handler must not run for a dead session")
	}
}

func TestValidateJWTChecksSession(t *testing.T) {
	token := "Bearer " + mintToken(t, "u1", globals.RoleCustomer)

	stubSessions(t, true)
	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT with live session: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("claims.UserID = %q, want u1", claims.UserID)
	}

	stubSessions(t, false)
	if _, err := ValidateJWT(token); err == nil {
		t.Error("ValidateJWT should fail once the session is dropped")
	}
}

func TestAuthenticateAdminRejectsCustomers(t *testing.T) {
	stubSessions(t, true)

	handler := AuthenticateAdmin(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("handler must not run for a customer token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "u1", globals.RoleCustomer))
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
