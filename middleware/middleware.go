package middleware

import (
	"context"
	"fmt"
	"net/http"

	"everfresh/globals"
	"everfresh/rdx"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// sessionMatches checks the token against the server-side session
// cache, so logout and bans take effect before the JWT expires.
// Swappable in tests.
var sessionMatches = rdx.RdxSessionMatches

// JWT claims
type Claims struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Rank   string `json:"rank"`
	jwt.RegisteredClaims
}

func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if websocket.IsWebSocketUpgrade(r) {
			// Allow WebSocket through; the handler validates the token itself
			next(w, r, ps)
			return
		}

		claims, err := claimsFromHeader(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(withClaims(r.Context(), claims)), ps)
	}
}

// AuthenticateAdmin gates admin-only endpoints.
func AuthenticateAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := claimsFromHeader(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if claims.Role != globals.RoleAdmin {
			http.Error(w, "Admin permission required", http.StatusForbidden)
			return
		}
		next(w, r.WithContext(withClaims(r.Context(), claims)), ps)
	}
}

// AuthenticateCustomer gates customer-only endpoints (cart, checkout, rating).
func AuthenticateCustomer(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := claimsFromHeader(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if claims.Role != globals.RoleCustomer {
			http.Error(w, "Customer permission required", http.StatusForbidden)
			return
		}
		next(w, r.WithContext(withClaims(r.Context(), claims)), ps)
	}
}

func claimsFromHeader(r *http.Request) (*Claims, error) {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		return nil, fmt.Errorf("Missing token")
	}
	if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
		return nil, fmt.Errorf("Invalid token format")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("Invalid token")
	}
	if !sessionMatches(claims.UserID, tokenString[7:]) {
		return nil, fmt.Errorf("Session expired")
	}
	return claims, nil
}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, globals.UserIDKey, claims.UserID)
	return context.WithValue(ctx, globals.RoleKey, claims.Role)
}

func ValidateJWT(tokenString string) (*Claims, error) {
	if tokenString == "" || len(tokenString) < 8 {
		return nil, fmt.Errorf("invalid token")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	if !sessionMatches(claims.UserID, tokenString[7:]) {
		return nil, fmt.Errorf("session expired")
	}
	return claims, nil
}
