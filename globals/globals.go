package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(getenv("ACCESS_TOKEN_SECRET", "change_me_in_env"))

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const RoleKey ContextKey = "role"

// User roles
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// Customer ranks
const (
	RankNormal  = "NORMAL"
	RankPremium = "PREMIUM"
)

var Ctx = context.Background()

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
