package rdx

import (
	"os"

	"everfresh/globals"

	"github.com/redis/go-redis/v9"
)

var Conn = redis.NewClient(&redis.Options{
	Addr: redisAddr(),
})

func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// Token cache: access tokens per user, so logout can invalidate server-side.

func RdxHset(group, field, value string) error {
	return Conn.HSet(globals.Ctx, group, field, value).Err()
}

func RdxHget(group, field string) (string, error) {
	return Conn.HGet(globals.Ctx, group, field).Result()
}

func RdxHdel(group, field string) error {
	return Conn.HDel(globals.Ctx, group, field).Err()
}

// RdxSessionMatches reports whether token is the live access token for
// the user. A missing entry means the session was logged out or never
// issued. A cache outage fails open so sign-in does not depend on
// redis being up.
func RdxSessionMatches(userID, token string) bool {
	cached, err := RdxHget("sessions", userID)
	if err == redis.Nil {
		return false
	}
	if err != nil {
		return true
	}
	return cached == token
}
