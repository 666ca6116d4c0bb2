package config

import (
	"os"
	"strconv"
	"time"
)

var JWTSecret []byte
var TokenTTL time.Duration

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-this-in-production"
	}
	JWTSecret = []byte(secret)

	// TOKEN_TTL_HOURS bounds both confirmation codes and access tokens;
	// they share one format and lifetime.
	TokenTTL = 24 * time.Hour
	if raw := os.Getenv("TOKEN_TTL_HOURS"); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			TokenTTL = time.Duration(hours) * time.Hour
		}
	}
}
