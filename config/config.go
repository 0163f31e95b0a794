package config

import (
	"os"
	"strconv"
)

// GetEnv returns an environment variable or the fallback when unset.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetEnvAsInt returns an environment variable parsed as int, or the
// fallback when unset or unparseable.
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// JWTSecret is the HMAC key shared by the login handler and the auth
// middleware.
func JWTSecret() []byte {
	return []byte(GetEnv("JWT_SECRET", "dev-only-secret"))
}
