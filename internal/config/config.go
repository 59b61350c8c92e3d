// Package config loads runtime configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds every value the service reads from the environment. Missing
// required variables abort startup; authentication cannot run half-configured.
type Config struct {
	Env        string // dev | test | prod
	Port       string // HTTP port to bind
	DBUser     string
	DBPass     string // empty allowed
	DBHost     string
	DBPort     string
	DBName     string
	JWTIssuer  string        // iss claim stamped into access tokens
	JWTKeysDir string        // directory holding private.pem / public.pem
	AccessTTL  time.Duration // access token lifetime
	RefreshTTL time.Duration // refresh token lifetime
	BcryptCost int
}

// Load reads the configuration, exiting fatally on missing required values.
func Load() Config {
	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"),
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTIssuer:  must("JWT_ISSUER"),
		JWTKeysDir: must("JWT_KEYS_DIR"),
		AccessTTL:  time.Duration(mustInt("ACCESS_TOKEN_TTL_SEC")) * time.Second,
		RefreshTTL: time.Duration(mustInt("REFRESH_TOKEN_TTL_SEC")) * time.Second,
		BcryptCost: mustInt("BCRYPT_COST"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is must() plus integer conversion.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
