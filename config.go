package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AuthConfig carries the token-signing settings. It is built once in
// main and handed to the handlers and middleware that need it, rather
// than read from the environment at every call site.
type AuthConfig struct {
	Secret []byte
	Expiry time.Duration
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Warning: .env file not found, using system environment variables")
	}
}

// LoadAuthConfig reads JWT_SECRET and ACCESS_TOKEN_EXPIRY (minutes,
// default 30) from the environment. Fatal without a secret.
func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("❌ JWT_SECRET is missing in .env")
	}

	expiry := 30 * time.Minute
	if raw := os.Getenv("ACCESS_TOKEN_EXPIRY"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			log.Fatalf("❌ Invalid ACCESS_TOKEN_EXPIRY: %q", raw)
		}
		expiry = time.Duration(minutes) * time.Minute
	}

	return AuthConfig{Secret: []byte(secret), Expiry: expiry}
}
