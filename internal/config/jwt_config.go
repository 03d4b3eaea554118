package config

import (
	"os"
	"strconv"
	"time"
)

type JwtConfig struct {
	// Secret is the HMAC key; an empty secret disables the API guard
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

func NewJwtConfig() *JwtConfig {
	ttlMin, err := strconv.Atoi(os.Getenv("JWT_TOKEN_TTL_MIN"))
	if err != nil || ttlMin <= 0 {
		ttlMin = 60
	}
	return &JwtConfig{
		Secret:   os.Getenv("JWT_SECRET"),
		Issuer:   getEnv("JWT_ISSUER", "fcv-grader"),
		TokenTTL: time.Duration(ttlMin) * time.Minute,
	}
}
