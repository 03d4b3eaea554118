package config

import (
	"os"
	"strconv"
	"time"
)

type RedisConfig struct {
	DB       int
	Url      string
	Password string
	// VerdictTTL is how long graded verdicts stay cached
	VerdictTTL time.Duration
}

func NewRedisConfig() *RedisConfig {
	db, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil {
		db = 0
	}
	ttlSec, err := strconv.Atoi(os.Getenv("REDIS_VERDICT_TTL_SEC"))
	if err != nil || ttlSec <= 0 {
		ttlSec = 3600
	}
	return &RedisConfig{
		DB:         db,
		Url:        getEnv("REDIS_ADDR", "localhost:6379"),
		Password:   os.Getenv("REDIS_PASSWORD"),
		VerdictTTL: time.Duration(ttlSec) * time.Second,
	}
}
