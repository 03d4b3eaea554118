package config

import "os"

type AppConfig struct {
	DebugMode      bool
	JudgeConfig    *JudgeConfig
	GradingConfig  *GradingConfig
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	JwtConfig      *JwtConfig
	HTTPConfig     *HTTPConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		JudgeConfig:    NewJudgeConfig(),
		GradingConfig:  NewGradingConfig(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		JwtConfig:      NewJwtConfig(),
		HTTPConfig:     NewHTTPConfig(),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
