package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"gitlab.com/fcv-2025.net/grader/internal/adapter/crypto"
	"gitlab.com/fcv-2025.net/grader/internal/adapter/judge0"
	"gitlab.com/fcv-2025.net/grader/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/grader/internal/adapter/metrics"
	"gitlab.com/fcv-2025.net/grader/internal/adapter/postgres/problemrepository"
	"gitlab.com/fcv-2025.net/grader/internal/adapter/postgres/verdictrepository"
	"gitlab.com/fcv-2025.net/grader/internal/adapter/redis/verdictcache"
	"gitlab.com/fcv-2025.net/grader/internal/config"
	"gitlab.com/fcv-2025.net/grader/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/grader/internal/core/services/grading"
	"gitlab.com/fcv-2025.net/grader/internal/core/services/language"
	logger2 "gitlab.com/fcv-2025.net/grader/internal/global/logger"
	"gitlab.com/fcv-2025.net/grader/internal/handlers"
	"gitlab.com/fcv-2025.net/grader/internal/handlers/gradings"
	http2 "gitlab.com/fcv-2025.net/grader/internal/http"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sysCfg := config.NewSystemConfig()

	logger := logger2.Logger
	if sysCfg.DebugMode {
		logger = logging.NewDebugZapLogger()
	}
	defer logger.Sync()
	logger.Info("Starting grading service")

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		logger.Error("Failed to set up database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// SECONDARY PORTS
	judgeClient := judge0.NewClient(sysCfg.JudgeConfig, logger)
	verdictRepo := verdictrepository.NewVerdictRepository(db, logger)
	problemRepo := problemrepository.NewProblemRepository(db, logger)
	cache := verdictcache.NewVerdictCache(redisClient, sysCfg.RedisConfig.VerdictTTL, logger)
	recorder := metrics.NewRecorder(registry)

	//services
	languages := language.NewRegistry(sysCfg.JudgeConfig.LanguageOverrides)
	gradingSvc := grading.NewGradingService(judgeClient, languages, recorder, logger, sysCfg.GradingConfig)

	//primary ports
	var jwtProvider primary.JWTService
	if sysCfg.JwtConfig.Secret != "" {
		jwtProvider = crypto.NewJWTService(sysCfg.JwtConfig)
	} else {
		logger.Warn("JWT_SECRET is empty, the grading API is unguarded")
	}

	serviceProvider := http2.NewServiceProvider(
		gradings.Dependencies{
			Grading:   gradingSvc,
			Languages: languages,
			Problems:  problemRepo,
			Verdicts:  verdictRepo,
			Cache:     cache,
		},
		jwtProvider,
		map[string]handlers.Pinger{
			"postgres": db,
			"redis": handlers.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		},
		registry,
	)

	//server
	httpServer := http2.NewServer(sysCfg.HTTPConfig, "grader", *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		logger.Error("Failed to init http server", "error", err)
		os.Exit(1)
	}
	httpServer.Start(context.Background())
	logger.Info("Grading service ready",
		"judge", sysCfg.JudgeConfig.BaseURL,
		"pollInterval", sysCfg.GradingConfig.PollInterval.String(),
		"maxPollAttempts", sysCfg.GradingConfig.MaxPollAttempts,
		"concurrency", sysCfg.GradingConfig.Concurrency)

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	httpServer.Stop(ctx)

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// InitReader loads <env>.env when an environment name is given as the first
// argument; otherwise the process environment is used as is.
func InitReader() {
	if len(os.Args) < 2 {
		return
	}
	environment := os.Args[1]
	if err := godotenv.Load(environment + ".env"); err != nil {
		logger2.Error("Error loading env file", "file", environment+".env", "error", err)
		os.Exit(1)
	}
}
