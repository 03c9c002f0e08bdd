package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wellness-care-api/internal/assistant"
	"wellness-care-api/internal/auth"
	"wellness-care-api/internal/config"
	"wellness-care-api/internal/handler"
	"wellness-care-api/internal/jobs"
	"wellness-care-api/internal/middleware"
	"wellness-care-api/internal/notify"
	"wellness-care-api/internal/reminder"
	"wellness-care-api/internal/repo"
	"wellness-care-api/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("store", zap.Error(err))
	}
	defer st.Close()

	sessions := openSessions(cfg, logger)
	rem := reminder.New(sessions)
	appts := repo.New(st)
	notices := notify.NewQueue(notify.DefaultTTL)

	var chats assistant.Factory = assistant.Disabled{}
	if cfg.GeminiAPIKey != "" {
		g, err := assistant.NewGemini(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			logger.Fatal("gemini", zap.Error(err))
		}
		chats = g
		logger.Info("assistant enabled")
	} else {
		logger.Warn("GEMINI_API_KEY not set, assistant runs in fallback mode")
	}

	sched, err := jobs.Start(st, logger)
	if err != nil {
		logger.Fatal("jobs", zap.Error(err))
	}
	defer sched.Shutdown()

	h := handler.New(st, appts, rem, notices, chats, logger, cfg.JWTSecret)
	rl := middleware.NewRateLimiter(cfg.AuthRatePerSec, cfg.AuthRateBurst)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: handler.Routes(h, cfg.JWTSecret, rl),
	}
	go func() {
		logger.Info("listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http", zap.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func openStore(cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(context.Background()); err != nil {
			return nil, err
		}
		// apply migrations the simple way, matching the deploy layout
		if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
			logger.Warn("migration file not found, skipping", zap.Error(err))
		} else if _, err := pool.Exec(context.Background(), string(migration)); err != nil {
			logger.Warn("migration", zap.Error(err))
		} else {
			logger.Info("migration applied")
		}
		logger.Info("connected to postgres")
		return store.NewPostgres(pool), nil
	case "sqlite":
		s, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("sqlite store open", zap.String("path", cfg.SQLitePath))
		return s, nil
	default:
		logger.Fatal("unknown STORE_DRIVER", zap.String("driver", cfg.StoreDriver))
		return nil, nil
	}
}

func openSessions(cfg *config.Config, logger *zap.Logger) reminder.SessionStore {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, session markers kept in memory")
		return reminder.NewMemory()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	// markers live as long as a session can: the refresh-token lifetime
	return reminder.NewRedis(client, auth.RefreshTokenTTL)
}
