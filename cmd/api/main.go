package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/photoshare/photoshare-api/internal/api"
	"github.com/photoshare/photoshare-api/internal/core/ports"
	"github.com/photoshare/photoshare-api/internal/core/service"
	"github.com/photoshare/photoshare-api/internal/infrastructure/config"
	mongodb "github.com/photoshare/photoshare-api/internal/infrastructure/db/mongo"
	redisdb "github.com/photoshare/photoshare-api/internal/infrastructure/db/redis"
	"github.com/photoshare/photoshare-api/internal/infrastructure/password"
	"github.com/photoshare/photoshare-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "development", nil)
		l := logger.Get()
		l.Fatal().Err(err).Msg("loading configuration")
	}

	log := logger.Init(cfg.LogLevel, cfg.Env, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnecting mongodb")
		}
	}()

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to redis")
	}
	defer redisClient.Close()

	store := mongodb.NewCredentialStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensuring mongodb indexes")
	}

	cache := redisdb.NewUserCache(redisClient, cfg.UserCacheTTL)
	hasher := password.NewBcryptHasher(0)
	codec := service.NewTokenCodec(cfg.SecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// --- Core services, constructed once and shared ---
	sessions := service.NewSessionService(store, cache, hasher, codec, log)
	users := service.NewUserService(store, cache, hasher, log)

	go sweepLoop(ctx, sessions, cfg.SweepInterval, log)

	e := api.NewRouter(api.Deps{
		Sessions: sessions,
		Users:    users,
		Mongo:    db,
		Redis:    redisClient,
		Log:      log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// sweepLoop periodically removes expired refresh tokens and blacklist
// entries so the credential collections do not grow without bound.
func sweepLoop(ctx context.Context, sessions ports.SessionService, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.Sweep(ctx); err != nil {
				log.Error().Err(err).Msg("sweeping expired credentials")
			}
		}
	}
}
