// @title        User Service API
// @version      1.0
// @description  Registration, login and user management guarded by a
// @description  version-stamped bearer token.
//
// @host      localhost:8080
// @BasePath  /
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/accounthub/user-service/internal/api"
	"github.com/accounthub/user-service/internal/core/service"
	"github.com/accounthub/user-service/internal/core/token"
	mongodb "github.com/accounthub/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/accounthub/user-service/internal/infrastructure/db/redis"
	"github.com/accounthub/user-service/internal/pkg/config"
	"github.com/accounthub/user-service/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.Env == "development")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	repo := mongodb.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	users := service.NewUserService(
		repo,
		token.NewCodec([]byte(cfg.JWTSecret), cfg.TokenTTL),
		redisdb.NewVersionCache(rdb),
		log,
	)

	e := api.NewRouter(users, db, rdb, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("user service started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
