package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-site/internal/audit"
	"github.com/BruksfildServices01/booking-site/internal/cache"
	"github.com/BruksfildServices01/booking-site/internal/config"
	dbpkg "github.com/BruksfildServices01/booking-site/internal/db"
	"github.com/BruksfildServices01/booking-site/internal/logger"
	"github.com/BruksfildServices01/booking-site/internal/routes"
	"github.com/BruksfildServices01/booking-site/internal/validators"
)

func main() {

	cfg := config.Load()

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.Fatal("database setup failed", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.UsesRedis() {
		rdb, err = cache.NewRedisClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal("redis setup failed", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	} else {
		log.Info("REDIS_ADDR not set, using in-process locks and rate limits")
	}

	if err := validators.RegisterBindings(); err != nil {
		log.Fatal("register validators", zap.Error(err))
	}

	dispatcher := audit.NewDispatcher(audit.NewGormSink(db), log, 256)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Config: cfg,
		Redis:  rdb,
		Log:    log,
		Audit:  dispatcher,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	if err := dispatcher.Close(ctx); err != nil {
		log.Warn("audit queue not drained", zap.Error(err))
	}
}
