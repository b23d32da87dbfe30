package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindwell/internal/cache"
	"mindwell/internal/config"
	"mindwell/internal/metrics"
	"mindwell/internal/repository"
	"mindwell/internal/service"
	"mindwell/internal/transport/rest"
	"mindwell/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// @title MindWell Screening API
// @version 1.0
// @description Self-assessment screening with per-session progress feeds
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey SessionToken
// @in header
// @name Authorization
// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-Key
func main() {
	cfg := config.Load()

	logger, err := cfg.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Instrument problems are configuration errors; refuse to start
	instrument, err := config.LoadInstrument(cfg.InstrumentFile)
	if err != nil {
		logger.Fatal("failed to load instrument", zap.Error(err))
	}
	screener, err := instrument.Build()
	if err != nil {
		logger.Fatal("invalid instrument", zap.String("file", cfg.InstrumentFile), zap.Error(err))
	}
	logger.Info("instrument loaded",
		zap.String("name", instrument.Name),
		zap.Int("questions", screener.Bank().Len()),
		zap.Int("max_score", screener.Bank().MaxScore()),
	)

	// Session store: Redis when configured, otherwise in-process
	var store cache.SessionStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatal("failed to ping redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		store = cache.NewSessionCache(rdb, cfg.SessionTTL)
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	} else {
		store = cache.NewMemoryStore(cfg.SessionTTL)
		logger.Warn("REDIS_ADDR not set, sessions are kept in memory")
	}

	// Result archive: optional
	var archive repository.ResultRepo
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			logger.Fatal("failed to connect to mongodb", zap.Error(err))
		}
		defer mongoClient.Disconnect(context.Background())

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = mongoClient.Ping(pingCtx, nil)
		cancel()
		if err != nil {
			logger.Fatal("failed to ping mongodb", zap.Error(err))
		}

		archive = repository.NewResultRepo(mongoClient.Database(cfg.MongoDB))
		idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = archive.EnsureIndexes(idxCtx)
		cancel()
		if err != nil {
			logger.Fatal("failed to create archive indexes", zap.Error(err))
		}
		logger.Info("connected to mongodb", zap.String("database", cfg.MongoDB))
	} else {
		logger.Warn("MONGO_URI not set, results are not archived")
	}

	m := metrics.New()

	// Initialize WebSocket hub
	wsHub := ws.NewHub(logger)

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.SessionTTL)
	screeningSvc := service.NewScreeningService(instrument, screener, store, archive, authSvc, m, logger)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	screeningSvc.SetBroadcaster(wsHub)

	if cfg.AdminKey == "" {
		logger.Warn("ADMIN_KEY not set, admin routes are disabled")
	}

	router := rest.NewRouter(&rest.Container{
		AuthService:      authSvc,
		ScreeningService: screeningSvc,
		WSHub:            wsHub,
		Metrics:          m,
		Logger:           logger,
		AdminKey:         cfg.AdminKey,
		CORS: rest.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: cfg.CORSAllowedMethods,
			AllowedHeaders: cfg.CORSAllowedHeaders,
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen and serve", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
