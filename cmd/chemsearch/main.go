package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chemsearch/internal/config"
	"github.com/kailas-cloud/chemsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/chemsearch/internal/db/redis"
	"github.com/kailas-cloud/chemsearch/internal/domain"
	"github.com/kailas-cloud/chemsearch/internal/domain/detail"
	logpkg "github.com/kailas-cloud/chemsearch/internal/logger"
	"github.com/kailas-cloud/chemsearch/internal/metrics"
	collectionrepo "github.com/kailas-cloud/chemsearch/internal/repository/collection"
	fingerprintrepo "github.com/kailas-cloud/chemsearch/internal/repository/fingerprint"
	klassrepo "github.com/kailas-cloud/chemsearch/internal/repository/klass"
	publicationrepo "github.com/kailas-cloud/chemsearch/internal/repository/publication"
	recordrepo "github.com/kailas-cloud/chemsearch/internal/repository/record"
	scoperepo "github.com/kailas-cloud/chemsearch/internal/repository/scope"
	"github.com/kailas-cloud/chemsearch/internal/repository/structcache"
	"github.com/kailas-cloud/chemsearch/internal/repository/xref"
	chiTransport "github.com/kailas-cloud/chemsearch/internal/transport/chi"
	structureclient "github.com/kailas-cloud/chemsearch/internal/transport/structure"
	accessuc "github.com/kailas-cloud/chemsearch/internal/usecase/access"
	healthuc "github.com/kailas-cloud/chemsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/chemsearch/internal/usecase/search"
	"github.com/kailas-cloud/chemsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting chemsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_host", cfg.Database.Host),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
	)

	database, err := postgres.Open(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetimeSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer database.Close()

	// Wait for database to be ready
	ctx := context.Background()
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := database.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Optional Redis: structure cache and compound registry counts.
	var cache *dbRedis.Store
	if cfg.Cache.Enabled() {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cache.Close()
		if err := cache.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache")
	}

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	structure := structureclient.NewClient(&structureclient.Config{
		BaseURL: cfg.Structure.URL,
		Timeout: time.Duration(cfg.Structure.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	var standardizer domain.Standardizer = structure
	// Pass nil interfaces (not typed nil pointers!) when the cache is not configured.
	var xvials searchuc.XvialCounter
	var cachePinger healthuc.Pinger
	if cache != nil {
		standardizer = structcache.New(structure, cache,
			time.Duration(cfg.Cache.StructureTTLSec)*time.Second, metrics.StructureCacheTotal, logger)
		xvials = xref.New(cache)
		cachePinger = cache
	}

	// Create repositories
	accessSvc := accessuc.New(collectionrepo.New(database), accessuc.Public{
		CollectionID: cfg.Search.PublicCollectionID,
		Levels:       levelsFromConfig(cfg.Search.PublicLevels),
	})

	searchSvc := searchuc.New(searchuc.Deps{
		Access:       accessSvc,
		Scopes:       scoperepo.New(database),
		Records:      recordrepo.New(database),
		Publications: publicationrepo.New(database),
		Klasses:      klassrepo.New(database),
		Fingerprints: fingerprintrepo.New(database),
		Standardizer: standardizer,
		Xvials:       xvials,
	}, searchuc.CompoundOpenData{
		Enabled:      cfg.Search.CompoundOpenData.Enabled,
		AllowedUsers: cfg.Search.CompoundOpenData.AllowedUsers,
	})

	healthSvc := healthuc.New(database, cachePinger, structure)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.Tokens))
	r.Use(metrics.Middleware())
	chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
				Code:    chiTransport.ErrorResponseCodeBadRequest,
				Message: "invalid request",
			})
		},
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func levelsFromConfig(c config.LevelsConfig) detail.Levels {
	return detail.Levels{
		Sample:    c.Sample,
		Reaction:  c.Reaction,
		Wellplate: c.Wellplate,
		Screen:    c.Screen,
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorResponseCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
