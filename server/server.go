// Package server bootstraps the HTTP server and wires the service graph.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/defterly/defterly/ai/llm"
	"github.com/defterly/defterly/ai/metrics"
	"github.com/defterly/defterly/ai/suggest"
	"github.com/defterly/defterly/internal/profile"
	apiv1 "github.com/defterly/defterly/server/router/api/v1"
	"github.com/defterly/defterly/store"
	"github.com/defterly/defterly/store/cache"
)

type Server struct {
	echoServer *echo.Echo
	profile    *profile.Profile
	store      *store.Store
	cacheStore cache.Cache
}

// NewServer assembles the server: cache store, model gateway, suggestion
// pipeline, metrics and routes. Dependencies are constructed here and passed
// down explicitly; nothing holds process-global state.
func NewServer(ctx context.Context, profile *profile.Profile, storeInstance *store.Store) (*Server, error) {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true

	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     profile.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))

	cacheStore := newCacheStore(ctx, profile)

	var llmService llm.Service
	if profile.IsAIEnabled() {
		var err error
		llmService, err = llm.NewService(&llm.Config{
			Provider: profile.AIProvider,
			Model:    profile.AIModel,
			APIKey:   profile.AIAPIKey,
			BaseURL:  profile.AIBaseURL,
			Timeout:  profile.AITimeoutSeconds,
		})
		if err != nil {
			slog.Warn("failed to initialize model gateway, suggestions fall back to heuristics", "error", err)
		} else {
			slog.Info("model gateway initialized", "provider", profile.AIProvider, "model", profile.AIModel)
		}
	} else {
		slog.Info("AI features disabled, no model API key configured")
	}

	exporter := metrics.NewExporter()
	suggester := suggest.New(llmService, cacheStore, time.Duration(profile.CacheTTLSeconds)*time.Second, exporter)

	apiV1Service := apiv1.NewAPIV1Service(profile, storeInstance, suggester)
	apiV1Service.RegisterRoutes(echoServer)

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})
	echoServer.GET("/metrics", echo.WrapHandler(exporter.Handler()))

	return &Server{
		echoServer: echoServer,
		profile:    profile,
		store:      storeInstance,
		cacheStore: cacheStore,
	}, nil
}

// newCacheStore selects the cache implementation: Redis when a cache DSN is
// configured, the in-process LRU otherwise. A Redis connection failure
// degrades to the in-process cache instead of blocking startup.
func newCacheStore(ctx context.Context, profile *profile.Profile) cache.Cache {
	ttl := time.Duration(profile.CacheTTLSeconds) * time.Second
	if profile.CacheDSN == "" {
		slog.Info("using in-process suggestion cache")
		return cache.NewMemoryCache(1000, ttl)
	}

	redisCache, err := cache.NewRedisCache(ctx, profile.CacheDSN, ttl)
	if err != nil {
		slog.Warn("failed to connect to redis, using in-process suggestion cache", "error", err)
		return cache.NewMemoryCache(1000, ttl)
	}
	slog.Info("connected to redis suggestion cache")
	return redisCache
}

// Start launches the HTTP listener in the background. Listener failures are
// logged rather than returned since they occur after Start has returned.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.profile.Addr, s.profile.Port)
	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start http server", "error", err)
		}
	}()
	return nil
}

// Shutdown drains in-flight requests and releases owned resources.
func (s *Server) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down http server", "error", err)
	}
	if err := s.cacheStore.Close(); err != nil {
		slog.Error("failed to close cache store", "error", err)
	}
	if err := s.store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}

	slog.Info("defterly stopped properly")
}
