package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/lysokunvoath/grex/internal/cache"
	"github.com/lysokunvoath/grex/internal/config"
	"github.com/lysokunvoath/grex/internal/handlers"
	"github.com/lysokunvoath/grex/internal/handlers/ws"
	"github.com/lysokunvoath/grex/internal/logging"
	"github.com/lysokunvoath/grex/internal/metrics"
	"github.com/lysokunvoath/grex/internal/middleware"
	"github.com/lysokunvoath/grex/internal/repository"
	"github.com/lysokunvoath/grex/internal/service"
	"github.com/lysokunvoath/grex/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.LogLevel != "" {
		logging.SetupWithLevel(logging.LevelFromString(cfg.LogLevel))
	}

	app := fiber.New(fiber.Config{
		AppName: "GREX Backend",
		// Icon uploads up to 5MB + overhead.
		BodyLimit: 8 * 1024 * 1024,
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(metrics.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + middleware.CSRFHeader,
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: cfg.AllowedOrigins != "" && cfg.AllowedOrigins != "*",
	}))

	db, err := repository.InitDB(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		slog.Warn("redis unavailable, caching in process", "addr", cfg.Redis.Addr, "error", err)
		redisCache = nil
	} else {
		slog.Info("redis cache connected", "addr", cfg.Redis.Addr)
	}
	cancel()
	groupCache := cache.NewGroupCache(redisCache, cfg.PublicGroupsTTL)

	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	meetupRepo := repository.NewMeetupRepository(db)

	hub := ws.NewHub()

	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg.JWTSecret)
	groupService := service.NewGroupService(groupRepo, userRepo, groupCache, hub)
	meetupService := service.NewMeetupService(meetupRepo, groupRepo, hub)

	// Icon endpoints return 503 when storage is not configured.
	var iconStore service.ObjectStore
	if !cfg.S3.Enabled() {
		slog.Warn("S3 storage not configured")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		st, err := storage.NewS3Storage(ctx, cfg.S3)
		cancel()
		if err != nil {
			slog.Warn("failed to initialize S3 storage", "bucket", cfg.S3.Bucket, "error", err)
		} else {
			iconStore = st
			slog.Info("S3 storage initialized", "bucket", cfg.S3.Bucket)
		}
	}
	iconService := service.NewIconService(groupService, groupRepo, iconStore)

	origins := middleware.ParseOrigins(cfg.AllowedOrigins)
	csrfMode, err := middleware.ParseCSRFMode(cfg.CSRFMode)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	api := app.Group("/api", middleware.OriginAllowed(origins))
	handlers.Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		Groups:  handlers.NewGroupHandler(groupService),
		Meetups: handlers.NewMeetupHandler(meetupService),
		Icons:   handlers.NewIconHandler(iconService),
	}.Mount(api, cfg.JWTSecret, middleware.CSRFRequired(csrfMode, origins))

	wsHandler := handlers.NewWebSocketHandler(hub)
	app.Use(
		"/ws",
		middleware.OriginAllowed(origins),
		middleware.AuthRequired(cfg.JWTSecret),
		func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"message":     "GREX is running",
			"connections": hub.Count(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	go purgeSessions(authService, time.Hour)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
		if redisCache != nil {
			_ = redisCache.Close()
		}
	}()

	slog.Info("server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

func purgeSessions(auth *service.AuthService, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		n, err := auth.PurgeExpiredSessions()
		if err != nil {
			slog.Error("purge refresh tokens", "error", err)
			continue
		}
		if n > 0 {
			slog.Debug("purged refresh tokens", "count", n)
		}
	}
}
