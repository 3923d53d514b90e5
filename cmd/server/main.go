package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	_ "linkboard/docs" // swagger docs

	"linkboard/internal/auth"
	"linkboard/internal/cache"
	"linkboard/internal/config"
	"linkboard/internal/db"
	"linkboard/internal/handler"
	"linkboard/internal/logging"
	"linkboard/internal/repository"
	"linkboard/internal/router"
	"linkboard/internal/service"
	"linkboard/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Linkboard API
// @version 1.0
// @description Link board API: quota-limited posts with image uploads, admin approval and a public feed of approved posts.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token. The jwt cookie set on login works as well.
func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error(context.Background(), "server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.SlogLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		return err
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return err
	}

	if cfg.ResetDB {
		logger.Warn(ctx, "RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		// revocation degrades to cookie invalidation only
		logger.Warn(ctx, "redis unavailable, logout will not revoke bearer tokens", "error", err)
	}

	assets, err := storage.NewS3AssetHost(ctx, storage.S3Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		BaseEndpoint:  cfg.S3BaseEndpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn)
	tokenStore := auth.NewTokenStore(cacheClient)
	gate := auth.NewGate(jwtService, tokenStore, userRepo)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, postRepo, assets, logger)
	postService := service.NewPostService(postRepo, userRepo, assets, logger)
	pluginService := service.NewPluginService(postRepo)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(
		e,
		cfg,
		logger,
		gate,
		handler.NewAuthHandler(authService, cfg.CookieTTL(), cfg.IsProduction()),
		handler.NewUserHandler(userService),
		handler.NewPostHandler(postService),
		handler.NewPluginHandler(pluginService),
	)

	logger.Info(ctx, "swagger documentation available", "url", swaggerURL(cfg))

	addr := ":" + cfg.ServerPort
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "http server listening", "addr", addr, "env", cfg.AppEnv)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimSuffix(host, "/") + "/swagger/index.html"
}
