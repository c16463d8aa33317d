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

	_ "authapi/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"authapi/internal/auth"
	"authapi/internal/cache"
	"authapi/internal/config"
	"authapi/internal/db"
	"authapi/internal/handler"
	"authapi/internal/logging"
	"authapi/internal/metrics"
	"authapi/internal/middleware"
	"authapi/internal/model"
	"authapi/internal/policy"
	"authapi/internal/repository"
	"authapi/internal/router"
	"authapi/internal/security"
	"authapi/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title User Auth API
// @version 1.0
// @description User registration, cookie sessions and role based user management.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
// @description Session token set by sign-up and sign-in.
func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}

	// Drop tables if RESET_DB environment variable is set
	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping users table")
		if err := gormDB.Migrator().DropTable(&model.User{}); err != nil {
			log.WithError(err).Warn("Failed to drop table (may not exist)")
		}
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.WithError(err).Fatal("auto-migrate")
	}

	rdb := cache.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer rdb.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize auth components
	hasher := auth.NewHasher(cfg.BcryptCost)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn)
	cookies := auth.NewSessionCookies(jwtService.Expiry(), cfg.CookieSecure || cfg.IsProduction())
	rbac := policy.New(log, m)

	// Initialize services
	userRepo := repository.NewUserRepository(gormDB)
	authService, err := service.NewAuthService(userRepo, hasher, jwtService, log, m)
	if err != nil {
		log.WithError(err).Fatal("auth service init")
	}
	userService := service.NewUserService(userRepo, cache.New(rdb), cfg.UserCacheTTL, rbac, log)

	limiter := security.NewRateLimiter(rdb, security.Limits{
		Window: cfg.RateLimit.Window,
		Admin:  cfg.RateLimit.Admin,
		User:   cfg.RateLimit.User,
		Guest:  cfg.RateLimit.Guest,
	})

	e := echo.New()
	router.Register(e, router.Dependencies{
		Log:          log,
		Metrics:      m,
		Gatherer:     registry,
		Oracle:       security.NewGuard(limiter, log),
		Identify:     middleware.Identify(jwtService, cookies, log, m),
		RequireAdmin: middleware.RequireAdmin(rbac),
		AuthHandler:  handler.NewAuthHandler(authService, cookies, log, m),
		UserHandler:  handler.NewUserHandler(userService),
	})

	log.WithField("url", swaggerURL(cfg)).Info("Swagger documentation available")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("Server started")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server start")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimRight(host, "/") + "/swagger/index.html"
}
