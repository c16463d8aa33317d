package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"authapi/internal/auth"
	"authapi/internal/config"
	"authapi/internal/db"
	apperrors "authapi/internal/errors"
	"authapi/internal/logging"
	"authapi/internal/model"
	"authapi/internal/repository"
	"authapi/internal/service"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	log.Info("Starting seed script...")

	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		log.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be set")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	authService, err := service.NewAuthService(
		repository.NewUserRepository(gormDB),
		auth.NewHasher(cfg.BcryptCost),
		auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn),
		log,
		nil,
	)
	if err != nil {
		log.WithError(err).Fatal("auth service init")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session, err := authService.SignUp(ctx, cfg.Seed.AdminName, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, model.RoleAdmin)
	switch {
	case errors.Is(err, apperrors.ErrDuplicateEmail):
		log.WithField("email", cfg.Seed.AdminEmail).Info("Admin already exists, nothing to do")
	case err != nil:
		log.WithError(err).Fatal("Failed to seed admin")
	default:
		log.WithFields(logrus.Fields{"id": session.User.ID, "email": session.User.Email}).Info("Admin seeded")
	}
}
