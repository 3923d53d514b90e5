package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"linkboard/internal/auth"
	"linkboard/internal/config"
	"linkboard/internal/db"
	apperrors "linkboard/internal/errors"
	"linkboard/internal/logging"
	"linkboard/internal/model"
	"linkboard/internal/repository"
	"linkboard/internal/service"
)

// adminSeed is the bootstrap administrator read from SEED_ADMIN_* variables.
type adminSeed struct {
	Name     string
	Email    string
	Password string
	Limit    int
}

func loadAdminSeed() (adminSeed, error) {
	seed := adminSeed{
		Name:     os.Getenv("SEED_ADMIN_NAME"),
		Email:    os.Getenv("SEED_ADMIN_EMAIL"),
		Password: os.Getenv("SEED_ADMIN_PASSWORD"),
		Limit:    10,
	}
	if seed.Name == "" {
		seed.Name = "Administrator"
	}
	if v := os.Getenv("SEED_ADMIN_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return adminSeed{}, fmt.Errorf("SEED_ADMIN_LIMIT: %w", err)
		}
		seed.Limit = limit
	}
	if seed.Email == "" || seed.Password == "" {
		return adminSeed{}, errors.New("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}
	return seed, nil
}

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	seed, err := loadAdminSeed()
	if err != nil {
		logger.Error(ctx, "invalid seed configuration", "error", err)
		os.Exit(1)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Error(ctx, "database init failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error(ctx, "migration failed", "error", err)
		os.Exit(1)
	}

	// Register needs a token issuer only for its signature; no token is minted here.
	authService := service.NewAuthService(
		repository.NewUserRepository(gormDB),
		auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn),
		auth.NewTokenStore(nil),
	)

	if err := seedAdmin(ctx, authService, seed); err != nil {
		logger.Error(ctx, "seed failed", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "seed completed", "email", seed.Email)
}

// seedAdmin creates the administrator unless the email is already registered.
func seedAdmin(ctx context.Context, authService service.AuthService, seed adminSeed) error {
	_, err := authService.Register(ctx, service.RegisterInput{
		Name:     seed.Name,
		Email:    seed.Email,
		Password: seed.Password,
		Limit:    seed.Limit,
		Role:     model.RoleAdmin,
	})
	if errors.Is(err, apperrors.ErrEmailTaken) {
		return nil
	}
	return err
}
