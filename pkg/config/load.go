package config

import (
	"errors"
	"fmt"
	"os"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var hmacAlgorithms = map[string]struct{}{
	"HS256": {},
	"HS384": {},
	"HS512": {},
}

func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	// If no specific paths provided, try default .env
	if len(envFilePath) == 0 {
		if err := godotenv.Load(); err != nil {
			logger.Warn("No .env file found in current directory")
		}
		return loadFromEnv()
	}

	for _, path := range envFilePath {
		foundPath, err := LoadEnvFile(path)
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("Environment file not found", "path", path)
			continue
		}
		if err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		logger.Info("Loaded environment from file", "path", foundPath)
		return loadFromEnv()
	}

	logger.Info("No valid environment files found, using default .env")
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found in current directory")
	}
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"db", maskValue(cfg.DB.Url),
		"auth_jwt_algorithm", cfg.Auth.Jwt.Algorithm,
		"auth_jwt_expiry", cfg.Auth.Jwt.Expiry,
		"auth_jwt_secret", maskValue(cfg.Auth.Jwt.Secret),
		"auth_admin_emails", len(cfg.Auth.AdminEmails),
	)
	return &cfg, nil
}

// Validate checks the settings envconfig cannot express with tags.
func (a *App) Validate() error {
	if a.Auth == nil || a.Auth.Jwt == nil || strings.TrimSpace(a.Auth.Jwt.Secret) == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is not set")
	}
	a.Auth.Jwt.Algorithm = strings.ToUpper(a.Auth.Jwt.Algorithm)
	if _, ok := hmacAlgorithms[a.Auth.Jwt.Algorithm]; !ok {
		return fmt.Errorf("unsupported AUTH_JWT_ALGORITHM %q", a.Auth.Jwt.Algorithm)
	}
	if a.Auth.Jwt.Expiry <= 0 {
		return fmt.Errorf("AUTH_JWT_EXPIRY must be positive")
	}
	return nil
}

func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
