package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "change-me"

// Config holds application level configuration loaded from environment variables.
// It is built once at startup, validated, and then treated as read-only.
type Config struct {
	ServerPort string
	AppEnv     string
	LogLevel   string
	LogFormat  string

	MySQLDSN string
	ResetDB  bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret       string
	JWTExpiresIn    time.Duration
	CookieExpiresIn int // days

	S3Bucket        string
	S3Region        string
	S3BaseEndpoint  string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string

	SwaggerHost string
	CORSOrigins []string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		AppEnv:          getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		MySQLDSN:        getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/linkboard?charset=utf8mb4&parseTime=True&loc=Local"),
		ResetDB:         os.Getenv("RESET_DB") == "true",
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiresIn:    getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour),
		CookieExpiresIn: getEnvInt("COOKIE_EXPIRES_IN", 1),
		S3Bucket:        getEnv("S3_BUCKET", "linkboard"),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3BaseEndpoint:  os.Getenv("S3_BASE_ENDPOINT"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		SwaggerHost:     os.Getenv("SWAGGER_HOST"),
		CORSOrigins:     getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
	}
}

// IsProduction reports whether the process runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// CookieTTL is the lifetime of the jwt cookie set on login.
func (c *Config) CookieTTL() time.Duration {
	return time.Duration(c.CookieExpiresIn) * 24 * time.Hour
}

// Validate rejects configurations the server cannot safely run with.
func (c *Config) Validate() error {
	var errs []error
	if c.ServerPort == "" {
		errs = append(errs, errors.New("SERVER_PORT is empty"))
	}
	if c.MySQLDSN == "" {
		errs = append(errs, errors.New("MYSQL_DSN is empty"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is empty"))
	}
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.JWTExpiresIn <= 0 {
		errs = append(errs, fmt.Errorf("JWT_EXPIRES_IN must be positive, got %s", c.JWTExpiresIn))
	}
	if c.CookieExpiresIn <= 0 {
		errs = append(errs, fmt.Errorf("COOKIE_EXPIRES_IN must be positive, got %d", c.CookieExpiresIn))
	}
	if c.S3Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is empty"))
	}
	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
