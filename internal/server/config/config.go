// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and command-line
// flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/dmitrijs2005/credgate/internal/server/auth"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	minSecretLength = 32
)

var (
	ErrWeakSecret        = errors.New("secret key must be at least 32 bytes outside development")
	ErrInvalidTTL        = errors.New("access token ttl must be positive")
	ErrMissingDSN        = errors.New("database dsn is required outside development")
	ErrInvalidBcryptCost = fmt.Errorf("bcrypt cost must be within %d..%d", bcrypt.MinCost, bcrypt.MaxCost)
	ErrSeedOutsideDev    = errors.New("seed user is only allowed in development")
)

// Config holds runtime settings for the credgate server.
//
// Fields:
//   - Environment: "development" enables the in-memory store and short secrets.
//   - HTTPAddr / GRPCAddr: bind addresses of the two boundaries.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing access tokens (HS256). No default.
//   - AccessTokenTTL: access token lifetime.
//   - Issuer: iss claim stamped and required on tokens; empty disables it.
//   - SeedUser: "email:password" created at startup, development only.
type Config struct {
	Environment    string        `env:"ENVIRONMENT"`
	HTTPAddr       string        `env:"HTTP_ADDR"`
	GRPCAddr       string        `env:"GRPC_ADDR"`
	DatabaseDSN    string        `env:"DATABASE_DSN"`
	SecretKey      string        `env:"SECRET_KEY"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL"`
	Issuer         string        `env:"ISSUER"`
	BcryptCost     int           `env:"BCRYPT_COST"`
	LogLevel       string        `env:"LOG_LEVEL"`
	SeedUser       string        `env:"SEED_USER"`
}

// LoadDefaults populates Config with defaults. SecretKey has none.
func (c *Config) LoadDefaults() {
	c.Environment = EnvProduction
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = ""
	c.AccessTokenTTL = auth.DefaultTokenTTL
	c.Issuer = "credgate"
	c.BcryptCost = bcrypt.DefaultCost
	c.LogLevel = "info"
	c.SeedUser = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// Validate reports every problem that must stop the server from starting.
func (c *Config) Validate() error {
	var errs []error

	switch {
	case c.SecretKey == "":
		errs = append(errs, auth.ErrMissingSecret)
	case len(c.SecretKey) < minSecretLength && !c.IsDevelopment():
		errs = append(errs, ErrWeakSecret)
	}

	if c.AccessTokenTTL <= 0 {
		errs = append(errs, ErrInvalidTTL)
	}
	if c.DatabaseDSN == "" && !c.IsDevelopment() {
		errs = append(errs, ErrMissingDSN)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, ErrInvalidBcryptCost)
	}
	if c.SeedUser != "" && !c.IsDevelopment() {
		errs = append(errs, ErrSeedOutsideDev)
	}

	return errors.Join(errs...)
}

// LogValue keeps the secret and DSN password out of logs.
func (c *Config) LogValue() slog.Value {
	secret := ""
	if c.SecretKey != "" {
		secret = "[REDACTED]"
	}

	return slog.GroupValue(
		slog.String("environment", c.Environment),
		slog.String("http_addr", c.HTTPAddr),
		slog.String("grpc_addr", c.GRPCAddr),
		slog.String("database_dsn", redactDSN(c.DatabaseDSN)),
		slog.String("secret_key", secret),
		slog.Duration("access_token_ttl", c.AccessTokenTTL),
		slog.String("issuer", c.Issuer),
		slog.Int("bcrypt_cost", c.BcryptCost),
		slog.String("log_level", c.LogLevel),
		slog.Bool("seed_user", c.SeedUser != ""),
	)
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return "[REDACTED]"
	}
	return u.Redacted()
}
