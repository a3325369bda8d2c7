package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/credgate/internal/flagx"
	"github.com/dmitrijs2005/credgate/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// strings such as "15m" and integer nanoseconds.
type JsonConfig struct {
	Environment    string         `json:"environment"`
	HTTPAddr       string         `json:"http_addr"`
	GRPCAddr       string         `json:"grpc_addr"`
	DatabaseDSN    string         `json:"database_dsn"`
	SecretKey      string         `json:"secret_key"`
	AccessTokenTTL timex.Duration `json:"access_token_ttl"`
	Issuer         string         `json:"issuer"`
	BcryptCost     int            `json:"bcrypt_cost"`
	LogLevel       string         `json:"log_level"`
	SeedUser       string         `json:"seed_user"`
}

// parseJSON overlays the file named by -c/-config onto config. Keys absent
// from the file leave the current value untouched.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFile(args)

	// nothing to load
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&config.Environment, c.Environment)
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Issuer, c.Issuer)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.SeedUser, c.SeedUser)
	if c.AccessTokenTTL.Duration != 0 {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
