package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/credgate/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-d", "-s", "-t", "-i", "-e", "-b", "-l", "-u"}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   token signing secret
//	-t int      access token validity, minutes
//	-i string   token issuer
//	-e string   environment
//	-b int      bcrypt cost
//	-l string   log level
//	-u string   development seed user, "email:password"
//
// args is filtered with flagx.FilterArgs first so flags owned by other
// components (-c) do not collide.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	ttl := fs.Int("t", int(config.AccessTokenTTL.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.Issuer, "i", config.Issuer, "token issuer")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.SeedUser, "u", config.SeedUser, "development seed user email:password")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenTTL = time.Duration(*ttl) * time.Minute
		}
	})
	return nil
}
