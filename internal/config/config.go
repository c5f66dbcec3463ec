// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

// Token transports accepted by TokenTransport.
const (
	TransportHeader = "header"
	TransportCookie = "cookie"
	TransportBoth   = "both"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `env:"SERVER_ADDRESS"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `env:"DATABASE_DSN"`

	// Config is the path to the Config file.
	Config string `env:"CONFIG"`

	// JWTSecret signs and verifies session tokens. Required.
	JWTSecret string `env:"JWT_SECRET"`

	// TokenTTL is the absolute lifetime of an issued session token.
	TokenTTL time.Duration `env:"TOKEN_TTL"`

	// TokenTransport selects where session tokens are read from:
	// "header", "cookie" or "both" (header first).
	TokenTransport string `env:"TOKEN_TRANSPORT"`

	// CookieSecure marks the session cookie Secure.
	CookieSecure bool `env:"COOKIE_SECURE"`

	// LogLevel is the minimum zap level ("debug", "info", ...).
	LogLevel string `env:"LOG_LEVEL"`
}

// fileOptions mirrors Options for the JSON file; durations are strings there.
type fileOptions struct {
	Addr           *string `json:"addr"`
	DatabaseDSN    *string `json:"database_dsn"`
	JWTSecret      *string `json:"jwt_secret"`
	TokenTTL       *string `json:"token_ttl"`
	TokenTransport *string `json:"token_transport"`
	CookieSecure   *bool   `json:"cookie_secure"`
	LogLevel       *string `json:"log_level"`
}

// Register binds the common flags to fs and returns the Options they fill.
// Commands add their own flags to fs before parsing.
func Register(fs *flag.FlagSet) *Options {
	o := &Options{}
	fs.StringVar(&o.Addr, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&o.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&o.Config, "config", "config.json", "path to config file")
	fs.StringVar(&o.Config, "c", "config.json", "path to config file (shorthand)")
	fs.DurationVar(&o.TokenTTL, "token-ttl", 24*time.Hour, "session token lifetime")
	fs.StringVar(&o.TokenTransport, "token-transport", TransportBoth, "session token transport: header, cookie or both")
	fs.StringVar(&o.LogLevel, "log-level", "info", "log level")
	return o
}

// Load parses args into fs, then overlays the config file and the
// environment on top of the flag values, and validates the result.
func Load(fs *flag.FlagSet, o *Options, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		o.Config = configPath
	}

	if o.Config != "" {
		if _, err := os.Stat(o.Config); err == nil {
			if err := o.readFile(o.Config); err != nil {
				return err
			}
		}
	}

	if err := env.Parse(o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return o.Validate()
}

// Parse loads the server options from the process command line and
// environment.
func Parse() (*Options, error) {
	o := Register(flag.CommandLine)
	if err := Load(flag.CommandLine, o, os.Args[1:]); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Options) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	var f fileOptions
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}

	if f.Addr != nil {
		o.Addr = *f.Addr
	}
	if f.DatabaseDSN != nil {
		o.DatabaseDSN = *f.DatabaseDSN
	}
	if f.JWTSecret != nil {
		o.JWTSecret = *f.JWTSecret
	}
	if f.TokenTTL != nil {
		ttl, err := time.ParseDuration(*f.TokenTTL)
		if err != nil {
			return fmt.Errorf("error while parsing config file: token_ttl: %w", err)
		}
		o.TokenTTL = ttl
	}
	if f.TokenTransport != nil {
		o.TokenTransport = *f.TokenTransport
	}
	if f.CookieSecure != nil {
		o.CookieSecure = *f.CookieSecure
	}
	if f.LogLevel != nil {
		o.LogLevel = *f.LogLevel
	}
	return nil
}

// Validate reports the first missing or invalid option. The process must not
// start without a signing secret.
func (o *Options) Validate() error {
	if o.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if o.DatabaseDSN == "" {
		return errors.New("database DSN is required (-d or DATABASE_DSN)")
	}
	if o.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", o.TokenTTL)
	}
	switch o.TokenTransport {
	case TransportHeader, TransportCookie, TransportBoth:
	default:
		return fmt.Errorf("unknown token transport %q", o.TokenTransport)
	}
	if _, err := zap.ParseAtomicLevel(o.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", o.LogLevel, err)
	}
	return nil
}
