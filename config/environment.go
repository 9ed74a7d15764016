package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "NODEBOOK_"

type Config struct {
	Env    string         `koanf:"env" validate:"oneof=development production"`
	Addr   string         `koanf:"addr" validate:"required"`
	DB     DatabaseConfig `koanf:"db"`
	Auth   AuthConfig     `koanf:"auth"`
	Review ReviewConfig   `koanf:"review"`
	Cache  CacheConfig    `koanf:"cache"`
	CORS   CORSConfig     `koanf:"cors"`
	Log    LogConfig      `koanf:"log"`
}

type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"oneof=postgres sqlite"`
	URL    string `koanf:"url" validate:"required"`
}

type AuthConfig struct {
	Secret       string        `koanf:"secret" validate:"required,min=16"`
	Issuer       string        `koanf:"issuer" validate:"required"`
	Audience     string        `koanf:"audience" validate:"required"`
	CookieDomain string        `koanf:"cookie_domain"`
	TokenTTL     time.Duration `koanf:"token_ttl" validate:"min=1m"`
}

type ReviewConfig struct {
	TTL           time.Duration `koanf:"ttl" validate:"min=1m"`
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"min=1s"`
}

type CacheConfig struct {
	TTL time.Duration `koanf:"ttl" validate:"min=0"`
}

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

// IsDevelopment reports whether the server runs without secure cookies.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// CookieSecure mirrors the production switch for the session cookie.
func (c *Config) CookieSecure() bool {
	return !c.IsDevelopment()
}

// DefineFlags registers every config key as a flag so defaults live in one place.
func DefineFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to a YAML config file")
	flags.String("env", "development", "development or production")
	flags.String("addr", "0.0.0.0:8080", "listen address")
	flags.String("db.driver", "sqlite", "database driver: postgres or sqlite")
	flags.String("db.url", "nodebook.db", "database DSN")
	flags.String("auth.secret", "", "HMAC secret for session tokens")
	flags.String("auth.issuer", "nodebook", "session token issuer")
	flags.String("auth.audience", "nodebook-web", "session token audience")
	flags.String("auth.cookie_domain", "", "domain for the session cookie")
	flags.Duration("auth.token_ttl", 24*time.Hour, "session token lifetime")
	flags.Duration("review.ttl", 2*time.Hour, "idle lifetime of a flashcard review")
	flags.Duration("review.sweep_interval", time.Minute, "how often idle reviews are swept")
	flags.Duration("cache.ttl", 5*time.Minute, "study set cache lifetime")
	flags.StringSlice("cors.origins", []string{"http://localhost:3000"}, "allowed CORS origins for /api")
	flags.String("log.level", "info", "log level")
}

// LoadDotEnv loads .env outside of hosted environments.
func LoadDotEnv() error {
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") != "" {
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load merges the YAML file, environment and flags (in increasing priority)
// and validates the result. Flag defaults fill any key left unset.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path, _ := flags.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", legacyEnv), nil); err != nil {
		return nil, fmt.Errorf("load legacy environment: %w", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags on the config.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// envKey maps NODEBOOK_AUTH__TOKEN_TTL to auth.token_ttl.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// legacyEnv keeps the variable names the API deployment already sets.
func legacyEnv(key, value string) (string, interface{}) {
	switch key {
	case "DB_URL":
		return "db.url", value
	case "JWT_SECRET_KEY":
		return "auth.secret", value
	case "COOKIE_DOMAIN":
		return "auth.cookie_domain", value
	case "PORT":
		return "addr", "0.0.0.0:" + value
	}
	return "", nil
}
