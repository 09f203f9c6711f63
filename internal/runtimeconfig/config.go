package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var ErrAuthSecretRequired = errors.New("brandcms config: auth secret is required")
var ErrServerAddrRequired = errors.New("brandcms config: server listen address is required")
var ErrStorageProviderUnknown = errors.New("brandcms config: storage provider is invalid")
var ErrStorageDSNRequired = errors.New("brandcms config: storage dsn is required for bun provider")
var ErrCacheTTLInvalid = errors.New("brandcms config: cache ttl must be zero or positive")
var ErrLoggingLevelInvalid = errors.New("brandcms config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("brandcms config: logging format is invalid")

// Config aggregates runtime settings for the brand engine. Fields use simple
// types so host applications can extend them later.
type Config struct {
	Auth    AuthConfig    `yaml:"auth"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// AuthConfig carries the token guard settings.
type AuthConfig struct {
	Secret   string        `yaml:"secret" env:"BRANDCMS_AUTH_SECRET"`
	Issuer   string        `yaml:"issuer" env:"BRANDCMS_AUTH_ISSUER"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"BRANDCMS_AUTH_TOKEN_TTL" env-default:"12h"`
}

// ServerConfig captures the HTTP listener settings.
type ServerConfig struct {
	Addr     string `yaml:"addr" env:"BRANDCMS_SERVER_ADDR" env-default:":8080"`
	BasePath string `yaml:"base_path" env:"BRANDCMS_SERVER_BASE_PATH" env-default:"/api"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Provider string `yaml:"provider" env:"BRANDCMS_STORAGE_PROVIDER" env-default:"bun"`
	Driver   string `yaml:"driver" env:"BRANDCMS_STORAGE_DRIVER" env-default:"sqlite3"`
	DSN      string `yaml:"dsn" env:"BRANDCMS_STORAGE_DSN" env-default:"file:brandcms.db?cache=shared&_fk=1"`
}

// CacheConfig captures repository cache behaviour.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" env:"BRANDCMS_CACHE_ENABLED" env-default:"true"`
	DefaultTTL time.Duration `yaml:"default_ttl" env:"BRANDCMS_CACHE_TTL" env-default:"1m"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Level     string   `yaml:"level" env:"BRANDCMS_LOG_LEVEL" env-default:"info"`
	Format    string   `yaml:"format" env:"BRANDCMS_LOG_FORMAT" env-default:"console"`
	AddSource bool     `yaml:"add_source" env:"BRANDCMS_LOG_SOURCE"`
	Focus     []string `yaml:"focus" env:"BRANDCMS_LOG_FOCUS"`
}

// DefaultConfig returns opinionated defaults for a local single-node setup.
func DefaultConfig() Config {
	return Config{
		Auth: AuthConfig{
			Issuer:   "brandcms",
			TokenTTL: 12 * time.Hour,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			BasePath: "/api",
		},
		Storage: StorageConfig{
			Provider: "bun",
			Driver:   "sqlite3",
			DSN:      "file:brandcms.db?cache=shared&_fk=1",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults. The file path comes from BRANDCMS_CONFIG
// (fallback "./brandcms.yaml"); a missing implicit file is not an error.
func Load() (Config, error) {
	var cfg Config

	path := os.Getenv("BRANDCMS_CONFIG")
	explicitPath := path != ""
	if !explicitPath {
		path = "./brandcms.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("brandcms config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return Config{}, fmt.Errorf("brandcms config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("brandcms config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Auth.Secret) == "" {
		return ErrAuthSecretRequired
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Storage.Provider))
	switch provider {
	case "bun":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	case "memory":
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
