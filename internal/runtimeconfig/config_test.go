package runtimeconfig

import (
	"errors"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Auth.Secret = "test-secret"
	return cfg
}

func TestValidateAcceptsDefaultsWithSecret(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRequiresAuthSecret(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); !errors.Is(err, ErrAuthSecretRequired) {
		t.Fatalf("expected ErrAuthSecretRequired, got %v", err)
	}
}

func TestValidateRequiresServerAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Addr = "  "
	if err := cfg.Validate(); !errors.Is(err, ErrServerAddrRequired) {
		t.Fatalf("expected ErrServerAddrRequired, got %v", err)
	}
}

func TestValidateRejectsUnknownStorageProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Provider = "etcd"
	if err := cfg.Validate(); !errors.Is(err, ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestValidateRequiresDSNForBunProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.DSN = ""
	if err := cfg.Validate(); !errors.Is(err, ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestValidateAllowsMemoryProviderWithoutDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Provider = "memory"
	cfg.Storage.DSN = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected memory provider without dsn to validate, got %v", err)
	}
}

func TestValidateRejectsNegativeCacheTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.DefaultTTL = -time.Second
	if err := cfg.Validate(); !errors.Is(err, ErrCacheTTLInvalid) {
		t.Fatalf("expected ErrCacheTTLInvalid, got %v", err)
	}
}

func TestValidateRejectsUnknownLoggingLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestValidateRejectsUnknownLoggingFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestValidateAcceptsEmptyLoggingOptions(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = ""
	cfg.Logging.Format = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected blank logging options to validate, got %v", err)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("BRANDCMS_CONFIG", "")
	t.Setenv("BRANDCMS_AUTH_SECRET", "env-secret")
	t.Setenv("BRANDCMS_SERVER_ADDR", ":9090")
	t.Setenv("BRANDCMS_STORAGE_PROVIDER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.Secret != "env-secret" {
		t.Fatalf("expected secret from env, got %q", cfg.Auth.Secret)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("expected addr from env, got %q", cfg.Server.Addr)
	}
	if cfg.Server.BasePath != "/api" {
		t.Fatalf("expected default base path, got %q", cfg.Server.BasePath)
	}
	if cfg.Cache.DefaultTTL != time.Minute {
		t.Fatalf("expected default cache ttl, got %v", cfg.Cache.DefaultTTL)
	}
}

func TestLoadRejectsInvalidEnvironment(t *testing.T) {
	t.Setenv("BRANDCMS_CONFIG", "")
	t.Setenv("BRANDCMS_AUTH_SECRET", "env-secret")
	t.Setenv("BRANDCMS_STORAGE_PROVIDER", "etcd")

	if _, err := Load(); !errors.Is(err, ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}
