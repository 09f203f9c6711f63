package brandcms

import "github.com/goliatone/go-brand-cms/internal/runtimeconfig"

var (
	ErrAuthSecretRequired     = runtimeconfig.ErrAuthSecretRequired
	ErrServerAddrRequired     = runtimeconfig.ErrServerAddrRequired
	ErrStorageProviderUnknown = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid        = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	AuthConfig    = runtimeconfig.AuthConfig
	ServerConfig  = runtimeconfig.ServerConfig
	StorageConfig = runtimeconfig.StorageConfig
	CacheConfig   = runtimeconfig.CacheConfig
	LoggingConfig = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads configuration from file and environment.
func LoadConfig() (Config, error) {
	return runtimeconfig.Load()
}
