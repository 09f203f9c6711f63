package di

import (
	"strings"

	"github.com/goliatone/go-brand-cms/internal/auth"
	"github.com/goliatone/go-brand-cms/internal/content"
	httpapi "github.com/goliatone/go-brand-cms/internal/http"
	"github.com/goliatone/go-brand-cms/internal/layouts"
	"github.com/goliatone/go-brand-cms/internal/logging"
	"github.com/goliatone/go-brand-cms/internal/logging/gologger"
	"github.com/goliatone/go-brand-cms/internal/runtimeconfig"
	"github.com/goliatone/go-brand-cms/pkg/interfaces"
	"github.com/goliatone/go-brand-cms/pkg/storage"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires engine dependencies. Every collaborator can be overridden
// through an Option; anything left nil is built from the configuration.
type Container struct {
	Config runtimeconfig.Config

	bunDB   *bun.DB
	ownedDB bool

	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider

	guard          *auth.Guard
	itemRepo       content.ItemRepository
	assignmentRepo content.AssignmentRepository
	layoutRepo     layouts.Repository

	contentSvc content.Service
	layoutSvc  layouts.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB injects an existing database handle. The caller keeps ownership.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default repository cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the default logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithGuard overrides the token guard.
func WithGuard(guard *auth.Guard) Option {
	return func(c *Container) {
		c.guard = guard
	}
}

// WithItemRepository overrides the content item repository.
func WithItemRepository(repo content.ItemRepository) Option {
	return func(c *Container) {
		c.itemRepo = repo
	}
}

// WithAssignmentRepository overrides the assignment repository.
func WithAssignmentRepository(repo content.AssignmentRepository) Option {
	return func(c *Container) {
		c.assignmentRepo = repo
	}
}

// WithLayoutRepository overrides the layout repository.
func WithLayoutRepository(repo layouts.Repository) Option {
	return func(c *Container) {
		c.layoutRepo = repo
	}
}

// WithContentService overrides the write coordinator entirely.
func WithContentService(svc content.Service) Option {
	return func(c *Container) {
		c.contentSvc = svc
	}
}

// WithLayoutService overrides the layout writer entirely.
func WithLayoutService(svc layouts.Service) Option {
	return func(c *Container) {
		c.layoutSvc = svc
	}
}

// NewContainer builds the dependency graph from configuration plus overrides.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureGuard()
	c.configureServices()
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), "bun") {
		return nil
	}
	db, err := storage.Open(c.Config.Storage.Driver, c.Config.Storage.DSN)
	if err != nil {
		return err
	}
	c.bunDB = db
	c.ownedDB = true
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		if c.itemRepo == nil {
			c.itemRepo = content.NewBunItemRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		if c.assignmentRepo == nil {
			c.assignmentRepo = content.NewBunAssignmentRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		if c.layoutRepo == nil {
			c.layoutRepo = layouts.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		return
	}

	var memoryItems *content.MemoryItemRepository
	if c.itemRepo == nil {
		memoryItems = content.NewMemoryItemRepository()
		c.itemRepo = memoryItems
	} else {
		memoryItems, _ = c.itemRepo.(*content.MemoryItemRepository)
	}
	if c.assignmentRepo == nil {
		c.assignmentRepo = content.NewMemoryAssignmentRepository(memoryItems)
	}
	if c.layoutRepo == nil {
		c.layoutRepo = layouts.NewMemoryRepository()
	}
}

func (c *Container) configureGuard() {
	if c.guard != nil {
		return
	}
	opts := []auth.GuardOption{}
	if issuer := strings.TrimSpace(c.Config.Auth.Issuer); issuer != "" {
		opts = append(opts, auth.WithIssuer(issuer))
	}
	c.guard = auth.NewGuard(c.Config.Auth.Secret, opts...)
}

func (c *Container) configureServices() {
	if c.contentSvc == nil {
		c.contentSvc = content.NewService(
			c.itemRepo,
			c.assignmentRepo,
			content.WithLogger(logging.ContentLogger(c.loggerProvider)),
		)
	}
	if c.layoutSvc == nil {
		c.layoutSvc = layouts.NewService(
			c.layoutRepo,
			layouts.WithLogger(logging.LayoutsLogger(c.loggerProvider)),
		)
	}
}

// ContentService returns the configured write coordinator.
func (c *Container) ContentService() content.Service {
	return c.contentSvc
}

// LayoutService returns the configured layout writer.
func (c *Container) LayoutService() layouts.Service {
	return c.layoutSvc
}

// Guard returns the configured token guard.
func (c *Container) Guard() *auth.Guard {
	return c.guard
}

// DB returns the database handle, nil when running on memory repositories.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// LoggerProvider returns the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// API builds the HTTP surface bound to the container services.
func (c *Container) API() *httpapi.API {
	return httpapi.NewAPI(
		httpapi.WithBasePath(c.Config.Server.BasePath),
		httpapi.WithGuard(c.guard),
		httpapi.WithContentService(c.contentSvc),
		httpapi.WithLayoutService(c.layoutSvc),
		httpapi.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)
}

// Close releases resources the container created itself. Injected handles are
// left open.
func (c *Container) Close() error {
	if c.ownedDB && c.bunDB != nil {
		return c.bunDB.Close()
	}
	return nil
}
