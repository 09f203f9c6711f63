package di

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-brand-cms/internal/content"
	"github.com/goliatone/go-brand-cms/internal/domain"
	"github.com/goliatone/go-brand-cms/internal/runtimeconfig"
	"github.com/google/uuid"
)

func memoryConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Auth.Secret = "test-secret"
	cfg.Storage.Provider = "memory"
	return cfg
}

func TestNewContainerBuildsMemoryStack(t *testing.T) {
	c, err := NewContainer(memoryConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()

	if c.ContentService() == nil {
		t.Fatal("expected content service")
	}
	if c.LayoutService() == nil {
		t.Fatal("expected layout service")
	}
	if c.Guard() == nil {
		t.Fatal("expected guard")
	}
	if c.DB() != nil {
		t.Fatal("memory provider must not open a database")
	}
	if c.API() == nil {
		t.Fatal("expected api")
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.Auth.Secret = ""
	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrAuthSecretRequired) {
		t.Fatalf("expected ErrAuthSecretRequired, got %v", err)
	}
}

func TestNewContainerHonorsRepositoryOverrides(t *testing.T) {
	items := content.NewMemoryItemRepository()
	c, err := NewContainer(memoryConfig(), WithItemRepository(items))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer c.Close()

	brandID := uuid.New()
	result, err := c.ContentService().Save(context.Background(), content.SaveRequest{
		Actor: content.Actor{Scope: domain.BrandScope(brandID), SubjectID: uuid.New()},
		Kind:  domain.KindPage,
		Title: "Home",
		Slug:  "home",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := items.GetByID(context.Background(), result.ID); err != nil {
		t.Fatalf("expected record in injected repository, got %v", err)
	}
}
