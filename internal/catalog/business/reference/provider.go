package reference

import (
	"context"
	"fmt"
	"gomarketplace_admin/internal/catalog/business/models"
	"gomarketplace_admin/pkg/logger"
	"sync"
)

type Provider interface {
	Fetch(ctx context.Context) ([]models.ReferenceItem, error)
}

type ProviderFunc func(ctx context.Context) ([]models.ReferenceItem, error)

func (f ProviderFunc) Fetch(ctx context.Context) ([]models.ReferenceItem, error) {
	return f(ctx)
}

// KindFetcher источник, который умеет отдавать любой справочник по имени,
// например clients.ReferenceClient.
type KindFetcher interface {
	FetchReference(ctx context.Context, kind models.ReferenceKind) ([]models.ReferenceItem, error)
}

func ForKind(fetcher KindFetcher, kind models.ReferenceKind) Provider {
	return ProviderFunc(func(ctx context.Context) ([]models.ReferenceItem, error) {
		return fetcher.FetchReference(ctx, kind)
	})
}

// ProviderChain реестр поставщиков справочников по виду.
type ProviderChain struct {
	mu        sync.Mutex
	providers map[models.ReferenceKind]Provider
	log       logger.Logger
}

func NewProviderChain(log logger.Logger) *ProviderChain {
	return &ProviderChain{
		providers: make(map[models.ReferenceKind]Provider),
		log:       log,
	}
}

func (pc *ProviderChain) Register(kind models.ReferenceKind, provider Provider) error {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if provider == nil {
		err := fmt.Errorf("provider is nil for %q", kind)
		pc.log.Log("Error registering provider: %v", err)
		return err
	}
	if !kind.Valid() {
		err := fmt.Errorf("unknown reference kind %q", kind)
		pc.log.Log("Error registering provider: %v", err)
		return err
	}
	if _, exists := pc.providers[kind]; exists {
		err := fmt.Errorf("provider for %q already registered", kind)
		pc.log.Log("Error registering provider: %v", err)
		return err
	}

	pc.providers[kind] = provider
	pc.log.Log("Registered provider: %s", kind)
	return nil
}

func (pc *ProviderChain) Provider(kind models.ReferenceKind) (Provider, error) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	provider, ok := pc.providers[kind]
	if !ok {
		return nil, fmt.Errorf("no provider registered for %q", kind)
	}
	return provider, nil
}
