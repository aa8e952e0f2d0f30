package reference

import (
	"context"
	"gomarketplace_admin/internal/catalog/business/models"
	"gomarketplace_admin/internal/catalog/cache"
	"gomarketplace_admin/pkg/logger"
	"time"
)

// CachedProvider отдаёт список из кэша, а при промахе идёт в provider и
// кладёт результат обратно. Ошибки кэша не мешают загрузке.
type CachedProvider struct {
	provider Provider
	cache    cache.Cache
	key      string
	ttl      time.Duration
	log      logger.Logger
}

func NewCachedProvider(provider Provider, c cache.Cache, key string, ttl time.Duration, log logger.Logger) *CachedProvider {
	return &CachedProvider{provider: provider, cache: c, key: key, ttl: ttl, log: log}
}

func (p *CachedProvider) Fetch(ctx context.Context) ([]models.ReferenceItem, error) {
	var items []models.ReferenceItem
	found, err := p.cache.Get(ctx, p.key, &items)
	if err != nil {
		p.log.Log("cache read %s failed: %s", p.key, err)
	}
	if found {
		return items, nil
	}

	items, err = p.provider.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.cache.Set(ctx, p.key, items, p.ttl); err != nil {
		p.log.Log("cache write %s failed: %s", p.key, err)
	}
	return items, nil
}
