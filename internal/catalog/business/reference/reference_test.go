package reference

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"gomarketplace_admin/internal/catalog/business/models"
	"gomarketplace_admin/internal/catalog/business/services"
	"gomarketplace_admin/internal/catalog/cache"
	"gomarketplace_admin/pkg/logger"
)

func silent() logger.Logger {
	return logger.NewSilentLogger(io.Discard, "[test]")
}

func static(items ...models.ReferenceItem) Provider {
	return ProviderFunc(func(context.Context) ([]models.ReferenceItem, error) {
		return items, nil
	})
}

func TestProviderChainRegister(t *testing.T) {
	chain := NewProviderChain(silent())

	if err := chain.Register(models.KindBrands, static()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := chain.Register(models.KindBrands, static()); err == nil {
		t.Error("duplicate registration accepted")
	}
	if err := chain.Register("colors", static()); err == nil {
		t.Error("unknown kind accepted")
	}
	if err := chain.Register(models.KindStores, nil); err == nil {
		t.Error("nil provider accepted")
	}
	if _, err := chain.Provider(models.KindCategories); err == nil {
		t.Error("missing provider returned")
	}
}

func TestStoreLoadSuccess(t *testing.T) {
	chain := NewProviderChain(silent())
	_ = chain.Register(models.KindCategories, static(models.ReferenceItem{ID: "c1", Title: "Shirts"}))
	store := NewStore(chain)
	notifier := &services.RecordingNotifier{}

	if err := store.Load(context.Background(), models.KindCategories, notifier); err != nil {
		t.Fatalf("Load: %v", err)
	}

	snap := store.Snapshot(models.KindCategories)
	if !snap.Loaded || snap.Loading || len(snap.Items) != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if !store.Contains(models.KindCategories, "c1") {
		t.Error("Contains(c1) = false")
	}
	if store.Contains(models.KindCategories, "c2") {
		t.Error("Contains(c2) = true")
	}
	if len(notifier.Notifications()) != 0 {
		t.Errorf("unexpected notifications: %v", notifier.Notifications())
	}
}

func TestStoreLoadFailureNotifiesAndKeepsListEmpty(t *testing.T) {
	chain := NewProviderChain(silent())
	_ = chain.Register(models.KindStores, ProviderFunc(func(context.Context) ([]models.ReferenceItem, error) {
		return nil, errors.New("connection refused")
	}))
	store := NewStore(chain)
	notifier := &services.RecordingNotifier{}

	if err := store.Load(context.Background(), models.KindStores, notifier); err == nil {
		t.Fatal("expected error")
	}

	if items := store.Items(models.KindStores); len(items) != 0 {
		t.Errorf("items = %v", items)
	}
	errs := notifier.Errors()
	if len(errs) != 1 || errs[0] != "failed to load stores: connection refused" {
		t.Errorf("errors = %v", errs)
	}
}

func TestCachedProviderHitsUpstreamOnce(t *testing.T) {
	var calls atomic.Int32
	upstream := ProviderFunc(func(context.Context) ([]models.ReferenceItem, error) {
		calls.Add(1)
		return []models.ReferenceItem{{ID: "s1", Title: "Main"}}, nil
	})
	c := cache.NewMemoryCache(0)
	defer c.Close()
	provider := NewCachedProvider(upstream, c, "catalog:reference:stores", time.Minute, silent())

	for i := 0; i < 3; i++ {
		items, err := provider.Fetch(context.Background())
		if err != nil || len(items) != 1 || items[0].ID != "s1" {
			t.Fatalf("Fetch = %v, %v", items, err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	var calls atomic.Int32
	upstream := ProviderFunc(func(context.Context) ([]models.ReferenceItem, error) {
		calls.Add(1)
		return nil, errors.New("timeout")
	})
	c := cache.NewMemoryCache(0)
	defer c.Close()
	provider := NewCachedProvider(upstream, c, "k", time.Minute, silent())

	_, _ = provider.Fetch(context.Background())
	_, _ = provider.Fetch(context.Background())
	if got := calls.Load(); got != 2 {
		t.Errorf("upstream calls = %d, want 2", got)
	}
}
