package reference

import (
	"context"
	"fmt"
	"gomarketplace_admin/internal/catalog/business/models"
	"gomarketplace_admin/internal/catalog/business/services"
	"sync"
)

// List состояние одного справочника.
type List struct {
	Items   []models.ReferenceItem
	Loading bool
	Loaded  bool
	Err     error
}

// Store общее хранилище справочников. Форма только читает его.
type Store struct {
	chain *ProviderChain

	mu    sync.RWMutex
	lists map[models.ReferenceKind]*List
}

func NewStore(chain *ProviderChain) *Store {
	lists := make(map[models.ReferenceKind]*List, len(models.ReferenceKinds))
	for _, kind := range models.ReferenceKinds {
		lists[kind] = &List{}
	}
	return &Store{chain: chain, lists: lists}
}

// Load запрашивает справочник. При ошибке список остаётся пустым, а
// notifier получает сообщение об ошибке; сама ошибка тоже возвращается.
func (s *Store) Load(ctx context.Context, kind models.ReferenceKind, notifier services.Notifier) error {
	list, ok := s.list(kind)
	if !ok {
		err := fmt.Errorf("unknown reference kind %q", kind)
		notifier.Error(err.Error())
		return err
	}

	s.mu.Lock()
	list.Loading = true
	s.mu.Unlock()

	items, err := s.fetch(ctx, kind)

	s.mu.Lock()
	list.Loading = false
	list.Err = err
	if err == nil {
		list.Items = items
		list.Loaded = true
	} else {
		list.Items = nil
	}
	s.mu.Unlock()

	if err != nil {
		notifier.Error(fmt.Sprintf("failed to load %s: %s", kind, err))
		return err
	}
	return nil
}

func (s *Store) fetch(ctx context.Context, kind models.ReferenceKind) ([]models.ReferenceItem, error) {
	provider, err := s.chain.Provider(kind)
	if err != nil {
		return nil, err
	}
	return provider.Fetch(ctx)
}

func (s *Store) list(kind models.ReferenceKind) (*List, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.lists[kind]
	return list, ok
}

// Snapshot копия состояния справочника.
func (s *Store) Snapshot(kind models.ReferenceKind) List {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, ok := s.lists[kind]
	if !ok {
		return List{}
	}
	out := *list
	out.Items = append([]models.ReferenceItem(nil), list.Items...)
	return out
}

func (s *Store) Items(kind models.ReferenceKind) []models.ReferenceItem {
	return s.Snapshot(kind).Items
}

func (s *Store) Contains(kind models.ReferenceKind, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, ok := s.lists[kind]
	if !ok {
		return false
	}
	for _, it := range list.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}
