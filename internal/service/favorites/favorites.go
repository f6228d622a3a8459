package favorites

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/constants"
)

// KeyValueStore is the durable storage the favorite set is written through to.
// Get reports found=false for an absent key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Set is the user's favorite tool ids. Its lifecycle is independent of the
// catalog: a full catalog replace never touches it.
type Set struct {
	mu     sync.RWMutex
	ids    map[string]struct{}
	store  KeyValueStore
	key    string
	logger *zap.Logger
}

func NewSet(store KeyValueStore, logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Set{
		ids:    make(map[string]struct{}),
		store:  store,
		key:    constants.StorageKeys.Favorites,
		logger: logger,
	}
}

// Load replaces the in-memory set with the persisted value. An absent key leaves
// the set empty; an unreadable value is logged and treated as empty.
func (s *Set) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	raw, found, err := s.store.Get(ctx, s.key)
	if err != nil {
		return err
	}

	ids := make(map[string]struct{})
	if found && raw != "" {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			s.logger.Warn("Persisted favorites are unreadable, starting empty",
				zap.String("key", s.key),
				zap.Error(err),
			)
			list = nil
		}
		for _, id := range list {
			if id != "" {
				ids[id] = struct{}{}
			}
		}
	}

	s.mu.Lock()
	s.ids = ids
	s.mu.Unlock()

	s.logger.Info("Favorites loaded", zap.Int("count", len(ids)))
	return nil
}

// Contains reports whether id is a favorite.
func (s *Set) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Toggle flips membership of id and writes the new set through immediately.
// A write failure is logged and swallowed; the in-memory flip stands.
func (s *Set) Toggle(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.ids[id]
	if exists {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}

	s.persistLocked(ctx)
	return !exists
}

// IDs returns the favorite ids in ascending order.
func (s *Set) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.ids)
}

// Len returns the number of favorites.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

func (s *Set) persistLocked(ctx context.Context) {
	if s.store == nil {
		return
	}

	payload, err := json.Marshal(sortedKeys(s.ids))
	if err != nil {
		s.logger.Warn("Failed to encode favorites", zap.Error(err))
		return
	}

	if err := s.store.Set(ctx, s.key, string(payload)); err != nil {
		s.logger.Warn("Failed to persist favorites",
			zap.String("key", s.key),
			zap.Error(err),
		)
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
