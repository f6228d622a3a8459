package catalog

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/domain"
)

// ErrToolNotFound is returned when an id is not in the current catalog.
var ErrToolNotFound = errors.New("tool not found")

// FavoriteSet is the favorites view the store filters and toggles through.
// *favorites.Set satisfies it.
type FavoriteSet interface {
	Contains(id string) bool
	Toggle(ctx context.Context, id string) bool
	IDs() []string
}

// Store owns the current catalog list and the favorite set. The list is only
// ever swapped as a whole; readers see either the old or the new list.
type Store struct {
	mu    sync.RWMutex
	tools []domain.Tool
	index map[string]int

	favorites FavoriteSet
	logger    *zap.Logger
}

var _ domain.ToolProvider = (*Store)(nil)

func NewStore(favorites FavoriteSet, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		index:     make(map[string]int),
		favorites: favorites,
		logger:    logger,
	}
}

// ReplaceAll swaps the entire list. Records are sanitized and ids kept unique
// by dropping later duplicates; the number dropped is returned. Favorites are
// left untouched.
func (s *Store) ReplaceAll(tools []domain.Tool) int {
	next := make([]domain.Tool, 0, len(tools))
	index := make(map[string]int, len(tools))
	dropped := 0

	for _, t := range tools {
		clean := Sanitize(t)
		if _, dup := index[clean.ID]; dup {
			dropped++
			s.logger.Warn("Dropping duplicate tool id",
				zap.String("id", clean.ID),
				zap.String("name", clean.Name),
			)
			continue
		}
		index[clean.ID] = len(next)
		next = append(next, clean)
	}

	s.mu.Lock()
	s.tools = next
	s.index = index
	s.mu.Unlock()

	s.logger.Info("Catalog replaced",
		zap.Int("tools", len(next)),
		zap.Int("duplicates_dropped", dropped),
	)
	return dropped
}

// Snapshot returns a copy of the current list in source order.
func (s *Store) Snapshot() []domain.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Tool, len(s.tools))
	for i, t := range s.tools {
		out[i] = t.Clone()
	}
	return out
}

// Len returns the number of tools in the catalog.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tools)
}

// Get looks a tool up by id.
func (s *Store) Get(id string) (domain.Tool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Tool{}, false
	}
	return s.tools[i].Clone(), true
}

// ToggleFavorite flips id's membership in the favorite set and returns the new
// membership. Persistence is write-through and best-effort.
func (s *Store) ToggleFavorite(ctx context.Context, id string) bool {
	if s.favorites == nil {
		return false
	}
	return s.favorites.Toggle(ctx, id)
}

// IsFavorite reports whether id is in the favorite set.
func (s *Store) IsFavorite(id string) bool {
	if s.favorites == nil {
		return false
	}
	return s.favorites.Contains(id)
}

// Favorites returns the favorite ids in ascending order.
func (s *Store) Favorites() []string {
	if s.favorites == nil {
		return []string{}
	}
	return s.favorites.IDs()
}
