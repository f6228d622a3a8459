package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kapu/affiliate-hub-go/internal/domain"
	"github.com/kapu/affiliate-hub-go/internal/util"
	apperrors "github.com/kapu/affiliate-hub-go/pkg/errors"
)

// Query selects tools from the catalog. The zero value matches everything.
type Query struct {
	Search    string  `json:"search"`
	Category  string  `json:"category"`
	MinRating float64 `json:"minRating"`
}

// ParseQuery builds a Query from loosely-typed inputs such as URL parameters.
// An empty minRating means no rating filter.
func ParseQuery(search, category, minRating string) (Query, error) {
	q := Query{
		Search:   strings.TrimSpace(search),
		Category: strings.TrimSpace(category),
	}

	if raw := strings.TrimSpace(minRating); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v != v {
			return Query{}, apperrors.NewValidationError(
				fmt.Sprintf("minRating must be a number, got %q", raw), "minRating", raw)
		}
		q.MinRating = v
	}
	return q, nil
}

// Query returns the tools matching all three predicates in their original
// relative order. It does not mutate the store.
func (s *Store) Query(q Query) []domain.Tool {
	var favorites map[string]struct{}
	if q.Category == domain.CategoryFavorites {
		favorites = make(map[string]struct{})
		for _, id := range s.Favorites() {
			favorites[id] = struct{}{}
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Tool, 0, len(s.tools))
	for _, t := range s.tools {
		if matchesText(t, q.Search) && matchesCategory(t, q.Category, favorites) && t.Rating >= q.MinRating {
			out = append(out, t.Clone())
		}
	}
	return out
}

func matchesText(t domain.Tool, search string) bool {
	if search == "" {
		return true
	}
	return util.ContainsFold(t.Name, search) || util.ContainsFold(t.Description, search)
}

func matchesCategory(t domain.Tool, category string, favorites map[string]struct{}) bool {
	switch category {
	case "", domain.CategoryAll:
		return true
	case domain.CategoryFavorites:
		_, ok := favorites[t.ID]
		return ok
	default:
		return string(t.Category) == category
	}
}

// FilterCategories lists every value accepted as Query.Category, in display order.
func FilterCategories() []string {
	cats := domain.Categories()
	out := make([]string, 0, len(cats)+2)
	out = append(out, domain.CategoryAll)
	for _, c := range cats {
		out = append(out, string(c))
	}
	out = append(out, domain.CategoryFavorites)
	return out
}
