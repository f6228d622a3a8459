package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/domain"
	"github.com/kapu/affiliate-hub-go/internal/service/favorites"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	set := favorites.NewSet(favorites.NewMemoryStore(), zap.NewNop())
	require.NoError(t, set.Load(context.Background()))
	return NewStore(set, zap.NewNop())
}

func sampleTools() []domain.Tool {
	return []domain.Tool{
		{ID: "A", Name: "Writer", Description: "Drafts blog posts", Category: domain.CategoryText, PriceModel: domain.PriceFreemium, Rating: 4.8},
		{ID: "B", Name: "Painter", Description: "Makes images", Category: domain.CategoryImage, PriceModel: domain.PricePaid, Rating: 4.2},
		{ID: "C", Name: "Narrator", Description: "Text to speech", Category: domain.CategoryAudio, PriceModel: domain.PriceFree, Rating: 4.5},
	}
}

func ids(tools []domain.Tool) []string {
	out := make([]string, len(tools))
	for i, t := range tools {
		out[i] = t.ID
	}
	return out
}

func TestQueryMinRating(t *testing.T) {
	store := newTestStore(t)
	store.ReplaceAll([]domain.Tool{
		{ID: "A", Name: "A", Rating: 4.8},
		{ID: "B", Name: "B", Rating: 4.2},
	})

	got := store.Query(Query{Category: domain.CategoryAll, MinRating: 4.5})
	assert.Equal(t, []string{"A"}, ids(got))
}

func TestQueryZeroValueReturnsEverythingInOrder(t *testing.T) {
	store := newTestStore(t)
	store.ReplaceAll(sampleTools())

	assert.Equal(t, []string{"A", "B", "C"}, ids(store.Query(Query{})))
	assert.Equal(t, []string{"A", "B", "C"}, ids(store.Query(Query{Category: domain.CategoryAll})))
}

func TestQuerySearchIsCaseInsensitiveOnNameOrDescription(t *testing.T) {
	store := newTestStore(t)
	store.ReplaceAll(sampleTools())

	assert.Equal(t, []string{"A"}, ids(store.Query(Query{Search: "BLOG"})))
	assert.Equal(t, []string{"B"}, ids(store.Query(Query{Search: "paint"})))
	assert.Equal(t, []string{"C"}, ids(store.Query(Query{Search: "speech"})))
	assert.Empty(t, store.Query(Query{Search: "spreadsheet"}))
}

func TestQueryCategoryAndRatingCombine(t *testing.T) {
	store := newTestStore(t)
	store.ReplaceAll(sampleTools())

	got := store.Query(Query{Category: string(domain.CategoryImage), MinRating: 4.0})
	assert.Equal(t, []string{"B"}, ids(got))

	got = store.Query(Query{Category: string(domain.CategoryImage), MinRating: 4.5})
	assert.Empty(t, got)
}

func TestQueryFavoritesPseudoCategory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	store.ReplaceAll(sampleTools())

	assert.Empty(t, store.Query(Query{Category: domain.CategoryFavorites}))

	assert.True(t, store.ToggleFavorite(ctx, "C"))
	assert.True(t, store.ToggleFavorite(ctx, "A"))
	assert.Equal(t, []string{"A", "C"}, ids(store.Query(Query{Category: domain.CategoryFavorites})))

	assert.False(t, store.ToggleFavorite(ctx, "A"))
	assert.Equal(t, []string{"C"}, ids(store.Query(Query{Category: domain.CategoryFavorites})))
}

func TestQueryDoesNotMutateStore(t *testing.T) {
	store := newTestStore(t)
	store.ReplaceAll(sampleTools())
	before := store.Snapshot()

	got := store.Query(Query{Search: "writer"})
	require.Len(t, got, 1)
	got[0].Name = "changed"
	got[0].Features = append(got[0].Features, "x")

	assert.Equal(t, before, store.Snapshot())
}

func TestReplaceAllDropsDuplicateIDs(t *testing.T) {
	store := newTestStore(t)
	dropped := store.ReplaceAll([]domain.Tool{
		{ID: "A", Name: "first"},
		{ID: "B", Name: "second"},
		{ID: "A", Name: "third"},
	})

	assert.Equal(t, 1, dropped)
	assert.Equal(t, 2, store.Len())
	tool, ok := store.Get("A")
	require.True(t, ok)
	assert.Equal(t, "first", tool.Name)
}

func TestReplaceAllSanitizesRecords(t *testing.T) {
	store := newTestStore(t)
	store.ReplaceAll([]domain.Tool{{ID: "A", Category: "Robotics", Rating: 7}})

	tool, ok := store.Get("A")
	require.True(t, ok)
	assert.Equal(t, domain.DefaultCategory, tool.Category)
	assert.Equal(t, domain.MaxRating, tool.Rating)
	assert.NotNil(t, tool.Features)
}

func TestReplaceAllKeepsFavorites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	store.ReplaceAll(sampleTools())
	store.ToggleFavorite(ctx, "B")

	store.ReplaceAll([]domain.Tool{{ID: "Z", Name: "Other"}})
	assert.True(t, store.IsFavorite("B"))
	assert.Empty(t, store.Query(Query{Category: domain.CategoryFavorites}))
}

func TestGetUnknownID(t *testing.T) {
	store := newTestStore(t)
	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestQueryDuringReplaceSeesWholeList(t *testing.T) {
	store := newTestStore(t)

	small := make([]domain.Tool, 3)
	large := make([]domain.Tool, 50)
	for i := range small {
		small[i] = domain.Tool{ID: fmt.Sprintf("s%d", i), Name: "small"}
	}
	for i := range large {
		large[i] = domain.Tool{ID: fmt.Sprintf("l%d", i), Name: "large"}
	}
	store.ReplaceAll(small)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				store.ReplaceAll(large)
			} else {
				store.ReplaceAll(small)
			}
		}
	}()

	for i := 0; i < 200; i++ {
		n := len(store.Query(Query{}))
		if n != len(small) && n != len(large) {
			t.Fatalf("observed partial catalog of %d tools", n)
		}
	}
	wg.Wait()
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(" writer ", "All", "4.5")
	require.NoError(t, err)
	assert.Equal(t, Query{Search: "writer", Category: "All", MinRating: 4.5}, q)

	q, err = ParseQuery("", "", "")
	require.NoError(t, err)
	assert.Equal(t, Query{}, q)

	_, err = ParseQuery("", "", "high")
	assert.Error(t, err)
}

func TestFilterCategories(t *testing.T) {
	cats := FilterCategories()
	require.Len(t, cats, len(domain.Categories())+2)
	assert.Equal(t, domain.CategoryAll, cats[0])
	assert.Equal(t, domain.CategoryFavorites, cats[len(cats)-1])
}
