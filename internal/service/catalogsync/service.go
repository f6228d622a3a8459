package catalogsync

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/catalog"
	"github.com/kapu/affiliate-hub-go/internal/domain"
	"github.com/kapu/affiliate-hub-go/internal/metrics"
)

// Sources reported in Result.Source.
const (
	SourceNotion    = "notion"
	SourceSimulated = "simulated"
	SourceSnapshot  = "snapshot"
	SourceBundled   = "bundled"
)

// ErrEmptySource is reported when the remote database returns no rows.
var ErrEmptySource = errors.New("notion returned no rows")

// PageSource yields raw rows. *notion.Source satisfies it.
type PageSource interface {
	Configured() bool
	FetchPages(ctx context.Context) ([]notionapi.Page, error)
}

// SnapshotRepository persists the last good catalog. *database.ToolRepository satisfies it.
type SnapshotRepository interface {
	ReplaceAll(ctx context.Context, tools []domain.Tool) error
	LoadAll(ctx context.Context) ([]domain.Tool, error)
}

// Result describes one sync attempt.
type Result struct {
	Source     string    `json:"source"`
	Count      int       `json:"count"`
	Duplicates int       `json:"duplicates"`
	Fallback   bool      `json:"fallback"`
	Error      string    `json:"error,omitempty"`
	SyncedAt   time.Time `json:"syncedAt"`
	Err        error     `json:"-"`
}

// Service moves rows from the source through the normalizer into the store.
type Service struct {
	source    PageSource
	store     *catalog.Store
	snapshots SnapshotRepository
	metrics   domain.Metrics
	logger    *zap.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewService builds the sync service. snapshots may be nil when Postgres is not configured.
func NewService(source PageSource, store *catalog.Store, snapshots SnapshotRepository, m domain.Metrics, logger *zap.Logger) *Service {
	if m == nil {
		m = metrics.Noop{}
	}
	return &Service{
		source:    source,
		store:     store,
		snapshots: snapshots,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Sync runs one sync. It never leaves the store partially updated: on any
// failure the previous catalog stays in place and Result.Fallback is set.
func (s *Service) Sync(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil || !s.source.Configured() {
		s.logger.Warn("Notion credentials missing, running simulated sync")
		return s.apply(ctx, SourceSimulated, simulate(catalog.DefaultTools(), s.now()), false)
	}

	pages, err := s.source.FetchPages(ctx)
	if err == nil && len(pages) == 0 {
		err = ErrEmptySource
	}
	if err != nil {
		if errors.Is(err, ErrEmptySource) {
			s.logger.Warn("Notion sync returned no rows, keeping current catalog")
		} else {
			s.logger.Error("Notion sync failed, keeping current catalog", zap.Error(err))
		}
		s.metrics.ObserveSync(SourceNotion, err)
		return Result{
			Source:   SourceNotion,
			Count:    s.store.Len(),
			Fallback: true,
			Error:    err.Error(),
			SyncedAt: s.now(),
			Err:      err,
		}
	}

	return s.apply(ctx, SourceNotion, catalog.NormalizeAll(pages), true)
}

func (s *Service) apply(ctx context.Context, source string, tools []domain.Tool, persist bool) Result {
	dropped := s.store.ReplaceAll(tools)
	count := s.store.Len()

	if persist && s.snapshots != nil {
		if err := s.snapshots.ReplaceAll(ctx, s.store.Snapshot()); err != nil {
			s.logger.Error("Failed to persist catalog snapshot", zap.Error(err))
		}
	}

	s.metrics.ObserveSync(source, nil)
	s.metrics.SetCatalogSize(count)
	s.logger.Info("Catalog synced",
		zap.String("source", source),
		zap.Int("tools", count),
		zap.Int("duplicates", dropped),
	)

	return Result{
		Source:     source,
		Count:      count,
		Duplicates: dropped,
		SyncedAt:   s.now(),
	}
}

// LoadInitial seeds the store at startup from the last persisted snapshot, or
// from the bundled dataset when there is none.
func (s *Service) LoadInitial(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshots != nil {
		tools, err := s.snapshots.LoadAll(ctx)
		switch {
		case err != nil:
			s.logger.Warn("Failed to load catalog snapshot, using bundled dataset", zap.Error(err))
		case len(tools) > 0:
			return s.apply(ctx, SourceSnapshot, tools, false)
		}
	}
	return s.apply(ctx, SourceBundled, catalog.DefaultTools(), false)
}

// Run syncs every interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Periodic catalog sync started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Periodic catalog sync stopped")
			return
		case <-ticker.C:
			s.Sync(ctx)
		}
	}
}

// simulate re-stamps the bundled dataset with a last_synced marker on each
// affiliate link so a credential-less sync is visibly a sync.
func simulate(tools []domain.Tool, now time.Time) []domain.Tool {
	stamp := strconv.FormatInt(now.UnixMilli(), 10)
	for i := range tools {
		tools[i].AffiliateLink = stampLink(tools[i].AffiliateLink, stamp)
	}
	return tools
}

func stampLink(link, stamp string) string {
	if u, err := url.Parse(link); err == nil && u.IsAbs() && u.Host != "" {
		q := u.Query()
		q.Set("last_synced", stamp)
		u.RawQuery = q.Encode()
		return u.String()
	}

	separator := "?"
	if strings.Contains(link, "?") {
		separator = "&"
	}
	return fmt.Sprintf("%s%slast_synced=%s", link, separator, stamp)
}
