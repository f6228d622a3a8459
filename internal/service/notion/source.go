package notion

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kapu/affiliate-hub-go/internal/constants"
	apperrors "github.com/kapu/affiliate-hub-go/pkg/errors"
)

// ErrNotConfigured is returned by FetchPages when the API key or database id is missing.
var ErrNotConfigured = errors.New("notion source not configured")

// Notion allows an average of three requests per second per integration.
const requestsPerSecond = 3

// DatabaseQuerier is the slice of notionapi.DatabaseService the source needs.
type DatabaseQuerier interface {
	Query(ctx context.Context, id notionapi.DatabaseID, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

type Config struct {
	APIKey     string
	DatabaseID string
}

func (c Config) Configured() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.DatabaseID) != ""
}

// Source reads tool rows from a Notion database.
type Source struct {
	databaseID string
	querier    DatabaseQuerier
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewSource(cfg Config, logger *zap.Logger) *Source {
	s := &Source{
		databaseID: strings.TrimSpace(cfg.DatabaseID),
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:     logger,
	}
	if cfg.Configured() {
		client := notionapi.NewClient(
			notionapi.Token(strings.TrimSpace(cfg.APIKey)),
			notionapi.WithHTTPClient(&http.Client{Timeout: constants.NotionConfig.RequestTimeout}),
		)
		s.querier = client.Database
	}
	return s
}

// NewSourceWithQuerier builds a source over an existing querier.
func NewSourceWithQuerier(databaseID string, querier DatabaseQuerier, logger *zap.Logger) *Source {
	return &Source{
		databaseID: databaseID,
		querier:    querier,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		logger:     logger,
	}
}

func (s *Source) Configured() bool {
	return s != nil && s.querier != nil && s.databaseID != ""
}

// FetchPages returns every row of the database sorted by Name ascending,
// following pagination cursors until the API reports no more results.
func (s *Source) FetchPages(ctx context.Context) ([]notionapi.Page, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	req := &notionapi.DatabaseQueryRequest{
		Sorts: []notionapi.SortObject{{
			Property:  constants.NotionProperties.Name,
			Direction: notionapi.SortOrderASC,
		}},
		PageSize: constants.NotionConfig.PageSize,
	}

	var pages []notionapi.Page
	for requests := 1; ; requests++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := s.querier.Query(ctx, notionapi.DatabaseID(s.databaseID), req)
		if err != nil {
			s.logger.Error("Notion query failed",
				zap.String("database_id", s.databaseID),
				zap.Int("request", requests),
				zap.Error(err),
			)
			return nil, apperrors.NewServiceError("notion query failed", "notion", "database.query", err)
		}

		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		req.StartCursor = resp.NextCursor
	}

	s.logger.Debug("Notion pages fetched",
		zap.String("database_id", s.databaseID),
		zap.Int("pages", len(pages)),
	)
	return pages, nil
}
