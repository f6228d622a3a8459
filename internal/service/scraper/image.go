package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/constants"
	"github.com/kapu/affiliate-hub-go/internal/domain"
)

const (
	scraperTimeout = 15 * time.Second
	cacheKeyPrefix = "affiliatehub:ogimage:"
	userAgent      = "Mozilla/5.0 (compatible; AffiliateHubBot/1.0)"
)

// ErrNoImage is returned when a page declares no preview image.
var ErrNoImage = errors.New("no preview image found")

// Cache is an optional lookup cache. *cache.CacheService satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// ImageResolver finds the preview image a tool's landing page advertises.
type ImageResolver struct {
	httpClient *http.Client
	cache      Cache
	logger     *zap.Logger
}

// NewImageResolver builds a resolver. cache may be nil.
func NewImageResolver(cache Cache, logger *zap.Logger) *ImageResolver {
	return &ImageResolver{
		httpClient: &http.Client{Timeout: scraperTimeout},
		cache:      cache,
		logger:     logger,
	}
}

// Resolve returns the absolute og:image (or twitter:image, or image_src) URL of pageURL.
func (r *ImageResolver) Resolve(ctx context.Context, pageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return "", fmt.Errorf("not an absolute http url: %q", pageURL)
	}

	cacheKey := cacheKeyPrefix + pageURL
	if r.cache != nil {
		if cached, ok, err := r.cache.Get(ctx, cacheKey); err == nil && ok {
			r.logger.Debug("Image cache hit", zap.String("url", pageURL))
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("HTML parse failed: %w", err)
	}

	raw := findImage(doc)
	if raw == "" {
		return "", ErrNoImage
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("bad image url %q: %w", raw, err)
	}
	image := base.ResolveReference(ref).String()

	if r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey, image); err != nil {
			r.logger.Warn("Failed to cache image url", zap.String("url", pageURL), zap.Error(err))
		}
	}
	return image, nil
}

// FillMissing resolves an image for every tool still on the placeholder whose
// affiliate link is an absolute URL. Failures leave the tool unchanged.
func (r *ImageResolver) FillMissing(ctx context.Context, tools []domain.Tool) ([]domain.Tool, int) {
	out := make([]domain.Tool, len(tools))
	resolved := 0

	for i, tool := range tools {
		out[i] = tool
		if tool.ImageURL != "" && tool.ImageURL != constants.CatalogDefaults.PlaceholderImg {
			continue
		}
		if !strings.HasPrefix(tool.AffiliateLink, "http") {
			continue
		}

		image, err := r.Resolve(ctx, tool.AffiliateLink)
		if err != nil {
			r.logger.Debug("No image resolved",
				zap.String("tool", tool.Name),
				zap.String("url", tool.AffiliateLink),
				zap.Error(err),
			)
			continue
		}
		out[i].ImageURL = image
		resolved++
	}

	r.logger.Info("Image resolution completed",
		zap.Int("tools", len(tools)),
		zap.Int("resolved", resolved),
	)
	return out, resolved
}

func findImage(doc *goquery.Document) string {
	selectors := []struct {
		query string
		attr  string
	}{
		{`meta[property="og:image"]`, "content"},
		{`meta[property="og:image:url"]`, "content"},
		{`meta[name="twitter:image"]`, "content"},
		{`link[rel="image_src"]`, "href"},
	}
	for _, s := range selectors {
		if v, ok := doc.Find(s.query).First().Attr(s.attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
