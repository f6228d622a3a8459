package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kapu/affiliate-hub-go/internal/constants"
	"github.com/kapu/affiliate-hub-go/internal/domain"
)

//go:embed data/default_tools.json
var defaultToolsJSON []byte

var (
	defaultOnce  sync.Once
	defaultTools []domain.Tool
)

// DefaultTools returns the bundled dataset used at startup and by the simulated
// sync. Each call returns fresh copies.
func DefaultTools() []domain.Tool {
	defaultOnce.Do(func() {
		tools, err := DecodeTools(bytes.NewReader(defaultToolsJSON))
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded dataset is invalid: %v", err))
		}
		defaultTools = tools
	})

	out := make([]domain.Tool, len(defaultTools))
	for i, t := range defaultTools {
		out[i] = t.Clone()
	}
	return out
}

// DecodeTools reads a JSON array of tools in canonical shape and sanitizes each
// entry so the catalog invariants hold.
func DecodeTools(r io.Reader) ([]domain.Tool, error) {
	var raw []domain.Tool
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode tools: %w", err)
	}

	tools := make([]domain.Tool, 0, len(raw))
	for _, t := range raw {
		tools = append(tools, Sanitize(t))
	}
	return tools, nil
}

// Sanitize applies the normalizer's defaults to a Tool that did not come from
// Notion (bundled JSON, database snapshots, migration files).
func Sanitize(t domain.Tool) domain.Tool {
	out := t.Clone()
	defaults := constants.CatalogDefaults

	out.ID = strings.TrimSpace(out.ID)
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if strings.TrimSpace(out.Name) == "" {
		out.Name = defaults.UntitledName
	}
	if _, ok := domain.ParseCategory(string(out.Category)); !ok {
		out.Category = domain.DefaultCategory
	}
	if _, ok := domain.ParsePriceModel(string(out.PriceModel)); !ok {
		out.PriceModel = domain.DefaultPriceModel
	}
	out.Rating = domain.ClampRating(out.Rating)
	if strings.TrimSpace(out.AffiliateLink) == "" {
		out.AffiliateLink = defaults.AffiliateLink
	}
	if strings.TrimSpace(out.MonthlyVisits) == "" {
		out.MonthlyVisits = defaults.MonthlyVisits
	}
	if strings.TrimSpace(out.ImageURL) == "" {
		out.ImageURL = defaults.PlaceholderImg
	}
	if out.Features == nil {
		out.Features = []string{}
	}
	return out
}
