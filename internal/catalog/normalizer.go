package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jomei/notionapi"

	"github.com/kapu/affiliate-hub-go/internal/constants"
	"github.com/kapu/affiliate-hub-go/internal/domain"
)

// Normalize maps one Notion database row onto a Tool. It never fails: a missing
// or wrong-typed property resolves to its documented default.
//
// Notion-hosted image URLs expire after about an hour. The normalizer does not
// detect or refresh stale URLs; a later sync replaces them.
func Normalize(page notionapi.Page) domain.Tool {
	props := page.Properties
	names := constants.NotionProperties

	id := strings.TrimSpace(page.ID.String())
	if id == "" {
		id = uuid.NewString()
	}

	name := titleText(props[names.Name])
	if name == "" {
		name = constants.CatalogDefaults.UntitledName
	}

	category, ok := domain.ParseCategory(selectName(props[names.Category]))
	if !ok {
		category = domain.DefaultCategory
	}

	priceModel, ok := domain.ParsePriceModel(selectName(props[names.PriceModel]))
	if !ok {
		priceModel = domain.DefaultPriceModel
	}

	link := urlValue(props[names.AffiliateLink])
	if link == "" {
		link = constants.CatalogDefaults.AffiliateLink
	}

	visits := richText(props[names.MonthlyVisits])
	if visits == "" {
		visits = constants.CatalogDefaults.MonthlyVisits
	}

	image := imageURL(props[names.Image])
	if image == "" {
		image = constants.CatalogDefaults.PlaceholderImg
	}

	var offer *string
	if text := richText(props[names.Offer]); text != "" {
		offer = &text
	}

	return domain.Tool{
		ID:            id,
		Name:          name,
		Description:   richText(props[names.Description]),
		Category:      category,
		AffiliateLink: link,
		PriceModel:    priceModel,
		Rating:        domain.ClampRating(numberValue(props[names.Rating])),
		MonthlyVisits: visits,
		ImageURL:      image,
		Features:      multiSelectNames(props[names.Features]),
		Offer:         offer,
	}
}

// NormalizeAll maps pages in source order.
func NormalizeAll(pages []notionapi.Page) []domain.Tool {
	tools := make([]domain.Tool, 0, len(pages))
	for _, page := range pages {
		tools = append(tools, Normalize(page))
	}
	return tools
}

func joinPlainText(runs []notionapi.RichText) string {
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(run.PlainText)
	}
	return strings.TrimSpace(b.String())
}

func titleText(prop notionapi.Property) string {
	if p, ok := prop.(*notionapi.TitleProperty); ok && p != nil {
		return joinPlainText(p.Title)
	}
	return ""
}

func richText(prop notionapi.Property) string {
	if p, ok := prop.(*notionapi.RichTextProperty); ok && p != nil {
		return joinPlainText(p.RichText)
	}
	return ""
}

func selectName(prop notionapi.Property) string {
	if p, ok := prop.(*notionapi.SelectProperty); ok && p != nil {
		return p.Select.Name
	}
	return ""
}

func numberValue(prop notionapi.Property) float64 {
	if p, ok := prop.(*notionapi.NumberProperty); ok && p != nil {
		return p.Number
	}
	return 0
}

func urlValue(prop notionapi.Property) string {
	if p, ok := prop.(*notionapi.URLProperty); ok && p != nil {
		return strings.TrimSpace(p.URL)
	}
	return ""
}

func multiSelectNames(prop notionapi.Property) []string {
	p, ok := prop.(*notionapi.MultiSelectProperty)
	if !ok || p == nil {
		return []string{}
	}

	names := make([]string, 0, len(p.MultiSelect))
	for _, opt := range p.MultiSelect {
		if opt.Name != "" {
			names = append(names, opt.Name)
		}
	}
	return names
}

// imageURL resolves the first attachment to whichever URL variant it carries:
// a Notion-hosted file or an external link.
func imageURL(prop notionapi.Property) string {
	p, ok := prop.(*notionapi.FilesProperty)
	if !ok || p == nil || len(p.Files) == 0 {
		return ""
	}

	first := p.Files[0]
	switch {
	case first.Type == notionapi.FileTypeFile && first.File != nil:
		return first.File.URL
	case first.Type == notionapi.FileTypeExternal && first.External != nil:
		return first.External.URL
	case first.File != nil && first.File.URL != "":
		return first.File.URL
	case first.External != nil:
		return first.External.URL
	}
	return ""
}
