package domain

// Category is the closed set of tool categories shown in the directory.
type Category string

const (
	CategoryText         Category = "Text & Copywriting"
	CategoryImage        Category = "Image Generation"
	CategoryVideo        Category = "Video Creation"
	CategoryAudio        Category = "Audio & Speech"
	CategoryProductivity Category = "Productivity"
	CategoryDevelopment  Category = "Development"
	CategorySocial       Category = "Social Media"
)

// Pseudo-categories understood by catalog queries. They are never stored on a Tool.
const (
	CategoryAll       = "All"
	CategoryFavorites = "Favorites"
)

// DefaultCategory is used when a source value does not match the enumeration.
const DefaultCategory = CategoryProductivity

var categories = []Category{
	CategoryText,
	CategoryImage,
	CategoryVideo,
	CategoryAudio,
	CategoryProductivity,
	CategoryDevelopment,
	CategorySocial,
}

// Categories returns the enumeration in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory matches raw case-sensitively against the enumeration.
func ParseCategory(raw string) (Category, bool) {
	for _, c := range categories {
		if string(c) == raw {
			return c, true
		}
	}
	return "", false
}

func (c Category) String() string {
	return string(c)
}

// PriceModel describes how a tool is billed.
type PriceModel string

const (
	PriceFree     PriceModel = "Free"
	PriceFreemium PriceModel = "Freemium"
	PricePaid     PriceModel = "Paid"
)

// DefaultPriceModel is used when a source value is not one of the three literals.
const DefaultPriceModel = PriceFreemium

var priceModels = []PriceModel{PriceFree, PriceFreemium, PricePaid}

// PriceModels returns the three price models in display order.
func PriceModels() []PriceModel {
	out := make([]PriceModel, len(priceModels))
	copy(out, priceModels)
	return out
}

// ParsePriceModel matches raw case-sensitively against the price models.
func ParsePriceModel(raw string) (PriceModel, bool) {
	for _, p := range priceModels {
		if string(p) == raw {
			return p, true
		}
	}
	return "", false
}

func (p PriceModel) String() string {
	return string(p)
}

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Tool is one catalog entry. Values are treated as immutable once built:
// callers replace whole records and never edit fields of a stored Tool.
type Tool struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Category      Category   `json:"category"`
	AffiliateLink string     `json:"affiliateLink"`
	PriceModel    PriceModel `json:"priceModel"`
	Rating        float64    `json:"rating"`
	MonthlyVisits string     `json:"monthlyVisits,omitempty"`
	ImageURL      string     `json:"imageUrl"`
	Features      []string   `json:"features"`
	Offer         *string    `json:"offer,omitempty"`
}

// HasOffer reports whether the tool carries a promotional offer.
func (t Tool) HasOffer() bool {
	return t.Offer != nil
}

// OfferText returns the offer or "" when there is none.
func (t Tool) OfferText() string {
	if t.Offer == nil {
		return ""
	}
	return *t.Offer
}

// Clone returns a deep copy so the stored record cannot be changed through the result.
func (t Tool) Clone() Tool {
	out := t
	if t.Features != nil {
		out.Features = make([]string, len(t.Features))
		copy(out.Features, t.Features)
	}
	if t.Offer != nil {
		offer := *t.Offer
		out.Offer = &offer
	}
	return out
}

// ClampRating forces r into [MinRating, MaxRating]. NaN maps to MinRating.
func ClampRating(r float64) float64 {
	if r != r || r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}

// StringPtr is a small helper for building optional offers.
func StringPtr(s string) *string {
	return &s
}
