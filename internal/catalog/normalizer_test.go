package catalog

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/affiliate-hub-go/internal/constants"
	"github.com/kapu/affiliate-hub-go/internal/domain"
)

func plain(text string) []notionapi.RichText {
	return []notionapi.RichText{{PlainText: text}}
}

func acmePage() notionapi.Page {
	return notionapi.Page{
		ID: notionapi.ObjectID("page-1"),
		Properties: notionapi.Properties{
			"Name":           &notionapi.TitleProperty{Title: plain("Acme AI")},
			"Description":    &notionapi.RichTextProperty{RichText: plain("Writes things")},
			"Category":       &notionapi.SelectProperty{Select: notionapi.Option{Name: "Text & Copywriting"}},
			"Price Model":    &notionapi.SelectProperty{Select: notionapi.Option{Name: "Paid"}},
			"Affiliate Link": &notionapi.URLProperty{URL: "https://acme.ai/?ref=x"},
			"Rating":         &notionapi.NumberProperty{Number: 4.5},
			"Monthly Visits": &notionapi.RichTextProperty{RichText: plain("1M+")},
			"Image": &notionapi.FilesProperty{Files: []notionapi.File{{
				Type:     notionapi.FileTypeExternal,
				External: &notionapi.FileObject{URL: "https://img/x.png"},
			}}},
			"Features": &notionapi.MultiSelectProperty{MultiSelect: []notionapi.Option{{Name: "SEO"}, {Name: "Blog"}}},
		},
	}
}

func TestNormalizeFullRecord(t *testing.T) {
	tool := Normalize(acmePage())

	assert.Equal(t, "page-1", tool.ID)
	assert.Equal(t, "Acme AI", tool.Name)
	assert.Equal(t, "Writes things", tool.Description)
	assert.Equal(t, domain.CategoryText, tool.Category)
	assert.Equal(t, domain.PricePaid, tool.PriceModel)
	assert.Equal(t, "https://acme.ai/?ref=x", tool.AffiliateLink)
	assert.Equal(t, 4.5, tool.Rating)
	assert.Equal(t, "1M+", tool.MonthlyVisits)
	assert.Equal(t, "https://img/x.png", tool.ImageURL)
	assert.Equal(t, []string{"SEO", "Blog"}, tool.Features)
	assert.Nil(t, tool.Offer)
}

func TestNormalizeAllPropertiesMissing(t *testing.T) {
	tool := Normalize(notionapi.Page{ID: notionapi.ObjectID("page-2"), Properties: notionapi.Properties{}})

	assert.Equal(t, "page-2", tool.ID)
	assert.Equal(t, constants.CatalogDefaults.UntitledName, tool.Name)
	assert.Equal(t, "", tool.Description)
	assert.Equal(t, domain.CategoryProductivity, tool.Category)
	assert.Equal(t, domain.PriceFreemium, tool.PriceModel)
	assert.Equal(t, constants.CatalogDefaults.AffiliateLink, tool.AffiliateLink)
	assert.Equal(t, 0.0, tool.Rating)
	assert.Equal(t, constants.CatalogDefaults.MonthlyVisits, tool.MonthlyVisits)
	assert.Equal(t, constants.CatalogDefaults.PlaceholderImg, tool.ImageURL)
	require.NotNil(t, tool.Features)
	assert.Empty(t, tool.Features)
	assert.Nil(t, tool.Offer)
}

func TestNormalizeUnknownEnumsFallBack(t *testing.T) {
	page := notionapi.Page{
		ID: notionapi.ObjectID("page-3"),
		Properties: notionapi.Properties{
			"Category":    &notionapi.SelectProperty{Select: notionapi.Option{Name: "Robotics"}},
			"Price Model": &notionapi.SelectProperty{Select: notionapi.Option{Name: "free"}},
			"Rating":      &notionapi.NumberProperty{Number: 9},
		},
	}

	tool := Normalize(page)
	assert.Equal(t, domain.DefaultCategory, tool.Category)
	assert.Equal(t, domain.DefaultPriceModel, tool.PriceModel)
	assert.Equal(t, domain.MaxRating, tool.Rating)
}

func TestNormalizeWrongPropertyTypeUsesDefault(t *testing.T) {
	page := notionapi.Page{
		ID: notionapi.ObjectID("page-4"),
		Properties: notionapi.Properties{
			"Name":   &notionapi.RichTextProperty{RichText: plain("Not a title")},
			"Rating": &notionapi.RichTextProperty{RichText: plain("4.9")},
		},
	}

	tool := Normalize(page)
	assert.Equal(t, constants.CatalogDefaults.UntitledName, tool.Name)
	assert.Equal(t, 0.0, tool.Rating)
}

func TestNormalizeJoinsTextRuns(t *testing.T) {
	page := notionapi.Page{
		ID: notionapi.ObjectID("page-5"),
		Properties: notionapi.Properties{
			"Name": &notionapi.TitleProperty{Title: []notionapi.RichText{
				{PlainText: "Acme "}, {PlainText: "Studio"},
			}},
			"Offer": &notionapi.RichTextProperty{RichText: plain("20% off")},
		},
	}

	tool := Normalize(page)
	assert.Equal(t, "Acme Studio", tool.Name)
	require.True(t, tool.HasOffer())
	assert.Equal(t, "20% off", tool.OfferText())
}

func TestNormalizeImageVariants(t *testing.T) {
	cases := []struct {
		name  string
		files []notionapi.File
		want  string
	}{
		{
			name: "hosted file",
			files: []notionapi.File{{
				Type: notionapi.FileTypeFile,
				File: &notionapi.FileObject{URL: "https://s3/hosted.png"},
			}},
			want: "https://s3/hosted.png",
		},
		{
			name: "external link",
			files: []notionapi.File{{
				Type:     notionapi.FileTypeExternal,
				External: &notionapi.FileObject{URL: "https://cdn/ext.png"},
			}},
			want: "https://cdn/ext.png",
		},
		{
			name: "first attachment wins",
			files: []notionapi.File{
				{Type: notionapi.FileTypeExternal, External: &notionapi.FileObject{URL: "https://cdn/1.png"}},
				{Type: notionapi.FileTypeExternal, External: &notionapi.FileObject{URL: "https://cdn/2.png"}},
			},
			want: "https://cdn/1.png",
		},
		{
			name:  "no attachments",
			files: nil,
			want:  constants.CatalogDefaults.PlaceholderImg,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := notionapi.Page{
				ID:         notionapi.ObjectID("img"),
				Properties: notionapi.Properties{"Image": &notionapi.FilesProperty{Files: tc.files}},
			}
			assert.Equal(t, tc.want, Normalize(page).ImageURL)
		})
	}
}

func TestNormalizeAllKeepsOrder(t *testing.T) {
	second := acmePage()
	second.ID = notionapi.ObjectID("page-2")

	tools := NormalizeAll([]notionapi.Page{acmePage(), second})
	require.Len(t, tools, 2)
	assert.Equal(t, "page-1", tools[0].ID)
	assert.Equal(t, "page-2", tools[1].ID)
}

func TestNormalizeUnrecognizedPriceModel(t *testing.T) {
	tool := Normalize(notionapi.Page{
		ID: notionapi.ObjectID("acme"),
		Properties: notionapi.Properties{
			"Name":        &notionapi.TitleProperty{Title: plain("Acme AI")},
			"Rating":      &notionapi.NumberProperty{Number: 4.5},
			"Price Model": &notionapi.SelectProperty{Select: notionapi.Option{Name: "Enterprise"}},
		},
	})

	assert.Equal(t, "Acme AI", tool.Name)
	assert.Equal(t, 4.5, tool.Rating)
	assert.Equal(t, domain.PriceFreemium, tool.PriceModel)
	assert.Equal(t, domain.CategoryProductivity, tool.Category)
	assert.Nil(t, tool.Offer)
}
