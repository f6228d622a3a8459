package ai

import (
	"strconv"
	"strings"

	"github.com/kapu/affiliate-hub-go/internal/domain"
)

// BuildToolContext renders one line per tool for the system instruction:
//
//	- <Name> (<Category>): <Description>. Price: <PriceModel>. Rating: <Rating>/5 OFFER: <Offer>
//
// The OFFER suffix is present only when the tool has an offer.
func BuildToolContext(tools []domain.Tool) string {
	var b strings.Builder
	for i, t := range tools {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(t.Name)
		b.WriteString(" (")
		b.WriteString(string(t.Category))
		b.WriteString("): ")
		b.WriteString(t.Description)
		b.WriteString(". Price: ")
		b.WriteString(string(t.PriceModel))
		b.WriteString(". Rating: ")
		b.WriteString(strconv.FormatFloat(t.Rating, 'f', -1, 64))
		b.WriteString("/5")
		if t.HasOffer() {
			b.WriteString(" OFFER: ")
			b.WriteString(t.OfferText())
		}
	}
	return b.String()
}
