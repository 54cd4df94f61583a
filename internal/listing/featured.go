package listing

import (
	"github.com/alfgow/inmobiliaria-server/internal/geo"
	"github.com/alfgow/inmobiliaria-server/internal/models"
)

// FeaturedCard is the home-page carousel view of one property.
type FeaturedCard struct {
	ID            string  `json:"id"`
	Slug          string  `json:"slug"`
	Title         string  `json:"title"`
	PriceLabel    string  `json:"priceLabel"`
	Operation     *string `json:"operation"`
	Status        *string `json:"status"`
	CoverImageURL string  `json:"coverImageUrl"`
	Location      *string `json:"location"`
}

// FeaturedCards selects the highlight carousel: a property must be both
// active and flagged featured; missing either flag excludes it.
func FeaturedCards(properties []models.Property) []FeaturedCard {
	cards := make([]FeaturedCard, 0, len(properties))
	for i := range properties {
		p := &properties[i]
		if !p.Active || !p.Featured {
			continue
		}

		card := FeaturedCard{
			ID:            p.ID,
			Slug:          p.Slug,
			Title:         "Inmueble sin título",
			PriceLabel:    geo.PriceLabel(p.Price),
			Operation:     geo.FormatOperation(p.Operation),
			CoverImageURL: geo.FallbackImage,
		}
		if p.Title != nil && *p.Title != "" {
			card.Title = *p.Title
		}
		if p.Status != nil {
			card.Status = p.Status.Name
		}
		if cover := p.CoverImage(); cover != nil {
			if url := cover.DisplayURL(); url != nil {
				card.CoverImageURL = *url
			}
		}
		if location := geo.AddressLine(p.City, p.State); location != "" {
			card.Location = &location
		}

		cards = append(cards, card)
	}
	return cards
}
