package catalog

import (
	"context"
	"strings"

	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/model"
)

// Static is an in-memory catalog.
type Static struct {
	venues []model.Venue
}

// NewStatic creates a catalog over a fixed venue list.
func NewStatic(venues []model.Venue) *Static {
	return &Static{venues: venues}
}

func (s *Static) Lookup(ctx context.Context, city string, categories []string) ([]model.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []model.Venue
	for _, v := range s.venues {
		if inCity(v, city) && inCategories(v, categories) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Static) Search(ctx context.Context, city, query string, limit int) ([]model.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := config.Fold(query)
	var out []model.Venue
	for _, v := range s.venues {
		if !inCity(v, city) {
			continue
		}
		if strings.Contains(config.Fold(v.Name), q) ||
			strings.Contains(config.Fold(v.Category), q) ||
			strings.Contains(config.Fold(v.Description), q) {
			out = append(out, v)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// Venues returns the catalog contents.
func (s *Static) Venues() []model.Venue {
	return append([]model.Venue(nil), s.venues...)
}

// Fallback returns the built-in offline catalog used when the primary
// catalog is unreachable.
func Fallback() *Static {
	return NewStatic(TorontoVenues())
}

// TorontoVenues is the seed venue set with its source URLs.
func TorontoVenues() []model.Venue {
	const city = "Toronto"
	return []model.Venue{
		{ID: "cn_tower", Name: "CN Tower", City: city, Category: "tourism", Cost: 45,
			Address: "290 Bremner Blvd", SourceURL: "https://www.cntower.ca",
			Description: "Observation deck and glass floor 346 m above the city"},
		{ID: "rom", Name: "Royal Ontario Museum", City: city, Category: "museum", Cost: 26,
			Address: "100 Queens Park", SourceURL: "https://www.rom.on.ca",
			Description: "Natural history, world culture and art"},
		{ID: "st_lawrence_market", Name: "St. Lawrence Market", City: city, Category: "food", Cost: 15,
			Address: "93 Front St E", SourceURL: "https://www.stlawrencemarket.com",
			Description: "Historic food market with local vendors"},
		{ID: "ripley_aquarium", Name: "Ripley's Aquarium of Canada", City: city, Category: "entertainment", Cost: 44,
			Address: "288 Bremner Blvd", SourceURL: "https://www.ripleyaquariums.com/canada",
			Description: "Aquarium with an underwater shark tunnel"},
		{ID: "high_park", Name: "High Park", City: city, Category: "park", Cost: 0,
			Address: "1873 Bloor St W", SourceURL: "https://www.highparktoronto.com",
			Description: "Large urban park with trails, gardens and a zoo"},
		{ID: "distillery_district", Name: "Distillery District", City: city, Category: "culture", Cost: 0,
			Address: "55 Mill St", SourceURL: "https://www.thedistillerydistrict.com",
			Description: "Pedestrian village of Victorian industrial buildings"},
		{ID: "kensington_market", Name: "Kensington Market", City: city, Category: "food", Cost: 10,
			Address: "Kensington Ave", SourceURL: "https://www.kensingtonmarket.ca",
			Description: "Eclectic neighbourhood of food stalls and vintage shops"},
		{ID: "hockey_hall_of_fame", Name: "Hockey Hall of Fame", City: city, Category: "sport", Cost: 25,
			Address: "30 Yonge St", SourceURL: "https://www.hhof.com",
			Description: "Hockey history exhibits and the Stanley Cup"},
		{ID: "casa_loma", Name: "Casa Loma", City: city, Category: "culture", Cost: 40,
			Address: "1 Austin Terrace", SourceURL: "https://casaloma.ca",
			Description: "Gothic Revival castle with gardens"},
		{ID: "ago", Name: "Art Gallery of Ontario", City: city, Category: "museum", Cost: 30,
			Address: "317 Dundas St W", SourceURL: "https://ago.ca",
			Description: "Canadian and international art collection"},
		{ID: "toronto_islands", Name: "Toronto Islands", City: city, Category: "park", Cost: 9,
			Address: "Jack Layton Ferry Terminal", SourceURL: "https://www.toronto.ca/explore-enjoy/parks-gardens-beaches/toronto-islands",
			Description: "Car-free islands with beaches and skyline views"},
		{ID: "harbourfront_centre", Name: "Harbourfront Centre", City: city, Category: "entertainment", Cost: 0,
			Address: "235 Queens Quay W", SourceURL: "https://www.harbourfrontcentre.com",
			Description: "Waterfront arts and events venue"},
		{ID: "bata_shoe_museum", Name: "Bata Shoe Museum", City: city, Category: "museum", Cost: 14,
			Address: "327 Bloor St W", SourceURL: "https://www.batashoemuseum.ca",
			Description: "Footwear from around the world"},
		{ID: "toronto_zoo", Name: "Toronto Zoo", City: city, Category: "entertainment", Cost: 35,
			Address: "2000 Meadowvale Rd", SourceURL: "https://www.torontozoo.com",
			Description: "Canada's largest zoo"},
		{ID: "aga_khan_museum", Name: "Aga Khan Museum", City: city, Category: "museum", Cost: 20,
			Address: "77 Wynford Dr", SourceURL: "https://www.agakhanmuseum.org",
			Description: "Islamic art and culture"},
	}
}
