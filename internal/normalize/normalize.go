// Package normalize converts provider records into models.Spot. It is the
// only place provider field names and loose JSON typing are handled;
// everything downstream sees typed Spot fields.
package normalize

import (
	"errors"
	"fmt"
	"strings"

	"tourism/internal/models"
	"tourism/pkg/flexjson"
	"tourism/pkg/hotpepper"
	"tourism/pkg/places"
)

// Placeholder names for records that arrive without one.
const (
	UnknownRestaurantName = "不明な店舗"
	UnknownPlaceName      = "不明なスポット"
)

const (
	descriptionSeparator = " / "
	budgetPrefix         = "予算目安: "
	amenityPresent       = "あり"
)

var ErrUnknownRecord = errors.New("normalize: unknown record type")

// Record is a raw provider record. The set of implementations is closed.
type Record interface {
	source() models.Source
}

// ShopRecord is a primary-source restaurant search result.
type ShopRecord struct {
	Shop hotpepper.Shop
}

// PlaceRecord is a secondary-source nearby search result. GenreLabel, when
// set, wins over the record's own category tags.
type PlaceRecord struct {
	Place      places.Place
	GenreLabel string
	ImageURL   string
}

// DetailsRecord is a secondary-source detail record fetched while resolving
// a restaurant.
type DetailsRecord struct {
	Details  places.Place
	ImageURL string
}

func (ShopRecord) source() models.Source    { return models.SourceHotpepper }
func (PlaceRecord) source() models.Source   { return models.SourceGoogle }
func (DetailsRecord) source() models.Source { return models.SourceGoogle }

// Normalize builds a Spot from rec. Unparseable numbers fall back to zero
// coordinates or absent rating and review count; only an unknown record
// type is an error.
func Normalize(rec Record) (*models.Spot, error) {
	switch r := rec.(type) {
	case ShopRecord:
		return fromShop(r.Shop), nil
	case *ShopRecord:
		return fromShop(r.Shop), nil
	case PlaceRecord:
		return fromPlace(r), nil
	case *PlaceRecord:
		return fromPlace(*r), nil
	case DetailsRecord:
		return fromDetails(r), nil
	case *DetailsRecord:
		return fromDetails(*r), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownRecord, rec)
	}
}

func fromShop(shop hotpepper.Shop) *models.Spot {
	budget := strings.TrimSpace(shop.Budget.Average)
	if budget == "" {
		budget = strings.TrimSpace(shop.Budget.Name)
	}

	var parts []string
	if c := strings.TrimSpace(shop.Catch); c != "" {
		parts = append(parts, c)
	}
	if avg := strings.TrimSpace(shop.Budget.Average); avg != "" {
		parts = append(parts, budgetPrefix+avg)
	}

	spot := &models.Spot{
		Category:    models.CategoryRestaurant,
		Name:        nameOr(shop.Name, UnknownRestaurantName),
		Address:     strings.TrimSpace(shop.Address),
		Location:    coordinates(shop.Lat, shop.Lng),
		Genre:       strings.TrimSpace(shop.Genre.Name),
		Description: strings.Join(parts, descriptionSeparator),
		ImageURL:    shop.Photo.PC.Best(),
		BudgetText:  budget,
		Amenities: models.Amenities{
			PrivateRoom: hasAmenity(shop.PrivateRoom),
			WiFi:        hasAmenity(shop.WiFi),
			Parking:     hasAmenity(shop.Parking),
		},
	}
	spot.AddSource(models.SourceHotpepper)
	return spot
}

func fromPlace(r PlaceRecord) *models.Spot {
	p := r.Place
	address := strings.TrimSpace(p.Vicinity)
	if address == "" {
		address = strings.TrimSpace(p.FormattedAddress)
	}

	genre := strings.TrimSpace(r.GenreLabel)
	if genre == "" {
		genre = firstType(p.Types)
	}

	spot := &models.Spot{
		Category:    models.CategoryPlace,
		Name:        nameOr(p.Name, UnknownPlaceName),
		Address:     address,
		Location:    coordinates(p.Geometry.Location.Lat, p.Geometry.Location.Lng),
		Genre:       genre,
		Rating:      rating(p.Rating),
		ReviewCount: reviewCount(p.UserRatingsTotal),
		ImageURL:    r.ImageURL,
		Types:       cloneTypes(p.Types),
	}
	spot.AddSource(models.SourceGoogle)
	return spot
}

func fromDetails(r DetailsRecord) *models.Spot {
	d := r.Details
	address := strings.TrimSpace(d.FormattedAddress)
	if address == "" {
		address = strings.TrimSpace(d.Vicinity)
	}

	spot := &models.Spot{
		Category:    models.CategoryRestaurant,
		Name:        nameOr(d.Name, UnknownRestaurantName),
		Address:     address,
		Location:    coordinates(d.Geometry.Location.Lat, d.Geometry.Location.Lng),
		Genre:       firstType(d.Types),
		Rating:      rating(d.Rating),
		ReviewCount: reviewCount(d.UserRatingsTotal),
		ImageURL:    r.ImageURL,
		Types:       cloneTypes(d.Types),
	}
	spot.AddSource(models.SourceGoogle)
	return spot
}

func nameOr(name, placeholder string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return placeholder
}

// coordinates parses both axes or neither.
func coordinates(lat, lng flexjson.Number) models.Coordinates {
	la, okLat := lat.Float64()
	ln, okLng := lng.Float64()
	if !okLat || !okLng {
		return models.Coordinates{}
	}
	return models.Coordinates{Lat: la, Lng: ln}
}

func rating(n flexjson.Number) *float64 {
	v, ok := n.Float64()
	if !ok || v < 0 || v > 5 {
		return nil
	}
	return &v
}

func reviewCount(n flexjson.Number) *int {
	v, ok := n.Int()
	if !ok || v < 0 {
		return nil
	}
	return &v
}

// hasAmenity reads flags like "あり", "あり ：20台" or "なし".
func hasAmenity(v string) bool {
	return strings.HasPrefix(strings.TrimSpace(v), amenityPresent)
}

func firstType(types []string) string {
	for _, t := range types {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	return ""
}

func cloneTypes(types []string) []string {
	if len(types) == 0 {
		return nil
	}
	out := make([]string, len(types))
	copy(out, types)
	return out
}
