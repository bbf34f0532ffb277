// Package catalog lists the genre and priority choices offered to callers
// and maps them onto provider search terms.
package catalog

import (
	"tourism/internal/models"
)

// Option is one selectable key with its display label.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var restaurantGenres = []Option{
	{"ramen", "ラーメン"},
	{"washoku", "和食"},
	{"western", "洋食・欧風料理"},
	{"chinese", "中華料理"},
	{"asian", "アジア・エスニック（韓国・タイ・インド等）"},
	{"cafe_sweets", "カフェ・スイーツ"},
	{"yakiniku", "焼肉"},
	{"okonomiyaki", "お好み焼き・鉄板焼き"},
	{"fastfood", "ファーストフード"},
	{"family_restaurant", "ファミレス"},
}

var placeGenres = []Option{
	{"nature", "自然・公園"},
	{"sightseeing", "観光名所"},
	{"history_culture", "歴史・寺社・文化"},
	{"shopping", "ショッピングエリア"},
	{"museum", "美術館・博物館"},
	{"themepark", "テーマパーク・遊園地"},
	{"zoo_aquarium", "動物園・水族館"},
	{"hot_spring", "温泉・スパ"},
}

var restaurantPriorities = []Option{
	{"budget", "予算重視"},
	{"quality", "クオリティ重視"},
	{"distance", "距離重視"},
	{"balance", "バランス"},
}

var placePriorities = []Option{
	{"popularity", "人気（評価・口コミ）重視"},
	{"genre", "ジャンル一致重視"},
	{"distance", "距離重視"},
	{"balance", "バランス"},
}

// DefaultPlaceType is used for place genres without a specific mapping.
const DefaultPlaceType = "tourist_attraction"

var placeTypes = map[string]string{
	"nature":          "park",
	"sightseeing":     "tourist_attraction",
	"history_culture": "tourist_attraction",
	"shopping":        "shopping_mall",
	"museum":          "museum",
	"themepark":       "amusement_park",
	"zoo_aquarium":    "zoo",
	"hot_spring":      "spa",
}

// Genres returns the genre options for category in display order.
func Genres(category models.Category) []Option {
	switch category {
	case models.CategoryRestaurant:
		return clone(restaurantGenres)
	case models.CategoryPlace:
		return clone(placeGenres)
	default:
		return nil
	}
}

// Priorities returns the priority options for category in display order.
func Priorities(category models.Category) []Option {
	switch category {
	case models.CategoryRestaurant:
		return clone(restaurantPriorities)
	case models.CategoryPlace:
		return clone(placePriorities)
	default:
		return nil
	}
}

// GenreLabel returns the display label for key, or key itself when unknown.
// The label doubles as the primary-source search keyword.
func GenreLabel(category models.Category, key string) string {
	var opts []Option
	if category == models.CategoryRestaurant {
		opts = restaurantGenres
	} else {
		opts = placeGenres
	}
	for _, o := range opts {
		if o.Key == key {
			return o.Label
		}
	}
	return key
}

// PlaceType maps a place genre key onto a nearby-search place type.
func PlaceType(genreKey string) string {
	if t, ok := placeTypes[genreKey]; ok {
		return t
	}
	return DefaultPlaceType
}

func clone(opts []Option) []Option {
	out := make([]Option, len(opts))
	copy(out, opts)
	return out
}

// Catalog is the full set of choices, as served to form builders.
type Catalog struct {
	RestaurantGenres     []Option `json:"restaurant_genres"`
	PlaceGenres          []Option `json:"place_genres"`
	RestaurantPriorities []Option `json:"restaurant_priorities"`
	PlacePriorities      []Option `json:"place_priorities"`
}

func All() Catalog {
	return Catalog{
		RestaurantGenres:     Genres(models.CategoryRestaurant),
		PlaceGenres:          Genres(models.CategoryPlace),
		RestaurantPriorities: Priorities(models.CategoryRestaurant),
		PlacePriorities:      Priorities(models.CategoryPlace),
	}
}
