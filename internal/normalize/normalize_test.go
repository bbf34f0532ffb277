package normalize

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourism/internal/models"
	"tourism/pkg/hotpepper"
	"tourism/pkg/places"
)

func decodeShop(t *testing.T, raw string) hotpepper.Shop {
	t.Helper()
	var s hotpepper.Shop
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	return s
}

func decodePlace(t *testing.T, raw string) places.Place {
	t.Helper()
	var p places.Place
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestNormalize_Shop(t *testing.T) {
	shop := decodeShop(t, `{
	  "name": " 麺屋テスト ",
	  "address": "東京都千代田区丸の内1-1",
	  "lat": "35.6812",
	  "lng": 139.7671,
	  "genre": {"name": "ラーメン"},
	  "catch": "濃厚豚骨",
	  "budget": {"name": "～1000円", "average": "1000円"},
	  "photo": {"pc": {"m": "https://img.example/m.jpg", "s": "https://img.example/s.jpg"}},
	  "private_room": "あり ：2室",
	  "wifi": "未確認",
	  "parking": "なし"
	}`)

	spot, err := Normalize(ShopRecord{Shop: shop})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryRestaurant, spot.Category)
	assert.Equal(t, "麺屋テスト", spot.Name)
	assert.Equal(t, models.Coordinates{Lat: 35.6812, Lng: 139.7671}, spot.Location)
	assert.Equal(t, "ラーメン", spot.Genre)
	assert.Equal(t, "濃厚豚骨 / 予算目安: 1000円", spot.Description)
	assert.Equal(t, "1000円", spot.BudgetText)
	assert.Equal(t, "https://img.example/m.jpg", spot.ImageURL)
	assert.Equal(t, models.Amenities{PrivateRoom: true}, spot.Amenities)
	assert.Nil(t, spot.Rating)
	assert.Nil(t, spot.ReviewCount)
	assert.Nil(t, spot.TotalScore)
	assert.Equal(t, []models.Source{models.SourceHotpepper}, spot.Provenance)
}

func TestNormalize_ShopDefaults(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantLoc  models.Coordinates
		wantDesc string
		wantBud  string
	}{
		{
			name:    "missing everything",
			raw:     `{}`,
			wantLoc: models.Coordinates{},
		},
		{
			name:    "unparseable latitude zeroes both axes",
			raw:     `{"lat": "abc", "lng": "139.7"}`,
			wantLoc: models.Coordinates{},
		},
		{
			name:     "catch only",
			raw:      `{"catch": "駅近"}`,
			wantDesc: "駅近",
		},
		{
			name:     "budget name when average missing",
			raw:      `{"budget": {"name": "2001～3000円"}}`,
			wantBud:  "2001～3000円",
			wantDesc: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spot, err := Normalize(ShopRecord{Shop: decodeShop(t, tt.raw)})
			require.NoError(t, err)
			assert.Equal(t, UnknownRestaurantName, spot.Name)
			assert.Equal(t, tt.wantLoc, spot.Location)
			assert.Equal(t, tt.wantDesc, spot.Description)
			assert.Equal(t, tt.wantBud, spot.BudgetText)
		})
	}
}

func TestNormalize_Place(t *testing.T) {
	raw := `{
	  "name": "上野公園",
	  "vicinity": "台東区上野公園",
	  "formatted_address": "日本、東京都台東区上野公園",
	  "geometry": {"location": {"lat": 35.7148, "lng": 139.7734}},
	  "rating": 4.4,
	  "user_ratings_total": "23000",
	  "types": ["park", "tourist_attraction"]
	}`

	t.Run("caller label wins", func(t *testing.T) {
		spot, err := Normalize(PlaceRecord{Place: decodePlace(t, raw), GenreLabel: "自然・公園", ImageURL: "https://img/x"})
		require.NoError(t, err)
		assert.Equal(t, models.CategoryPlace, spot.Category)
		assert.Equal(t, "台東区上野公園", spot.Address)
		assert.Equal(t, "自然・公園", spot.Genre)
		require.NotNil(t, spot.Rating)
		assert.Equal(t, 4.4, *spot.Rating)
		require.NotNil(t, spot.ReviewCount)
		assert.Equal(t, 23000, *spot.ReviewCount)
		assert.Equal(t, []string{"park", "tourist_attraction"}, spot.Types)
		assert.Equal(t, "https://img/x", spot.ImageURL)
		assert.Equal(t, []models.Source{models.SourceGoogle}, spot.Provenance)
	})

	t.Run("first tag when no label", func(t *testing.T) {
		spot, err := Normalize(&PlaceRecord{Place: decodePlace(t, raw)})
		require.NoError(t, err)
		assert.Equal(t, "park", spot.Genre)
	})

	t.Run("empty genre without label or tags", func(t *testing.T) {
		spot, err := Normalize(PlaceRecord{Place: decodePlace(t, `{"formatted_address": "大阪"}`)})
		require.NoError(t, err)
		assert.Equal(t, UnknownPlaceName, spot.Name)
		assert.Equal(t, "大阪", spot.Address)
		assert.Empty(t, spot.Genre)
	})
}

func TestNormalize_PlaceBadNumbers(t *testing.T) {
	spot, err := Normalize(PlaceRecord{Place: decodePlace(t, `{
	  "name": "x",
	  "geometry": {"location": {"lat": null, "lng": 1}},
	  "rating": "high",
	  "user_ratings_total": -4
	}`)})
	require.NoError(t, err)
	assert.Equal(t, models.Coordinates{}, spot.Location)
	assert.Nil(t, spot.Rating)
	assert.Nil(t, spot.ReviewCount)
}

func TestNormalize_NonFiniteNumbers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"nan lat", `{"name": "x", "geometry": {"location": {"lat": "NaN", "lng": 139.7}}, "rating": "NaN"}`},
		{"infinite lng", `{"name": "x", "geometry": {"location": {"lat": 35.6, "lng": "Infinity"}}, "rating": "Infinity"}`},
		{"negative inf", `{"name": "x", "geometry": {"location": {"lat": "-Inf", "lng": "-Inf"}}, "rating": "-Inf"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spot, err := Normalize(PlaceRecord{Place: decodePlace(t, tt.raw)})
			require.NoError(t, err)
			assert.Equal(t, models.Coordinates{}, spot.Location)
			assert.Nil(t, spot.Rating)

			_, err = json.Marshal(spot)
			assert.NoError(t, err)
		})
	}

	shop := decodeShop(t, `{"name": "店", "lat": "NaN", "lng": "139.7"}`)
	spot, err := Normalize(ShopRecord{Shop: shop})
	require.NoError(t, err)
	assert.Equal(t, models.Coordinates{}, spot.Location)
}

func TestNormalize_Details(t *testing.T) {
	d := decodePlace(t, `{
	  "name": "麺屋テスト",
	  "formatted_address": "日本、〒100-0005 東京都千代田区丸の内1-1",
	  "geometry": {"location": {"lat": 35.68, "lng": 139.76}},
	  "rating": 3.9,
	  "user_ratings_total": 88,
	  "types": ["restaurant", "food"]
	}`)
	spot, err := Normalize(DetailsRecord{Details: d, ImageURL: "https://photo"})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryRestaurant, spot.Category)
	assert.Equal(t, "restaurant", spot.Genre)
	assert.Equal(t, "日本、〒100-0005 東京都千代田区丸の内1-1", spot.Address)
	assert.Equal(t, "https://photo", spot.ImageURL)
	assert.Empty(t, spot.BudgetText)
	assert.Equal(t, []models.Source{models.SourceGoogle}, spot.Provenance)
}

func TestNormalize_UnknownRecord(t *testing.T) {
	_, err := Normalize(nil)
	require.ErrorIs(t, err, ErrUnknownRecord)
}
