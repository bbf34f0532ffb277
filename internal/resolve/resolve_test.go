package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourism/internal/models"
	"tourism/pkg/flexjson"
	"tourism/pkg/places"
)

type fakeLookup struct {
	ids      map[string]string // query -> place id
	details  map[string]*places.Place
	findErr  map[string]error
	queries  []string
	hints    []models.Coordinates
	detailed []string
}

func (f *fakeLookup) FindPlaceID(_ context.Context, query string, hint models.Coordinates) (string, error) {
	f.queries = append(f.queries, query)
	f.hints = append(f.hints, hint)
	if err := f.findErr[query]; err != nil {
		return "", err
	}
	return f.ids[query], nil
}

func (f *fakeLookup) PlaceDetails(_ context.Context, id string) (*places.Place, error) {
	f.detailed = append(f.detailed, id)
	return f.details[id], nil
}

func (f *fakeLookup) PhotoURL(ref string) string {
	return "https://photo.example/" + ref
}

func primary(name, address, budget string) *models.Spot {
	s := &models.Spot{
		Category:    models.CategoryRestaurant,
		Name:        name,
		Address:     address,
		Location:    models.Coordinates{Lat: 35.68, Lng: 139.76},
		Genre:       "ラーメン",
		Description: "濃厚豚骨 / 予算目安: " + budget,
		BudgetText:  budget,
		Amenities:   models.Amenities{WiFi: true},
		ImageURL:    "https://hotpepper.example/l.jpg",
	}
	s.AddSource(models.SourceHotpepper)
	return s
}

func detail(name string, photo string) *places.Place {
	p := &places.Place{
		Name:             name,
		FormattedAddress: "日本、東京都千代田区丸の内1-1",
		Geometry:         places.Geometry{Location: places.LatLng{Lat: "35.6812", Lng: "139.7671"}},
		Rating:           flexjson.Number("4.2"),
		UserRatingsTotal: flexjson.Number("340"),
		Types:            []string{"restaurant", "food"},
	}
	if photo != "" {
		p.Photos = []places.PhotoRef{{PhotoReference: photo}}
	}
	return p
}

func TestQuery_FoldsFullWidth(t *testing.T) {
	s := &models.Spot{Name: "麺屋ＡＢＣ", Address: "丸の内１－１"}
	assert.Equal(t, "麺屋ABC 丸の内1-1", Query(s))
}

func TestResolve_PreservePolicy(t *testing.T) {
	lookup := &fakeLookup{
		ids:     map[string]string{"麺屋テスト 東京都千代田区": "P1"},
		details: map[string]*places.Place{"P1": detail("麺屋テスト 丸の内店", "REF1")},
	}
	r := NewResolver(lookup, PreserveMergePolicy)
	spot := primary("麺屋テスト", "東京都千代田区", "1000円")

	require.NoError(t, r.Resolve(context.Background(), spot))

	assert.Equal(t, []models.Coordinates{{Lat: 35.68, Lng: 139.76}}, lookup.hints)
	assert.Equal(t, "麺屋テスト 丸の内店", spot.Name)
	assert.Equal(t, "日本、東京都千代田区丸の内1-1", spot.Address)
	assert.Equal(t, models.Coordinates{Lat: 35.6812, Lng: 139.7671}, spot.Location)
	assert.Equal(t, "restaurant", spot.Genre)
	require.NotNil(t, spot.Rating)
	assert.Equal(t, 4.2, *spot.Rating)
	require.NotNil(t, spot.ReviewCount)
	assert.Equal(t, 340, *spot.ReviewCount)
	assert.Equal(t, "https://photo.example/REF1", spot.ImageURL)
	assert.Equal(t, "1000円", spot.BudgetText)
	assert.Equal(t, "濃厚豚骨 / 予算目安: 1000円", spot.Description)
	assert.True(t, spot.Amenities.WiFi)
	assert.Equal(t, []models.Source{models.SourceHotpepper, models.SourceGoogle}, spot.Provenance)
}

func TestResolve_PreserveFallsBackWhenSecondaryEmpty(t *testing.T) {
	lookup := &fakeLookup{
		ids:     map[string]string{"店 住所": "P1"},
		details: map[string]*places.Place{"P1": detail("店", "")},
	}
	spot := primary("店", "住所", "")
	require.NoError(t, NewResolver(lookup, PreserveMergePolicy).Resolve(context.Background(), spot))
	assert.Equal(t, "https://hotpepper.example/l.jpg", spot.ImageURL)
}

func TestResolve_SecondaryOnlyPolicyLosesPrimaryFields(t *testing.T) {
	lookup := &fakeLookup{
		ids:     map[string]string{"店 住所": "P1"},
		details: map[string]*places.Place{"P1": detail("店", "")},
	}
	spot := primary("店", "住所", "1000円")
	require.NoError(t, NewResolver(lookup, SecondaryOnlyMergePolicy).Resolve(context.Background(), spot))

	assert.Empty(t, spot.BudgetText)
	assert.Empty(t, spot.Description)
	assert.Empty(t, spot.ImageURL)
	assert.Equal(t, models.Amenities{}, spot.Amenities)
}

func TestResolve_Drops(t *testing.T) {
	boom := errors.New("connection reset")
	lookup := &fakeLookup{
		ids: map[string]string{
			"nodetail 住所": "P404",
		},
		details: map[string]*places.Place{},
		findErr: map[string]error{"outage 住所": boom},
	}
	r := NewResolver(lookup, PreserveMergePolicy)

	err := r.Resolve(context.Background(), primary("nomatch", "住所", ""))
	require.ErrorIs(t, err, ErrNoMatch)

	err = r.Resolve(context.Background(), primary("nodetail", "住所", ""))
	require.ErrorIs(t, err, ErrNoDetails)

	err = r.Resolve(context.Background(), primary("outage", "住所", ""))
	require.ErrorIs(t, err, boom)
}

func TestResolve_PlacePassesThrough(t *testing.T) {
	lookup := &fakeLookup{}
	spot := &models.Spot{Category: models.CategoryPlace, Name: "上野公園"}
	require.NoError(t, NewResolver(lookup, PreserveMergePolicy).Resolve(context.Background(), spot))
	assert.Empty(t, lookup.queries)
	assert.Equal(t, "上野公園", spot.Name)
}

func TestResolveAll_FiveCandidatesTwoFail(t *testing.T) {
	lookup := &fakeLookup{
		ids: map[string]string{
			"a 住所": "PA",
			"c 住所": "PC",
			"d 住所": "PD",
			"e 住所": "PE",
		},
		details: map[string]*places.Place{
			"PA": detail("A", ""),
			"PC": detail("C", ""),
			"PE": detail("E", ""),
		},
	}
	spots := []*models.Spot{
		primary("a", "住所", ""),
		primary("b", "住所", ""), // no match
		primary("c", "住所", ""),
		primary("d", "住所", ""), // no details
		primary("e", "住所", ""),
	}

	got, err := NewResolver(lookup, PreserveMergePolicy).ResolveAll(context.Background(), spots)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "C", got[1].Name)
	assert.Equal(t, "E", got[2].Name)
	assert.Equal(t, []string{"PA", "PC", "PD", "PE"}, lookup.detailed)
}

func TestPolicyByName(t *testing.T) {
	p, ok := PolicyByName("preserve")
	require.True(t, ok)
	assert.Equal(t, models.SourceHotpepper, p.SourceFor(FieldBudget))

	p, ok = PolicyByName("secondary_only")
	require.True(t, ok)
	assert.Equal(t, models.SourceGoogle, p.SourceFor(FieldBudget))

	_, ok = PolicyByName("newest")
	assert.False(t, ok)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	a := primary("a", "addr", "2000円")
	b := &models.Spot{Category: models.CategoryRestaurant, Name: "B", Provenance: []models.Source{models.SourceGoogle}}

	out := PreserveMergePolicy.Merge(a, b)

	assert.Equal(t, "a", a.Name)
	assert.Equal(t, []models.Source{models.SourceHotpepper}, a.Provenance)
	assert.Equal(t, "B", out.Name)
	assert.Equal(t, "2000円", out.BudgetText)
}

func TestResolveAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	lookup := &fakeLookup{ids: map[string]string{"a 住所": "PA"}, details: map[string]*places.Place{"PA": detail("A", "")}}

	got, err := NewResolver(lookup, PreserveMergePolicy).ResolveAll(ctx, []*models.Spot{primary("a", "住所", "")})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, got)
	assert.Empty(t, lookup.detailed)
}
