package resolve

import (
	"tourism/internal/models"
)

// Field names a Spot field subject to the merge policy.
type Field string

const (
	FieldName        Field = "name"
	FieldAddress     Field = "address"
	FieldLocation    Field = "location"
	FieldGenre       Field = "genre"
	FieldRating      Field = "rating"
	FieldReviewCount Field = "review_count"
	FieldImage       Field = "image_url"
	FieldTypes       Field = "types"
	FieldDescription Field = "description"
	FieldBudget      Field = "budget_text"
	FieldAmenities   Field = "amenities"
)

// Fields lists every merged field in a fixed order.
var Fields = []Field{
	FieldName, FieldAddress, FieldLocation, FieldGenre, FieldRating, FieldReviewCount,
	FieldImage, FieldTypes, FieldDescription, FieldBudget, FieldAmenities,
}

// MergePolicy says which source wins each field when a primary restaurant
// is merged with its secondary match. Fields missing from Sources come from
// the secondary source.
type MergePolicy struct {
	Name    string
	Sources map[Field]models.Source
	// FallbackOnEmpty takes the other source's value when the winner has none.
	FallbackOnEmpty bool
}

// PreserveMergePolicy takes display fields from the secondary source and
// keeps what only the primary source knows: description, budget, amenities.
var PreserveMergePolicy = MergePolicy{
	Name: "preserve",
	Sources: map[Field]models.Source{
		FieldName:        models.SourceGoogle,
		FieldAddress:     models.SourceGoogle,
		FieldLocation:    models.SourceGoogle,
		FieldGenre:       models.SourceGoogle,
		FieldRating:      models.SourceGoogle,
		FieldReviewCount: models.SourceGoogle,
		FieldImage:       models.SourceGoogle,
		FieldTypes:       models.SourceGoogle,
		FieldDescription: models.SourceHotpepper,
		FieldBudget:      models.SourceHotpepper,
		FieldAmenities:   models.SourceHotpepper,
	},
	FallbackOnEmpty: true,
}

// SecondaryOnlyMergePolicy replaces the primary record wholesale. Budget,
// description and amenities are lost, so the budget score falls back to
// its neutral value.
var SecondaryOnlyMergePolicy = MergePolicy{
	Name:    "secondary_only",
	Sources: map[Field]models.Source{},
}

// PolicyByName returns the named policy. ok is false for unknown names.
func PolicyByName(name string) (MergePolicy, bool) {
	switch name {
	case PreserveMergePolicy.Name:
		return PreserveMergePolicy, true
	case SecondaryOnlyMergePolicy.Name:
		return SecondaryOnlyMergePolicy, true
	default:
		return MergePolicy{}, false
	}
}

// SourceFor reports the winning source for f.
func (p MergePolicy) SourceFor(f Field) models.Source {
	if src, ok := p.Sources[f]; ok {
		return src
	}
	return models.SourceGoogle
}

// Merge builds a new Spot from primary and secondary. Neither input is
// modified. The result carries both provenance tags and no score.
func (p MergePolicy) Merge(primary, secondary *models.Spot) *models.Spot {
	out := &models.Spot{Category: models.CategoryRestaurant}
	for _, f := range Fields {
		win, lose := secondary, primary
		if p.SourceFor(f) == models.SourceHotpepper {
			win, lose = primary, secondary
		}
		copyField(out, win, f)
		if p.FallbackOnEmpty && fieldEmpty(out, f) {
			copyField(out, lose, f)
		}
	}
	for _, src := range primary.Provenance {
		out.AddSource(src)
	}
	for _, src := range secondary.Provenance {
		out.AddSource(src)
	}
	return out
}

func copyField(dst, src *models.Spot, f Field) {
	switch f {
	case FieldName:
		dst.Name = src.Name
	case FieldAddress:
		dst.Address = src.Address
	case FieldLocation:
		dst.Location = src.Location
	case FieldGenre:
		dst.Genre = src.Genre
	case FieldRating:
		dst.Rating = src.Rating
	case FieldReviewCount:
		dst.ReviewCount = src.ReviewCount
	case FieldImage:
		dst.ImageURL = src.ImageURL
	case FieldTypes:
		dst.Types = src.Types
	case FieldDescription:
		dst.Description = src.Description
	case FieldBudget:
		dst.BudgetText = src.BudgetText
	case FieldAmenities:
		dst.Amenities = src.Amenities
	}
}

func fieldEmpty(s *models.Spot, f Field) bool {
	switch f {
	case FieldName:
		return s.Name == ""
	case FieldAddress:
		return s.Address == ""
	case FieldLocation:
		return s.Location.IsZero()
	case FieldGenre:
		return s.Genre == ""
	case FieldRating:
		return s.Rating == nil
	case FieldReviewCount:
		return s.ReviewCount == nil
	case FieldImage:
		return s.ImageURL == ""
	case FieldTypes:
		return len(s.Types) == 0
	case FieldDescription:
		return s.Description == ""
	case FieldBudget:
		return s.BudgetText == ""
	case FieldAmenities:
		return s.Amenities == models.Amenities{}
	}
	return false
}
