package recommend

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tourism/internal/models"
)

// Mode selects how the search origin is given.
type Mode string

const (
	ModeStation Mode = "station"
	ModeMap     Mode = "map"
)

// DefaultRadiusMeters applies when a request gives no radius.
const DefaultRadiusMeters = 1000

// Request is one ranking request.
type Request struct {
	ID           string              `json:"id,omitempty"`
	Category     models.Category     `json:"category" validate:"required,oneof=restaurant place"`
	Genre        string              `json:"genre" validate:"required"`
	Priority     string              `json:"priority" validate:"required"`
	Mode         Mode                `json:"search_mode" validate:"oneof=station map"`
	Station      string              `json:"station,omitempty" validate:"required_if=Mode station"`
	Origin       *models.Coordinates `json:"origin,omitempty" validate:"required_if=Mode map"`
	RadiusMeters int                 `json:"radius,omitempty" validate:"gte=1,lte=50000"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// withDefaults trims input and fills the ID, mode and radius.
func (r Request) withDefaults() Request {
	r.Genre = strings.TrimSpace(r.Genre)
	r.Priority = strings.TrimSpace(r.Priority)
	r.Station = strings.TrimSpace(r.Station)
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Mode == "" {
		r.Mode = ModeStation
	}
	if r.RadiusMeters == 0 {
		r.RadiusMeters = DefaultRadiusMeters
	}
	return r
}

// Validate reports the first problem with r as a KindInvalidRequest error.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var cause string
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		cause = describe(verrs[0])
	} else {
		cause = err.Error()
	}
	return newError(KindInvalidRequest, cause, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Field() {
	case "Category", "Genre", "Priority":
		return "category, genre and priority are required"
	case "Station":
		return "station mode requires a station name"
	case "Origin":
		return "map mode requires an origin coordinate"
	case "Mode":
		return "search_mode must be station or map"
	case "RadiusMeters":
		return "radius must be between 1 and 50000 meters"
	default:
		return fe.Error()
	}
}

// Result is a ranked, annotated list of spots for one request.
type Result struct {
	RequestID   string              `json:"request_id"`
	Category    models.Category     `json:"category"`
	Genre       string              `json:"genre"`
	GenreLabel  string              `json:"genre_label"`
	Priority    string              `json:"priority"`
	Station     string              `json:"station,omitempty"`
	Origin      *models.Coordinates `json:"origin,omitempty"`
	Spots       []*models.Spot      `json:"spots"`
	GeneratedAt time.Time           `json:"generated_at"`
}
