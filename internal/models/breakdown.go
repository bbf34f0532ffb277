package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Stage names the pipeline step that recorded a breakdown entry.
type Stage string

const (
	StageScore Stage = "score"
)

// BreakdownKey names one auditable value in a Breakdown.
type BreakdownKey string

// Restaurant keys.
const (
	KeyBudgetScore   BreakdownKey = "budget_score"
	KeyQualityScore  BreakdownKey = "quality_score"
	KeyWeightBudget  BreakdownKey = "weight_budget"
	KeyWeightQuality BreakdownKey = "weight_quality"
)

// Place keys.
const (
	KeyPopularityScore  BreakdownKey = "popularity_score"
	KeyGenreScore       BreakdownKey = "genre_score"
	KeyDistanceKm       BreakdownKey = "distance_km"
	KeyWeightPopularity BreakdownKey = "weight_popularity"
	KeyWeightGenre      BreakdownKey = "weight_genre"
)

// Shared keys.
const (
	KeyDistanceScore  BreakdownKey = "distance_score"
	KeyWeightDistance BreakdownKey = "weight_distance"
)

// BreakdownEntry is a single recorded value.
type BreakdownEntry struct {
	Stage Stage        `json:"stage"`
	Key   BreakdownKey `json:"key"`
	Value float64      `json:"value"`
}

// Breakdown is an append-only record of the sub-scores and weights that
// produced a total score. A key can be recorded once; later stages read it
// but never overwrite it. The zero value is ready to use.
type Breakdown struct {
	entries []BreakdownEntry
}

// Record appends key=value under stage. Recording a key twice is an error.
func (b *Breakdown) Record(stage Stage, key BreakdownKey, value float64) error {
	if _, ok := b.Get(key); ok {
		return fmt.Errorf("breakdown key %q already recorded", key)
	}
	b.entries = append(b.entries, BreakdownEntry{Stage: stage, Key: key, Value: value})
	return nil
}

// Get returns the value recorded for key, if any.
func (b *Breakdown) Get(key BreakdownKey) (float64, bool) {
	if b == nil {
		return 0, false
	}
	for _, e := range b.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

// Entries returns a copy of all entries in recording order.
func (b *Breakdown) Entries() []BreakdownEntry {
	if b == nil {
		return nil
	}
	out := make([]BreakdownEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// ByStage returns the values recorded under stage keyed by name.
func (b *Breakdown) ByStage(stage Stage) map[BreakdownKey]float64 {
	out := make(map[BreakdownKey]float64)
	if b == nil {
		return out
	}
	for _, e := range b.entries {
		if e.Stage == stage {
			out[e.Key] = e.Value
		}
	}
	return out
}

func (b *Breakdown) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// MarshalJSON renders {"<stage>": {"<key>": value}}.
func (b *Breakdown) MarshalJSON() ([]byte, error) {
	grouped := make(map[Stage]map[BreakdownKey]float64)
	for _, e := range b.Entries() {
		if grouped[e.Stage] == nil {
			grouped[e.Stage] = make(map[BreakdownKey]float64)
		}
		grouped[e.Stage][e.Key] = e.Value
	}
	return json.Marshal(grouped)
}

// UnmarshalJSON restores a breakdown written by MarshalJSON. Entry order
// within a stage is not preserved by the JSON form.
func (b *Breakdown) UnmarshalJSON(data []byte) error {
	var grouped map[Stage]map[BreakdownKey]float64
	if err := json.Unmarshal(data, &grouped); err != nil {
		return err
	}
	b.entries = nil
	for stage, values := range grouped {
		for key, value := range values {
			if err := b.Record(stage, key, value); err != nil {
				return err
			}
		}
	}
	return nil
}
