// Package enrich runs candidates through an ordered list of stages. Steps
// within a stage run in parallel, stages run one after another, and an item
// whose step fails is dropped from the batch.
package enrich

import (
	"context"
)

// Step mutates a single item. Returning an error removes the item from the
// batch; the remaining items are unaffected. Steps in the same stage run
// concurrently on the same item and must not write the same fields.
//
//	func score(ctx context.Context, s *models.Spot) error { ...; return nil }
type Step[T any] func(ctx context.Context, item *T) error

// Stage groups steps that may run in parallel for one item.
type Stage[T any] struct {
	name  string
	steps []Step[T]
}

// NewStage constructs a named Stage. The name is reported to drop hooks.
func NewStage[T any](name string, steps ...Step[T]) Stage[T] {
	return Stage[T]{name: name, steps: steps}
}
