package enrich

import (
	"context"
	"errors"
	"sync"

	"tourism/internal/logging"
)

// DropFunc is told about every item removed by a failing step.
type DropFunc[T any] func(stage string, item *T, err error)

// Pipeline applies its stages to each item of a batch in input order.
type Pipeline[T any] struct {
	stages []Stage[T]
	onDrop DropFunc[T]
}

func NewPipeline[T any](stages ...Stage[T]) *Pipeline[T] {
	return &Pipeline[T]{stages: stages}
}

// OnDrop registers a hook called for each dropped item.
func (p *Pipeline[T]) OnDrop(fn DropFunc[T]) *Pipeline[T] {
	p.onDrop = fn
	return p
}

// Run processes items one at a time and returns the survivors in their
// original relative order. It stops early and returns ctx.Err() if ctx is
// cancelled; survivors processed so far are still returned.
func (p *Pipeline[T]) Run(ctx context.Context, items []*T) ([]*T, error) {
	out := make([]*T, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if p.apply(ctx, item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (p *Pipeline[T]) apply(ctx context.Context, item *T) bool {
	for _, stage := range p.stages {
		if err := runStage(ctx, stage, item); err != nil {
			logging.Debug().Str("stage", stage.name).Err(err).Msg("item dropped")
			if p.onDrop != nil {
				p.onDrop(stage.name, item, err)
			}
			return false
		}
	}
	return true
}

func runStage[T any](ctx context.Context, stage Stage[T], item *T) error {
	if len(stage.steps) == 1 {
		return stage.steps[0](ctx, item)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, step := range stage.steps {
		wg.Add(1)
		go func(step Step[T]) {
			defer wg.Done()
			if err := step(ctx, item); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(step)
	}
	wg.Wait() // stage barrier
	return errors.Join(errs...)
}
