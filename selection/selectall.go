package selection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/go-hmm/sequence"
)

// Table maps each class label to its single selected model. It is built
// once by SelectAll and consumed read-only by recognition.
type Table map[string]Model

// Result is the outcome of selecting across a whole dataset. A class
// appears in exactly one of Models or Failed; a class for which every
// candidate failed is reported in Failed, never silently dropped.
type Result struct {
	// Models is the best-model table.
	Models Table

	// Best records the winning candidate per selected class, carrying the
	// chosen state count and score alongside the model.
	Best map[string]Candidate

	// Failed maps each unselectable class to its NoViableCandidateError.
	Failed map[string]error
}

// SelectAll runs per-class model selection over every class in the dataset
// using a bounded worker pool. Classes share no mutable state, so they run
// concurrently; per-candidate failures stay inside their class's selector.
// The returned error is reserved for structural problems (dataset access,
// configuration, cancellation), never for per-class selection failures.
func SelectAll(ctx context.Context, ds sequence.Dataset, trainer Trainer, cfg Config, logger *slog.Logger) (*Result, error) {
	if ds == nil {
		return nil, fmt.Errorf("selection requires a dataset")
	}
	if trainer == nil {
		return nil, fmt.Errorf("selection requires a trainer")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid selection configuration: %v", err)
	}
	kind, err := cfg.Kind()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	classes := ds.Classes()
	collections := make(map[string]*sequence.Collection, len(classes))
	for _, class := range classes {
		coll, err := ds.Collection(class)
		if err != nil {
			return nil, fmt.Errorf("failed to load collection for class %q: %v", class, err)
		}
		collections[class] = coll
	}

	result := &Result{
		Models: make(Table, len(classes)),
		Best:   make(map[string]Candidate, len(classes)),
		Failed: make(map[string]error),
	}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())

	for _, class := range classes {
		class := class
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			others := make(map[string]*sequence.Collection, len(collections)-1)
			for label, coll := range collections {
				if label != class {
					others[label] = coll
				}
			}

			strategy, err := New(kind, Params{
				Trainer:    trainer,
				Class:      class,
				Collection: collections[class],
				Others:     others,
				Config:     cfg,
				Logger:     logger,
			})
			if err != nil {
				return err
			}

			selector, err := NewSelector(class, strategy)
			if err != nil {
				return err
			}

			best, err := selector.Select()

			mu.Lock()
			defer mu.Unlock()

			var noViable *NoViableCandidateError
			switch {
			case err == nil:
				result.Models[class] = best.Model
				result.Best[class] = best
				logger.Debug("class selected",
					"class", class, "strategy", strategy.Name(),
					"states", best.States, "score", best.Score)
			case errors.As(err, &noViable):
				result.Failed[class] = err
				logger.Warn("no viable model for class", "class", class, "strategy", strategy.Name())
			default:
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}
