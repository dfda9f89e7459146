// Package recognition scores held-out observation sequences against a
// read-only best-model table and emits, per test item, the full per-class
// score mapping and the maximum-likelihood guess.
package recognition

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/tsawler/go-hmm/selection"
)

// TestItem is one held-out observation: a concatenated feature matrix with
// its per-sequence length vector.
type TestItem struct {
	X       *mat.Dense
	Lengths []int
}

// Recognizer scores test items against every class model in a best-model
// table. It holds no per-run state: the table is never mutated and repeated
// runs over the same input yield identical output.
type Recognizer struct {
	models  selection.Table
	classes []string
	workers int
	logger  *slog.Logger
}

// Option adjusts a Recognizer.
type Option func(*Recognizer)

// WithWorkers bounds the per-item worker pool. The default is one worker
// per CPU.
func WithWorkers(n int) Option {
	return func(r *Recognizer) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger routes per-pair scoring failures to a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recognizer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRecognizer builds a recognizer over a non-empty best-model table.
func NewRecognizer(models selection.Table, opts ...Option) (*Recognizer, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("recognizer requires at least one class model")
	}
	for class, model := range models {
		if model == nil {
			return nil, fmt.Errorf("class %q has a nil model", class)
		}
	}

	classes := make([]string, 0, len(models))
	for class := range models {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	r := &Recognizer{
		models:  models,
		classes: classes,
		workers: runtime.NumCPU(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Classes returns the class labels the recognizer scores against, sorted.
func (r *Recognizer) Classes() []string {
	out := make([]string, len(r.classes))
	copy(out, r.classes)
	return out
}

// Recognize scores every test item against every class model. The returned
// score-mapping list and guess list parallel the input order. Each mapping
// carries exactly one entry per class; a per-(item, class) scoring failure
// is recorded as negative infinity for that entry alone and never disturbs
// a sibling class or item. The guess is the class with the strictly highest
// score, ties resolved by sorted label order.
func (r *Recognizer) Recognize(ctx context.Context, items []TestItem) ([]map[string]float64, []string, error) {
	scores := make([]map[string]float64, len(items))
	guesses := make([]string, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scores[i], guesses[i] = r.recognizeItem(i, item)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return scores, guesses, nil
}

// recognizeItem scores one item against every class and picks the arg-best
// label.
func (r *Recognizer) recognizeItem(idx int, item TestItem) (map[string]float64, string) {
	itemScores := make(map[string]float64, len(r.classes))

	best := r.classes[0]
	bestScore := math.Inf(-1)
	for _, class := range r.classes {
		score, err := r.models[class].Score(item.X, item.Lengths)
		if err != nil {
			r.logger.Debug("scoring failed",
				"item", idx, "class", class, "error", err)
			score = math.Inf(-1)
		}
		itemScores[class] = score
		if score > bestScore {
			best = class
			bestScore = score
		}
	}

	return itemScores, best
}
