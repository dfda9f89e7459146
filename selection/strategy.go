// Package selection chooses, per class, the hidden state count of a
// trainable sequence model that best explains a penalized-likelihood or
// held-out criterion, and retains the winning fitted model for recognition.
package selection

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tsawler/go-hmm/sequence"
)

// Model is a fitted sequence model that can report the log-likelihood of a
// concatenated (matrix, lengths) observation pair. Scoring may fail under
// numerical conditions; callers treat that as an ordinary outcome.
type Model interface {
	Score(x *mat.Dense, lengths []int) (float64, error)
}

// Trainer fits a sequence model with a given hidden state count to a
// concatenated (matrix, lengths) observation pair. Fitting may fail when
// the underlying optimization does not converge or is ill-conditioned;
// callers treat that as an ordinary outcome, never a fatal error.
type Trainer interface {
	Fit(x *mat.Dense, lengths []int, states int) (Model, error)
}

// Direction tells the selector whether lower or higher candidate scores win.
type Direction int

const (
	Minimize Direction = iota
	Maximize
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case Minimize:
		return "Minimize"
	case Maximize:
		return "Maximize"
	default:
		return fmt.Sprintf("Unknown(%d)", int(d))
	}
}

// Candidate pairs one evaluated state count with its fitness score and the
// model fitted for it. A candidate whose fit failed carries a nil Model and
// the negative-infinity sentinel score, so it stays comparable without ever
// winning a maximization; the reduction additionally skips non-finite
// scores when minimizing, where the sentinel would otherwise win.
type Candidate struct {
	States int
	Score  float64
	Model  Model
}

// failedCandidate records a state count whose fit or scoring failed.
func failedCandidate(states int, model Model) Candidate {
	return Candidate{States: states, Score: math.Inf(-1), Model: model}
}

// Strategy evaluates candidate state counts for one class. The selector is
// agnostic to which strategy is active; it only reads the candidate list,
// the evaluation order, and the optimization direction.
type Strategy interface {
	// Name identifies the strategy in logs and diagnostics.
	Name() string

	// Direction reports whether candidate scores are minimized or maximized.
	Direction() Direction

	// StateCounts returns the candidate state counts to evaluate, in order.
	StateCounts() []int

	// Evaluate fits and scores one candidate state count. The second return
	// is false when the state count produced nothing comparable at all and
	// must be left out of the candidate list; a failed-but-listed candidate
	// is instead returned true with the sentinel score.
	Evaluate(states int) (Candidate, bool)
}

// Params carries everything a strategy needs to evaluate candidates for one
// class.
type Params struct {
	Trainer Trainer
	Class   string

	// Collection is the current class's sequence collection. Every candidate
	// evaluated for the class draws from this same collection.
	Collection *sequence.Collection

	// Others maps every other class label to its collection. Required by the
	// discriminative strategy, ignored by the rest.
	Others map[string]*sequence.Collection

	Config Config

	// Logger receives per-candidate fit/score outcomes at debug level. Nil
	// disables logging.
	Logger *slog.Logger
}

func (p *Params) validate() error {
	if p.Trainer == nil {
		return fmt.Errorf("strategy requires a trainer")
	}
	if p.Collection == nil {
		return fmt.Errorf("strategy requires a sequence collection for class %q", p.Class)
	}
	if p.Logger == nil {
		p.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return nil
}

// New builds the strategy of the given kind for one class.
func New(kind StrategyKind, p Params) (Strategy, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if err := p.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid selection configuration: %v", err)
	}

	switch kind {
	case Constant:
		return &constantStrategy{params: p}, nil
	case BIC:
		return &bicStrategy{params: p}, nil
	case DIC:
		return &dicStrategy{params: p}, nil
	case CV:
		return &cvStrategy{params: p}, nil
	default:
		return nil, fmt.Errorf("unknown strategy kind %v", kind)
	}
}

// stateRange returns the closed candidate range [MinStates, MaxStates].
func stateRange(cfg Config) []int {
	counts := make([]int, 0, cfg.MaxStates-cfg.MinStates+1)
	for n := cfg.MinStates; n <= cfg.MaxStates; n++ {
		counts = append(counts, n)
	}
	return counts
}

// fitFull fits a model with the given state count on the class's full
// collection, logging the outcome.
func fitFull(p Params, states int) (Model, error) {
	model, err := p.Trainer.Fit(p.Collection.X, p.Collection.Lengths, states)
	if err != nil {
		p.Logger.Debug("fit failed",
			"class", p.Class, "states", states, "error", err)
		return nil, err
	}
	p.Logger.Debug("model fitted", "class", p.Class, "states", states)
	return model, nil
}
