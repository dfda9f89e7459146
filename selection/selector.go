package selection

import (
	"fmt"
	"math"
)

// NoViableCandidateError reports that every candidate state count failed to
// produce a usable model for a class.
type NoViableCandidateError struct {
	Class string
}

func (e *NoViableCandidateError) Error() string {
	return fmt.Sprintf("no viable candidate state count for class %q", e.Class)
}

// State tracks a selector's progress.
type State int

const (
	Idle State = iota
	Evaluating
	Selected
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Evaluating:
		return "Evaluating"
	case Selected:
		return "Selected"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Selector runs one strategy over its candidate state counts for one class
// and retains the winning candidate. A selector is single-use: it moves
// from Idle through Evaluating to Selected and never back.
type Selector struct {
	class    string
	strategy Strategy
	state    State
	best     Candidate
}

// NewSelector builds an idle selector for one class.
func NewSelector(class string, strategy Strategy) (*Selector, error) {
	if strategy == nil {
		return nil, fmt.Errorf("selector for class %q requires a strategy", class)
	}
	return &Selector{
		class:    class,
		strategy: strategy,
		state:    Idle,
	}, nil
}

// State reports the selector's current state.
func (s *Selector) State() State { return s.state }

// Best returns the winning candidate once the selector has reached
// Selected.
func (s *Selector) Best() (Candidate, bool) {
	if s.state != Selected {
		return Candidate{}, false
	}
	return s.best, true
}

// Select evaluates every candidate state count the strategy lists, collects
// the resulting candidates in evaluation order, and reduces them in the
// strategy's direction. Per-candidate fit and score failures are absorbed;
// only the total absence of any viable candidate surfaces, as a
// NoViableCandidateError naming the class.
func (s *Selector) Select() (Candidate, error) {
	if s.state != Idle {
		return Candidate{}, fmt.Errorf("selector for class %q already ran (state %v)", s.class, s.state)
	}
	s.state = Evaluating

	counts := s.strategy.StateCounts()
	candidates := make([]Candidate, 0, len(counts))
	for _, states := range counts {
		if cand, ok := s.strategy.Evaluate(states); ok {
			candidates = append(candidates, cand)
		}
	}

	best, ok := reduce(candidates, s.strategy.Direction())
	if !ok {
		return Candidate{}, &NoViableCandidateError{Class: s.class}
	}

	s.best = best
	s.state = Selected
	return best, nil
}

// reduce picks the extremum of the candidate list in the given direction.
// Candidates without a model are skipped; when minimizing, non-finite
// scores are skipped as well, since the failure sentinel would otherwise
// always win. Ties keep the first occurrence, so the reduction is
// deterministic in list order.
func reduce(candidates []Candidate, dir Direction) (Candidate, bool) {
	var best Candidate
	found := false

	for _, c := range candidates {
		if c.Model == nil {
			continue
		}
		if dir == Minimize && math.IsInf(c.Score, 0) {
			continue
		}
		if !found {
			best = c
			found = true
			continue
		}
		if dir == Minimize && c.Score < best.Score {
			best = c
		}
		if dir == Maximize && c.Score > best.Score {
			best = c
		}
	}

	return best, found
}
