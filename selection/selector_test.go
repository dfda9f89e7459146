package selection

import (
	"errors"
	"math"
	"testing"
)

// listStrategy replays a fixed candidate list.
type listStrategy struct {
	direction  Direction
	candidates []Candidate
}

func (s *listStrategy) Name() string         { return "list" }
func (s *listStrategy) Direction() Direction { return s.direction }

func (s *listStrategy) StateCounts() []int {
	counts := make([]int, len(s.candidates))
	for i, c := range s.candidates {
		counts[i] = c.States
	}
	return counts
}

func (s *listStrategy) Evaluate(states int) (Candidate, bool) {
	for _, c := range s.candidates {
		if c.States == states {
			return c, true
		}
	}
	return Candidate{}, false
}

func scored(states int, score float64) Candidate {
	return Candidate{States: states, Score: score, Model: &stubModel{}}
}

func TestReduceMinimizePicksInteriorMinimum(t *testing.T) {
	candidates := []Candidate{scored(2, 40), scored(3, 12), scored(4, 30)}

	best, ok := reduce(candidates, Minimize)
	if !ok {
		t.Fatal("Expected a winner")
	}
	if best.States != 3 || best.Score != 12 {
		t.Errorf("Expected states 3 with score 12, got states %d score %v", best.States, best.Score)
	}
}

func TestReduceMaximize(t *testing.T) {
	candidates := []Candidate{scored(2, -40), scored(3, -12), scored(4, -30)}

	best, ok := reduce(candidates, Maximize)
	if !ok {
		t.Fatal("Expected a winner")
	}
	if best.States != 3 {
		t.Errorf("Expected states 3, got %d", best.States)
	}
}

func TestReduceTieBreakFirstOccurrence(t *testing.T) {
	candidates := []Candidate{scored(2, 5), scored(3, 5), scored(4, 5)}

	for _, dir := range []Direction{Minimize, Maximize} {
		best, ok := reduce(candidates, dir)
		if !ok {
			t.Fatalf("%v: expected a winner", dir)
		}
		if best.States != 2 {
			t.Errorf("%v: expected the first occurrence (states 2), got %d", dir, best.States)
		}
	}
}

func TestReduceSkipsFailures(t *testing.T) {
	sentinel := math.Inf(-1)

	// A fit failure (nil model) never wins, in either direction.
	candidates := []Candidate{failedCandidate(2, nil), scored(3, 100)}
	if best, ok := reduce(candidates, Minimize); !ok || best.States != 3 {
		t.Errorf("Minimize: expected states 3, got %+v ok=%v", best, ok)
	}
	if best, ok := reduce(candidates, Maximize); !ok || best.States != 3 {
		t.Errorf("Maximize: expected states 3, got %+v ok=%v", best, ok)
	}

	// A sentinel score with a surviving model is excluded from minimization,
	// where -Inf would otherwise always win.
	candidates = []Candidate{scored(2, sentinel), scored(3, 7)}
	if best, ok := reduce(candidates, Minimize); !ok || best.States != 3 {
		t.Errorf("Minimize with sentinel: expected states 3, got %+v ok=%v", best, ok)
	}

	// Under maximization the sentinel loses naturally.
	if best, ok := reduce(candidates, Maximize); !ok || best.States != 3 {
		t.Errorf("Maximize with sentinel: expected states 3, got %+v ok=%v", best, ok)
	}

	// Nothing viable at all.
	if _, ok := reduce([]Candidate{failedCandidate(2, nil)}, Maximize); ok {
		t.Error("Expected no winner from an all-failed list")
	}
}

func TestSelectorStateMachine(t *testing.T) {
	strategy := &listStrategy{direction: Maximize, candidates: []Candidate{scored(2, 1)}}
	selector, err := NewSelector("word", strategy)
	if err != nil {
		t.Fatalf("NewSelector failed: %v", err)
	}

	if selector.State() != Idle {
		t.Errorf("Expected Idle before Select, got %v", selector.State())
	}
	if _, ok := selector.Best(); ok {
		t.Error("Expected no best candidate before Select")
	}

	best, err := selector.Select()
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if selector.State() != Selected {
		t.Errorf("Expected Selected after Select, got %v", selector.State())
	}
	if got, ok := selector.Best(); !ok || got != best {
		t.Error("Best should return the selected candidate")
	}

	if _, err := selector.Select(); err == nil {
		t.Error("Expected error re-running a selector")
	}
}

func TestSelectorNoViableCandidate(t *testing.T) {
	strategy := &listStrategy{direction: Maximize, candidates: []Candidate{
		failedCandidate(2, nil),
		failedCandidate(3, nil),
	}}
	selector, err := NewSelector("word", strategy)
	if err != nil {
		t.Fatalf("NewSelector failed: %v", err)
	}

	_, err = selector.Select()
	var noViable *NoViableCandidateError
	if !errors.As(err, &noViable) {
		t.Fatalf("Expected NoViableCandidateError, got %v", err)
	}
	if noViable.Class != "word" {
		t.Errorf("Expected the error to name class %q, got %q", "word", noViable.Class)
	}
	if selector.State() == Selected {
		t.Error("Selector must not reach Selected without a viable candidate")
	}
}

func TestDirectionAndStateStrings(t *testing.T) {
	tests := []struct {
		value    interface{ String() string }
		expected string
	}{
		{Minimize, "Minimize"},
		{Maximize, "Maximize"},
		{Idle, "Idle"},
		{Evaluating, "Evaluating"},
		{Selected, "Selected"},
		{Direction(99), "Unknown(99)"},
		{State(99), "Unknown(99)"},
	}

	for _, test := range tests {
		if got := test.value.String(); got != test.expected {
			t.Errorf("Expected %q, got %q", test.expected, got)
		}
	}
}
