package selection

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// dicStrategy scores each candidate by the Discriminative Information
// Criterion: the model is fitted on the class's full collection and
//
//	DIC = LL(this class) - mean(LL over every other class's collection)
//
// so a candidate is rewarded for explaining its own class and penalized for
// explaining the rest. Higher is better.
type dicStrategy struct {
	params Params
}

func (s *dicStrategy) Name() string { return "dic" }

func (s *dicStrategy) Direction() Direction { return Maximize }

func (s *dicStrategy) StateCounts() []int { return stateRange(s.params.Config) }

func (s *dicStrategy) Evaluate(states int) (Candidate, bool) {
	model, err := fitFull(s.params, states)
	if err != nil {
		return failedCandidate(states, nil), true
	}

	coll := s.params.Collection
	ll, err := model.Score(coll.X, coll.Lengths)
	if err != nil {
		s.params.Logger.Debug("score failed",
			"class", s.params.Class, "states", states, "error", err)
		return failedCandidate(states, model), true
	}

	// A single-class dataset has no adversaries; the mean is undefined and
	// the candidate cannot be scored discriminatively.
	if len(s.params.Others) == 0 {
		s.params.Logger.Debug("dic has no adversary classes",
			"class", s.params.Class, "states", states)
		return failedCandidate(states, model), true
	}

	labels := make([]string, 0, len(s.params.Others))
	for label := range s.params.Others {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	adversary := make([]float64, 0, len(labels))
	for _, label := range labels {
		other := s.params.Others[label]
		score, err := model.Score(other.X, other.Lengths)
		if err != nil {
			s.params.Logger.Debug("adversary score failed",
				"class", s.params.Class, "states", states,
				"adversary", label, "error", err)
			return failedCandidate(states, model), true
		}
		adversary = append(adversary, score)
	}

	dic := ll - stat.Mean(adversary, nil)

	return Candidate{States: states, Score: dic, Model: model}, true
}
