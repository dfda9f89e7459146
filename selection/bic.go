package selection

import "math"

// bicStrategy scores each candidate by the Bayesian Information Criterion
// of the model fitted on the class's full collection:
//
//	BIC = -2*LL + p*ln(N)
//
// where LL is the training-set log-likelihood, N the total frame count and
// p = states^2 + 2*states*N - 1 the free-parameter count. Lower is better.
type bicStrategy struct {
	params Params
}

func (s *bicStrategy) Name() string { return "bic" }

func (s *bicStrategy) Direction() Direction { return Minimize }

func (s *bicStrategy) StateCounts() []int { return stateRange(s.params.Config) }

func (s *bicStrategy) Evaluate(states int) (Candidate, bool) {
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

	n := float64(coll.Frames())
	p := float64(states*states) + 2*float64(states)*n - 1
	bic := -2*ll + p*math.Log(n)

	return Candidate{States: states, Score: bic, Model: model}, true
}
