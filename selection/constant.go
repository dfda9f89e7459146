package selection

// constantStrategy fits a single fixed state count on the class's full
// collection. There is no comparison: the one candidate is the selection.
// The recorded score is the training-set log-likelihood, kept for
// diagnostics only.
type constantStrategy struct {
	params Params
}

func (s *constantStrategy) Name() string { return "constant" }

func (s *constantStrategy) Direction() Direction { return Maximize }

func (s *constantStrategy) StateCounts() []int {
	return []int{s.params.Config.ConstantStates}
}

func (s *constantStrategy) Evaluate(states int) (Candidate, bool) {
	model, err := fitFull(s.params, states)
	if err != nil {
		return failedCandidate(states, nil), true
	}

	coll := s.params.Collection
	ll, err := model.Score(coll.X, coll.Lengths)
	if err != nil {
		// The model is still usable; only the diagnostic score is missing.
		s.params.Logger.Debug("score failed",
			"class", s.params.Class, "states", states, "error", err)
		return failedCandidate(states, model), true
	}

	return Candidate{States: states, Score: ll, Model: model}, true
}
