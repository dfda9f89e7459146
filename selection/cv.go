package selection

import (
	"gonum.org/v1/gonum/stat"

	"github.com/tsawler/go-hmm/sequence"
)

// cvStrategy scores each candidate by mean held-out log-likelihood over
// deterministic contiguous folds of the class's sequences: the model is
// refitted on each fold's train split and scored on its test split. Folds
// that fail to fit or score contribute nothing; a candidate with zero
// successful folds is left out of the candidate list entirely. Higher is
// better.
//
// The candidate handed to the selector carries a model refitted on the full
// collection, not on the last fold's train split, so the selected model has
// seen every recorded sequence.
type cvStrategy struct {
	params Params
}

func (s *cvStrategy) Name() string { return "cv" }

func (s *cvStrategy) Direction() Direction { return Maximize }

func (s *cvStrategy) StateCounts() []int { return stateRange(s.params.Config) }

func (s *cvStrategy) Evaluate(states int) (Candidate, bool) {
	p := s.params
	coll := p.Collection

	splitter := sequence.Splitter{Arity: p.Config.FoldArity}
	folds, err := splitter.Split(coll.Len())
	if err != nil {
		p.Logger.Debug("fold split failed",
			"class", p.Class, "states", states, "error", err)
		return Candidate{}, false
	}

	scores := make([]float64, 0, len(folds))
	for i, fold := range folds {
		score, err := s.scoreFold(fold, states)
		if err != nil {
			p.Logger.Debug("fold evaluation failed",
				"class", p.Class, "states", states, "fold", i, "error", err)
			continue
		}
		scores = append(scores, score)
	}

	if len(scores) == 0 {
		p.Logger.Debug("no successful folds",
			"class", p.Class, "states", states)
		return Candidate{}, false
	}

	model, err := fitFull(p, states)
	if err != nil {
		return Candidate{}, false
	}

	return Candidate{States: states, Score: stat.Mean(scores, nil), Model: model}, true
}

// scoreFold fits on the fold's train split and scores the test split.
func (s *cvStrategy) scoreFold(fold sequence.Fold, states int) (float64, error) {
	coll := s.params.Collection

	trainX, trainLengths, err := coll.Combine(fold.TrainIdx)
	if err != nil {
		return 0, err
	}
	testX, testLengths, err := coll.Combine(fold.TestIdx)
	if err != nil {
		return 0, err
	}

	model, err := s.params.Trainer.Fit(trainX, trainLengths, states)
	if err != nil {
		return 0, err
	}

	return model.Score(testX, testLengths)
}
