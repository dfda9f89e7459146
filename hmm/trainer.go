package hmm

import (
	"gonum.org/v1/gonum/mat"

	"github.com/tsawler/go-hmm/selection"
)

// Trainer adapts the package to the selection layer's Trainer interface,
// passing the fitting knobs through unchanged to every candidate fit.
type Trainer struct {
	// MaxIter caps Baum-Welch iterations per fit. Zero means 1000.
	MaxIter int

	// Tol is the per-iteration log-likelihood improvement threshold that
	// stops fitting. Zero means 1e-2.
	Tol float64

	// Seed makes candidate initialization reproducible.
	Seed int64
}

// Fit trains a diagonal-covariance Gaussian HMM with the given hidden state
// count.
func (t Trainer) Fit(x *mat.Dense, lengths []int, states int) (selection.Model, error) {
	model, err := Fit(Config{
		States:  states,
		MaxIter: t.MaxIter,
		Tol:     t.Tol,
		Seed:    t.Seed,
	}, x, lengths)
	if err != nil {
		return nil, err
	}
	return model, nil
}
