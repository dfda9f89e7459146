// Package hmm implements a diagonal-covariance Gaussian hidden Markov
// model: maximum-likelihood fitting by Baum-Welch over a concatenated
// multi-sequence feature matrix, and log-likelihood scoring by the forward
// algorithm in log space. It is the default trainable sequence model behind
// the selection layer's Trainer interface.
package hmm

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// minVariance floors every emission variance so densities stay
	// positive and log-likelihoods finite.
	minVariance = 1e-3

	defaultMaxIter = 1000
	defaultTol     = 1e-2
)

// Config holds the fitting knobs for one candidate model.
type Config struct {
	// States is the hidden state count.
	States int

	// MaxIter caps the Baum-Welch iterations. Zero means 1000.
	MaxIter int

	// Tol stops fitting once the log-likelihood improvement per iteration
	// falls below it. Zero means 1e-2.
	Tol float64

	// Seed makes the parameter initialization reproducible.
	Seed int64
}

func (c Config) maxIter() int {
	if c.MaxIter > 0 {
		return c.MaxIter
	}
	return defaultMaxIter
}

func (c Config) tol() float64 {
	if c.Tol > 0 {
		return c.Tol
	}
	return defaultTol
}

// Model is a fitted Gaussian HMM.
type Model struct {
	states   int
	features int

	logPi []float64  // log initial state distribution
	logA  *mat.Dense // log transition matrix, states x states
	means *mat.Dense // per-state emission means, states x features
	vars  *mat.Dense // per-state diagonal variances, states x features
}

// States returns the hidden state count.
func (m *Model) States() int { return m.states }

// Features returns the observation feature dimension.
func (m *Model) Features() int { return m.features }

// Score returns the total log-likelihood of the concatenated (matrix,
// lengths) observation pair under the model, summing the forward-algorithm
// likelihood of each sequence.
func (m *Model) Score(x *mat.Dense, lengths []int) (float64, error) {
	if err := checkLayout(x, lengths, m.features); err != nil {
		return 0, err
	}

	total := 0.0
	start := 0
	for _, n := range lengths {
		logB := m.frameLogProbs(x, start, n)
		alpha := m.forward(logB)
		total += floats.LogSumExp(alpha[n-1])
		start += n
	}

	if math.IsNaN(total) || math.IsInf(total, 1) {
		return 0, fmt.Errorf("log-likelihood is not a number")
	}
	return total, nil
}

// Fit trains a Gaussian HMM on the concatenated (matrix, lengths)
// observation pair. Non-convergence within the iteration budget is not an
// error; numerical breakdown (non-finite likelihood, degenerate input) is.
func Fit(cfg Config, x *mat.Dense, lengths []int) (*Model, error) {
	if cfg.States < 1 {
		return nil, fmt.Errorf("state count must be at least 1, got %d", cfg.States)
	}

	rows, features := x.Dims()
	if err := checkLayout(x, lengths, features); err != nil {
		return nil, err
	}
	if rows < cfg.States {
		return nil, fmt.Errorf("cannot fit %d states to %d frames", cfg.States, rows)
	}

	m := initModel(cfg, x)

	prevLL := math.Inf(-1)
	for iter := 0; iter < cfg.maxIter(); iter++ {
		ll, err := m.step(x, lengths)
		if err != nil {
			return nil, err
		}
		if iter > 0 && math.Abs(ll-prevLL) < cfg.tol() {
			break
		}
		prevLL = ll
	}

	return m, nil
}

// initModel seeds the parameters: uniform start and transition
// distributions, means drawn from random distinct frames, variances from
// the pooled per-feature variance.
func initModel(cfg Config, x *mat.Dense) *Model {
	rows, features := x.Dims()
	k := cfg.States

	m := &Model{
		states:   k,
		features: features,
		logPi:    make([]float64, k),
		logA:     mat.NewDense(k, k, nil),
		means:    mat.NewDense(k, features, nil),
		vars:     mat.NewDense(k, features, nil),
	}

	logUniform := -math.Log(float64(k))
	for i := 0; i < k; i++ {
		m.logPi[i] = logUniform
		for j := 0; j < k; j++ {
			m.logA.Set(i, j, logUniform)
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	perm := rng.Perm(rows)
	for i := 0; i < k; i++ {
		m.means.SetRow(i, x.RawRowView(perm[i]))
	}

	for f := 0; f < features; f++ {
		mean := 0.0
		for r := 0; r < rows; r++ {
			mean += x.At(r, f)
		}
		mean /= float64(rows)

		variance := 0.0
		for r := 0; r < rows; r++ {
			d := x.At(r, f) - mean
			variance += d * d
		}
		variance /= float64(rows)
		if variance < minVariance {
			variance = minVariance
		}

		for i := 0; i < k; i++ {
			m.vars.Set(i, f, variance)
		}
	}

	return m
}

// step runs one expectation-maximization pass over every sequence and
// returns the total log-likelihood before the parameter update.
func (m *Model) step(x *mat.Dense, lengths []int) (float64, error) {
	k := m.states
	features := m.features

	startNum := make([]float64, k)
	transNum := mat.NewDense(k, k, nil)
	transDen := make([]float64, k)
	postSum := make([]float64, k)
	meanNum := mat.NewDense(k, features, nil)
	sqNum := mat.NewDense(k, features, nil)

	total := 0.0
	start := 0
	for _, n := range lengths {
		logB := m.frameLogProbs(x, start, n)
		alpha := m.forward(logB)
		beta := m.backward(logB)

		seqLL := floats.LogSumExp(alpha[n-1])
		total += seqLL

		for t := 0; t < n; t++ {
			row := x.RawRowView(start + t)
			for i := 0; i < k; i++ {
				g := math.Exp(alpha[t][i] + beta[t][i] - seqLL)
				if t == 0 {
					startNum[i] += g
				}
				if t < n-1 {
					transDen[i] += g
				}
				postSum[i] += g
				for f := 0; f < features; f++ {
					meanNum.Set(i, f, meanNum.At(i, f)+g*row[f])
					sqNum.Set(i, f, sqNum.At(i, f)+g*row[f]*row[f])
				}
			}
		}

		for t := 0; t < n-1; t++ {
			for i := 0; i < k; i++ {
				for j := 0; j < k; j++ {
					xi := math.Exp(alpha[t][i] + m.logA.At(i, j) + logB[t+1][j] + beta[t+1][j] - seqLL)
					transNum.Set(i, j, transNum.At(i, j)+xi)
				}
			}
		}

		start += n
	}

	if math.IsNaN(total) || math.IsInf(total, 1) {
		return 0, fmt.Errorf("log-likelihood diverged during fitting")
	}

	seqs := float64(len(lengths))
	for i := 0; i < k; i++ {
		m.logPi[i] = math.Log(startNum[i] / seqs)

		if transDen[i] > 0 {
			for j := 0; j < k; j++ {
				m.logA.Set(i, j, math.Log(transNum.At(i, j)/transDen[i]))
			}
		}

		// A starved state keeps its previous emission parameters.
		if postSum[i] <= 0 {
			continue
		}
		for f := 0; f < features; f++ {
			mean := meanNum.At(i, f) / postSum[i]
			variance := sqNum.At(i, f)/postSum[i] - mean*mean
			if variance < minVariance {
				variance = minVariance
			}
			m.means.Set(i, f, mean)
			m.vars.Set(i, f, variance)
		}
	}

	return total, nil
}

// frameLogProbs returns the per-frame, per-state emission log-densities for
// the n frames beginning at row start.
func (m *Model) frameLogProbs(x *mat.Dense, start, n int) [][]float64 {
	logB := make([][]float64, n)
	for t := 0; t < n; t++ {
		row := x.RawRowView(start + t)
		logB[t] = make([]float64, m.states)
		for i := 0; i < m.states; i++ {
			ll := 0.0
			for f := 0; f < m.features; f++ {
				v := m.vars.At(i, f)
				d := row[f] - m.means.At(i, f)
				ll -= 0.5 * (math.Log(2*math.Pi*v) + d*d/v)
			}
			logB[t][i] = ll
		}
	}
	return logB
}

// forward computes log-space forward probabilities for one sequence.
func (m *Model) forward(logB [][]float64) [][]float64 {
	n := len(logB)
	k := m.states

	alpha := make([][]float64, n)
	alpha[0] = make([]float64, k)
	for i := 0; i < k; i++ {
		alpha[0][i] = m.logPi[i] + logB[0][i]
	}

	work := make([]float64, k)
	for t := 1; t < n; t++ {
		alpha[t] = make([]float64, k)
		for j := 0; j < k; j++ {
			for i := 0; i < k; i++ {
				work[i] = alpha[t-1][i] + m.logA.At(i, j)
			}
			alpha[t][j] = floats.LogSumExp(work) + logB[t][j]
		}
	}

	return alpha
}

// backward computes log-space backward probabilities for one sequence.
func (m *Model) backward(logB [][]float64) [][]float64 {
	n := len(logB)
	k := m.states

	beta := make([][]float64, n)
	beta[n-1] = make([]float64, k)

	work := make([]float64, k)
	for t := n - 2; t >= 0; t-- {
		beta[t] = make([]float64, k)
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				work[j] = m.logA.At(i, j) + logB[t+1][j] + beta[t+1][j]
			}
			beta[t][i] = floats.LogSumExp(work)
		}
	}

	return beta
}

// checkLayout validates a concatenated (matrix, lengths) pair against an
// expected feature dimension.
func checkLayout(x *mat.Dense, lengths []int, features int) error {
	rows, cols := x.Dims()
	if cols != features {
		return fmt.Errorf("observation has %d features, model expects %d", cols, features)
	}
	if len(lengths) == 0 {
		return fmt.Errorf("length vector is empty")
	}
	total := 0
	for i, n := range lengths {
		if n < 1 {
			return fmt.Errorf("sequence %d has non-positive length %d", i, n)
		}
		total += n
	}
	if total != rows {
		return fmt.Errorf("length vector sums to %d frames, matrix has %d rows", total, rows)
	}
	return nil
}
