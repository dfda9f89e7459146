package sequence

import "fmt"

// Fold is one train/test partition of a collection's sequence indices.
type Fold struct {
	TrainIdx []int
	TestIdx  []int
}

// Degenerate reports whether the fold trains and tests on the same indices,
// which happens when a collection is too small to split.
func (f Fold) Degenerate() bool {
	if len(f.TrainIdx) != len(f.TestIdx) {
		return false
	}
	for i := range f.TrainIdx {
		if f.TrainIdx[i] != f.TestIdx[i] {
			return false
		}
	}
	return true
}

// Splitter partitions sequence indices into contiguous, non-shuffled folds
// for cross-validation. The same input always yields the same folds, so
// results are reproducible without a seed.
type Splitter struct {
	// Arity is the requested fold count. The effective count is
	// min(Arity, n) for a collection of n sequences.
	Arity int
}

// Split partitions the indices [0, n) into min(s.Arity, n) folds. Each
// fold's test group is a contiguous block; the first n mod k folds receive
// one extra test index. A single-sequence collection yields one degenerate
// fold whose train and test groups are both {0}.
func (s Splitter) Split(n int) ([]Fold, error) {
	if n <= 0 {
		return nil, fmt.Errorf("cannot split %d sequences", n)
	}

	if n == 1 {
		return []Fold{{TrainIdx: []int{0}, TestIdx: []int{0}}}, nil
	}

	if s.Arity < 2 {
		return nil, fmt.Errorf("fold arity must be at least 2, got %d", s.Arity)
	}

	k := s.Arity
	if k > n {
		k = n
	}

	folds := make([]Fold, 0, k)
	start := 0
	for i := 0; i < k; i++ {
		size := n / k
		if i < n%k {
			size++
		}
		stop := start + size

		test := make([]int, 0, size)
		train := make([]int, 0, n-size)
		for j := 0; j < n; j++ {
			if j >= start && j < stop {
				test = append(test, j)
			} else {
				train = append(train, j)
			}
		}

		folds = append(folds, Fold{TrainIdx: train, TestIdx: test})
		start = stop
	}

	return folds, nil
}
