package sequence

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Collection holds the ordered observation sequences recorded for one class,
// together with the concatenated layout the fitting and scoring routines
// consume: a single stacked feature matrix and a per-sequence length vector.
type Collection struct {
	// Sequences are the individual recordings, each a frames x features matrix.
	Sequences []*mat.Dense

	// X is every sequence's frames stacked into one matrix.
	X *mat.Dense

	// Lengths records the frame count of each sequence, aligned with the
	// stacking order of X.
	Lengths []int
}

// NewCollection builds a collection and precomputes its concatenated layout.
// All sequences must share the same feature dimension and have at least one
// frame.
func NewCollection(seqs []*mat.Dense) (*Collection, error) {
	if len(seqs) == 0 {
		return nil, fmt.Errorf("collection requires at least one sequence")
	}

	x, lengths, err := Concat(seqs)
	if err != nil {
		return nil, err
	}

	return &Collection{
		Sequences: seqs,
		X:         x,
		Lengths:   lengths,
	}, nil
}

// Len returns the number of sequences in the collection.
func (c *Collection) Len() int {
	return len(c.Sequences)
}

// Frames returns the total frame count across all sequences.
func (c *Collection) Frames() int {
	total := 0
	for _, n := range c.Lengths {
		total += n
	}
	return total
}

// Combine stacks the sequences selected by idx into one feature matrix with
// an aligned length vector. Index order is preserved.
func (c *Collection) Combine(idx []int) (*mat.Dense, []int, error) {
	if len(idx) == 0 {
		return nil, nil, fmt.Errorf("combine requires at least one sequence index")
	}

	selected := make([]*mat.Dense, len(idx))
	for i, j := range idx {
		if j < 0 || j >= len(c.Sequences) {
			return nil, nil, fmt.Errorf("sequence index %d out of range [0, %d)", j, len(c.Sequences))
		}
		selected[i] = c.Sequences[j]
	}

	return Concat(selected)
}

// Concat stacks the given sequences into a single feature matrix and returns
// it with the per-sequence length vector.
func Concat(seqs []*mat.Dense) (*mat.Dense, []int, error) {
	if len(seqs) == 0 {
		return nil, nil, fmt.Errorf("concat requires at least one sequence")
	}

	_, features := seqs[0].Dims()
	totalFrames := 0
	lengths := make([]int, len(seqs))
	for i, s := range seqs {
		frames, cols := s.Dims()
		if frames == 0 {
			return nil, nil, fmt.Errorf("sequence %d has no frames", i)
		}
		if cols != features {
			return nil, nil, fmt.Errorf("sequence %d has %d features, expected %d", i, cols, features)
		}
		lengths[i] = frames
		totalFrames += frames
	}

	x := mat.NewDense(totalFrames, features, nil)
	row := 0
	for _, s := range seqs {
		frames, _ := s.Dims()
		for r := 0; r < frames; r++ {
			x.SetRow(row, s.RawRowView(r))
			row++
		}
	}

	return x, lengths, nil
}

// Dataset supplies per-class sequence collections. Discriminative selection
// additionally reads every other class's collection through the same two
// methods, so implementations must serve all classes they enumerate.
type Dataset interface {
	// Classes returns every class label, in a stable order.
	Classes() []string

	// Collection returns the sequence collection recorded for a class.
	Collection(class string) (*Collection, error)
}

// MapDataset is an in-memory Dataset keyed by class label.
type MapDataset map[string]*Collection

// Classes returns the class labels in sorted order.
func (d MapDataset) Classes() []string {
	classes := make([]string, 0, len(d))
	for class := range d {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// Collection returns the collection for a class, or an error when the class
// is unknown.
func (d MapDataset) Collection(class string) (*Collection, error) {
	coll, ok := d[class]
	if !ok {
		return nil, fmt.Errorf("unknown class %q", class)
	}
	return coll, nil
}
