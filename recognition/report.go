package recognition

// Report accumulates recognition quality against ground-truth labels.
type Report struct {
	Total   int
	Correct int

	// Confusion counts guesses per truth label: Confusion[truth][guess].
	Confusion map[string]map[string]int
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{
		Confusion: make(map[string]map[string]int),
	}
}

// Add records one (truth, guess) pair.
func (r *Report) Add(truth, guess string) {
	r.Total++
	if truth == guess {
		r.Correct++
	}
	row, ok := r.Confusion[truth]
	if !ok {
		row = make(map[string]int)
		r.Confusion[truth] = row
	}
	row[guess]++
}

// AddAll records parallel truth and guess lists, ignoring any tail beyond
// the shorter list.
func (r *Report) AddAll(truths, guesses []string) {
	n := len(truths)
	if len(guesses) < n {
		n = len(guesses)
	}
	for i := 0; i < n; i++ {
		r.Add(truths[i], guesses[i])
	}
}

// Accuracy returns the fraction of correct guesses, zero when empty.
func (r *Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// ErrorRate returns the fraction of incorrect guesses, zero when empty.
func (r *Report) ErrorRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Total-r.Correct) / float64(r.Total)
}
