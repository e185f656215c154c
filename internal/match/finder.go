package match

// Result is the outcome of a best-match search. The zero value means no
// candidate cleared the floor.
type Result struct {
	Name  string
	Score float64
	// Index is the position of the winning candidate, -1 when not found.
	Index int
	Found bool
}

// NoMatch is returned when no candidate qualifies.
var NoMatch = Result{Index: -1}

// Best returns the highest scoring candidate regardless of any floor. The
// first candidate at the maximum score wins. Found is false only when
// candidates is empty.
func Best(s Scorer, source string, candidates []string) Result {
	best := NoMatch
	for i, c := range candidates {
		score := s.Score(source, c)
		if !best.Found || score > best.Score {
			best = Result{Name: c, Score: score, Index: i, Found: true}
		}
	}
	return best
}

// FindBest returns the best candidate for source, or NoMatch when candidates
// is empty or the best score is below minScore.
func FindBest(s Scorer, source string, candidates []string, minScore float64) Result {
	return Best(s, source, candidates).AtLeast(minScore)
}

// AtLeast returns r when it was found with a score of at least floor, and
// NoMatch otherwise.
func (r Result) AtLeast(floor float64) Result {
	if !r.Found || r.Score < floor {
		return NoMatch
	}
	return r
}
