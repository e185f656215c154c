package match

import (
	"github.com/hbollon/go-edlib"
	"github.com/rotisserie/eris"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// MaxScore is the score of two identical strings.
const MaxScore = 100.0

// Scorer returns a similarity in [0, MaxScore]. Implementations must be
// deterministic and symmetric.
type Scorer interface {
	Score(a, b string) float64
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(a, b string) float64

// Score calls f(a, b).
func (f ScorerFunc) Score(a, b string) float64 { return f(a, b) }

// indelOptions prices a substitution as a deletion plus an insertion, which
// turns the edit distance into the Indel distance.
var indelOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 2,
	Matches: levenshtein.IdenticalRunes,
}

// Ratio is the normalized Indel similarity over runes:
//
//	100 * (len(a) + len(b) - indel(a, b)) / (len(a) + len(b))
//
// Two identical strings, including two empty ones, score 100.
var Ratio Scorer = ScorerFunc(ratio)

func ratio(a, b string) float64 {
	if a == b {
		return MaxScore
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return MaxScore
	}
	dist := levenshtein.DistanceForStrings(ra, rb, indelOptions)
	return MaxScore * float64(total-dist) / float64(total)
}

// JaroWinkler scales go-edlib's Jaro-Winkler similarity to [0, 100].
var JaroWinkler Scorer = ScorerFunc(jaroWinkler)

func jaroWinkler(a, b string) float64 {
	if a == b {
		return MaxScore
	}
	return MaxScore * float64(edlib.JaroWinklerSimilarity(a, b))
}

// Scorer names accepted by ScorerByName.
const (
	ScorerRatio       = "ratio"
	ScorerJaroWinkler = "jaro_winkler"
)

// ScorerByName resolves a configured scorer name. Empty means ratio.
func ScorerByName(name string) (Scorer, error) {
	switch name {
	case "", ScorerRatio:
		return Ratio, nil
	case ScorerJaroWinkler:
		return JaroWinkler, nil
	default:
		return nil, eris.Errorf("match: unknown scorer %q", name)
	}
}

// Normalized wraps s so both inputs pass through Normalize before scoring.
func Normalized(s Scorer) Scorer {
	return ScorerFunc(func(a, b string) float64 {
		return s.Score(Normalize(a), Normalize(b))
	})
}
