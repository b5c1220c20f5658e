package match

import (
	"github.com/Digital-Shane/tvrename/internal/provider"
)

// Scorer rates the similarity of two strings on a 0-100 scale.
type Scorer interface {
	Score(a, b string) int
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(a, b string) int

// Score calls f(a, b).
func (f ScorerFunc) Score(a, b string) int { return f(a, b) }

// Result holds every episode that reached the best score for a label.
// Episodes keep catalog order; among equal scores that order carries no
// meaning beyond being stable.
type Result struct {
	Score    int
	Episodes []provider.Episode
}

// Empty reports whether there was nothing to match against.
func (r Result) Empty() bool {
	return len(r.Episodes) == 0
}

// Ambiguous reports whether more than one episode shares the best score.
func (r Result) Ambiguous() bool {
	return len(r.Episodes) > 1
}

// Matcher picks the best scoring catalog episodes for a label.
type Matcher struct {
	scorer Scorer
}

// NewMatcher returns a Matcher using scorer, or PartialRatio when nil.
func NewMatcher(scorer Scorer) *Matcher {
	if scorer == nil {
		scorer = ScorerFunc(PartialRatio)
	}
	return &Matcher{scorer: scorer}
}

// Match scores label against every episode title and returns the subset
// with the maximum score. There is no minimum score; only an empty catalog
// yields an empty Result.
func (m *Matcher) Match(label string, episodes []provider.Episode) Result {
	var res Result
	for i, ep := range episodes {
		score := m.scorer.Score(label, ep.Title)
		switch {
		case i == 0 || score > res.Score:
			res.Score = score
			res.Episodes = []provider.Episode{ep}
		case score == res.Score:
			res.Episodes = append(res.Episodes, ep)
		}
	}
	return res
}
