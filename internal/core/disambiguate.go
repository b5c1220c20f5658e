package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/Digital-Shane/tvrename/internal/match"
	"github.com/Digital-Shane/tvrename/internal/prompt"
	"github.com/Digital-Shane/tvrename/internal/provider"
)

// ErrAborted tells the runner that the operator aborted. It never leaves
// the package.
var ErrAborted = errors.New("aborted by user")

// DecisionKind is what happens to a single file.
type DecisionKind int

const (
	DecisionApply DecisionKind = iota
	DecisionSkip
	DecisionAbort
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionApply:
		return "apply"
	case DecisionSkip:
		return "skip"
	case DecisionAbort:
		return "abort"
	}
	return "unknown"
}

// Decision is the outcome of disambiguation for one file. Target is filled in
// once the rename target is known.
type Decision struct {
	Kind   DecisionKind
	Target string
}

// Disambiguate picks one episode from result. A single candidate is taken
// without asking; several go through p.Choose. An empty result is skipped.
func Disambiguate(ctx context.Context, p prompt.Prompter, path string, result match.Result) (provider.Episode, Decision, error) {
	switch len(result.Episodes) {
	case 0:
		return provider.Episode{}, Decision{Kind: DecisionSkip}, nil
	case 1:
		return result.Episodes[0], Decision{Kind: DecisionApply}, nil
	}

	if p == nil {
		return provider.Episode{}, Decision{}, fmt.Errorf("%d candidates for %s but no prompter configured", len(result.Episodes), path)
	}

	choice, err := p.Choose(ctx, prompt.ChoiceRequest{
		File:    path,
		Options: CandidateOptions(result.Episodes),
	})
	if err != nil {
		return provider.Episode{}, Decision{}, err
	}

	switch choice.Kind {
	case prompt.ChoiceAbort:
		return provider.Episode{}, Decision{Kind: DecisionAbort}, nil
	case prompt.ChoiceSkip:
		return provider.Episode{}, Decision{Kind: DecisionSkip}, nil
	case prompt.ChoiceSelect:
		if choice.Index < 0 || choice.Index >= len(result.Episodes) {
			return provider.Episode{}, Decision{}, fmt.Errorf("choice %d out of range 0-%d", choice.Index, len(result.Episodes)-1)
		}
		return result.Episodes[choice.Index], Decision{Kind: DecisionApply}, nil
	}
	return provider.Episode{}, Decision{}, fmt.Errorf("unknown choice %v", choice.Kind)
}

// CandidateOptions renders episodes as "S01E02: Title" in their given order.
func CandidateOptions(episodes []provider.Episode) []string {
	options := make([]string, len(episodes))
	for i, ep := range episodes {
		options[i] = fmt.Sprintf("%s: %s", ep.Code(), ep.Title)
	}
	return options
}
