// Package prompt defines how the operator is asked to resolve ambiguous
// matches and confirm renames, plus a line-oriented implementation.
package prompt

import (
	"context"
	"strconv"
	"strings"
)

// ChoiceKind is the operator's decision on a set of candidates.
type ChoiceKind int

const (
	ChoiceSelect ChoiceKind = iota
	ChoiceSkip
	ChoiceAbort
)

func (k ChoiceKind) String() string {
	switch k {
	case ChoiceSelect:
		return "select"
	case ChoiceSkip:
		return "skip"
	case ChoiceAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Choice is a classified answer. Index is only meaningful for ChoiceSelect.
type Choice struct {
	Kind  ChoiceKind
	Index int
}

// ChoiceRequest asks the operator to pick one of Options for File.
type ChoiceRequest struct {
	File    string
	Options []string
}

// ConfirmRequest asks whether File should be renamed to Target.
type ConfirmRequest struct {
	File   string
	Target string
}

// Answer is the reply to a confirmation.
type Answer int

const (
	AnswerYes Answer = iota
	AnswerNo
	AnswerAbort
)

func (a Answer) String() string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerNo:
		return "no"
	case AnswerAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Prompter obtains operator decisions. Implementations keep asking until an
// answer classifies; they never return a Choice or Answer that did not come
// from ParseChoice or ParseConfirm, except Abort when input is exhausted.
type Prompter interface {
	Choose(ctx context.Context, req ChoiceRequest) (Choice, error)
	Confirm(ctx context.Context, req ConfirmRequest) (Answer, error)
}

// Keywords accepted at a choice prompt, in the order they are tested.
var choiceKeywords = []struct {
	word string
	kind ChoiceKind
}{
	{"abort", ChoiceAbort},
	{"skip", ChoiceSkip},
}

// ParseChoice classifies answer for a prompt with n options. A prefix of
// "abort" or "skip" selects that action, abort first, so an empty answer
// aborts. A number in [0, n) selects a candidate. Anything else is rejected.
func ParseChoice(answer string, n int) (Choice, bool) {
	answer = clean(answer)
	for _, kw := range choiceKeywords {
		if strings.HasPrefix(kw.word, answer) {
			return Choice{Kind: kw.kind}, true
		}
	}
	index, err := strconv.Atoi(answer)
	if err != nil || index < 0 || index >= n {
		return Choice{}, false
	}
	return Choice{Kind: ChoiceSelect, Index: index}, true
}

// ParseConfirm classifies a yes/no/abort answer by prefix, tested in that
// order. An empty answer means yes.
func ParseConfirm(answer string) (Answer, bool) {
	answer = clean(answer)
	switch {
	case strings.HasPrefix("yes", answer):
		return AnswerYes, true
	case strings.HasPrefix("no", answer):
		return AnswerNo, true
	case strings.HasPrefix("abort", answer):
		return AnswerAbort, true
	}
	return 0, false
}

func clean(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
