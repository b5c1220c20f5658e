package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Digital-Shane/tvrename/internal/prompt"
	"github.com/Digital-Shane/tvrename/internal/provider"
)

// scriptedPrompter replays canned decisions and records what it was asked.
type scriptedPrompter struct {
	choices  []prompt.Choice
	answers  []prompt.Answer
	asked    []prompt.ChoiceRequest
	confirms []prompt.ConfirmRequest
}

func (p *scriptedPrompter) Choose(_ context.Context, req prompt.ChoiceRequest) (prompt.Choice, error) {
	p.asked = append(p.asked, req)
	if len(p.choices) == 0 {
		return prompt.Choice{}, fmt.Errorf("unexpected choice prompt for %s", req.File)
	}
	c := p.choices[0]
	p.choices = p.choices[1:]
	return c, nil
}

func (p *scriptedPrompter) Confirm(_ context.Context, req prompt.ConfirmRequest) (prompt.Answer, error) {
	p.confirms = append(p.confirms, req)
	if len(p.answers) == 0 {
		return 0, fmt.Errorf("unexpected confirm prompt for %s", req.File)
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

type eventLog struct {
	events []Event
}

func (l *eventLog) Report(e Event) { l.events = append(l.events, e) }

func (l *eventLog) kinds() []EventKind {
	kinds := make([]EventKind, len(l.events))
	for i, e := range l.events {
		kinds[i] = e.Kind
	}
	return kinds
}

// fakeProvider serves fixed series per show guess.
type fakeProvider struct {
	series  map[string]*provider.Series
	err     error
	lookups []string
}

func (f *fakeProvider) Name() string { return "fake" }
func (f *fakeProvider) Description() string { return "fake catalog" }
func (f *fakeProvider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{Localized: true}
}

func (f *fakeProvider) Configure(config map[string]interface{}) error { return nil }

func (f *fakeProvider) Lookup(_ context.Context, show, _ string) (*provider.Series, error) {
	f.lookups = append(f.lookups, show)
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.series[show]
	if !ok {
		return nil, &provider.ProviderError{Provider: "fake", Code: provider.CodeNotFound, Message: "no such show"}
	}
	return s, nil
}

func touch(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(filepath.Base(path)), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
