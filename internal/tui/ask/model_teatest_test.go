package ask

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Digital-Shane/tvrename/internal/prompt"
	"github.com/Digital-Shane/tvrename/internal/tui/theme"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
)

var choiceReq = prompt.ChoiceRequest{
	File:    "/tv/Show/ep1.mkv",
	Options: []string{"S01E01: Pilot", "S02E01: Pilot (2)"},
}

func startTestModel(t *testing.T, model *Model) *teatest.TestModel {
	t.Helper()
	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(80, 12))
	t.Cleanup(func() {
		_ = tm.Quit()
	})
	return tm
}

func finalModel(t *testing.T, tm *teatest.TestModel) *Model {
	t.Helper()
	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second))
	m, ok := final.(*Model)
	if !ok {
		t.Fatalf("Final model type = %T, want *Model", final)
	}
	return m
}

func waitForOutput(t *testing.T, tm *teatest.TestModel, contains string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte(contains))
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(25*time.Millisecond))
}

func typeAnswer(tm *teatest.TestModel, answer string) {
	tm.Type(answer)
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestChoiceModelSelect(t *testing.T) {
	tm := startTestModel(t, NewChoiceModel(choiceReq, theme.Default()))
	waitForOutput(t, tm, "Found multiple candidates for")

	typeAnswer(tm, "1")

	final := finalModel(t, tm)
	if !final.Done() {
		t.Fatal("Done() = false after a valid answer")
	}
	if got := final.Choice(); got != (prompt.Choice{Kind: prompt.ChoiceSelect, Index: 1}) {
		t.Errorf("Choice() = %+v, want select 1", got)
	}
}

func TestChoiceModelRejectsInvalid(t *testing.T) {
	tm := startTestModel(t, NewChoiceModel(choiceReq, theme.Default()))
	waitForOutput(t, tm, "Choose correct episode (0-1/skip/abort)?")

	typeAnswer(tm, "7")
	waitForOutput(t, tm, "Enter a number from 0 to 1")

	typeAnswer(tm, "sk")

	final := finalModel(t, tm)
	if got := final.Choice().Kind; got != prompt.ChoiceSkip {
		t.Errorf("Choice().Kind = %v, want skip", got)
	}
}

func TestEmptyAnswerFollowsKeywordOrder(t *testing.T) {
	choose := NewChoiceModel(choiceReq, theme.Default())
	choose.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !choose.Done() || choose.Choice().Kind != prompt.ChoiceAbort {
		t.Errorf("choice after empty answer = %+v (done %v), want abort", choose.Choice(), choose.Done())
	}

	confirm := NewConfirmModel(prompt.ConfirmRequest{File: "a.mkv", Target: "b.mkv"}, theme.Default())
	confirm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !confirm.Done() || confirm.Answer() != prompt.AnswerYes {
		t.Errorf("answer after empty answer = %v (done %v), want yes", confirm.Answer(), confirm.Done())
	}

	bad := NewChoiceModel(choiceReq, theme.Default())
	bad.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	bad.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if bad.Done() || !bad.invalid {
		t.Errorf("unknown answer accepted: done=%v invalid=%v", bad.Done(), bad.invalid)
	}
}

func TestConfirmModelAnswers(t *testing.T) {
	tests := []struct {
		input string
		want  prompt.Answer
	}{
		{"y", prompt.AnswerYes},
		{"NO", prompt.AnswerNo},
		{"ab", prompt.AnswerAbort},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tm := startTestModel(t, NewConfirmModel(prompt.ConfirmRequest{File: "a.mkv", Target: "b.mkv"}, theme.Default()))
			waitForOutput(t, tm, "Rename (yes/no/abort)?")

			typeAnswer(tm, tt.input)

			if got := finalModel(t, tm).Answer(); got != tt.want {
				t.Errorf("Answer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModelQuitKeysAbort(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC, tea.KeyCtrlD} {
		t.Run(key.String(), func(t *testing.T) {
			tm := startTestModel(t, NewChoiceModel(choiceReq, theme.Default()))
			tm.Send(tea.KeyMsg{Type: key})
			tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

			if got := finalModel(t, tm).Choice().Kind; got != prompt.ChoiceAbort {
				t.Errorf("Choice().Kind = %v, want abort", got)
			}
		})
	}
}

func TestViewTruncatesOptions(t *testing.T) {
	long := strings.Repeat("Sehr langer Episodentitel ", 10)
	m := NewChoiceModel(prompt.ChoiceRequest{File: "ep.mkv", Options: []string{long, "S01E02: Kurz"}}, theme.Default())
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})

	view := m.View()
	if strings.Contains(view, long) {
		t.Error("long option was not truncated")
	}
	if !strings.Contains(view, "…") {
		t.Error("truncation marker missing")
	}
}

func TestPrompterCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	p := NewPrompter(strings.NewReader(""), &out, theme.Default())
	if _, err := p.Choose(ctx, choiceReq); err != context.Canceled {
		t.Errorf("Choose() error = %v, want context.Canceled", err)
	}
}
