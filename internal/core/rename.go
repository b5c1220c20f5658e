package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Digital-Shane/tvrename/internal/log"
	"github.com/Digital-Shane/tvrename/internal/logger"
	"github.com/Digital-Shane/tvrename/internal/media"
	"github.com/Digital-Shane/tvrename/internal/prompt"
	"github.com/Digital-Shane/tvrename/internal/provider"
	"github.com/Digital-Shane/tvrename/internal/util"
)

// Outcome is what Apply did with a file.
type Outcome int

const (
	OutcomeRenamed Outcome = iota
	OutcomeAlreadyNamed
	OutcomeCollision
	OutcomeDryRun
	OutcomeDeclined
	OutcomeAborted
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRenamed:
		return "renamed"
	case OutcomeAlreadyNamed:
		return "already-named"
	case OutcomeCollision:
		return "collision"
	case OutcomeDryRun:
		return "dry-run"
	case OutcomeDeclined:
		return "declined"
	case OutcomeAborted:
		return "aborted"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// TargetName builds "Show - S01E02 - Title.ext". Path separators in the
// result are replaced so the name always stays a single path element.
func TargetName(showName string, ep provider.Episode, ext string) string {
	return replaceSeparators(fmt.Sprintf("%s - %s - %s%s", showName, ep.Code(), ep.Title, ext))
}

// Renamer applies, simulates or confirms a single rename.
type Renamer struct {
	DryRun   bool
	Ask      bool
	Prompter prompt.Prompter
	Reporter Reporter

	// Rename moves a file without replacing an existing one. Defaults to
	// util.RenameNoReplace.
	Rename func(oldpath, newpath string) error
}

// Apply renames src after ep of showName. Skips, declines and failed
// renames are reported and returned as outcomes; only prompt errors are
// returned as errors.
func (r *Renamer) Apply(ctx context.Context, showName string, ep provider.Episode, src string) (Outcome, error) {
	reporter := r.reporter()
	name := TargetName(showName, ep, media.Ext(filepath.Base(src)))
	dst := filepath.Join(filepath.Dir(src), name)
	ev := Event{Path: src, Target: dst, Show: showName}

	if name == filepath.Base(src) {
		ev.Kind = EventAlreadyNamed
		reporter.Report(ev)
		return OutcomeAlreadyNamed, nil
	}

	if _, err := os.Lstat(dst); err == nil {
		if !util.CaseChange(src, dst) {
			ev.Kind = EventCollision
			reporter.Report(ev)
			return OutcomeCollision, nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		ev.Kind, ev.Err = EventFailed, err
		reporter.Report(ev)
		return OutcomeFailed, nil
	}

	ev.Kind = EventPlanned
	reporter.Report(ev)
	if r.DryRun {
		return OutcomeDryRun, nil
	}

	if r.Ask {
		if r.Prompter == nil {
			return OutcomeFailed, fmt.Errorf("confirmation requested but no prompter configured")
		}
		answer, err := r.Prompter.Confirm(ctx, prompt.ConfirmRequest{File: src, Target: dst})
		if err != nil {
			return OutcomeFailed, err
		}
		switch answer {
		case prompt.AnswerNo:
			ev.Kind = EventDeclined
			reporter.Report(ev)
			return OutcomeDeclined, nil
		case prompt.AnswerAbort:
			return OutcomeAborted, nil
		}
	}

	rename := r.Rename
	if rename == nil {
		rename = util.RenameNoReplace
	}
	if err := rename(src, dst); err != nil {
		logger.FromCtx(ctx).Debugw("rename failed", "src", src, "dst", dst, "error", err)
		log.LogRename(src, dst, false, err)
		ev.Kind, ev.Err = EventFailed, err
		reporter.Report(ev)
		return OutcomeFailed, nil
	}

	log.LogRename(src, dst, true, nil)
	ev.Kind = EventRenamed
	reporter.Report(ev)
	return OutcomeRenamed, nil
}

func (r *Renamer) reporter() Reporter {
	if r.Reporter == nil {
		return discardReporter{}
	}
	return r.Reporter
}
