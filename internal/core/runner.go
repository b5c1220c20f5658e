package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/Digital-Shane/tvrename/internal/logger"
	"github.com/Digital-Shane/tvrename/internal/match"
	"github.com/Digital-Shane/tvrename/internal/media"
	"github.com/Digital-Shane/tvrename/internal/prompt"
	"github.com/Digital-Shane/tvrename/internal/provider"
)

// Stats counts what happened to the files of a run.
type Stats struct {
	Shows        int
	Files        int
	Renamed      int
	Planned      int
	AlreadyNamed int
	Collisions   int
	NoCandidates int
	Skipped      int
	Declined     int
	Failed       int
	NotRegular   int
	Aborted      bool
}

// Runner drives a batch through lookup, matching, disambiguation and
// renaming, one show and one file at a time.
type Runner struct {
	Provider provider.Provider
	Language string
	Matcher  *match.Matcher
	Prompter prompt.Prompter
	Renamer  *Renamer
	Reporter Reporter
}

// Run processes batch. Each show is looked up exactly once; a lookup error
// ends the run and is returned wrapped with the show guess. An abort at any
// prompt stops the run with Stats.Aborted set and a nil error.
func (r *Runner) Run(ctx context.Context, batch *media.ShowBatch) (Stats, error) {
	var stats Stats
	if r.Provider == nil {
		return stats, fmt.Errorf("no catalog provider configured")
	}

	matcher := r.Matcher
	if matcher == nil {
		matcher = match.NewMatcher(nil)
	}
	renamer := r.Renamer
	if renamer == nil {
		renamer = &Renamer{Prompter: r.Prompter, Reporter: r.Reporter}
	}
	reporter := r.Reporter
	if reporter == nil {
		reporter = discardReporter{}
	}

	if caps := r.Provider.Capabilities(); r.Language != "" && !caps.Localized {
		logger.FromCtx(ctx).Infow("catalog serves titles in its own language, ignoring language setting",
			"provider", r.Provider.Name(), "language", r.Language)
	}

	for _, show := range batch.Shows() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		log := logger.FromCtx(ctx, "show", show)

		log.Debugw("looking up show", "provider", r.Provider.Name(), "language", r.Language)
		series, err := r.Provider.Lookup(ctx, show, r.Language)
		if err != nil {
			return stats, fmt.Errorf("look up %q: %w", show, err)
		}
		stats.Shows++
		log.Debugw("catalog loaded", "series", series.Name, "episodes", len(series.Episodes))

		for _, entry := range batch.Entries(show) {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			stats.Files++

			err := r.processFile(ctx, matcher, renamer, reporter, series, show, entry, &stats)
			if errors.Is(err, ErrAborted) {
				stats.Aborted = true
				reporter.Report(Event{Kind: EventAborted, Path: entry.Path, Show: show})
				return stats, nil
			}
			if err != nil {
				return stats, err
			}
		}
	}

	return stats, nil
}

func (r *Runner) processFile(ctx context.Context, matcher *match.Matcher, renamer *Renamer, reporter Reporter,
	series *provider.Series, show string, entry media.Entry, stats *Stats) error {
	log := logger.FromCtx(ctx, "file", entry.Path)

	result := matcher.Match(entry.Label, series.Episodes)
	if result.Empty() {
		stats.NoCandidates++
		reporter.Report(Event{Kind: EventNoCandidates, Path: entry.Path, Show: show})
		return nil
	}
	log.Debugw("matched", "label", entry.Label, "score", result.Score, "candidates", len(result.Episodes))

	ep, decision, err := Disambiguate(ctx, r.Prompter, entry.Path, result)
	if err != nil {
		return err
	}
	switch decision.Kind {
	case DecisionAbort:
		return ErrAborted
	case DecisionSkip:
		stats.Skipped++
		reporter.Report(Event{Kind: EventSkipped, Path: entry.Path, Show: show})
		return nil
	}
	log.Debugw("selected episode", "episode", ep.Code(), "title", ep.Title)

	outcome, err := renamer.Apply(ctx, series.Name, ep, entry.Path)
	if err != nil {
		return err
	}
	switch outcome {
	case OutcomeRenamed:
		stats.Renamed++
	case OutcomeDryRun:
		stats.Planned++
	case OutcomeAlreadyNamed:
		stats.AlreadyNamed++
	case OutcomeCollision:
		stats.Collisions++
	case OutcomeDeclined:
		stats.Declined++
	case OutcomeFailed:
		stats.Failed++
	case OutcomeAborted:
		return ErrAborted
	}
	return nil
}
