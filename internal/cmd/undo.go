package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Digital-Shane/tvrename/internal/log"
	"github.com/Digital-Shane/tvrename/internal/tui/status"
	"github.com/spf13/cobra"
)

func newUndoCommand(d deps) *cobra.Command {
	var (
		list      bool
		sessionID string
	)

	undoCmd := &cobra.Command{
		Use:   "undo",
		Short: "Undo the renames of a journaled run",
		Long: `Revert the renames recorded by a run started with --journal.

Without flags the most recent session is reverted, newest rename first.
A file is only moved back when its original name is still free.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return listSessions(d)
			}
			return undoSession(d, sessionID)
		},
	}

	undoCmd.Flags().BoolVar(&list, "list", false, "List journaled sessions instead of undoing")
	undoCmd.Flags().StringVar(&sessionID, "session", "", "Session ID (or prefix) to undo instead of the latest")
	return undoCmd
}

func listSessions(d deps) error {
	summaries, err := log.GetSessionSummaries()
	if err != nil {
		return fmt.Errorf("failed to read log sessions: %w", err)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(d.stdout, "No operation sessions found to undo.")
		return nil
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		meta := s.Session.Metadata
		rows = append(rows, []string{
			shortID(meta.SessionID),
			s.RelativeTime,
			meta.WorkingDir,
			strconv.Itoa(meta.SuccessfulOps),
			strconv.Itoa(meta.FailedOps),
		})
	}

	fmt.Fprintln(d.stdout, status.RenderTable(
		[]string{"Session", "When", "Directory", "Renamed", "Failed"},
		rows,
		[]status.Align{status.AlignLeft, status.AlignLeft, status.AlignLeft, status.AlignRight, status.AlignRight},
	))
	return nil
}

func undoSession(d deps, id string) error {
	var (
		session *log.LogSession
		path    string
		err     error
	)
	if id != "" {
		session, path, err = log.FindSession(id)
	} else {
		session, path, err = log.FindLatestSession()
	}
	if errors.Is(err, log.ErrNoSessions) {
		fmt.Fprintln(d.stdout, "No operation sessions found to undo.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(d.stdout, "Undoing session %s (%s, %s)\n",
		shortID(session.Metadata.SessionID),
		session.Metadata.Timestamp.Format("2006-01-02 15:04"),
		strings.Join(session.Metadata.CommandArgs, " "))

	successful, failed, errs, err := log.UndoSessionFile(path)
	if err != nil {
		return err
	}
	for _, e := range errs {
		fmt.Fprintln(d.stdout, "  "+e.Error())
	}
	fmt.Fprintf(d.stdout, "Reverted %d rename%s.\n", successful, pluralS(successful))

	if failed > 0 {
		return fmt.Errorf("%d rename%s could not be undone", failed, pluralS(failed))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func pluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
