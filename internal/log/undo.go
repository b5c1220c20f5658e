package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Digital-Shane/tvrename/internal/util"
)

// ErrNoSessions is returned when the journal holds nothing to undo.
var ErrNoSessions = errors.New("no journal sessions found")

type UndoResult struct {
	Operation OperationLog
	Success   bool
	Error     error
}

// UndoOperation renames a journaled file back to its original name. It never
// overwrites: if the original name is taken again the operation fails.
func UndoOperation(op OperationLog) UndoResult {
	result := UndoResult{
		Operation: op,
		Success:   false,
	}

	switch op.Type {
	case OpRename:
		if op.DestPath == "" {
			result.Error = fmt.Errorf("cannot undo rename: destination path missing")
			return result
		}

		if !util.Exists(op.DestPath) {
			result.Error = fmt.Errorf("cannot undo rename: file %s not found", op.DestPath)
			return result
		}

		if err := util.RenameNoReplace(op.DestPath, op.SourcePath); err != nil {
			if errors.Is(err, util.ErrExists) {
				result.Error = fmt.Errorf("cannot undo rename: original path %s already exists", op.SourcePath)
				return result
			}
			result.Error = fmt.Errorf("failed to rename %s back to %s: %w", op.DestPath, op.SourcePath, err)
			return result
		}

		result.Success = true

	default:
		result.Error = fmt.Errorf("unknown operation type: %s", op.Type)
	}

	return result
}

// UndoSession reverts the successful operations of session, newest first.
func UndoSession(session *LogSession) (successful int, failed int, errs []error) {
	for i := len(session.Operations) - 1; i >= 0; i-- {
		op := session.Operations[i]

		// Only undo successful operations
		if !op.Success {
			continue
		}

		result := UndoOperation(op)
		if result.Success {
			successful++
		} else {
			failed++
			if result.Error != nil {
				errs = append(errs, result.Error)
			}
		}
	}

	return successful, failed, errs
}

// UndoSessionFile reverts the session stored at path while holding the
// journal lock. A fully reverted session file is removed so it cannot be
// applied twice.
func UndoSessionFile(path string) (successful int, failed int, errs []error, err error) {
	lock, err := lockJournal(filepath.Dir(path), false)
	if err != nil {
		return 0, 0, nil, err
	}
	defer lock.Unlock()

	session, err := ReadSession(path)
	if err != nil {
		return 0, 0, nil, err
	}

	successful, failed, errs = UndoSession(session)
	if failed == 0 {
		if rmErr := os.Remove(path); rmErr != nil {
			return successful, failed, errs, fmt.Errorf("remove reverted session: %w", rmErr)
		}
	}
	return successful, failed, errs, nil
}

// FindLatestSession returns the newest readable session and its file.
func FindLatestSession() (*LogSession, string, error) {
	return findSession(func(*LogSession) bool { return true })
}

// FindSession returns the session with the given ID, or the newest one whose
// ID starts with id.
func FindSession(id string) (*LogSession, string, error) {
	if id == "" {
		return nil, "", fmt.Errorf("session id is empty")
	}
	session, path, err := findSession(func(s *LogSession) bool {
		return len(s.Metadata.SessionID) >= len(id) && s.Metadata.SessionID[:len(id)] == id
	})
	if errors.Is(err, ErrNoSessions) {
		return nil, "", fmt.Errorf("session %s not found", id)
	}
	return session, path, err
}

func findSession(match func(*LogSession) bool) (*LogSession, string, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, "", fmt.Errorf("failed to read sessions: %w", err)
	}

	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}
		if match(session) {
			return session, file, nil
		}
	}
	return nil, "", ErrNoSessions
}

type SessionSummary struct {
	Session      *LogSession
	FilePath     string
	RelativeTime string
}

// GetSessionSummaries lists readable sessions newest first.
func GetSessionSummaries() ([]SessionSummary, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(files))
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}

		summaries = append(summaries, SessionSummary{
			Session:      session,
			FilePath:     file,
			RelativeTime: formatRelativeTime(session.Metadata.Timestamp),
		})
	}

	return summaries, nil
}

func formatRelativeTime(t time.Time) string {
	duration := time.Since(t)
	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		return fmt.Sprintf("%d minute%s ago", mins, plural(mins))
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
