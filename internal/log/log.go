// Package log keeps an optional journal of the renames performed by a run so
// they can be reverted later with "tvrename undo".
package log

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

type OperationType string

const (
	OpRename OperationType = "rename"
)

type OperationLog struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	Type       OperationType `json:"type"`
	SourcePath string        `json:"source_path"`
	DestPath   string        `json:"dest_path,omitempty"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
}

type SessionMetadata struct {
	CommandArgs   []string  `json:"command_args"`
	WorkingDir    string    `json:"working_dir"`
	Timestamp     time.Time `json:"timestamp"`
	SessionID     string    `json:"session_id"`
	TotalOps      int       `json:"total_operations"`
	SuccessfulOps int       `json:"successful_operations"`
	FailedOps     int       `json:"failed_operations"`
}

type LogSession struct {
	Metadata   SessionMetadata `json:"metadata"`
	Operations []OperationLog  `json:"operations"`
}

// ErrLocked is returned when another process holds the journal lock.
var ErrLocked = errors.New("journal is in use by another tvrename process")

// Global singleton session manager. Journaling is off until Initialize
// enables it.
var (
	currentSession *LogSession
	sessionMutex   sync.Mutex
	loggingEnabled = false
)

// StartSession initializes a new logging session
func StartSession(command string, args []string) error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled {
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	currentSession = &LogSession{
		Metadata: SessionMetadata{
			CommandArgs: append([]string{command}, args...),
			WorkingDir:  wd,
			Timestamp:   time.Now(),
			SessionID:   uuid.NewString(),
		},
		Operations: []OperationLog{},
	}

	return nil
}

// EndSession saves the current session to disk. Sessions without
// operations are dropped.
func EndSession() error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled || currentSession == nil {
		return nil
	}

	session := currentSession
	currentSession = nil
	if len(session.Operations) == 0 {
		return nil
	}

	updateStats(session)
	_, err := WriteSession(session)
	return err
}

// LogRename logs a rename operation
func LogRename(sourcePath, destPath string, success bool, err error) {
	LogOperation(OpRename, sourcePath, destPath, success, err)
}

// LogOperation logs a generic operation to the current session
func LogOperation(opType OperationType, sourcePath, destPath string, success bool, err error) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled || currentSession == nil {
		return
	}

	op := OperationLog{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		Type:       opType,
		SourcePath: absPath(sourcePath),
		DestPath:   absPath(destPath),
		Success:    success,
	}

	if err != nil {
		op.Error = err.Error()
	}

	currentSession.Operations = append(currentSession.Operations, op)
}

// absPath records paths absolutely so undo works from any directory.
func absPath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// updateStats updates the session statistics
func updateStats(session *LogSession) {
	successful := 0
	failed := 0

	for _, op := range session.Operations {
		if op.Success {
			successful++
		} else {
			failed++
		}
	}

	session.Metadata.TotalOps = len(session.Operations)
	session.Metadata.SuccessfulOps = successful
	session.Metadata.FailedOps = failed
}

// Initialize enables or disables journaling. When enabled, journal files
// older than retentionDays are removed; a non-positive value keeps them all.
func Initialize(enabled bool, retentionDays int) error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	loggingEnabled = enabled
	if !enabled {
		return nil
	}
	return cleanupOldLogsUnsafe(retentionDays)
}

// Enabled reports whether journaling is on.
func Enabled() bool {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()
	return loggingEnabled
}

// LogDir returns the journal directory without creating it.
func LogDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".tvrename", "logs"), nil
}

// lockJournal takes the journal directory lock. With wait unset it fails
// with ErrLocked instead of blocking.
func lockJournal(logDir string, wait bool) (*flock.Flock, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lock := flock.New(filepath.Join(logDir, ".lock"))
	if wait {
		if err := lock.Lock(); err != nil {
			return nil, fmt.Errorf("lock journal: %w", err)
		}
		return lock, nil
	}

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock journal: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return lock, nil
}

// WriteSession stores session as a new JSON file in the journal directory
// and returns its path.
func WriteSession(session *LogSession) (string, error) {
	if session == nil {
		return "", nil
	}

	logDir, err := LogDir()
	if err != nil {
		return "", err
	}

	lock, err := lockJournal(logDir, true)
	if err != nil {
		return "", err
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	ts := session.Metadata.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	logPath := filepath.Join(logDir, fmt.Sprintf("%s.%03d.json",
		ts.Format("2006-01-02_150405"),
		ts.Nanosecond()/1000000))

	if err := os.WriteFile(logPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write log file: %w", err)
	}

	return logPath, nil
}

func ReadSession(logPath string) (*LogSession, error) {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var session LogSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// sessionFiles lists journal files newest first.
func sessionFiles() ([]string, error) {
	logDir, err := LogDir()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(logDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}

	// File names start with the timestamp.
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

// cleanupOldLogsUnsafe performs cleanup without acquiring mutex (assumes caller holds it)
func cleanupOldLogsUnsafe(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}

	files, err := sessionFiles()
	if err != nil {
		return err
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	var errs []error
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil {
				errs = append(errs, fmt.Errorf("remove old log file %s: %w", file, err))
			}
		}
	}

	return errors.Join(errs...)
}
