package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
)

// withJournal isolates HOME and the package globals for one test.
func withJournal(t *testing.T, enabled bool) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	originalLoggingEnabled := loggingEnabled
	t.Cleanup(func() {
		loggingEnabled = originalLoggingEnabled
		currentSession = nil
	})
	loggingEnabled = enabled
	currentSession = nil
	return home
}

func TestLogSession(t *testing.T) {
	withJournal(t, true)

	if err := StartSession("tvrename", []string{"--ask", "ep1.mkv"}); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if currentSession == nil {
		t.Fatal("StartSession() should have created a session")
	}

	meta := currentSession.Metadata
	if diff := cmp.Diff([]string{"tvrename", "--ask", "ep1.mkv"}, meta.CommandArgs); diff != "" {
		t.Errorf("CommandArgs mismatch (-want +got):\n%s", diff)
	}
	if _, err := uuid.Parse(meta.SessionID); err != nil {
		t.Errorf("SessionID %q is not a UUID: %v", meta.SessionID, err)
	}
}

func TestLogOperations(t *testing.T) {
	withJournal(t, true)

	if err := StartSession("tvrename", nil); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}

	LogRename("/tv/old.mkv", "/tv/new.mkv", true, nil)
	LogRename("/tv/a.mkv", "/tv/b.mkv", false, os.ErrPermission)

	ops := currentSession.Operations
	if len(ops) != 2 {
		t.Fatalf("len(Operations) = %d, want 2", len(ops))
	}
	if ops[0].Type != OpRename || !ops[0].Success || ops[0].Error != "" {
		t.Errorf("first operation = %+v", ops[0])
	}
	if ops[1].Success || ops[1].Error != os.ErrPermission.Error() {
		t.Errorf("second operation = %+v, want failure with error text", ops[1])
	}
	if ops[0].ID == ops[1].ID {
		t.Errorf("operation IDs not unique: %q", ops[0].ID)
	}
}

func TestLogRenameRecordsAbsolutePaths(t *testing.T) {
	withJournal(t, true)
	dir := t.TempDir()
	t.Chdir(dir)

	if err := StartSession("tvrename", nil); err != nil {
		t.Fatal(err)
	}
	LogRename("ep1.mkv", "Show - S01E01 - Pilot.mkv", true, nil)

	op := currentSession.Operations[0]
	if !filepath.IsAbs(op.SourcePath) || !filepath.IsAbs(op.DestPath) {
		t.Errorf("paths not absolute: %q -> %q", op.SourcePath, op.DestPath)
	}
}

func TestEndSessionWritesJournal(t *testing.T) {
	home := withJournal(t, true)

	if err := StartSession("tvrename", []string{"ep1.mkv"}); err != nil {
		t.Fatal(err)
	}
	LogRename("/tv/ep1.mkv", "/tv/Show - S01E01 - Pilot.mkv", true, nil)
	LogRename("/tv/ep2.mkv", "/tv/Show - S01E02 - Two.mkv", false, os.ErrExist)

	if err := EndSession(); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	if currentSession != nil {
		t.Error("EndSession() left session active")
	}

	files, _ := filepath.Glob(filepath.Join(home, ".tvrename", "logs", "*.json"))
	if len(files) != 1 {
		t.Fatalf("journal files = %v, want exactly one", files)
	}

	session, err := ReadSession(files[0])
	if err != nil {
		t.Fatal(err)
	}
	meta := session.Metadata
	if meta.TotalOps != 2 || meta.SuccessfulOps != 1 || meta.FailedOps != 1 {
		t.Errorf("stats = %d/%d/%d, want 2/1/1", meta.TotalOps, meta.SuccessfulOps, meta.FailedOps)
	}
}

func TestEndSessionSkipsEmptySession(t *testing.T) {
	home := withJournal(t, true)

	if err := StartSession("tvrename", nil); err != nil {
		t.Fatal(err)
	}
	if err := EndSession(); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}

	files, _ := filepath.Glob(filepath.Join(home, ".tvrename", "logs", "*.json"))
	if len(files) != 0 {
		t.Errorf("empty session written: %v", files)
	}
}

func TestSessionSerialization(t *testing.T) {
	withJournal(t, true)

	session := &LogSession{
		Metadata: SessionMetadata{
			CommandArgs:   []string{"tvrename", "ep1.mkv"},
			WorkingDir:    "/tv",
			Timestamp:     time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
			SessionID:     "0b7e3a1c-0000-4000-8000-000000000001",
			TotalOps:      1,
			SuccessfulOps: 1,
		},
		Operations: []OperationLog{
			{
				ID:         "op-1",
				Timestamp:  time.Date(2024, time.March, 1, 12, 0, 1, 0, time.UTC),
				Type:       OpRename,
				SourcePath: "/tv/ep1.mkv",
				DestPath:   "/tv/Show - S01E01 - Pilot.mkv",
				Success:    true,
			},
		},
	}

	path, err := WriteSession(session)
	if err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}
	if got := filepath.Base(path); got != "2024-03-01_120000.000.json" {
		t.Errorf("file name = %q", got)
	}

	readSession, err := ReadSession(path)
	if err != nil {
		t.Fatalf("ReadSession() failed: %v", err)
	}

	if diff := cmp.Diff(session, readSession); diff != "" {
		t.Errorf("Session mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionSummariesNewestFirst(t *testing.T) {
	withJournal(t, true)

	for i, id := range []string{"older", "newer"} {
		_, err := WriteSession(&LogSession{Metadata: SessionMetadata{
			SessionID: id,
			Timestamp: time.Date(2024, time.January, 1+i, 0, 0, 0, 0, time.UTC),
		}})
		if err != nil {
			t.Fatal(err)
		}
	}

	summaries, err := GetSessionSummaries()
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, s := range summaries {
		ids = append(ids, s.Session.Metadata.SessionID)
	}
	if diff := cmp.Diff([]string{"newer", "older"}, ids); diff != "" {
		t.Errorf("GetSessionSummaries() order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoggingDisabled(t *testing.T) {
	withJournal(t, false)

	if err := StartSession("tvrename", nil); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if currentSession != nil {
		t.Error("Session should not be created when logging is disabled")
	}

	LogRename("old.mkv", "new.mkv", true, nil)
	if currentSession != nil {
		t.Error("Operations should not create session when logging disabled")
	}

	if err := EndSession(); err != nil {
		t.Errorf("EndSession() with logging disabled error = %v, want nil", err)
	}
}

func TestInitializeCleansOldLogs(t *testing.T) {
	home := withJournal(t, false)
	logDir := filepath.Join(home, ".tvrename", "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatal(err)
	}

	oldFile := filepath.Join(logDir, "2020-01-01_000000.000.json")
	newFile := filepath.Join(logDir, "2099-01-01_000000.000.json")
	for _, f := range []string{oldFile, newFile} {
		if err := os.WriteFile(f, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().AddDate(0, 0, -40)
	if err := os.Chtimes(oldFile, past, past); err != nil {
		t.Fatal(err)
	}

	if err := Initialize(true, 30); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if !Enabled() {
		t.Error("Enabled() = false after Initialize(true, 30)")
	}

	files, _ := filepath.Glob(filepath.Join(logDir, "*.json"))
	if diff := cmp.Diff([]string{newFile}, files, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("remaining files mismatch (-want +got):\n%s", diff)
	}

	if err := Initialize(false, 30); err != nil {
		t.Fatal(err)
	}
	if Enabled() {
		t.Error("Enabled() = true after Initialize(false, 30)")
	}
}
