package core

import (
	"fmt"
	"path/filepath"
)

// EventKind classifies a status line emitted while processing files.
type EventKind int

const (
	EventNotRegular EventKind = iota
	EventNoCandidates
	EventAlreadyNamed
	EventCollision
	EventPlanned
	EventRenamed
	EventDeclined
	EventFailed
	EventAborted
	EventSkipped
)

var eventKindNames = map[EventKind]string{
	EventNotRegular:   "not-regular",
	EventNoCandidates: "no-candidates",
	EventAlreadyNamed: "already-named",
	EventCollision:    "collision",
	EventPlanned:      "planned",
	EventRenamed:      "renamed",
	EventDeclined:     "declined",
	EventFailed:       "failed",
	EventAborted:      "aborted",
	EventSkipped:      "skipped",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is reported at every decision point, before any state change.
type Event struct {
	Kind   EventKind
	Path   string // source file as given on the command line
	Target string // proposed or existing target path
	Show   string
	Err    error
}

// Message renders the event as a single status line.
func (e Event) Message() string {
	name := filepath.Base(e.Path)
	target := filepath.Base(e.Target)

	switch e.Kind {
	case EventNotRegular:
		return fmt.Sprintf("%s is not a regular file, skipping.", e.Path)
	case EventNoCandidates:
		return fmt.Sprintf("No candidates found for %s, skipping.", name)
	case EventAlreadyNamed:
		return fmt.Sprintf("%q is already named correctly, skipping.", name)
	case EventCollision:
		return fmt.Sprintf("%q already exists, skipping.", target)
	case EventPlanned:
		return fmt.Sprintf("%q -> %q", name, target)
	case EventRenamed:
		return fmt.Sprintf("Renamed %q", target)
	case EventDeclined:
		return fmt.Sprintf("Keeping %q", name)
	case EventFailed:
		if e.Err != nil {
			return fmt.Sprintf("Renaming %q failed: %v", name, e.Err)
		}
		return fmt.Sprintf("Renaming %q failed", name)
	case EventAborted:
		return "Aborted."
	case EventSkipped:
		return fmt.Sprintf("Skipping %q.", name)
	}
	return e.Kind.String()
}

// Reporter receives status events.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) { f(e) }

type discardReporter struct{}

func (discardReporter) Report(Event) {}
