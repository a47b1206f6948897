package marketdata

import (
	"bufio"
	"encoding/json"
	"fmt"
)

// ProgressEvent is the discriminated union streamed by the long-running
// admin endpoints. Exactly one terminal event (completed or error) ends a
// stream; consumers key off the Kind field.
type ProgressEvent struct {
	Kind      string `json:"kind"`
	Message   string `json:"message,omitempty"`
	Page      int    `json:"page,omitempty"`
	Saved     int    `json:"saved,omitempty"`
	Scanned   int    `json:"scanned,omitempty"`
	Removed   int    `json:"removed,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
	Completed bool   `json:"completed,omitempty"`
	Error     bool   `json:"error,omitempty"`

	Summary interface{} `json:"summary,omitempty"`
}

const (
	EventScanning  = "scanning"
	EventPage      = "page"
	EventBatch     = "batch"
	EventCompleted = "completed"
	EventError     = "error"
)

func ScanningEvent(scanned int) ProgressEvent {
	return ProgressEvent{Kind: EventScanning, Scanned: scanned}
}

func PageEvent(page, saved int) ProgressEvent {
	return ProgressEvent{Kind: EventPage, Page: page, Saved: saved}
}

func BatchEvent(removed, remaining int) ProgressEvent {
	return ProgressEvent{Kind: EventBatch, Removed: removed, Remaining: remaining}
}

func CompletedEvent(summary interface{}) ProgressEvent {
	return ProgressEvent{Kind: EventCompleted, Completed: true, Summary: summary}
}

func ErrorEvent(message string) ProgressEvent {
	return ProgressEvent{Kind: EventError, Error: true, Message: message}
}

// WriteSSE serializes one event as a text/event-stream data frame and
// flushes it so clients see progress as it happens.
func WriteSSE(w *bufio.Writer, event ProgressEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}
