package marketdata

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteSSEFraming(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	if err := WriteSSE(w, BatchEvent(500, 120)); err != nil {
		t.Fatalf("WriteSSE() error = %v", err)
	}
	if err := WriteSSE(w, CompletedEvent(DedupSummary{Total: 620, DuplicatesRemoved: 500, UniqueRemaining: 120})); err != nil {
		t.Fatalf("WriteSSE() error = %v", err)
	}

	frames := strings.Split(strings.TrimSuffix(buf.String(), "\n\n"), "\n\n")
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}

	for _, frame := range frames {
		if !strings.HasPrefix(frame, "data: ") {
			t.Errorf("frame missing data prefix: %q", frame)
		}
		var ev ProgressEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(frame, "data: ")), &ev); err != nil {
			t.Errorf("frame is not valid JSON: %v", err)
		}
	}

	var last ProgressEvent
	json.Unmarshal([]byte(strings.TrimPrefix(frames[1], "data: ")), &last)
	if !last.Completed {
		t.Errorf("terminal frame completed = false, want true")
	}
}

func TestErrorEventShape(t *testing.T) {
	payload, err := json.Marshal(ErrorEvent("upstream timed out"))
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]interface{}
	json.Unmarshal(payload, &decoded)

	if decoded["error"] != true {
		t.Errorf("error flag = %v, want true", decoded["error"])
	}
	if decoded["message"] != "upstream timed out" {
		t.Errorf("message = %v", decoded["message"])
	}
	if _, ok := decoded["completed"]; ok {
		t.Errorf("error frame should not carry completed flag")
	}
}
