package log

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFileLoggerWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.cbor")

	fl, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}

	fl.Log(Event{Timestamp: time.Now(), ConnectionID: "a", Category: CategoryState,
		StateChange: &StateChangeEvent{Entity: "session", NewState: "Connected"}})
	fl.Log(Event{Timestamp: time.Now(), ConnectionID: "a", Category: CategoryError,
		Error: &ErrorEventData{Message: "boom"}})

	if err := fl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Log after close must not panic or reopen the file.
	fl.Log(Event{})

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	count := 0
	for {
		_, err := r.Next()
		if err != nil {
			break
		}
		count++
	}
	if count != 2 {
		t.Fatalf("read %d events, want 2", count)
	}
}

func TestReaderFilterByCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.cbor")
	fl, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	fl.Log(Event{Timestamp: time.Now(), Category: CategoryState})
	fl.Log(Event{Timestamp: time.Now(), Category: CategoryError})
	fl.Close()

	want := CategoryError
	r, err := NewFilteredReader(path, Filter{Category: &want})
	if err != nil {
		t.Fatalf("NewFilteredReader: %v", err)
	}
	defer r.Close()

	event, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if event.Category != CategoryError {
		t.Errorf("Category = %v, want Error", event.Category)
	}
}
