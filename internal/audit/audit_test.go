package audit

import (
	"testing"
	"time"
)

func TestRecordAndEntries(t *testing.T) {
	r := NewRecorder()
	fixed := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	r.SetClock(func() time.Time { return fixed })

	e := r.Record("capture", map[string]string{"text": "buy milk"}, "capture_task", "")
	if e.ID == "" {
		t.Error("entry id should not be empty")
	}
	if e.InputsHash == "" || e.InputsHash == "hash_error" {
		t.Errorf("Expected a real inputs hash, got %q", e.InputsHash)
	}
	if !e.Timestamp.Equal(fixed) {
		t.Errorf("Expected timestamp from clock, got %v", e.Timestamp)
	}

	entries := r.Entries()
	if len(entries) != 1 || entries[0].Action != "capture" {
		t.Errorf("Expected 1 capture entry, got %+v", entries)
	}
}

func TestSameInputsSameHash(t *testing.T) {
	r := NewRecorder()
	a := r.Record("capture", map[string]string{"text": "x"}, "ok", "")
	b := r.Record("capture", map[string]string{"text": "x"}, "ok", "")
	if a.InputsHash != b.InputsHash {
		t.Error("identical inputs must hash identically")
	}
	if a.ID == b.ID {
		t.Error("entries must get distinct ids")
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	r := NewRecorder()
	r.Record("capture", nil, "ok", "")
	entries := r.Entries()
	entries[0].Action = "mutated"
	if r.Entries()[0].Action != "capture" {
		t.Error("mutating the returned slice must not affect the trail")
	}
}
