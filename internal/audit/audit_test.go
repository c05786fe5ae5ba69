package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRecord_CreatesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "audit.jsonl")

	New(logPath).Record(Entry{Operation: "new", Entry: "mail/example.com"})

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Audit log file was not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected permissions 0600, got %o", perm)
	}
}

func TestRecord_AppendsEntries(t *testing.T) {
	log := New(filepath.Join(t.TempDir(), "audit.jsonl"))

	log.Record(Entry{Operation: "new", Entry: "a"})
	log.Record(Entry{Operation: "edit", Entry: "a", Synced: Bool(false)})
	log.Record(Entry{Operation: "remove", Entry: "a", Synced: Bool(true)})

	entries, err := log.Entries()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	ops := []string{"new", "edit", "remove"}
	for i, e := range entries {
		if e.Operation != ops[i] {
			t.Errorf("Entry %d: expected op %q, got %q", i, ops[i], e.Operation)
		}
		if _, err := uuid.Parse(e.ID); err != nil {
			t.Errorf("Entry %d: expected a UUID, got %q", i, e.ID)
		}
		if e.Timestamp == "" {
			t.Errorf("Entry %d: timestamp not set", i)
		}
	}
	if entries[0].Synced != nil {
		t.Errorf("Expected synced to be omitted for entry 0")
	}
	if entries[1].Synced == nil || *entries[1].Synced {
		t.Errorf("Expected synced=false for entry 1")
	}
}

func TestRecord_OmitsEmptyFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	New(logPath).Record(Entry{Operation: "init", Timestamp: "2026-01-02T03:04:05.000000Z"})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &raw); err != nil {
		t.Fatalf("Failed to parse line: %v", err)
	}
	for _, key := range []string{"entry", "backend", "dir", "remote", "synced"} {
		if _, ok := raw[key]; ok {
			t.Errorf("Expected %q to be omitted", key)
		}
	}
	if raw["ts"] != "2026-01-02T03:04:05.000000Z" {
		t.Errorf("Expected timestamp to be preserved, got %v", raw["ts"])
	}
}

func TestRecord_NoPathIsNoop(t *testing.T) {
	var log *Log
	log.Record(Entry{Operation: "new"})
	(&Log{}).Record(Entry{Operation: "new"})

	entries, err := log.Entries()
	if err != nil || entries != nil {
		t.Errorf("Expected no entries and no error, got %v, %v", entries, err)
	}
}

func TestEntries_MissingFile(t *testing.T) {
	entries, err := New(filepath.Join(t.TempDir(), "missing.jsonl")).Entries()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}

func TestParseEntries_SkipsMalformed(t *testing.T) {
	data := []byte(`{"op":"new","entry":"a"}
not json
{"op":"remove","entry":"b"}

`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[1].Entry != "b" {
		t.Errorf("Expected second entry 'b', got %q", entries[1].Entry)
	}
}

func TestParseEntries_Empty(t *testing.T) {
	entries, err := ParseEntries(nil)
	if err != nil || entries != nil {
		t.Errorf("Expected nil, nil; got %v, %v", entries, err)
	}
}
