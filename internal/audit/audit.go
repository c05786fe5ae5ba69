package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// TimestampFormat is RFC3339 in UTC with microseconds.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"`
	Operation string `json:"op"`

	// Optional fields depending on operation.
	Entry   string `json:"entry,omitempty"`   // Logical entry name.
	Backend string `json:"backend,omitempty"` // For new/edit/show.
	Dir     bool   `json:"dir,omitempty"`     // For archive/restore of a directory.
	Remote  string `json:"remote,omitempty"`  // For init.
	Synced  *bool  `json:"synced,omitempty"`  // For mutations; false when any git step failed.
}

// Log appends entries to a JSON Lines file.
// The zero value discards everything.
type Log struct {
	Path string
}

// New returns a log writing to path.
func New(path string) *Log {
	return &Log{Path: path}
}

// Record appends an entry. Failures are ignored; operations should not
// fail just because audit logging failed.
func (l *Log) Record(entry Entry) {
	if l == nil || l.Path == "" {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}

	if err := os.MkdirAll(filepath.Dir(l.Path), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// Entries reads all entries from the log.
// Returns an empty slice if the log doesn't exist.
func (l *Log) Entries() ([]Entry, error) {
	if l == nil || l.Path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(l.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// Bool returns a pointer for Entry.Synced.
func Bool(b bool) *bool { return &b }

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
