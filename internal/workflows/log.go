package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/passman/internal/audit"
	kerrors "github.com/PolarWolf314/passman/internal/errors"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// Entry filters by entry name prefix, e.g. "mail" or "mail/example.com".
	Entry string

	// Operations filters entries by operation types (comma-separated).
	Operations string

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters the audit trail.
//
// Returns ErrNotFound if no audit log exists.
func Log(ctx context.Context, d *Deps, opts LogOptions) (*LogResult, error) {
	entries, err := d.Audit.Entries()
	if err != nil {
		return nil, fmt.Errorf("%w: reading audit log: %v", kerrors.ErrIO, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: no audit log at %s", kerrors.ErrNotFound, d.Config.AuditLogPath)
	}

	result := &LogResult{TotalEntriesBeforeFilter: len(entries)}
	filtered := entries

	if opts.Entry != "" {
		filtered = filterByEntry(filtered, strings.Trim(opts.Entry, "/"))
	}

	if opts.Operations != "" {
		ops := strings.Split(opts.Operations, ",")
		for i := range ops {
			ops[i] = strings.TrimSpace(ops[i])
		}
		filtered = filterByOperations(filtered, ops)
	}

	if opts.Since != "" {
		since, err := time.Parse("2006-01-02", opts.Since)
		if err != nil {
			return nil, fmt.Errorf("--since date format invalid, use YYYY-MM-DD: %w", err)
		}
		filtered = filterSince(filtered, since)
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			// When reversed, limit takes first N (most recent).
			filtered = filtered[:opts.Limit]
		} else {
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	result.Entries = filtered
	return result, nil
}

// filterByEntry keeps entries whose name equals prefix or lies below it.
func filterByEntry(entries []audit.Entry, prefix string) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		if e.Entry == prefix || strings.HasPrefix(e.Entry, prefix+"/") {
			result = append(result, e)
		}
	}
	return result
}

func filterByOperations(entries []audit.Entry, ops []string) []audit.Entry {
	opSet := make(map[string]bool)
	for _, op := range ops {
		opSet[strings.ToLower(op)] = true
	}

	var result []audit.Entry
	for _, e := range entries {
		if opSet[strings.ToLower(e.Operation)] {
			result = append(result, e)
		}
	}
	return result
}

func filterSince(entries []audit.Entry, since time.Time) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		t, err := time.Parse(audit.TimestampFormat, e.Timestamp)
		if err != nil {
			t, err = time.Parse(time.RFC3339, e.Timestamp)
		}
		if err != nil {
			continue
		}
		if !t.Before(since) {
			result = append(result, e)
		}
	}
	return result
}
