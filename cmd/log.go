package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/passman/internal/audit"
	kerrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/ui"
	"github.com/PolarWolf314/passman/internal/workflows"
)

var (
	logLimit     int
	logReverse   bool
	logEntry     string
	logOperation string
	logSince     string
	logOneline   bool
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logEntry, "entry", "", "filter by entry name or directory")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "compact one-line format")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logEntry = ""
	logOperation = ""
	logSince = ""
	logOneline = false
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the local audit log of vault operations.

Examples:
  passman log                          # View full log
  passman log -n 10                    # Last 10 entries
  passman log --reverse                # Most recent first
  passman log --entry mail             # Entries under mail/
  passman log --operation new,remove   # Filter by operation
  passman log --since 2024-01-01       # Filter by date
  passman log --json                   # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	deps, err := loadDeps(cmd)
	if err != nil {
		return err
	}

	result, err := workflows.Log(cmd.Context(), deps, workflows.LogOptions{
		Limit:      logLimit,
		Reverse:    logReverse,
		Entry:      logEntry,
		Operations: logOperation,
		Since:      logSince,
	})
	out := cmd.OutOrStdout()
	if err != nil {
		if errors.Is(err, kerrors.ErrNotFound) {
			fmt.Fprintln(out, ui.Info.Sprint("ℹ")+" No audit log found. Operations are logged as you use the vault.")
			return nil
		}
		return err
	}

	Logger.Debugf("Parsed %d entries from audit log", result.TotalEntriesBeforeFilter)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Fprintln(out, "No audit log entries found.")
		} else {
			fmt.Fprintln(out, "No audit log entries found matching the filters.")
		}
		return nil
	}

	switch {
	case logJSON:
		return outputLogJSON(out, result.Entries)
	case logOneline:
		outputLogOneline(out, result.Entries)
	default:
		outputLogDefault(out, result.Entries)
	}
	return nil
}

func outputLogJSON(w io.Writer, entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func outputLogOneline(w io.Writer, entries []audit.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s %s\n", formatDate(e.Timestamp), e.Operation, formatDetails(e))
	}
}

func outputLogDefault(w io.Writer, entries []audit.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%-19s  %-10s  %s\n", formatDateTime(e.Timestamp), e.Operation, formatDetails(e))
	}
}

func parseTimestamp(ts string) (time.Time, bool) {
	t, err := time.Parse(audit.TimestampFormat, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err == nil
}

// formatDate returns the date part of a timestamp in local time.
func formatDate(ts string) string {
	if t, ok := parseTimestamp(ts); ok {
		return t.Local().Format("2006-01-02")
	}
	return ts
}

func formatDateTime(ts string) string {
	if t, ok := parseTimestamp(ts); ok {
		return t.Local().Format("2006-01-02 15:04:05")
	}
	return ts
}

// formatDetails renders the operation-specific fields of an entry.
func formatDetails(e audit.Entry) string {
	var parts []string
	if e.Entry != "" {
		name := e.Entry
		if e.Dir {
			name += "/"
		}
		parts = append(parts, name)
	}
	if e.Backend != "" {
		parts = append(parts, "("+e.Backend+")")
	}
	if e.Remote != "" {
		parts = append(parts, "remote="+e.Remote)
	}
	if e.Synced != nil && !*e.Synced {
		parts = append(parts, "[not synced]")
	}
	return strings.Join(parts, " ")
}
