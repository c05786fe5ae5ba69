// Package audit records passman operations in a local trail.
//
// The log lives next to the keys at <base_dir>/audit.jsonl, outside the
// vault, so it is never committed or pushed. One JSON object per line:
//
//	{"id":"…","ts":"2026-01-02T03:04:05.000000Z","op":"new","entry":"mail/example.com","backend":"rage","synced":true}
//
// Entry names are recorded, secrets never are.
//
// Logging is best-effort. Record swallows every failure; reading skips
// malformed lines left by partial writes.
package audit
