// Package logger provides leveled logging for passman commands.
//
// Output is formatted with colored prefixes from fatih/color.
//
// # Verbosity Levels
//
//   - --verbose: shows info messages
//   - --debug: shows info and debug messages
//
// Warnings and errors are always written to stderr. The sync engine relies
// on this: a failed git step is reported through Warnf even when the
// command otherwise runs quietly.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Encrypting %s", path)
package logger
