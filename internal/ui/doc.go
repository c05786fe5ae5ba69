// Package ui provides semantic text formatting for CLI output.
//
// Formatters colorize content when the terminal supports it. When NO_COLOR
// is set or color is unavailable, text decorations are used instead:
//
//	ui.Code.Sprint("passman init")        // `passman init`
//	ui.Entry.Sprint("mail/example.com")   // 'mail/example.com'
//	ui.Muted.Sprint("archived")           // (archived)
package ui
