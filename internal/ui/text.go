package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Formatter styles one kind of output text. Without color the text is
// wrapped in the open and close marks instead.
type Formatter struct {
	style       *color.Color
	open, close string
}

// Sprint formats a like fmt.Sprint and styles the result.
func (f Formatter) Sprint(a ...interface{}) string {
	text := fmt.Sprint(a...)
	if plain() {
		return f.open + text + f.close
	}
	return f.style.Sprint(text)
}

// EnsureNewline appends a newline unless s already ends with one.
func EnsureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// plain reports whether NO_COLOR is set or fatih/color found no terminal.
func plain() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return true
	}
	return color.NoColor
}

func marked(open, close string, attrs ...color.Attribute) Formatter {
	return Formatter{style: color.New(attrs...), open: open, close: close}
}

var (
	// Code is for runnable commands, `quoted` without color.
	Code = marked("`", "`", color.FgYellow)
	Path = marked("", "", color.FgYellow)
	// Entry is for logical names such as mail/example.com, 'quoted'
	// without color.
	Entry = marked("'", "'", color.FgCyan, color.Bold)

	Success = marked("", "", color.FgGreen)
	Error   = marked("", "", color.FgRed)
	Warning = marked("", "", color.FgYellow)
	Info    = marked("", "", color.FgCyan)

	// Tree colors the branch glyphs of list output.
	Tree = marked("", "", color.FgHiBlack)
	// Muted is for secondary text, (bracketed) without color.
	Muted = marked("(", ")", color.FgHiBlack)
)
