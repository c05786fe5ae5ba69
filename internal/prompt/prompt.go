// Package prompt reads answers from the operator.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks questions on Out and reads answers from In.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// fd is the terminal file descriptor behind In, or -1.
	fd int
}

// New returns a Prompter. When in is a terminal, Password hides input.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
	}
	return p
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks a yes/no question. An empty answer returns def.
func (p *Prompter) Confirm(question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		fmt.Fprintf(p.out, "%s %s: ", question, hint)
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

// Input asks for a single line. Surrounding whitespace is trimmed and an
// empty answer is valid.
func (p *Prompter) Input(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// Choose asks until the answer matches one of options (case-insensitive).
func (p *Prompter) Choose(question string, options []string) (string, error) {
	fmt.Fprintln(p.out, question)
	for {
		fmt.Fprintf(p.out, "Choose one [%s]: ", strings.Join(options, "/"))
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		for _, opt := range options {
			if answer == strings.ToLower(opt) {
				return opt, nil
			}
		}
		fmt.Fprintf(p.out, "Please type one of: %s\n", strings.Join(options, ", "))
	}
}

// Password reads a single line. Input is hidden on a terminal unless echo
// is set. Trailing whitespace is removed.
func (p *Prompter) Password(question string, echo bool) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)

	if !echo && p.fd >= 0 {
		secret, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(string(secret), " \t\r\n"), nil
	}

	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(answer, " \t"), nil
}
