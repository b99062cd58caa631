package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// errNoTerminal is returned when a secret is needed but stdin cannot
// hide the input.
var errNoTerminal = errors.New("stdin is not a terminal")

type prompter struct {
	out      io.Writer
	terminal bool
	// readSecret reads one line without echo.
	readSecret func() ([]byte, error)
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	p := &prompter{out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		p.terminal = true
		p.readSecret = func() ([]byte, error) { return term.ReadPassword(fd) }
	}
	return p
}

// secret asks question and reads the answer with echo disabled.
func (p *prompter) secret(question string) (string, error) {
	if !p.terminal {
		return "", errNoTerminal
	}
	_, _ = fmt.Fprintf(p.out, "%s (input will be hidden): ", question)
	b, err := p.readSecret()
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read from terminal: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
