package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Terminal is the line-oriented surface shared by the menu and the controller.
type Terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewScanner(in), out: out}
}

// Prompt writes text and reads one line. io.EOF is returned once input is exhausted.
func (t *Terminal) Prompt(text string) (string, error) {
	if _, err := io.WriteString(t.out, text); err != nil {
		return "", err
	}

	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return strings.TrimSpace(t.in.Text()), nil
}

func (t *Terminal) Send(text string) error {
	_, err := io.WriteString(t.out, text)
	return err
}

func (t *Terminal) Sendf(format string, args ...any) error {
	_, err := fmt.Fprintf(t.out, format, args...)
	return err
}
