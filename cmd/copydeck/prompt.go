package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer gates destructive operations behind a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Prompter asks for a line of text, returned without its line terminator.
// An empty answer means the user backed out.
type Prompter interface {
	Prompt(question string) (string, error)
}

// linePrompt asks questions on out and reads answers line by line from in.
type linePrompt struct {
	in  *bufio.Reader
	out io.Writer
}

func newLinePrompt(in io.Reader, out io.Writer) *linePrompt {
	return &linePrompt{in: bufio.NewReader(in), out: out}
}

func (p *linePrompt) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *linePrompt) Prompt(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)
	return p.readLine()
}

// readLine returns the next line without its terminator. End of input counts
// as an empty answer.
func (p *linePrompt) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// alwaysYes backs --yes.
type alwaysYes struct{}

func (alwaysYes) Confirm(string) (bool, error) { return true, nil }
