// Package prompt reads interactive answers from a line-oriented console.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoAnswer is returned when input ends before a valid answer was given
var ErrNoAnswer = errors.New("no answer: input closed")

// Reprompt is printed after an answer that is neither yes nor no
const Reprompt = "Please respond with 'yes' or 'no'."

var (
	affirmative = map[string]bool{"yes": true, "y": true, "ye": true}
	negative    = map[string]bool{"no": true, "n": true}
)

// Confirmer asks a yes/no question
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Console implements Confirmer and free-text questions over a reader and writer
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole creates a console prompt
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Ask prints question and returns the next input line without its line ending
func (c *Console) Ask(question string) (string, error) {
	fmt.Fprint(c.out, question)

	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", ErrNoAnswer
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm blocks until the user answers yes or no. Anything else re-prompts.
// Only an explicit affirmative returns true.
func (c *Console) Confirm(question string) (bool, error) {
	for {
		answer, err := c.Ask(question)
		if err != nil {
			return false, err
		}

		switch normalized := strings.ToLower(strings.TrimSpace(answer)); {
		case affirmative[normalized]:
			return true, nil
		case negative[normalized]:
			return false, nil
		default:
			fmt.Fprintln(c.out, Reprompt)
		}
	}
}
