// Package review provides interactive prompts for manual checking of
// gender assignments and record removals.
package review

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/gender"
)

// Terminal prompts a human reviewer over a reader/writer pair, typically
// stdin and stdout.
type Terminal struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewTerminal creates a Terminal reviewer.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{scanner: bufio.NewScanner(in), out: out}
}

// ConfirmGender asks the reviewer to classify a name. It loops until one of
// the accepted answers is given or input runs out.
func (t *Terminal) ConfirmGender(fullName string) (gender.Verdict, error) {
	for {
		fmt.Fprintf(t.out, "Gender of %s? [f/m/nb/u]: ", fullName)
		line, err := t.readLine()
		if err != nil {
			return gender.Unknown, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "f", "female":
			return gender.Female, nil
		case "m", "male":
			return gender.Male, nil
		case "nb", "non-binary", "nonbinary":
			return gender.NonBinary, nil
		case "u", "unknown", "":
			return gender.Unknown, nil
		}
		fmt.Fprintln(t.out, "Please answer f, m, nb or u.")
	}
}

// ConfirmRemoval asks whether a record summary should be removed.
func (t *Terminal) ConfirmRemoval(summary string) (bool, error) {
	fmt.Fprintf(t.out, "Remove %q? [y/N]: ", summary)
	line, err := t.readLine()
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func (t *Terminal) readLine() (string, error) {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return t.scanner.Text(), nil
}
