// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type (
	// Confirmer asks the operator for the production go-ahead. It is an
	// injectable capability so tests can script the answer.
	Confirmer interface {
		// Confirm presents prompt and reports whether the operator
		// typed the literal confirmation "yes". Any other input,
		// including EOF, declines.
		Confirm(prompt string) (bool, error)
	}

	// ReaderConfirmer reads one line from In and compares it against the
	// literal "yes". This deliberately stays a plain line read rather
	// than a y/n toggle: the production upload is irreversible and the
	// operator must type the word out.
	ReaderConfirmer struct {
		In  io.Reader
		Out io.Writer
	}
)

// Confirm implements Confirmer.
func (c *ReaderConfirmer) Confirm(prompt string) (bool, error) {
	fmt.Fprint(c.Out, prompt)
	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && line == "" {
		// EOF without input declines, it does not error out.
		return false, nil
	}
	return strings.TrimSpace(line) == "yes", nil
}
