// SPDX-License-Identifier: MPL-2.0

// Package publish drives the release pipeline: tool checks, artifact
// cleanup, package build, integrity validation, upload to the test or
// production index, and the final follow-up report.
package publish

import (
	"errors"
	"fmt"
)

// ErrInvalidTarget is the sentinel error wrapped by InvalidTargetError.
var ErrInvalidTarget = errors.New("invalid publish target")

type (
	// Target selects the upload destination and its confirmation policy.
	Target string

	// InvalidTargetError is returned when a target argument is neither
	// "test" nor "prod".
	InvalidTargetError struct {
		Value string
	}
)

// Publish targets.
const (
	// TargetTest uploads to the test index. No confirmation required.
	TargetTest Target = "test"
	// TargetProduction uploads to the production index. Requires the
	// operator to type the literal confirmation "yes".
	TargetProduction Target = "prod"
)

// ParseTarget maps a CLI argument onto a Target. The empty string
// defaults to TargetTest.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "", string(TargetTest):
		return TargetTest, nil
	case string(TargetProduction):
		return TargetProduction, nil
	default:
		return "", &InvalidTargetError{Value: s}
	}
}

// Error implements the error interface for InvalidTargetError.
func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid publish target %q: expected \"test\" or \"prod\"", e.Value)
}

// Unwrap returns ErrInvalidTarget for errors.Is() compatibility.
func (e *InvalidTargetError) Unwrap() error { return ErrInvalidTarget }
