// SPDX-License-Identifier: MPL-2.0

// Package version owns the authoritative release version of the chaos-sdk
// package: the VersionString grammar and the Store that keeps the two
// on-disk copies (pyproject.toml and chaos_sdk/__init__.py) in lockstep.
package version

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/mod/semver"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid version format")

// versionPattern is the accepted grammar: MAJOR.MINOR.PATCH with an
// optional pre-release suffix aN, bN or rcN (PEP 440 style, as the
// Python package declares it).
var versionPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+(a|b|rc)?[0-9]*$`)

// suffixPattern splits a valid version into its release and pre-release parts.
var suffixPattern = regexp.MustCompile(`^([0-9]+\.[0-9]+\.[0-9]+)(a|b|rc)([0-9]*)$`)

type (
	// VersionString is a release version in MAJOR.MINOR.PATCH[{a|b|rc}N]
	// form. The zero value ("") is invalid.
	VersionString string

	// Channel identifies the pre-release channel a version belongs to.
	Channel string

	// InvalidFormatError is returned when a VersionString does not match
	// the accepted grammar.
	InvalidFormatError struct {
		Value VersionString
	}
)

// Pre-release channels.
const (
	ChannelStable           Channel = "stable"
	ChannelAlpha            Channel = "alpha"
	ChannelBeta             Channel = "beta"
	ChannelReleaseCandidate Channel = "rc"
)

// String returns the string representation of the VersionString.
func (v VersionString) String() string { return string(v) }

// IsValid returns whether the VersionString matches the accepted grammar.
func (v VersionString) IsValid() (bool, []error) {
	if !versionPattern.MatchString(string(v)) {
		return false, []error{&InvalidFormatError{Value: v}}
	}
	return true, nil
}

// Validate returns an error if the VersionString does not match the grammar.
func (v VersionString) Validate() error {
	if ok, _ := v.IsValid(); !ok {
		return &InvalidFormatError{Value: v}
	}
	return nil
}

// Channel returns the pre-release channel of the version.
// Invalid versions report ChannelStable.
func (v VersionString) Channel() Channel {
	m := suffixPattern.FindStringSubmatch(string(v))
	if m == nil {
		return ChannelStable
	}
	switch m[2] {
	case "a":
		return ChannelAlpha
	case "b":
		return ChannelBeta
	default:
		return ChannelReleaseCandidate
	}
}

// TagName returns the version-control tag for this version ("v" + version).
func (v VersionString) TagName() string { return "v" + string(v) }

// Canonical maps the version onto canonical semver so that two
// VersionStrings can be ordered with golang.org/x/mod/semver. The PEP 440
// suffixes sort correctly through their semver pre-release equivalents
// (alpha < beta < rc < release).
func (v VersionString) Canonical() string {
	if m := suffixPattern.FindStringSubmatch(string(v)); m != nil {
		n := m[3]
		if n == "" {
			n = "0"
		}
		var pre string
		switch m[2] {
		case "a":
			pre = "alpha"
		case "b":
			pre = "beta"
		default:
			pre = "rc"
		}
		return fmt.Sprintf("v%s-%s.%s", m[1], pre, n)
	}
	return "v" + string(v)
}

// Compare orders two versions: -1 if v < other, 0 if equal, +1 if v > other.
// Both versions must already be valid.
func (v VersionString) Compare(other VersionString) int {
	return semver.Compare(v.Canonical(), other.Canonical())
}

// Error implements the error interface for InvalidFormatError.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid version format %q: expected MAJOR.MINOR.PATCH with optional a/b/rc suffix (e.g. 1.2.0, 1.2.0rc1)", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }
