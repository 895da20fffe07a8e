// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"

	"chaosrel/pkg/types"
)

// Sentinel errors wrapped by the typed store errors.
var (
	// ErrNotFound indicates one of the two version files is absent.
	ErrNotFound = errors.New("version file not found")
	// ErrParse indicates a version file exists but the expected
	// assignment could not be extracted from it.
	ErrParse = errors.New("version assignment not found")
	// ErrMismatch indicates the two version locations disagree.
	ErrMismatch = errors.New("version mismatch")
)

// initPattern extracts the `__version__ = "..."` assignment from the
// package entry file, anchored to line start.
var initPattern = regexp.MustCompile(`(?m)^__version__\s*=\s*"([^"]*)"`)

type (
	// Store reads and writes the authoritative version, which is
	// duplicated across the project manifest (pyproject.toml) and the
	// package entry file (chaos_sdk/__init__.py). Both copies must stay
	// textually identical for the repository to be consistent.
	Store struct {
		// ManifestPath locates the project manifest.
		ManifestPath types.FilesystemPath
		// InitPath locates the package entry file.
		InitPath types.FilesystemPath
	}

	// NotFoundError is returned when a version file is missing.
	NotFoundError struct {
		Path types.FilesystemPath
	}

	// ParseError is returned when a version file lacks the expected
	// version assignment.
	ParseError struct {
		Path types.FilesystemPath
		Key  string
		Err  error
	}

	// MismatchError is returned when the manifest and the package entry
	// file carry different versions.
	MismatchError struct {
		Manifest VersionString
		Init     VersionString
	}

	// manifestDoc mirrors the subset of pyproject.toml the store needs.
	manifestDoc struct {
		Project struct {
			Version string `toml:"version"`
		} `toml:"project"`
	}
)

// NewStore creates a Store over the two version locations.
func NewStore(manifestPath, initPath types.FilesystemPath) *Store {
	return &Store{ManifestPath: manifestPath, InitPath: initPath}
}

// Read extracts the version from both locations. It fails with a
// NotFoundError if either file is absent, or a ParseError if the expected
// assignment is missing. Read does not require the two values to agree;
// comparing them is the caller's concern (see Consistent).
func (s *Store) Read() (manifest, entry VersionString, err error) {
	manifest, err = s.readManifest()
	if err != nil {
		return "", "", err
	}
	entry, err = s.readInit()
	if err != nil {
		return "", "", err
	}
	return manifest, entry, nil
}

// Consistent reads both locations and returns the shared version, or a
// MismatchError when they disagree.
func (s *Store) Consistent() (VersionString, error) {
	manifest, entry, err := s.Read()
	if err != nil {
		return "", err
	}
	if manifest != entry {
		return "", &MismatchError{Manifest: manifest, Init: entry}
	}
	return manifest, nil
}

// Write validates newVersion against the grammar and substitutes it for
// the current version in both files. After every substitution it re-reads
// both locations unconditionally and fails with a MismatchError if they
// do not agree; it does not roll back a partial substitution.
func (s *Store) Write(newVersion VersionString) error {
	if err := newVersion.Validate(); err != nil {
		return err
	}

	manifest, entry, err := s.Read()
	if err != nil {
		return err
	}
	if manifest != entry {
		return &MismatchError{Manifest: manifest, Init: entry}
	}

	if err := s.substitute(s.ManifestPath, "version", manifest, newVersion); err != nil {
		return err
	}
	if err := s.substitute(s.InitPath, "__version__", entry, newVersion); err != nil {
		return err
	}

	// Post-write consistency check. Runs after every write, no exceptions.
	written, err := s.Consistent()
	if err != nil {
		return err
	}
	if written != newVersion {
		return fmt.Errorf("%w: both files contain %q after writing %q", ErrMismatch, written, newVersion)
	}
	return nil
}

func (s *Store) substitute(path types.FilesystemPath, key string, old, newValue VersionString) error {
	raw, err := os.ReadFile(path.String())
	if err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Path: path}
		}
		return err
	}
	return substituteAssignment(path, key, old, newValue, DetectLineEnding(raw))
}

func (s *Store) readManifest() (VersionString, error) {
	raw, err := os.ReadFile(s.ManifestPath.String())
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Path: s.ManifestPath}
		}
		return "", err
	}

	var doc manifestDoc
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return "", &ParseError{Path: s.ManifestPath, Key: "project.version", Err: err}
	}
	if doc.Project.Version == "" {
		return "", &ParseError{Path: s.ManifestPath, Key: "project.version"}
	}
	return VersionString(doc.Project.Version), nil
}

func (s *Store) readInit() (VersionString, error) {
	raw, err := os.ReadFile(s.InitPath.String())
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Path: s.InitPath}
		}
		return "", err
	}

	m := initPattern.FindSubmatch(raw)
	if m == nil {
		return "", &ParseError{Path: s.InitPath, Key: "__version__"}
	}
	return VersionString(m[1]), nil
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("version file %s not found", e.Path)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot extract %s from %s: %v", e.Key, e.Path, e.Err)
	}
	return fmt.Sprintf("no %s assignment found in %s", e.Key, e.Path)
}

// Unwrap returns ErrParse for errors.Is() compatibility.
func (e *ParseError) Unwrap() error { return ErrParse }

// Error implements the error interface for MismatchError.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("version mismatch: manifest has %q, package has %q", e.Manifest, e.Init)
}

// Unwrap returns ErrMismatch for errors.Is() compatibility.
func (e *MismatchError) Unwrap() error { return ErrMismatch }
