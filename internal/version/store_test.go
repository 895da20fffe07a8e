// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chaosrel/pkg/types"
)

const manifestFixture = `[build-system]
requires = ["setuptools>=61.0"]

[project]
name = "chaos-sdk"
version = "0.1.0"
description = "Chaos Mesh automation SDK"
`

const initFixture = `"""Chaos Mesh SDK."""

from chaos_sdk.config import ChaosConfig

__version__ = "0.1.0"
__all__ = ["ChaosConfig"]
`

// newTestStore lays out the two version files in a temp dir.
func newTestStore(t *testing.T, manifest, initFile string) *Store {
	t.Helper()
	dir := t.TempDir()

	manifestPath := filepath.Join(dir, "pyproject.toml")
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	initPath := filepath.Join(dir, "__init__.py")
	if err := os.WriteFile(initPath, []byte(initFile), 0o644); err != nil {
		t.Fatal(err)
	}

	return NewStore(types.FilesystemPath(manifestPath), types.FilesystemPath(initPath))
}

func TestStore_Read(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, manifestFixture, initFixture)

	manifest, entry, err := store.Read()
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if manifest != "0.1.0" || entry != "0.1.0" {
		t.Errorf("Read() = (%q, %q), want (0.1.0, 0.1.0)", manifest, entry)
	}
}

func TestStore_Read_ManifestMissing(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, manifestFixture, initFixture)
	store.ManifestPath = types.FilesystemPath(filepath.Join(t.TempDir(), "nope.toml"))

	_, _, err := store.Read()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() with missing manifest should wrap ErrNotFound, got: %v", err)
	}
}

func TestStore_Read_VersionKeyAbsent(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, "[project]\nname = \"chaos-sdk\"\n", initFixture)

	_, _, err := store.Read()
	if !errors.Is(err, ErrParse) {
		t.Errorf("Read() without project.version should wrap ErrParse, got: %v", err)
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error should be *ParseError, got: %T", err)
	}
	if parseErr.Key != "project.version" {
		t.Errorf("ParseError.Key = %q, want project.version", parseErr.Key)
	}
}

func TestStore_Read_InitAssignmentAbsent(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, manifestFixture, `"""No version here."""`+"\n")

	_, _, err := store.Read()
	if !errors.Is(err, ErrParse) {
		t.Errorf("Read() without __version__ should wrap ErrParse, got: %v", err)
	}
}

func TestStore_Consistent_Mismatch(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, manifestFixture,
		strings.ReplaceAll(initFixture, "0.1.0", "0.2.0"))

	_, err := store.Consistent()
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("Consistent() with diverged files should wrap ErrMismatch, got: %v", err)
	}
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error should be *MismatchError, got: %T", err)
	}
	if mismatch.Manifest != "0.1.0" || mismatch.Init != "0.2.0" {
		t.Errorf("MismatchError = (%q, %q), want (0.1.0, 0.2.0)", mismatch.Manifest, mismatch.Init)
	}
}

func TestStore_Write_RoundTrip(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, manifestFixture, initFixture)

	if err := store.Write("1.0.0"); err != nil {
		t.Fatalf("Write(1.0.0) failed: %v", err)
	}

	v, err := store.Consistent()
	if err != nil {
		t.Fatalf("Consistent() after Write failed: %v", err)
	}
	if v != "1.0.0" {
		t.Errorf("version after Write = %q, want 1.0.0", v)
	}
}

func TestStore_Write_InvalidFormat_NoMutation(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, manifestFixture, initFixture)

	err := store.Write("not-a-version")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Write with bad grammar should wrap ErrInvalidFormat, got: %v", err)
	}

	manifestRaw, _ := os.ReadFile(store.ManifestPath.String())
	initRaw, _ := os.ReadFile(store.InitPath.String())
	if string(manifestRaw) != manifestFixture {
		t.Error("manifest was mutated by a rejected Write")
	}
	if string(initRaw) != initFixture {
		t.Error("package entry file was mutated by a rejected Write")
	}
}

func TestStore_Write_RefusesDivergedFiles(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, manifestFixture,
		strings.ReplaceAll(initFixture, "0.1.0", "0.2.0"))

	if err := store.Write("1.0.0"); !errors.Is(err, ErrMismatch) {
		t.Errorf("Write over diverged files should wrap ErrMismatch, got: %v", err)
	}
}

func TestStore_Write_AnchoredSubstitution(t *testing.T) {
	t.Parallel()
	// The version value appears in unrelated places; only the anchored
	// assignment lines may change.
	manifest := manifestFixture + `
[tool.notes]
history = "first release was 0.1.0"
`
	initFile := initFixture + `
API_COMPAT = "0.1.0"
# __version__ = "0.1.0" (documentation of the line above)
`
	store := newTestStore(t, manifest, initFile)

	if err := store.Write("2.0.0"); err != nil {
		t.Fatalf("Write(2.0.0) failed: %v", err)
	}

	manifestRaw, _ := os.ReadFile(store.ManifestPath.String())
	if !strings.Contains(string(manifestRaw), `version = "2.0.0"`) {
		t.Error("manifest assignment was not updated")
	}
	if !strings.Contains(string(manifestRaw), `history = "first release was 0.1.0"`) {
		t.Error("unrelated occurrence in manifest was corrupted")
	}

	initRaw, _ := os.ReadFile(store.InitPath.String())
	if !strings.Contains(string(initRaw), `__version__ = "2.0.0"`) {
		t.Error("package entry assignment was not updated")
	}
	if !strings.Contains(string(initRaw), `API_COMPAT = "0.1.0"`) {
		t.Error("unrelated assignment in package entry file was corrupted")
	}
	if !strings.Contains(string(initRaw), `# __version__ = "0.1.0"`) {
		t.Error("commented-out assignment was corrupted")
	}
}

func TestStore_Write_PreservesCRLF(t *testing.T) {
	t.Parallel()
	crlfManifest := strings.ReplaceAll(manifestFixture, "\n", "\r\n")
	store := newTestStore(t, crlfManifest, initFixture)

	if err := store.Write("0.2.0"); err != nil {
		t.Fatalf("Write(0.2.0) failed: %v", err)
	}

	manifestRaw, _ := os.ReadFile(store.ManifestPath.String())
	if !strings.Contains(string(manifestRaw), "\r\n") {
		t.Error("CRLF line endings were not preserved in the manifest")
	}
	initRaw, _ := os.ReadFile(store.InitPath.String())
	if strings.Contains(string(initRaw), "\r\n") {
		t.Error("LF file unexpectedly gained CRLF line endings")
	}
}
