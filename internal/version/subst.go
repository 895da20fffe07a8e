// SPDX-License-Identifier: MPL-2.0

package version

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"chaosrel/pkg/types"
)

type (
	// LineEnding selects the newline convention used when a file is
	// rewritten. The shell predecessors branched on the host OS to pick
	// the right in-place sed invocation; here the convention is detected
	// once per file and passed into the substitution explicitly.
	LineEnding string
)

// Supported line endings.
const (
	LineEndingLF   LineEnding = "lf"
	LineEndingCRLF LineEnding = "crlf"
)

// DetectLineEnding reports the newline convention of raw file content.
// Files without any newline default to LF.
func DetectLineEnding(content []byte) LineEnding {
	if bytes.Contains(content, []byte("\r\n")) {
		return LineEndingCRLF
	}
	return LineEndingLF
}

// substituteAssignment rewrites the single line `<key> = "<old>"` (anchored
// to line start) so it carries newValue instead. Occurrences of the old
// version anywhere else in the file are left untouched. The file is written
// back with the given line-ending convention.
func substituteAssignment(path types.FilesystemPath, key string, old, newValue VersionString, ending LineEnding) error {
	raw, err := os.ReadFile(path.String())
	if err != nil {
		return err
	}

	content := raw
	if ending == LineEndingCRLF {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	}

	pattern := regexp.MustCompile(`(?m)^(` + regexp.QuoteMeta(key) + `\s*=\s*")` + regexp.QuoteMeta(old.String()) + `(")`)
	if !pattern.Match(content) {
		return fmt.Errorf("no %s = %q assignment in %s", key, old, path)
	}
	content = pattern.ReplaceAll(content, []byte(`${1}`+newValue.String()+`${2}`))

	if ending == LineEndingCRLF {
		content = bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
	}

	info, err := os.Stat(path.String())
	if err != nil {
		return err
	}
	return os.WriteFile(path.String(), content, info.Mode().Perm())
}
