// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"testing"
)

func TestVersionString_Validate_Valid(t *testing.T) {
	t.Parallel()
	valid := []string{
		"0.1.0",
		"1.2.3",
		"10.20.30",
		"1.0.0a1",
		"1.0.0b2",
		"1.0.0rc1",
		"2.0.0rc10",
		"1.0.0a", // suffix digits are optional in the grammar
		"0.0.0",
	}
	for _, s := range valid {
		if err := VersionString(s).Validate(); err != nil {
			t.Errorf("Validate(%q) should succeed, got: %v", s, err)
		}
	}
}

func TestVersionString_Validate_Invalid(t *testing.T) {
	t.Parallel()
	invalid := []string{
		"",
		"1",
		"1.2",
		"1.2.3.4",
		"v1.2.3",
		"1.2.3-rc1",
		"1.2.3c1",
		"a.b.c",
		"1.2.3 ",
		" 1.2.3",
		"1.2.x",
	}
	for _, s := range invalid {
		err := VersionString(s).Validate()
		if err == nil {
			t.Errorf("Validate(%q) should fail", s)
			continue
		}
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("Validate(%q) should wrap ErrInvalidFormat, got: %v", s, err)
		}
		var formatErr *InvalidFormatError
		if !errors.As(err, &formatErr) {
			t.Errorf("Validate(%q) should be *InvalidFormatError, got: %T", s, err)
		}
	}
}

func TestVersionString_Channel(t *testing.T) {
	t.Parallel()
	cases := map[string]Channel{
		"1.0.0":    ChannelStable,
		"1.0.0a1":  ChannelAlpha,
		"1.0.0b3":  ChannelBeta,
		"1.0.0rc2": ChannelReleaseCandidate,
	}
	for s, want := range cases {
		if got := VersionString(s).Channel(); got != want {
			t.Errorf("Channel(%q) = %q, want %q", s, got, want)
		}
	}
}

func TestVersionString_TagName(t *testing.T) {
	t.Parallel()
	if got := VersionString("1.2.0").TagName(); got != "v1.2.0" {
		t.Errorf("TagName() = %q, want %q", got, "v1.2.0")
	}
}

func TestVersionString_Compare_PreReleaseOrdering(t *testing.T) {
	t.Parallel()
	// alpha < beta < rc < release, then the next patch.
	ordered := []VersionString{"1.0.0a1", "1.0.0a2", "1.0.0b1", "1.0.0rc1", "1.0.0", "1.0.1"}
	for i := 0; i < len(ordered)-1; i++ {
		lo, hi := ordered[i], ordered[i+1]
		if lo.Compare(hi) >= 0 {
			t.Errorf("Compare(%q, %q) should be -1", lo, hi)
		}
		if hi.Compare(lo) <= 0 {
			t.Errorf("Compare(%q, %q) should be +1", hi, lo)
		}
	}
	if VersionString("1.0.0").Compare("1.0.0") != 0 {
		t.Error("Compare of equal versions should be 0")
	}
}

func TestDetectLineEnding(t *testing.T) {
	t.Parallel()
	if got := DetectLineEnding([]byte("a\nb\n")); got != LineEndingLF {
		t.Errorf("LF content detected as %q", got)
	}
	if got := DetectLineEnding([]byte("a\r\nb\r\n")); got != LineEndingCRLF {
		t.Errorf("CRLF content detected as %q", got)
	}
	if got := DetectLineEnding([]byte("no newline")); got != LineEndingLF {
		t.Errorf("newline-free content should default to LF, got %q", got)
	}
}
