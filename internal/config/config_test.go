// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// These tests share the package-level config file override, so they do
// not run in parallel.

func TestLoad_Defaults(t *testing.T) {
	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "absent.toml"))
	t.Cleanup(func() { SetConfigFilePathOverride("") })

	_, err := Load()
	if err == nil {
		t.Fatal("an explicitly requested but absent config file must be an error")
	}
}

func TestLoad_NoConfigFile_UsesDefaults(t *testing.T) {
	// No override: Load falls back to ./.chaosrel.toml, which does not
	// exist inside a fresh temp working directory.
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without a config file failed: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Project.Manifest != defaults.Project.Manifest {
		t.Errorf("manifest = %q, want %q", cfg.Project.Manifest, defaults.Project.Manifest)
	}
	if cfg.Tools.Upload != "twine" {
		t.Errorf("upload tool = %q, want twine", cfg.Tools.Upload)
	}
	if cfg.Publish.TestRepository != "testpypi" {
		t.Errorf("test repository = %q, want testpypi", cfg.Publish.TestRepository)
	}
	if len(cfg.Project.ArtifactDirs) != 3 {
		t.Errorf("artifact dirs = %v, want the three defaults", cfg.Project.ArtifactDirs)
	}
}

func TestLoad_ConfigFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chaosrel.toml")
	content := `[project]
package_dir = "mesh_sdk"
package_init = "mesh_sdk/__init__.py"

[tools]
python = "python3.12"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigFilePathOverride(path)
	t.Cleanup(func() { SetConfigFilePathOverride("") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Project.PackageDir != "mesh_sdk" {
		t.Errorf("package_dir = %q, want mesh_sdk", cfg.Project.PackageDir)
	}
	if cfg.Tools.Python != "python3.12" {
		t.Errorf("python = %q, want python3.12", cfg.Tools.Python)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Project.Manifest != "pyproject.toml" {
		t.Errorf("manifest = %q, want the default", cfg.Project.Manifest)
	}
	if cfg.Tools.Upload != "twine" {
		t.Errorf("upload tool = %q, want the default", cfg.Tools.Upload)
	}
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[project\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigFilePathOverride(path)
	t.Cleanup(func() { SetConfigFilePathOverride("") })

	if _, err := Load(); err == nil {
		t.Fatal("a malformed config file must be an error")
	}
}
