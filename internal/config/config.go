// SPDX-License-Identifier: MPL-2.0

// Package config loads the chaosrel configuration: the locations of the
// release-relevant files, the names of the external tools, and the upload
// destinations. Everything has a default matching the chaos-sdk layout;
// an optional .chaosrel.toml in the repository root overrides them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "chaosrel"
	// ConfigFileName is the name of the optional config file.
	ConfigFileName = ".chaosrel.toml"
)

type (
	// Config is the resolved chaosrel configuration.
	Config struct {
		Project ProjectConfig `mapstructure:"project"`
		Tools   ToolsConfig   `mapstructure:"tools"`
		Publish PublishConfig `mapstructure:"publish"`
	}

	// ProjectConfig locates the files the release process works on,
	// relative to the repository root.
	ProjectConfig struct {
		// Manifest is the project metadata file carrying `version = "..."`.
		Manifest string `mapstructure:"manifest"`
		// PackageDir is the Python package directory.
		PackageDir string `mapstructure:"package_dir"`
		// PackageInit is the package entry file carrying `__version__ = "..."`.
		PackageInit string `mapstructure:"package_init"`
		// Readme is the required top-level documentation file.
		Readme string `mapstructure:"readme"`
		// License is the license file.
		License string `mapstructure:"license"`
		// Changelog is the changelog file with [X.Y.Z] section headers.
		Changelog string `mapstructure:"changelog"`
		// ArtifactDirs are the build-output directories that Clean removes
		// and the stale-artifact check looks for.
		ArtifactDirs []string `mapstructure:"artifact_dirs"`
	}

	// ToolsConfig names the external executables the pipeline invokes.
	ToolsConfig struct {
		// Python is the interpreter used for builds and tool installs.
		Python string `mapstructure:"python"`
		// Build is the package-build executable (installed by the
		// `build` distribution).
		Build string `mapstructure:"build"`
		// Upload is the package-upload executable.
		Upload string `mapstructure:"upload"`
	}

	// PublishConfig selects the upload destinations.
	PublishConfig struct {
		// PackageName is the distribution name on the index.
		PackageName string `mapstructure:"package_name"`
		// TestRepository is the twine repository alias for test uploads.
		TestRepository string `mapstructure:"test_repository"`
		// TestIndexURL is the index URL shown in the post-upload install hint.
		TestIndexURL string `mapstructure:"test_index_url"`
	}
)

// configFilePathOverride allows --config (and tests) to pin the config file.
var configFilePathOverride string

// SetConfigFilePathOverride sets a custom config file path, taking
// precedence over the default lookup in the current directory.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}

// Load reads the configuration, applying defaults for every key and then
// merging the optional config file on top. A missing config file is not an
// error unless one was explicitly requested; an unreadable or malformed
// one always is.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("project.manifest", defaults.Project.Manifest)
	v.SetDefault("project.package_dir", defaults.Project.PackageDir)
	v.SetDefault("project.package_init", defaults.Project.PackageInit)
	v.SetDefault("project.readme", defaults.Project.Readme)
	v.SetDefault("project.license", defaults.Project.License)
	v.SetDefault("project.changelog", defaults.Project.Changelog)
	v.SetDefault("project.artifact_dirs", defaults.Project.ArtifactDirs)
	v.SetDefault("tools.python", defaults.Tools.Python)
	v.SetDefault("tools.build", defaults.Tools.Build)
	v.SetDefault("tools.upload", defaults.Tools.Upload)
	v.SetDefault("publish.package_name", defaults.Publish.PackageName)
	v.SetDefault("publish.test_repository", defaults.Publish.TestRepository)
	v.SetDefault("publish.test_index_url", defaults.Publish.TestIndexURL)

	path := configFilePathOverride
	if path == "" {
		path = ConfigFileName
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		if configFilePathOverride == "" && errors.Is(err, os.ErrNotExist) {
			return unmarshal(v)
		}
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// DefaultConfig returns the configuration matching the chaos-sdk layout.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Manifest:    "pyproject.toml",
			PackageDir:  "chaos_sdk",
			PackageInit: filepath.Join("chaos_sdk", "__init__.py"),
			Readme:      "README.md",
			License:     "LICENSE",
			Changelog:   "CHANGELOG.md",
			ArtifactDirs: []string{
				"dist",
				"build",
				"chaos_sdk.egg-info",
			},
		},
		Tools: ToolsConfig{
			Python: "python3",
			Build:  "pyproject-build",
			Upload: "twine",
		},
		Publish: PublishConfig{
			PackageName:    "chaos-sdk",
			TestRepository: "testpypi",
			TestIndexURL:   "https://test.pypi.org/simple/",
		},
	}
}
