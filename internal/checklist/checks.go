// SPDX-License-Identifier: MPL-2.0

package checklist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// releaseChecks returns the checklist in its fixed execution order. The
// order matters for the report, not for correctness: no check depends on
// another's outcome, except that the changelog and tag checks consume the
// version resolved by the consistency check.
func releaseChecks() []Check {
	return []Check{
		{Name: "version", Run: checkVersionConsistency},
		{Name: "readme", Run: checkReadme},
		{Name: "license", Run: checkLicense},
		{Name: "changelog", Run: checkChangelogEntry},
		{Name: "build-tool", Run: checkBuildTool},
		{Name: "upload-tool", Run: checkUploadTool},
		{Name: "worktree", Run: checkWorktreeClean},
		{Name: "tag", Run: checkTagAbsent},
		{Name: "package", Run: checkPackageLayout},
		{Name: "artifacts", Run: checkNoStaleArtifacts},
	}
}

// checkVersionConsistency verifies the manifest and the package entry
// file declare the same version, and records it for later checks.
func checkVersionConsistency(env *Env) Result {
	v, err := env.Store.Consistent()
	if err != nil {
		return fail("version", err.Error())
	}
	env.Version = v
	return pass("version", fmt.Sprintf("version %s consistent across %s and %s",
		v, env.Config.Project.Manifest, env.Config.Project.PackageInit))
}

func checkReadme(env *Env) Result {
	path := env.Config.Project.Readme
	if !fileExists(filepath.Join(env.Root, path)) {
		return fail("readme", path+" is missing")
	}
	return pass("readme", path+" present")
}

func checkLicense(env *Env) Result {
	path := env.Config.Project.License
	if !fileExists(filepath.Join(env.Root, path)) {
		return warn("license", path+" is missing")
	}
	return pass("license", path+" present")
}

// checkChangelogEntry looks for a [X.Y.Z] section header matching the
// current version.
func checkChangelogEntry(env *Env) Result {
	path := env.Config.Project.Changelog
	raw, err := os.ReadFile(filepath.Join(env.Root, path))
	if err != nil {
		return warn("changelog", path+" is missing")
	}
	if env.Version == "" {
		return warn("changelog", "cannot verify "+path+" entry: current version unknown")
	}
	header := "[" + env.Version.String() + "]"
	if !strings.Contains(string(raw), header) {
		return warn("changelog", fmt.Sprintf("%s has no %s entry", path, header))
	}
	return pass("changelog", fmt.Sprintf("%s has a %s entry", path, header))
}

func checkBuildTool(env *Env) Result {
	tool := env.Config.Tools.Build
	if _, err := env.LookPath(tool); err != nil {
		return warn("build-tool", fmt.Sprintf("%s not found in PATH (install with: %s -m pip install build)",
			tool, env.Config.Tools.Python))
	}
	return pass("build-tool", tool+" installed")
}

func checkUploadTool(env *Env) Result {
	tool := env.Config.Tools.Upload
	if _, err := env.LookPath(tool); err != nil {
		return warn("upload-tool", fmt.Sprintf("%s not found in PATH (install with: %s -m pip install twine)",
			tool, env.Config.Tools.Python))
	}
	return pass("upload-tool", tool+" installed")
}

func checkWorktreeClean(env *Env) Result {
	clean, err := worktreeClean(env.Root)
	if err != nil {
		return warn("worktree", "cannot determine working tree status: "+err.Error())
	}
	if !clean {
		return warn("worktree", "working tree has uncommitted changes")
	}
	return pass("worktree", "working tree clean")
}

// checkTagAbsent warns when the release tag already exists, which would
// make the follow-up tagging step collide with an earlier release.
func checkTagAbsent(env *Env) Result {
	if env.Version == "" {
		return warn("tag", "cannot verify release tag: current version unknown")
	}
	tag := env.Version.TagName()
	exists, err := tagExists(env.Root, tag)
	if err != nil {
		return warn("tag", "cannot list tags: "+err.Error())
	}
	if exists {
		return warn("tag", fmt.Sprintf("tag %s already exists; this version may already be released", tag))
	}
	return pass("tag", fmt.Sprintf("tag %s not yet used", tag))
}

func checkPackageLayout(env *Env) Result {
	dir := filepath.Join(env.Root, env.Config.Project.PackageDir)
	if !dirExists(dir) {
		return fail("package", env.Config.Project.PackageDir+"/ directory is missing")
	}
	entry := filepath.Join(env.Root, env.Config.Project.PackageInit)
	if !fileExists(entry) {
		return fail("package", env.Config.Project.PackageInit+" is missing")
	}
	return pass("package", env.Config.Project.PackageDir+"/ layout intact")
}

func checkNoStaleArtifacts(env *Env) Result {
	var stale []string
	for _, dir := range env.Config.Project.ArtifactDirs {
		if dirExists(filepath.Join(env.Root, dir)) {
			stale = append(stale, dir+"/")
		}
	}
	if len(stale) > 0 {
		return warn("artifacts", "stale build artifacts present: "+strings.Join(stale, ", "))
	}
	return pass("artifacts", "no stale build artifacts")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
