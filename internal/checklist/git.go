// SPDX-License-Identifier: MPL-2.0

package checklist

import (
	"errors"

	git "github.com/go-git/go-git/v5"
)

// worktreeClean reports whether the repository at root has no
// uncommitted changes.
func worktreeClean(root string) (bool, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return false, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, err
	}
	status, err := wt.Status()
	if err != nil {
		return false, err
	}
	return status.IsClean(), nil
}

// tagExists reports whether the repository at root already carries the
// named tag.
func tagExists(root, name string) (bool, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return false, err
	}
	_, err = repo.Tag(name)
	if err != nil {
		if errors.Is(err, git.ErrTagNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
