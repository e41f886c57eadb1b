// Package gitmeta stamps audit summaries with the identity of the git
// repository containing the tree, when there is one. Everything here is
// best-effort: a tree outside any repository yields empty strings.
package gitmeta

import (
	"strings"

	git "github.com/go-git/go-git/v5"
)

// Describe returns (repo, branch, commit) for the repository containing
// root. repo is a short owner/name slug when the origin remote looks like
// a GitHub URL, otherwise the raw remote URL.
func Describe(root string) (repo, branch, commit string) {
	r, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", ""
	}
	if head, err := r.Head(); err == nil {
		commit = head.Hash().String()
		if head.Name().IsBranch() {
			branch = head.Name().Short()
		}
	}
	if rem, err := r.Remote("origin"); err == nil {
		if urls := rem.Config().URLs; len(urls) > 0 {
			repo = slug(urls[0])
		}
	}
	return repo, branch, commit
}

func slug(url string) string {
	s := strings.TrimSuffix(strings.TrimSpace(url), ".git")
	if i := strings.Index(s, "github.com/"); i >= 0 {
		return s[i+len("github.com/"):]
	}
	// scp-like syntax (git@host:owner/name)
	if !strings.Contains(s, "://") {
		if i := strings.LastIndex(s, ":"); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}
