package gitmeta

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestDescribeOutsideRepo(t *testing.T) {
	repo, branch, commit := Describe(t.TempDir())
	if repo != "" || branch != "" || commit != "" {
		t.Fatalf("expected empty metadata, got %q %q %q", repo, branch, commit)
	}
}

func TestDescribeRepo(t *testing.T) {
	dir := t.TempDir()
	r, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/widgets.git"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "f.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	wt, err := r.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add("f.txt"); err != nil {
		t.Fatal(err)
	}
	hash, err := wt.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatal(err)
	}

	repo, branch, commit := Describe(dir)
	if repo != "acme/widgets" {
		t.Errorf("repo = %q, want acme/widgets", repo)
	}
	if branch == "" {
		t.Error("branch empty")
	}
	if commit != hash.String() {
		t.Errorf("commit = %q, want %q", commit, hash.String())
	}

	// metadata also resolves from a subdirectory of the worktree
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	repo2, _, _ := Describe(sub)
	if repo2 != "acme/widgets" {
		t.Errorf("nested repo = %q, want acme/widgets", repo2)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"git@github.com:acme/widgets.git":    "acme/widgets",
		"https://github.com/acme/widgets":    "acme/widgets",
		"https://example.com/mirror/project": "https://example.com/mirror/project",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}
