package relocate

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atticfs/attic/internal/types"
)

func setup(t *testing.T) (tree, backup string, r *Relocator) {
	t.Helper()
	tree = t.TempDir()
	backup = t.TempDir()
	return tree, backup, &Relocator{TreeRoot: tree, BackupRoot: backup}
}

func TestRelocateRoundTrip(t *testing.T) {
	tree, backup, r := setup(t)

	content := bytes.Repeat([]byte("payload"), 1024)
	orig := filepath.Join(tree, "data", "big.bin")
	if err := os.MkdirAll(filepath.Dir(orig), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(orig, content, 0644); err != nil {
		t.Fatal(err)
	}
	atime := time.Date(2021, 3, 14, 1, 59, 26, 0, time.UTC)
	mtime := time.Date(2020, 6, 28, 3, 18, 28, 0, time.UTC)
	if err := os.Chtimes(orig, atime, mtime); err != nil {
		t.Fatal(err)
	}

	rec := r.Relocate("data/big.bin")
	if rec.Outcome != types.OutcomeSucceeded {
		t.Fatalf("relocation failed: step=%s reason=%s", rec.FailedStep, rec.Reason)
	}
	if rec.SizeBytes != int64(len(content)) {
		t.Errorf("SizeBytes = %d, want %d", rec.SizeBytes, len(content))
	}
	wantDest := filepath.Join(backup, "data", "big.bin")
	if rec.BackupPath != wantDest {
		t.Errorf("BackupPath = %s, want %s", rec.BackupPath, wantDest)
	}

	// original path is now a symlink resolving to identical bytes
	fi, err := os.Lstat(orig)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		t.Fatal("original path is not a symlink")
	}
	got, err := os.ReadFile(orig)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Error("content read through original path differs")
	}

	// timestamps preserved on the backup file...
	bfi, err := os.Stat(wantDest)
	if err != nil {
		t.Fatal(err)
	}
	if !bfi.ModTime().Equal(mtime) {
		t.Errorf("backup mtime = %v, want %v", bfi.ModTime(), mtime)
	}
	// ...and on the link object itself
	lfi, err := os.Lstat(orig)
	if err != nil {
		t.Fatal(err)
	}
	if !lfi.ModTime().Truncate(time.Second).Equal(mtime) {
		t.Errorf("link mtime = %v, want %v", lfi.ModTime(), mtime)
	}
	if !rec.ModifyTime.Equal(mtime) {
		t.Errorf("record mtime = %v, want %v", rec.ModifyTime, mtime)
	}
}

func TestRelocateRefusesExistingDestination(t *testing.T) {
	tree, backup, r := setup(t)
	if err := os.WriteFile(filepath.Join(tree, "f.bin"), []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}
	// leftover from a previous partially failed run
	if err := os.WriteFile(filepath.Join(backup, "f.bin"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := r.Relocate("f.bin")
	if rec.Outcome != types.OutcomeFailed || rec.Reason != "destination exists" {
		t.Fatalf("record = %+v, want destination-exists failure", rec)
	}
	// the original is untouched and the backup copy was not overwritten
	if b, _ := os.ReadFile(filepath.Join(tree, "f.bin")); string(b) != "new" {
		t.Error("original was modified")
	}
	if b, _ := os.ReadFile(filepath.Join(backup, "f.bin")); string(b) != "old" {
		t.Error("backup copy was overwritten")
	}
}

func TestRelocateMissingSource(t *testing.T) {
	_, _, r := setup(t)
	rec := r.Relocate("nope.bin")
	if rec.Outcome != types.OutcomeFailed || rec.FailedStep != types.StepPrepare {
		t.Fatalf("record = %+v, want prepare failure", rec)
	}
	if rec.InBackupOnly {
		t.Error("InBackupOnly set on prepare failure")
	}
}

func TestRelocateRejectsSymlinkSubject(t *testing.T) {
	tree, _, r := setup(t)
	if err := os.WriteFile(filepath.Join(tree, "real"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(tree, "real"), filepath.Join(tree, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	rec := r.Relocate("link")
	if rec.Outcome != types.OutcomeFailed || rec.FailedStep != types.StepPrepare {
		t.Fatalf("record = %+v, want prepare failure", rec)
	}
}

func TestRelocateLinkFailureReportsPartialState(t *testing.T) {
	tree, backup, r := setup(t)
	if err := os.WriteFile(filepath.Join(tree, "f.bin"), []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	orig := symlink
	symlink = func(string, string) error { return errors.New("injected link failure") }
	t.Cleanup(func() { symlink = orig })

	rec := r.Relocate("f.bin")
	if rec.Outcome != types.OutcomeFailed {
		t.Fatal("expected failure")
	}
	if rec.FailedStep != types.StepLink {
		t.Errorf("FailedStep = %s, want link", rec.FailedStep)
	}
	if !rec.InBackupOnly {
		t.Error("InBackupOnly not flagged")
	}
	// the dangerous partial state: bytes only in the backup store
	if _, err := os.Lstat(filepath.Join(tree, "f.bin")); !os.IsNotExist(err) {
		t.Error("original path still occupied")
	}
	if b, err := os.ReadFile(filepath.Join(backup, "f.bin")); err != nil || string(b) != "data" {
		t.Error("bytes missing from backup store")
	}
}

func TestCopyVerifyLeavesSourceIntact(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	content := bytes.Repeat([]byte{0xAB}, 4096)
	if err := os.WriteFile(src, content, 0600); err != nil {
		t.Fatal(err)
	}
	if err := copyVerify(src, dst, 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Lstat(src); err != nil {
		t.Error("source should remain until the caller removes it")
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Error("copied bytes differ")
	}
	fi, _ := os.Stat(dst)
	if fi.Mode().Perm() != 0600 {
		t.Errorf("perm = %v, want 0600", fi.Mode().Perm())
	}
	if err := copyVerify(src, dst, 0600); err == nil {
		t.Error("expected O_EXCL failure when destination exists")
	}
}
