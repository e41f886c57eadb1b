// Package relocate moves an oversized file into a backup store and leaves
// a symbolic link at its original path, preserving the file's access and
// modify timestamps on both the moved content and the link itself. It
// requires a Unix filesystem with symlink support and independent link
// timestamps; there is no alternative mechanism for stores without them.
package relocate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	xxhash "github.com/cespare/xxhash/v2"
	"golang.org/x/sys/unix"

	"github.com/atticfs/attic/internal/types"
)

// symlink is swappable so tests can force a failure between the move and
// link steps.
var symlink = os.Symlink

// Relocator substitutes files under TreeRoot with links into BackupRoot.
// The backup destination mirrors the file's path relative to TreeRoot.
type Relocator struct {
	TreeRoot   string
	BackupRoot string
}

// Relocate runs the move-and-link protocol for one tree-relative path and
// returns a record of the attempt. It never panics and never rolls back: a
// failure after the move step leaves the bytes in the backup only, and the
// record says so (InBackupOnly) so the operator can reconcile.
func (r *Relocator) Relocate(rel string) types.Record {
	abs := filepath.Join(r.TreeRoot, filepath.FromSlash(rel))
	dest := filepath.Join(r.BackupRoot, filepath.FromSlash(rel))
	rec := types.Record{OriginalPath: rel, BackupPath: dest}

	fail := func(step types.Step, err error, inBackupOnly bool) types.Record {
		rec.Outcome = types.OutcomeFailed
		rec.FailedStep = step
		rec.Reason = err.Error()
		rec.InBackupOnly = inBackupOnly
		return rec
	}

	fi, err := os.Lstat(abs)
	if err != nil {
		return fail(types.StepPrepare, err, false)
	}
	if !fi.Mode().IsRegular() {
		return fail(types.StepPrepare, fmt.Errorf("%s is not a regular file", rel), false)
	}
	rec.SizeBytes = fi.Size()

	// Timestamps are captured before the move; both restores below use them.
	var st unix.Stat_t
	if err := unix.Lstat(abs, &st); err != nil {
		return fail(types.StepPrepare, err, false)
	}
	rec.AccessTime, rec.ModifyTime = amtimes(&st)

	// Re-running after a prior partial failure must not clobber the copy
	// already in the backup store.
	if _, err := os.Lstat(dest); err == nil {
		return fail(types.StepPrepare, errors.New("destination exists"), false)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fail(types.StepPrepare, err, false)
	}

	if err := move(abs, dest, fi.Mode().Perm()); err != nil {
		// move guarantees the original is still in place on failure
		return fail(types.StepMove, err, false)
	}

	if err := symlink(dest, abs); err != nil {
		return fail(types.StepLink, err, true)
	}

	if err := os.Chtimes(dest, rec.AccessTime, rec.ModifyTime); err != nil {
		return fail(types.StepTimestamps, err, false)
	}
	// The link's own timestamps get the original file's times as well, so
	// the tree looks unchanged at the original path too.
	if err := lutimes(abs, rec); err != nil {
		return fail(types.StepTimestamps, err, false)
	}

	rec.Outcome = types.OutcomeSucceeded
	return rec
}

// move renames src to dst, falling back to copy-verify-remove when the
// backup store is on a different device. On any error src is left intact
// as the only copy.
func move(src, dst string, perm os.FileMode) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return err
	}
	if err := copyVerify(src, dst, perm); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

// copyVerify copies src to dst and compares digests of the bytes read and
// the bytes that landed on disk. src is left untouched; dst is removed on
// any failure.
func copyVerify(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	h := xxhash.New()
	if _, err := io.Copy(out, io.TeeReader(in, h)); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	// re-read the written copy and compare digests
	sum, err := hashFile(dst)
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if sum != h.Sum64() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy verification failed for %s", dst)
	}
	return nil
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func lutimes(path string, rec types.Record) error {
	tv := []unix.Timeval{
		unix.NsecToTimeval(rec.AccessTime.UnixNano()),
		unix.NsecToTimeval(rec.ModifyTime.UnixNano()),
	}
	return unix.Lutimes(path, tv)
}
