package relocate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/atticfs/attic/internal/types"
)

// FindRelocated walks the tree and returns the tree-relative paths of
// every symlink pointing into the backup store, in lexicographic order.
func (r *Relocator) FindRelocated() ([]string, error) {
	var out []string
	err := filepath.WalkDir(r.TreeRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type()&os.ModeSymlink == 0 {
			return nil
		}
		target, err := os.Readlink(p)
		if err != nil || !r.inBackup(target) {
			return nil
		}
		rel, err := filepath.Rel(r.TreeRoot, p)
		if err != nil {
			return nil
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

// Restore reverses a relocation for one tree-relative path: the link is
// replaced by the backed-up bytes and the backup copy is removed, with the
// backup file's timestamps carried back to the restored file. The rename
// lands on top of the symlink atomically, so the original path never goes
// missing mid-restore.
func (r *Relocator) Restore(rel string) types.Record {
	orig := filepath.Join(r.TreeRoot, filepath.FromSlash(rel))
	rec := types.Record{OriginalPath: rel}

	fail := func(step types.Step, err error, inBackupOnly bool) types.Record {
		rec.Outcome = types.OutcomeFailed
		rec.FailedStep = step
		rec.Reason = err.Error()
		rec.InBackupOnly = inBackupOnly
		return rec
	}

	li, err := os.Lstat(orig)
	if err != nil {
		return fail(types.StepPrepare, err, false)
	}
	if li.Mode()&os.ModeSymlink == 0 {
		return fail(types.StepPrepare, fmt.Errorf("%s is not a symlink", rel), false)
	}
	target, err := os.Readlink(orig)
	if err != nil {
		return fail(types.StepPrepare, err, false)
	}
	if !r.inBackup(target) {
		return fail(types.StepPrepare, fmt.Errorf("%s does not point into the backup store", rel), false)
	}
	rec.BackupPath = target

	var st unix.Stat_t
	if err := unix.Stat(target, &st); err != nil {
		// dangling link: the backup copy is gone
		return fail(types.StepPrepare, err, false)
	}
	rec.AccessTime, rec.ModifyTime = amtimes(&st)

	fi, err := os.Stat(target)
	if err != nil {
		return fail(types.StepPrepare, err, false)
	}
	rec.SizeBytes = fi.Size()

	if err := moveBack(target, orig, fi.Mode().Perm()); err != nil {
		return fail(types.StepMove, err, true)
	}
	if err := os.Chtimes(orig, rec.AccessTime, rec.ModifyTime); err != nil {
		return fail(types.StepTimestamps, err, false)
	}
	rec.Outcome = types.OutcomeSucceeded
	return rec
}

// moveBack renames src over the symlink at dst. Across devices it stages a
// verified copy next to dst first, so the backup copy survives any failure.
func moveBack(src, dst string, perm os.FileMode) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return err
	}
	tmp := dst + ".attic-restore"
	if err := copyVerify(src, tmp, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Remove(src)
}

func (r *Relocator) inBackup(target string) bool {
	return target == r.BackupRoot || strings.HasPrefix(target, r.BackupRoot+string(os.PathSeparator))
}
