package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atticfs/attic/internal/gitmeta"
	"github.com/atticfs/attic/internal/ledger"
	"github.com/atticfs/attic/internal/policy"
	"github.com/atticfs/attic/internal/relocate"
	"github.com/atticfs/attic/internal/scan"
	"github.com/atticfs/attic/internal/types"
)

// Config controls one audit run.
type Config struct {
	// Root of the tree under audit.
	Root string

	Policy policy.Policy

	// BackupRoot receives relocated files, mirroring their tree-relative
	// paths. Created if absent. Required when AutoRelocate is set.
	BackupRoot string

	// AutoRelocate moves every size violation into the backup store and
	// substitutes a symlink. Off means the scan has no side effects.
	AutoRelocate bool

	PriorityDirs []string
	ExcludeGlobs []string

	// Progress, when set, is called once per classified entry.
	Progress func()
}

// Run performs one full audit: scan, optional relocation of hard-limit
// violators, and the whole-tree size check (which always runs, even with
// zero violations). The returned error is fatal only; recoverable failures
// are inside the summary.
func Run(cfg Config) (types.Summary, error) {
	var s types.Summary
	if err := cfg.Policy.Validate(); err != nil {
		return s, err
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return s, fmt.Errorf("%w: %v", scan.ErrScan, err)
	}

	var rel *relocate.Relocator
	if cfg.AutoRelocate {
		if cfg.BackupRoot == "" {
			return s, fmt.Errorf("relocation enabled but no backup root configured")
		}
		backup, err := filepath.Abs(cfg.BackupRoot)
		if err != nil {
			return s, err
		}
		if err := os.MkdirAll(backup, 0o755); err != nil {
			return s, fmt.Errorf("create backup root: %w", err)
		}
		rel = &relocate.Relocator{TreeRoot: root, BackupRoot: backup}
		s.BackupRoot = backup
	}

	start := time.Now()
	led := ledger.New()
	sc := scan.New(scan.Config{
		Root:         root,
		Policy:       cfg.Policy,
		PriorityDirs: cfg.PriorityDirs,
		ExcludeGlobs: cfg.ExcludeGlobs,
	})
	err = sc.Scan(func(c types.Classification) {
		led.AddClassification(c)
		if cfg.Progress != nil {
			cfg.Progress()
		}
		if c.Kind == types.KindSizeViolation && rel != nil {
			led.AddRecord(rel.Relocate(c.Path))
		}
	})
	if err != nil {
		return s, err
	}

	s.Root = root
	s.Repo, s.Branch, s.Commit = gitmeta.Describe(root)
	s.FilesScanned = led.FilesScanned()
	s.DirsScanned = led.DirsScanned()
	s.SizeViolations = led.Count(types.KindSizeViolation)
	s.SizeWarnings = led.Count(types.KindSizeWarning)
	s.DirCountWarnings = led.Count(types.KindDirCountWarning)
	s.ProbeErrors = led.Count(types.KindProbeError)
	s.TotalTreeSize = led.TotalSize()
	s.TreeLevel = cfg.Policy.ClassifyTreeSize(led.TotalSize())
	s.Classifications = led.Classifications()
	s.Relocations = led.Relocations()
	s.StartedAt = start
	s.Duration = time.Since(start)
	return s, nil
}
