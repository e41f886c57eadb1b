package attic

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/atticfs/attic/internal/config"
	"github.com/atticfs/attic/internal/engine"
	"github.com/atticfs/attic/internal/journal"
	"github.com/atticfs/attic/internal/policy"
	"github.com/atticfs/attic/internal/relocate"
	"github.com/atticfs/attic/internal/report"
	"github.com/atticfs/attic/internal/tui"
	"github.com/atticfs/attic/internal/types"
)

var (
	flagBackupRoot    string
	flagRelocate      bool
	flagReview        bool
	flagMaxFileSize   string
	flagWarnFileSize  string
	flagMaxDirEntries int
	flagMaxTreeSize   string
	flagWarnTreeSize  string
	flagRecTreeSize   string
	flagPriorityDirs  string
	flagExclude       string
)

func init() {
	cmd := &cobra.Command{
		Use:   "audit [path]",
		Short: "Audit a tree against the configured limits",
		Long:  "Audit scans the tree, reports entries over the size and count thresholds, and (with --relocate) moves hard-limit violators to the backup store, leaving symlinks behind.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAudit,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagBackupRoot, "backup-root", "", "directory receiving relocated files (required with --relocate)")
	cmd.Flags().BoolVar(&flagRelocate, "relocate", false, "move files over the hard limit to the backup store")
	cmd.Flags().BoolVar(&flagReview, "review", false, "pick violations to relocate interactively (needs a terminal)")
	cmd.Flags().StringVar(&flagMaxFileSize, "max-file-size", "", "per-file hard limit (e.g. 100MiB)")
	cmd.Flags().StringVar(&flagWarnFileSize, "warn-file-size", "", "per-file warning threshold")
	cmd.Flags().IntVar(&flagMaxDirEntries, "max-dir-entries", 0, "entries-per-directory warning limit")
	cmd.Flags().StringVar(&flagMaxTreeSize, "max-tree-size", "", "whole-tree hard limit")
	cmd.Flags().StringVar(&flagWarnTreeSize, "warn-tree-size", "", "whole-tree warning threshold")
	cmd.Flags().StringVar(&flagRecTreeSize, "recommended-tree-size", "", "whole-tree recommended size")
	cmd.Flags().StringVar(&flagPriorityDirs, "priority-dirs", "src,data", "comma-separated subtrees scanned and reported first")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated doublestar globs to skip")
}

func runAudit(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	// Config precedence: CLI > local > global
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(abs); err == nil {
		lcfg = c
	}

	pol := policy.Default()
	for _, f := range []struct {
		dst           *int64
		cli           string
		local, global *string
	}{
		{&pol.MaxFileSize, flagMaxFileSize, lcfg.MaxFileSize, gcfg.MaxFileSize},
		{&pol.WarnFileSize, flagWarnFileSize, lcfg.WarnFileSize, gcfg.WarnFileSize},
		{&pol.MaxTreeSize, flagMaxTreeSize, lcfg.MaxTreeSize, gcfg.MaxTreeSize},
		{&pol.WarnTreeSize, flagWarnTreeSize, lcfg.WarnTreeSize, gcfg.WarnTreeSize},
		{&pol.RecommendedTreeSize, flagRecTreeSize, lcfg.RecommendedTreeSize, gcfg.RecommendedTreeSize},
	} {
		if err := resolveSize(f.dst, f.cli, f.local, f.global); err != nil {
			return err
		}
	}
	if v := pickInt(flagMaxDirEntries, lcfg.MaxDirEntries, gcfg.MaxDirEntries); v != 0 {
		pol.MaxDirEntries = v
	}

	backupRoot := pickString(flagBackupRoot, lcfg.BackupRoot, gcfg.BackupRoot)
	relocateOn := pickBool(flagRelocate, lcfg.Relocate, gcfg.Relocate)
	noColor := pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor)
	excludes := splitList(pickString(flagExclude, lcfg.Exclude, gcfg.Exclude))
	priority := splitList(pickString(flagPriorityDirs, lcfg.PriorityDirs, gcfg.PriorityDirs))

	ecfg := engine.Config{
		Root:         abs,
		Policy:       pol,
		BackupRoot:   backupRoot,
		AutoRelocate: relocateOn && !flagReview,
		PriorityDirs: priority,
		ExcludeGlobs: excludes,
	}

	var summary types.Summary
	if relocateOn && flagReview {
		summary, err = runReviewed(ecfg)
	} else {
		summary, err = engine.Run(ecfg)
	}
	if err != nil {
		return err
	}

	if len(summary.Relocations) > 0 {
		if jerr := journal.New(summary.Root).Append(journal.FromSummary(summary)); jerr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: could not write journal:", jerr)
		}
	}

	if flagJSON {
		if err := report.WriteJSON(cmd.OutOrStdout(), summary); err != nil {
			return err
		}
	} else {
		report.PrintSummary(cmd.OutOrStdout(), summary, report.PrintOptions{NoColor: noColor})
	}

	if summary.SizeViolations > 0 || len(summary.FailedRelocations()) > 0 {
		os.Exit(1)
	}
	return nil
}

// runReviewed scans without side effects first, lets the operator pick the
// violations to move, then relocates only those.
func runReviewed(cfg engine.Config) (types.Summary, error) {
	var s types.Summary
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return s, fmt.Errorf("--review needs a terminal; drop it or use --relocate alone")
	}
	if cfg.BackupRoot == "" {
		return s, fmt.Errorf("relocation enabled but no backup root configured")
	}
	backup, err := filepath.Abs(cfg.BackupRoot)
	if err != nil {
		return s, err
	}

	dry := cfg
	dry.AutoRelocate = false
	s, err = engine.Run(dry)
	if err != nil {
		return s, err
	}

	var violations []types.Classification
	for _, c := range s.Classifications {
		if c.Kind == types.KindSizeViolation {
			violations = append(violations, c)
		}
	}
	if len(violations) == 0 {
		return s, nil
	}

	selected, confirmed, err := tui.Review(violations, backup)
	if err != nil || !confirmed {
		return s, err
	}
	if err := os.MkdirAll(backup, 0o755); err != nil {
		return s, fmt.Errorf("create backup root: %w", err)
	}
	s.BackupRoot = backup
	rel := &relocate.Relocator{TreeRoot: s.Root, BackupRoot: backup}
	for _, p := range selected {
		s.Relocations = append(s.Relocations, rel.Relocate(p))
	}
	return s, nil
}

func resolveSize(dst *int64, cli string, local, global *string) error {
	s := pickString(cli, local, global)
	if s == "" {
		return nil
	}
	v, err := humanize.ParseBytes(s)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", s, err)
	}
	*dst = int64(v)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
