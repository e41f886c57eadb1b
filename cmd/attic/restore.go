package attic

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/atticfs/attic/internal/config"
	"github.com/atticfs/attic/internal/journal"
	"github.com/atticfs/attic/internal/relocate"
	"github.com/atticfs/attic/internal/types"
)

var (
	flagRestoreBackupRoot string
	flagRestoreDryRun     bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "restore [path]",
		Short: "Move relocated files back from the backup store",
		Long:  "Restore finds every symlink in the tree that points into the backup store and replaces it with the backed-up file, timestamps included.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRestore,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagRestoreBackupRoot, "backup-root", "", "backup store the symlinks point into")
	cmd.Flags().BoolVar(&flagRestoreDryRun, "dry-run", false, "list what would be restored without touching anything")
}

func runRestore(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(abs); err == nil {
		lcfg = c
	}
	backupRoot := pickString(flagRestoreBackupRoot, lcfg.BackupRoot, gcfg.BackupRoot)
	if backupRoot == "" {
		return fmt.Errorf("no backup root configured; pass --backup-root")
	}
	backup, err := filepath.Abs(backupRoot)
	if err != nil {
		return err
	}

	rel := &relocate.Relocator{TreeRoot: abs, BackupRoot: backup}
	targets, err := rel.FindRelocated()
	if err != nil {
		return fmt.Errorf("scan for relocated files: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(targets) == 0 {
		fmt.Fprintln(out, "Nothing to restore.")
		return nil
	}

	if flagRestoreDryRun {
		fmt.Fprintf(out, "Would restore %d file(s):\n", len(targets))
		for _, t := range targets {
			fmt.Fprintln(out, " ", t)
		}
		return nil
	}

	started := time.Now()
	var records []types.Record
	failed := 0
	for _, t := range targets {
		rec := rel.Restore(t)
		records = append(records, rec)
		if rec.Failed() {
			failed++
			fmt.Fprintf(out, "FAILED  %s: %s\n", t, rec.Reason)
			continue
		}
		fmt.Fprintf(out, "restored  %s (%s)\n", t, humanize.IBytes(uint64(rec.SizeBytes)))
	}

	jrec := journal.RunRecord{
		Timestamp:   started,
		RunID:       fmt.Sprintf("restore_%d", started.Unix()),
		Root:        abs,
		BackupRoot:  backup,
		Relocations: records,
		Duration:    time.Since(started).String(),
	}
	if jerr := journal.New(abs).Append(jrec); jerr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: could not write journal:", jerr)
	}

	if failed > 0 {
		fmt.Fprintf(out, "%d of %d restores failed\n", failed, len(targets))
		os.Exit(1)
	}
	return nil
}
