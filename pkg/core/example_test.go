package core_test

import (
	"fmt"
	"os"

	"github.com/atticfs/attic/pkg/core"
)

// ExampleAudit demonstrates a read-only audit of a directory.
func ExampleAudit() {
	cfg := core.Config{
		Root:   ".",
		Policy: core.DefaultPolicy(),
	}

	summary, err := core.Audit(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit failed: %v\n", err)
		return
	}

	if summary.SizeViolations == 0 {
		fmt.Println("No files over the limit.")
	} else {
		fmt.Printf("%d file(s) over the limit.\n", summary.SizeViolations)
		_ = core.MarshalSummary(os.Stdout, summary)
	}
}

// ExampleAudit_relocate moves every violator into a backup store and leaves
// symlinks at the original paths.
func ExampleAudit_relocate() {
	cfg := core.Config{
		Root:         "/srv/repos/big-tree",
		Policy:       core.DefaultPolicy(),
		BackupRoot:   "/srv/attic-backup",
		AutoRelocate: true,
	}

	summary, err := core.Audit(cfg)
	if err != nil {
		panic(err)
	}

	for _, rec := range summary.Relocations {
		if rec.Failed() {
			fmt.Printf("FAILED %s at step %s: %s\n", rec.OriginalPath, rec.FailedStep, rec.Reason)
			continue
		}
		fmt.Printf("moved %s -> %s\n", rec.OriginalPath, rec.BackupPath)
	}
}
