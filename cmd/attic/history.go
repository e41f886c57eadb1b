package attic

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/atticfs/attic/internal/journal"
)

var flagHistoryLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show past audit and restore runs for a tree",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistory,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "show at most this many runs")
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	records, err := journal.New(abs).LoadHistory()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
			return nil
		}
		return err
	}
	if flagHistoryLimit > 0 && len(records) > flagHistoryLimit {
		records = records[:flagHistoryLimit]
	}

	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	table := tablewriter.NewTable(cmd.OutOrStdout())
	table.Header("When", "Run", "Violations", "Relocations", "Tree size")
	for _, r := range records {
		_ = table.Append(
			r.Timestamp.Format("2006-01-02 15:04"),
			r.RunID,
			fmt.Sprint(r.SizeViolations),
			fmt.Sprint(len(r.Relocations)),
			humanize.IBytes(uint64(r.TotalTreeSize)),
		)
	}
	return table.Render()
}
