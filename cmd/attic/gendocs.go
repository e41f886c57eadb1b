package attic

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/atticfs/attic/internal/policy"
)

// gendocs regenerates the default limits section in README.md between
// the markers <!-- BEGIN:DEFAULT_LIMITS --> and <!-- END:DEFAULT_LIMITS -->.
func init() {
	cmd := &cobra.Command{
		Use:   "gendocs",
		Short: "Regenerate README default limits",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := "README.md"
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			start := []byte("<!-- BEGIN:DEFAULT_LIMITS -->")
			end := []byte("<!-- END:DEFAULT_LIMITS -->")
			i := bytes.Index(b, start)
			j := bytes.Index(b, end)
			if i < 0 || j < 0 || j <= i {
				return fmt.Errorf("markers not found in README.md")
			}

			p := policy.Default()
			var out strings.Builder
			out.WriteString("\nDefaults (override with flags or an `.attic.yml`):\n\n")
			out.WriteString("| Limit | Default | Effect |\n")
			out.WriteString("|---|---|---|\n")
			row := func(name string, v int64, effect string) {
				fmt.Fprintf(&out, "| %s | %s | %s |\n", name, humanize.IBytes(uint64(v)), effect)
			}
			row("max-file-size", p.MaxFileSize, "file relocated with --relocate")
			row("warn-file-size", p.WarnFileSize, "file reported as a warning")
			fmt.Fprintf(&out, "| max-dir-entries | %d | directory reported as a warning |\n", p.MaxDirEntries)
			row("max-tree-size", p.MaxTreeSize, "tree flagged over the hard limit")
			row("warn-tree-size", p.WarnTreeSize, "tree flagged over the warning threshold")
			row("recommended-tree-size", p.RecommendedTreeSize, "tree flagged over the recommended size")

			var nb bytes.Buffer
			nb.Write(b[:i])
			nb.Write(start)
			nb.WriteString("\n")
			nb.WriteString(out.String())
			nb.Write(end)
			nb.Write(b[j+len(end):])
			return os.WriteFile(path, nb.Bytes(), 0644)
		},
	}
	rootCmd.AddCommand(cmd)
}
