// Package report renders audit summaries for humans and pipelines. The
// summary itself is produced by the engine; nothing here mutates it.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/atticfs/attic/internal/types"
)

var (
	violationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	probeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pathStyle      = lipgloss.NewStyle().Bold(true)
)

type PrintOptions struct {
	NoColor bool
}

// PrintSummary writes the human-readable report: findings in arrival order,
// relocation results, a category table, and the tree-size footer.
func PrintSummary(w io.Writer, s types.Summary, opts PrintOptions) {
	if s.Repo != "" {
		fmt.Fprintf(w, "Audited %s (%s @ %s)\n", s.Root, s.Repo, shortCommit(s.Commit))
	} else {
		fmt.Fprintf(w, "Audited %s\n", s.Root)
	}
	fmt.Fprintln(w)

	findings := s.Findings()
	if len(findings) == 0 {
		fmt.Fprintln(w, style(okStyle, opts, "OK")+"  no entries exceed the configured limits")
	}
	for _, c := range findings {
		fmt.Fprintln(w, findingLine(c, opts))
	}

	if len(s.Relocations) > 0 {
		fmt.Fprintln(w)
		for _, r := range s.Relocations {
			fmt.Fprintln(w, relocationLine(r, opts))
		}
	}

	fmt.Fprintln(w)
	countsTable(w, s)

	fmt.Fprintf(w, "\nTree size: %s (%s)\n", humanize.IBytes(uint64(s.TotalTreeSize)), treeLevelText(s.TreeLevel, opts))
	fmt.Fprintf(w, "Scanned %d files, %d directories in %.2fs\n", s.FilesScanned, s.DirsScanned, s.Duration.Seconds())
}

func findingLine(c types.Classification, opts PrintOptions) string {
	switch c.Kind {
	case types.KindSizeViolation:
		return fmt.Sprintf("%s  %s is %s (max %s)",
			style(violationStyle, opts, "VIOLATION"), style(pathStyle, opts, c.Path),
			humanize.IBytes(uint64(c.SizeBytes)), humanize.IBytes(uint64(c.Threshold)))
	case types.KindSizeWarning:
		return fmt.Sprintf("%s    %s is %s (warn above %s)",
			style(warningStyle, opts, "WARNING"), style(pathStyle, opts, c.Path),
			humanize.IBytes(uint64(c.SizeBytes)), humanize.IBytes(uint64(c.Threshold)))
	case types.KindDirCountWarning:
		return fmt.Sprintf("%s    %s holds %d entries (limit %d)",
			style(warningStyle, opts, "WARNING"), style(pathStyle, opts, c.Path),
			c.EntryCount, c.Threshold)
	case types.KindProbeError:
		return fmt.Sprintf("%s      %s: %s",
			style(probeStyle, opts, "ERROR"), style(pathStyle, opts, c.Path), c.Error)
	default:
		return fmt.Sprintf("ok         %s", c.Path)
	}
}

func relocationLine(r types.Record, opts PrintOptions) string {
	if !r.Failed() {
		return fmt.Sprintf("%s   %s -> %s (%s)",
			style(okStyle, opts, "RELOCATED"), r.OriginalPath, r.BackupPath,
			humanize.IBytes(uint64(r.SizeBytes)))
	}
	line := fmt.Sprintf("%s  %s: %s step failed: %s",
		style(violationStyle, opts, "RELOC-FAIL"), r.OriginalPath, r.FailedStep, r.Reason)
	if r.InBackupOnly {
		line += fmt.Sprintf("\n            file present only in backup (%s), original path empty — reconcile manually or run restore", r.BackupPath)
	}
	return line
}

func countsTable(w io.Writer, s types.Summary) {
	table := tablewriter.NewTable(w)
	table.Header("Category", "Count")
	_ = table.Append("Files scanned", fmt.Sprint(s.FilesScanned))
	_ = table.Append("Directories scanned", fmt.Sprint(s.DirsScanned))
	_ = table.Append("Size violations", fmt.Sprint(s.SizeViolations))
	_ = table.Append("Size warnings", fmt.Sprint(s.SizeWarnings))
	_ = table.Append("Directory count warnings", fmt.Sprint(s.DirCountWarnings))
	_ = table.Append("Probe errors", fmt.Sprint(s.ProbeErrors))
	if len(s.Relocations) > 0 {
		_ = table.Append("Relocations", fmt.Sprint(len(s.Relocations)))
		_ = table.Append("Relocation failures", fmt.Sprint(len(s.FailedRelocations())))
	}
	_ = table.Render()
}

func treeLevelText(l types.TreeLevel, opts PrintOptions) string {
	switch l {
	case types.TreeOverMax:
		return style(violationStyle, opts, "over hard limit")
	case types.TreeOverWarning:
		return style(warningStyle, opts, "over warning threshold")
	case types.TreeOverRecommended:
		return style(warningStyle, opts, "over recommended size")
	default:
		return style(okStyle, opts, "within limits")
	}
}

func style(st lipgloss.Style, opts PrintOptions, s string) string {
	if opts.NoColor {
		return s
	}
	return st.Render(s)
}

func shortCommit(c string) string {
	if len(c) > 8 {
		return c[:8]
	}
	return c
}
