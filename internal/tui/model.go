// Package tui implements the interactive review screen shown before
// relocation: the operator picks which size violations actually move to
// the backup store.
package tui

import (
	"fmt"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/atticfs/attic/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// Model lets the operator toggle which violations to relocate.
type Model struct {
	violations []types.Classification
	backupRoot string
	selected   map[int]bool
	confirmed  bool
	status     string
	tbl        table.Model
}

func NewModel(violations []types.Classification, backupRoot string) *Model {
	m := &Model{
		violations: violations,
		backupRoot: backupRoot,
		selected:   make(map[int]bool, len(violations)),
	}
	// everything starts selected; review is for opting files out
	for i := range violations {
		m.selected[i] = true
	}

	cols := []table.Column{
		{Title: " ", Width: 3},
		{Title: "Path", Width: 48},
		{Title: "Size", Width: 10},
		{Title: "Destination", Width: 48},
	}
	height := len(violations)
	if height > 15 {
		height = 15
	}
	m.tbl = table.New(
		table.WithColumns(cols),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(height+1),
	)
	return m
}

func (m *Model) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.violations))
	for i, v := range m.violations {
		mark := " "
		if m.selected[i] {
			mark = "x"
		}
		rows = append(rows, table.Row{
			mark,
			v.Path,
			humanize.IBytes(uint64(v.SizeBytes)),
			filepath.Join(m.backupRoot, filepath.FromSlash(v.Path)),
		})
	}
	return rows
}

// Selected returns the tree-relative paths the operator kept selected.
func (m *Model) Selected() []string {
	var out []string
	for i, v := range m.violations {
		if m.selected[i] {
			out = append(out, v.Path)
		}
	}
	return out
}

// Confirmed reports whether the operator approved relocation.
func (m *Model) Confirmed() bool { return m.confirmed }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.confirmed = false
			return m, tea.Quit
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		case " ":
			i := m.tbl.Cursor()
			m.selected[i] = !m.selected[i]
			m.tbl.SetRows(m.rows())
			return m, nil
		case "a":
			for i := range m.violations {
				m.selected[i] = true
			}
			m.tbl.SetRows(m.rows())
			return m, nil
		case "n":
			for i := range m.violations {
				m.selected[i] = false
			}
			m.tbl.SetRows(m.rows())
			return m, nil
		case "y":
			i := m.tbl.Cursor()
			if i >= 0 && i < len(m.violations) {
				dest := filepath.Join(m.backupRoot, filepath.FromSlash(m.violations[i].Path))
				if err := clipboard.WriteAll(dest); err != nil {
					m.status = "clipboard unavailable"
				} else {
					m.status = "copied " + dest
				}
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.tbl.SetWidth(msg.Width - 2)
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	title := titleStyle.Render(fmt.Sprintf("Relocate %d of %d oversized files?", len(m.Selected()), len(m.violations)))
	body := tableBorderStyle.Render(m.tbl.View())
	help := helpStyle.Render("space toggle · a all · n none · y copy destination · enter relocate · q abort")
	out := title + "\n" + body + "\n" + help
	if m.status != "" {
		out += "\n" + statusStyle.Render(m.status)
	}
	return out
}
