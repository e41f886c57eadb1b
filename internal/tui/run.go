package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atticfs/attic/internal/types"
)

// Review shows the selection screen and returns the paths the operator
// approved for relocation. confirmed is false when the operator aborted.
func Review(violations []types.Classification, backupRoot string) (selected []string, confirmed bool, err error) {
	m := NewModel(violations, backupRoot)
	out, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, false, fmt.Errorf("review UI: %w", err)
	}
	final, ok := out.(*Model)
	if !ok {
		return nil, false, fmt.Errorf("unexpected model type %T", out)
	}
	return final.Selected(), final.Confirmed(), nil
}
