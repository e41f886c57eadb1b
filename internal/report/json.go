package report

import (
	"encoding/json"
	"io"

	"github.com/atticfs/attic/internal/types"
)

// WriteJSON emits the full summary as indented JSON for pipelines.
func WriteJSON(w io.Writer, s types.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
