package core

import (
	"encoding/json"
	"io"
)

// MarshalSummary pretty-prints a run summary as JSON for humans or pipelines.
func MarshalSummary(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// UnmarshalSummary decodes summary JSON, useful for ingestion tests.
func UnmarshalSummary(r io.Reader) (Summary, error) {
	var s Summary
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return s, err
	}
	return s, nil
}
