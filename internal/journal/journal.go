// Package journal keeps an append-only JSONL record of audit runs and the
// relocations they performed. Failed and partial relocations land here too,
// so an operator can find every file that ended up only in the backup store
// long after the terminal output is gone.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atticfs/attic/internal/types"
)

// RunRecord is one journal line: the identity of a run plus every
// relocation it attempted.
type RunRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	RunID      string    `json:"run_id"`
	Root       string    `json:"root"`
	BackupRoot string    `json:"backup_root,omitempty"`

	Repo   string `json:"repo,omitempty"`
	Branch string `json:"branch,omitempty"`
	Commit string `json:"commit,omitempty"`

	FilesScanned     int   `json:"files_scanned"`
	SizeViolations   int   `json:"size_violations"`
	SizeWarnings     int   `json:"size_warnings"`
	DirCountWarnings int   `json:"dir_count_warnings"`
	TotalTreeSize    int64 `json:"total_tree_size"`

	Relocations []types.Record `json:"relocations,omitempty"`
	Duration    string         `json:"duration"`
}

type Journal struct {
	path string
}

// New places the journal under .git when the tree is a repository (so it
// never gets committed), else in the tree root.
func New(root string) *Journal {
	path := filepath.Join(root, ".attic_journal.jsonl")
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		path = filepath.Join(gitDir, "attic_journal.jsonl")
	}
	return &Journal{path: path}
}

// FromSummary builds a journal line out of a finished run.
func FromSummary(s types.Summary) RunRecord {
	return RunRecord{
		Timestamp:        s.StartedAt,
		RunID:            fmt.Sprintf("audit_%d", s.StartedAt.Unix()),
		Root:             s.Root,
		BackupRoot:       s.BackupRoot,
		Repo:             s.Repo,
		Branch:           s.Branch,
		Commit:           s.Commit,
		FilesScanned:     s.FilesScanned,
		SizeViolations:   s.SizeViolations,
		SizeWarnings:     s.SizeWarnings,
		DirCountWarnings: s.DirCountWarnings,
		TotalTreeSize:    s.TotalTreeSize,
		Relocations:      s.Relocations,
		Duration:         s.Duration.String(),
	}
}

// Append writes one record. Owner-only permissions: the journal names
// files an operator chose to move out of sight.
func (j *Journal) Append(rec RunRecord) error {
	if rec.RunID == "" {
		rec.RunID = fmt.Sprintf("audit_%d", time.Now().Unix())
	}
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return fmt.Errorf("write journal record: %w", err)
	}
	return nil
}

// LoadHistory returns all recorded runs, newest first. A corrupt tail
// (e.g. a half-written line from a killed process) is dropped rather than
// failing the whole read.
func (j *Journal) LoadHistory() ([]RunRecord, error) {
	f, err := os.Open(j.path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	var records []RunRecord
	dec := json.NewDecoder(f)
	for dec.More() {
		var rec RunRecord
		if err := dec.Decode(&rec); err != nil {
			break
		}
		records = append(records, rec)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}
