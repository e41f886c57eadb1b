package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atticfs/attic/internal/types"
)

func TestAppendAndLoadNewestFirst(t *testing.T) {
	dir := t.TempDir()
	j := New(dir)

	for i, id := range []string{"first", "second"} {
		err := j.Append(RunRecord{
			RunID:     id,
			Timestamp: time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC),
			Root:      dir,
			Relocations: []types.Record{
				{OriginalPath: "big.bin", Outcome: types.OutcomeSucceeded},
			},
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	records, err := j.LoadHistory()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].RunID != "second" || records[1].RunID != "first" {
		t.Errorf("order = %s, %s; want newest first", records[0].RunID, records[1].RunID)
	}
	if len(records[0].Relocations) != 1 {
		t.Error("relocation records lost")
	}

	fi, err := os.Stat(filepath.Join(dir, ".attic_journal.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0600 {
		t.Errorf("perm = %v, want 0600", fi.Mode().Perm())
	}
}

func TestJournalPrefersGitDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	j := New(dir)
	if err := j.Append(RunRecord{RunID: "r"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".git", "attic_journal.jsonl")); err != nil {
		t.Errorf("journal not under .git: %v", err)
	}
}

func TestLoadHistoryDropsCorruptTail(t *testing.T) {
	dir := t.TempDir()
	j := New(dir)
	if err := j.Append(RunRecord{RunID: "good"}); err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(filepath.Join(dir, ".attic_journal.jsonl"), os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("{not json\n"); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	records, err := j.LoadHistory()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].RunID != "good" {
		t.Errorf("records = %+v", records)
	}
}

func TestFromSummary(t *testing.T) {
	s := types.Summary{
		Root:           "/repo",
		BackupRoot:     "/backup",
		SizeViolations: 2,
		StartedAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Duration:       3 * time.Second,
		Relocations:    []types.Record{{OriginalPath: "a"}, {OriginalPath: "b"}},
	}
	rec := FromSummary(s)
	if rec.RunID == "" {
		t.Error("RunID empty")
	}
	if rec.SizeViolations != 2 || len(rec.Relocations) != 2 {
		t.Errorf("record = %+v", rec)
	}
	if rec.Duration != "3s" {
		t.Errorf("Duration = %q", rec.Duration)
	}
}
