package types

import "time"

// Kind classifies a single scanned entry against the active policy.
type Kind string

const (
	KindNormal          Kind = "normal"
	KindSizeWarning     Kind = "size-warning"
	KindSizeViolation   Kind = "size-violation"
	KindDirCountWarning Kind = "dir-count-warning"
	KindProbeError      Kind = "probe-error"
)

// Classification is the scanner's verdict for one entry. Path is always
// relative to the tree root and slash-separated. For files SizeBytes is set;
// for directories EntryCount is set. Threshold carries the limit that was
// crossed (zero for Normal and ProbeError).
type Classification struct {
	Path       string `json:"path"`
	Kind       Kind   `json:"kind"`
	IsDir      bool   `json:"is_dir,omitempty"`
	SizeBytes  int64  `json:"size_bytes,omitempty"`
	EntryCount int    `json:"entry_count,omitempty"`
	Threshold  int64  `json:"threshold,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Step names the stage of the relocation protocol a failure occurred in.
type Step string

const (
	StepPrepare    Step = "prepare"
	StepMove       Step = "move"
	StepLink       Step = "link"
	StepTimestamps Step = "timestamps"
)

// Outcome is the terminal state of one relocation attempt.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Record documents one relocation attempt. InBackupOnly marks the dangerous
// partial state: the bytes live under the backup root but the original path
// has no link, so the operator must reconcile by hand (or run restore).
type Record struct {
	OriginalPath string    `json:"original_path"`
	BackupPath   string    `json:"backup_path"`
	SizeBytes    int64     `json:"size_bytes"`
	AccessTime   time.Time `json:"access_time"`
	ModifyTime   time.Time `json:"modify_time"`
	Outcome      Outcome   `json:"outcome"`
	FailedStep   Step      `json:"failed_step,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	InBackupOnly bool      `json:"in_backup_only,omitempty"`
}

// Failed reports whether the attempt did not complete.
func (r Record) Failed() bool { return r.Outcome == OutcomeFailed }

// TreeLevel grades the whole-tree size against the policy's tree thresholds.
type TreeLevel string

const (
	TreeOK              TreeLevel = "ok"
	TreeOverRecommended TreeLevel = "over-recommended"
	TreeOverWarning     TreeLevel = "over-warning"
	TreeOverMax         TreeLevel = "over-max"
)

// Summary is the result of one audit run, handed to the caller for
// rendering; it is not persisted by the engine itself.
type Summary struct {
	Root       string `json:"root"`
	BackupRoot string `json:"backup_root,omitempty"`

	// Best-effort git identity of the audited tree.
	Repo   string `json:"repo,omitempty"`
	Branch string `json:"branch,omitempty"`
	Commit string `json:"commit,omitempty"`

	FilesScanned int `json:"files_scanned"`
	DirsScanned  int `json:"dirs_scanned"`

	SizeViolations   int `json:"size_violations"`
	SizeWarnings     int `json:"size_warnings"`
	DirCountWarnings int `json:"dir_count_warnings"`
	ProbeErrors      int `json:"probe_errors"`

	TotalTreeSize int64     `json:"total_tree_size"`
	TreeLevel     TreeLevel `json:"tree_level"`

	Classifications []Classification `json:"classifications,omitempty"`
	Relocations     []Record         `json:"relocations,omitempty"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Findings returns the classifications worth showing to a human, i.e.
// everything except Normal, in arrival order.
func (s Summary) Findings() []Classification {
	var out []Classification
	for _, c := range s.Classifications {
		if c.Kind != KindNormal {
			out = append(out, c)
		}
	}
	return out
}

// FailedRelocations returns the relocation records that did not succeed.
func (s Summary) FailedRelocations() []Record {
	var out []Record
	for _, r := range s.Relocations {
		if r.Failed() {
			out = append(out, r)
		}
	}
	return out
}
