// Package ledger accumulates classifications and relocation records in
// arrival order. It deliberately does not deduplicate: a path scanned twice
// produces two entries.
package ledger

import "github.com/atticfs/attic/internal/types"

type Ledger struct {
	classifications []types.Classification
	relocations     []types.Record
	counts          map[types.Kind]int

	files     int
	dirs      int
	totalSize int64
}

func New() *Ledger {
	return &Ledger{counts: make(map[types.Kind]int)}
}

func (l *Ledger) AddClassification(c types.Classification) {
	l.classifications = append(l.classifications, c)
	l.counts[c.Kind]++
	if c.Kind == types.KindProbeError {
		return
	}
	if c.IsDir {
		l.dirs++
	} else {
		l.files++
		l.totalSize += c.SizeBytes
	}
}

func (l *Ledger) AddRecord(r types.Record) {
	l.relocations = append(l.relocations, r)
}

func (l *Ledger) Count(kind types.Kind) int { return l.counts[kind] }

func (l *Ledger) FilesScanned() int { return l.files }

func (l *Ledger) DirsScanned() int { return l.dirs }

// TotalSize is the byte sum of every regular (non-symlink) file seen.
func (l *Ledger) TotalSize() int64 { return l.totalSize }

// Classifications returns the full ordered sequence. The slice is shared;
// callers must not mutate it.
func (l *Ledger) Classifications() []types.Classification { return l.classifications }

func (l *Ledger) Relocations() []types.Record { return l.relocations }
