// Package policy defines the threshold configuration one audit run is
// measured against. A Policy is a plain value: validate it once, then pass
// it around by copy.
package policy

import (
	"errors"
	"fmt"

	"github.com/atticfs/attic/internal/types"
)

// ErrInvalidPolicy is wrapped by every validation failure.
var ErrInvalidPolicy = errors.New("invalid policy")

// Policy holds the limits enforced during a scan. All sizes are bytes.
type Policy struct {
	MaxFileSize  int64
	WarnFileSize int64

	MaxDirEntries int

	MaxTreeSize         int64
	WarnTreeSize        int64
	RecommendedTreeSize int64
}

// Default mirrors GitHub's published repository limits: 100 MiB hard and
// 50 MiB soft per file, 1000 entries per directory, 100 GiB hard, 5 GiB
// soft and 1 GiB recommended for the whole tree.
func Default() Policy {
	return Policy{
		MaxFileSize:         100 << 20,
		WarnFileSize:        50 << 20,
		MaxDirEntries:       1000,
		MaxTreeSize:         100 << 30,
		WarnTreeSize:        5 << 30,
		RecommendedTreeSize: 1 << 30,
	}
}

// Validate checks positivity and warn<=max ordering for every size pair.
func (p Policy) Validate() error {
	for _, v := range []struct {
		name string
		val  int64
	}{
		{"max_file_size", p.MaxFileSize},
		{"warn_file_size", p.WarnFileSize},
		{"max_dir_entries", int64(p.MaxDirEntries)},
		{"max_tree_size", p.MaxTreeSize},
		{"warn_tree_size", p.WarnTreeSize},
		{"recommended_tree_size", p.RecommendedTreeSize},
	} {
		if v.val <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidPolicy, v.name, v.val)
		}
	}
	if p.WarnFileSize > p.MaxFileSize {
		return fmt.Errorf("%w: warn_file_size %d exceeds max_file_size %d", ErrInvalidPolicy, p.WarnFileSize, p.MaxFileSize)
	}
	if p.WarnTreeSize > p.MaxTreeSize {
		return fmt.Errorf("%w: warn_tree_size %d exceeds max_tree_size %d", ErrInvalidPolicy, p.WarnTreeSize, p.MaxTreeSize)
	}
	if p.RecommendedTreeSize > p.WarnTreeSize {
		return fmt.Errorf("%w: recommended_tree_size %d exceeds warn_tree_size %d", ErrInvalidPolicy, p.RecommendedTreeSize, p.WarnTreeSize)
	}
	return nil
}

// ClassifyFileSize grades a regular file's byte size. A size equal to the
// hard limit is a violation; a size equal to the warning limit is normal.
func (p Policy) ClassifyFileSize(size int64) (types.Kind, int64) {
	switch {
	case size >= p.MaxFileSize:
		return types.KindSizeViolation, p.MaxFileSize
	case size > p.WarnFileSize:
		return types.KindSizeWarning, p.WarnFileSize
	default:
		return types.KindNormal, 0
	}
}

// ClassifyDirCount grades a directory's immediate child count. A count
// equal to the limit is fine.
func (p Policy) ClassifyDirCount(count int) (types.Kind, int64) {
	if count > p.MaxDirEntries {
		return types.KindDirCountWarning, int64(p.MaxDirEntries)
	}
	return types.KindNormal, 0
}

// ClassifyTreeSize grades the total size of all regular files in the tree.
func (p Policy) ClassifyTreeSize(total int64) types.TreeLevel {
	switch {
	case total > p.MaxTreeSize:
		return types.TreeOverMax
	case total > p.WarnTreeSize:
		return types.TreeOverWarning
	case total > p.RecommendedTreeSize:
		return types.TreeOverRecommended
	default:
		return types.TreeOK
	}
}
