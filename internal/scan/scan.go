// Package scan walks a directory tree and classifies every regular file
// and directory against a policy. The walk is single-threaded and
// deterministic: siblings are visited in lexicographic order, priority
// subtrees first. This package is internal; external consumers should use
// the stable facade in pkg/core.
package scan

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"

	"github.com/atticfs/attic/internal/policy"
	"github.com/atticfs/attic/internal/types"
)

// ErrScan is wrapped by fatal traversal failures (root missing, root not a
// directory). Per-entry failures never abort the walk; they surface as
// KindProbeError classifications instead.
var ErrScan = errors.New("scan failed")

// Config selects the tree to walk and how to classify it.
type Config struct {
	// Root is the tree root. Must exist and be a directory.
	Root string

	Policy policy.Policy

	// PriorityDirs are tree-relative paths scanned and reported before the
	// rest of the tree. Reporting order only; classification is identical.
	PriorityDirs []string

	// ExcludeGlobs are doublestar patterns (matched against the
	// slash-separated relative path and the base name) pruning entries
	// from the audit entirely.
	ExcludeGlobs []string
}

type Scanner struct {
	cfg Config
}

func New(cfg Config) *Scanner {
	return &Scanner{cfg: cfg}
}

// Scan traverses the tree and invokes emit for every classification, in
// order. Symbolic links are never measured or classified: a link may be the
// product of a prior relocation and its target lives outside the tree.
func (s *Scanner) Scan(emit func(types.Classification)) error {
	fi, err := os.Lstat(s.cfg.Root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScan, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrScan, s.cfg.Root)
	}

	priority := s.priorityPaths()
	skip := make(map[string]bool, len(priority))
	for _, rel := range priority {
		skip[rel] = true
		s.walk(filepath.Join(s.cfg.Root, filepath.FromSlash(rel)), rel, nil, emit)
	}
	s.walk(s.cfg.Root, ".", skip, emit)
	return nil
}

// priorityPaths filters the configured priority dirs down to existing,
// non-excluded directories, dropping any nested under an earlier one.
func (s *Scanner) priorityPaths() []string {
	var out []string
	for _, d := range s.cfg.PriorityDirs {
		rel := path.Clean(filepath.ToSlash(d))
		if rel == "." || rel == "/" || strings.HasPrefix(rel, "..") {
			continue
		}
		if s.excluded(rel) || covered(out, rel) {
			continue
		}
		fi, err := os.Lstat(filepath.Join(s.cfg.Root, filepath.FromSlash(rel)))
		if err != nil || !fi.IsDir() {
			continue
		}
		out = append(out, rel)
	}
	return out
}

func covered(prefixes []string, rel string) bool {
	for _, p := range prefixes {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	return false
}

// walk emits a classification for the directory itself (except the root)
// and then descends into its entries in lexicographic order. skip holds
// relative paths already covered by the priority pass.
func (s *Scanner) walk(abs, rel string, skip map[string]bool, emit func(types.Classification)) {
	entries, err := os.ReadDir(abs)
	if err != nil {
		emit(types.Classification{Path: rel, Kind: types.KindProbeError, IsDir: true, Error: err.Error()})
		return
	}
	if rel != "." {
		kind, threshold := s.cfg.Policy.ClassifyDirCount(len(entries))
		emit(types.Classification{
			Path:       rel,
			Kind:       kind,
			IsDir:      true,
			EntryCount: len(entries),
			Threshold:  threshold,
		})
	}
	for _, e := range entries {
		childRel := e.Name()
		if rel != "." {
			childRel = rel + "/" + e.Name()
		}
		if skip[childRel] || s.excluded(childRel) {
			continue
		}
		switch {
		case e.Type()&os.ModeSymlink != 0:
			// never measured; may point at a relocated file
		case e.IsDir():
			s.walk(filepath.Join(abs, e.Name()), childRel, skip, emit)
		case e.Type().IsRegular():
			info, err := e.Info()
			if err != nil {
				emit(types.Classification{Path: childRel, Kind: types.KindProbeError, Error: err.Error()})
				continue
			}
			kind, threshold := s.cfg.Policy.ClassifyFileSize(info.Size())
			emit(types.Classification{
				Path:      childRel,
				Kind:      kind,
				SizeBytes: info.Size(),
				Threshold: threshold,
			})
		}
		// sockets, fifos and devices are not audit subjects
	}
}

func (s *Scanner) excluded(rel string) bool {
	for _, g := range s.cfg.ExcludeGlobs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, path.Base(rel)); ok {
			return true
		}
	}
	return false
}
