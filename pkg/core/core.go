package core

import (
	"github.com/atticfs/attic/internal/engine"
	"github.com/atticfs/attic/internal/policy"
	"github.com/atticfs/attic/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type Config = engine.Config
type Policy = policy.Policy
type Summary = types.Summary
type Classification = types.Classification
type Record = types.Record

// Audit is the stable entrypoint for other programs.
func Audit(cfg Config) (Summary, error) {
	return engine.Run(cfg)
}

// DefaultPolicy returns the built-in limits, mirroring GitHub's published
// repository thresholds. Exposed for convenience to avoid importing
// internals directly.
func DefaultPolicy() Policy { return policy.Default() }
