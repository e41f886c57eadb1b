// Package core provides a small, stable facade over attic's internal engine
// for external integrations. It deliberately re-exports a narrow API surface
// so other tools can depend on a stable import path without exposing internal
// implementation packages.
//
// Example:
//
//	cfg := core.Config{Root: ".", Policy: core.DefaultPolicy()}
//	summary, err := core.Audit(cfg)
//	if err != nil { /* handle */ }
//	_ = core.MarshalSummary(os.Stdout, summary)
package core
