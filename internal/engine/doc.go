// Package engine orchestrates one audit run: it drives the tree scanner,
// feeds the violation ledger, hands hard-limit violators to the relocator,
// and grades the whole-tree size. This package is internal; external
// consumers should use the stable facade in pkg/core.
package engine
