// Package attic provides the command-line interface for the attic tool.
// It configures subcommands (audit, restore, history, etc.), parses flags,
// and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/atticfs/attic/cmd/attic"
//	func main() { attic.Execute() }
package attic
