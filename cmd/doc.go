// Package cmd implements the command-line interface for the cedar in-memory
// key-value store. It provides a hierarchical command structure for exploring
// and benchmarking the store engine.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value store operations (demo walkthrough, perf)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See cedar -help for a list of all commands.
package cmd
