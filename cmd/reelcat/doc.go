// Package main hosts the reelcat CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into catalog
// operations: scanning and reconciling directories, verifying storages,
// editing entries and categories, statistics, CSV exports, and configuration
// scaffolding. It centralizes configuration resolution, catalog path
// selection, and structured logging setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
