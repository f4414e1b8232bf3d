// Package reconcile compares disk scans against the catalog and applies the
// resulting mutations.
//
// The Engine is read-only: Classify tags every scan descriptor with an
// outcome (new file, moved, in sync, duplicate elsewhere, name match with a
// size mismatch) and Verify reports the differences between a storage's
// catalog rows and a fresh scan without writing anything. The Applier is the
// only writer: it takes a selection of classified items and commits them as
// one batch under a file lock, refusing the whole batch when it contains
// cross-storage duplicates and no override was given.
package reconcile
