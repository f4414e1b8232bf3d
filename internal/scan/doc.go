// Package scan discovers video files on disk and turns them into neutral
// descriptors for reconciliation against the catalog.
//
// Scanning is read-only: it never mutates the filesystem or the catalog.
// The walker filters by a configured extension allowlist and can traverse
// subdirectories or stay flat. Helpers infer a release year from the file
// name and a storage label from the mount path, both best-effort.
package scan
