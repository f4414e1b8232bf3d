// Package catalog persists known video files in SQLite and owns the schema
// lifecycle for the catalog database.
//
// The Store manages the connection, migrations, entry CRUD, the identity
// lookups used by reconciliation, and the category vocabulary. The identity
// of an entry is the (file name, size) pair: two files sharing both are
// treated as the same logical asset regardless of where they live. The
// schema enforces uniqueness per storage — (file_name, size_bytes,
// storage_id) — while the reconciliation policy layer keeps the identity
// globally unique unless a duplicate is force-inserted under a second
// storage with an explicit override.
//
// All writes commit atomically per operation; batch semantics beyond a
// single statement belong to the reconcile package.
package catalog
