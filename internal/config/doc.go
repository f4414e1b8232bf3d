// Package config loads and validates reelcat configuration.
//
// Configuration lives in a TOML file, by default at
// ~/.config/reelcat/config.toml, with a project-local reelcat.toml fallback.
// Load applies defaults, expands ~ in path fields, and validates the result,
// so downstream packages always receive absolute paths and a usable
// extension filter.
package config
