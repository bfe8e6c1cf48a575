// Package configs resolves the per-user directories and persisted
// configuration for the Veil client.
//
// Paths follow the XDG base directory conventions: the custody store
// lives under the data dir, configuration and session files under the
// config dir. Configuration is stored as TOML.
package configs
