// Package config loads and validates GlobalDub configuration.
//
// Configuration is TOML on disk (default ~/.config/globaldub/config.toml)
// with defaults applied for every omitted key. All tunables flow from here
// into the pipeline components; there is no process-wide mutable state.
package config
