// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with TOML as the file format.
//
// Configuration is loaded from ~/.config/rustpack/config.toml (or XDG equivalent on Linux,
// ~/Library/Application Support/rustpack/config.toml on macOS, %APPDATA%\rustpack\config.toml
// on Windows). The package provides type-safe configuration access for bundling defaults,
// minifier behavior, and UI settings. Flag values set on the command line always take
// precedence over file values.
package config
