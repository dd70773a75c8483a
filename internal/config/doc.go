// Package config provides settings loading, merging, and path management for
// the LumeDB CLI.
//
// # Settings Loading
//
// The Load function searches for and merges settings from multiple sources in
// priority order:
//
//  1. Global config (~/.config/lumedb/ - XDG compatible)
//  2. Project config (the working directory)
//  3. LUMEDB_CONFIG file
//  4. Environment variables
//
// Later sources override earlier ones field by field, so a project file can
// change the folder while keeping the backup interval from the global file.
//
// # Supported Formats
//
// Each directory is probed for lumedb.json, lumedb.jsonc, lumedb.yaml, and
// lumedb.yml. JSONC files are stripped of comments with tidwall/jsonc before
// parsing; YAML files are parsed with gopkg.in/yaml.v3.
//
// # Environment Variable Overrides
//
// Environment variables have the highest precedence:
//   - LUMEDB_FOLDER, LUMEDB_FILE - database location
//   - LUMEDB_READABLE, LUMEDB_NO_BLANK_DATA - formatting and pruning toggles
//   - LUMEDB_BACKUP_INTERVAL - duration string or minutes
//   - LUMEDB_CHECK_UPDATES, LUMEDB_WATCH - feature toggles
//   - LUMEDB_LOG_LEVEL - log verbosity
//   - LUMEDB_CONFIG - path to an extra settings file
//
// # Intervals
//
// Backup intervals accept either a Go duration string ("90s", "5m") or a bare
// number of minutes (5, 0.5), in files and in the environment alike.
//
// # Path Management
//
// The package provides XDG Base Directory Specification compliant path
// management through the Paths type:
//   - Data: ~/.local/share/lumedb (XDG_DATA_HOME)
//   - Config: ~/.config/lumedb (XDG_CONFIG_HOME)
//
// On Windows, these paths are adapted to use APPDATA as appropriate.
//
// # Usage Example
//
//	settings, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	opts := lumedb.DefaultOptions()
//	settings.Apply(&opts)
//	store, err := lumedb.New(opts)
package config
