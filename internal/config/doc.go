// Package config loads sift's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/sift/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	host = "localhost"
//	port = 7172
//	request_timeout = "10s"
//	poll_interval = "5s"
//	mutation_workers = 2
//	log_file = "~/.local/state/sift/sift.log"
//
// Every field is optional. Durations use Go duration syntax. Tilde expansion
// is performed for log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors, malformed durations and out-of-range
// ports. A missing config file is not an error.
//
// Command-line flags in cmd/sift override whatever Load returns.
package config
