// Package config loads repomate settings from file, environment, and
// defaults.
package config

// Config holds process-wide settings. The default repository path is resolved
// once at startup and passed read-only into the tool dispatcher; callers may
// override it per operation.
type Config struct {
	// RepoPath is the default repository directory used when a tool call
	// omits repo_path. Empty means every call must supply one.
	RepoPath string `mapstructure:"repo_path"`

	// Environment tags telemetry (e.g. "production", "dev").
	Environment string `mapstructure:"environment"`

	// LogJSON switches log output to JSON. Always forced on in MCP mode,
	// where stdout carries the protocol and stderr carries logs.
	LogJSON bool `mapstructure:"log_json"`
}
