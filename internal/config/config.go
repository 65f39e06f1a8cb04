// Package config handles configuration loading and defaults.
package config

// Default values.
const (
	DefaultTasksFile  = "tasks.json"
	DefaultSchemaFile = "tasks.schema.json"
)

// Config holds the full configuration for tasktrack.
type Config struct {
	// Paths
	TasksFile  string `toml:"tasks_file"`
	SchemaFile string `toml:"schema_file"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.TasksFile = DefaultTasksFile
	cfg.SchemaFile = DefaultSchemaFile
	cfg.LogLevel = "info"
	cfg.LogFormat = "text"
}
