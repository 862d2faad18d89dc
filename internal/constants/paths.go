package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.namedlock/logs/namedlock.log
	CLILogFileName = "namedlock.log"

	// LogMaxSizeMB is the size in megabytes at which the CLI log rotates.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is the number of days rotated log files are kept.
	LogMaxAgeDays = 14

	// LogCompress controls gzip compression of rotated log files.
	LogCompress = true
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global configuration file.
	// This file is located in the namedlock home directory.
	GlobalConfigName = "config.yaml"

	// EnvPrefix is the prefix of environment variables read by the config loader.
	EnvPrefix = "NAMEDLOCK"

	// EnvHome overrides the namedlock home directory.
	EnvHome = "NAMEDLOCK_HOME"
)
