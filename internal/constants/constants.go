// Package constants provides centralized constant values used throughout gitbridge.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

// Application identity.
const (
	// AppName is the canonical application name used in logs and protocol metadata.
	AppName = "gitbridge"

	// EnvPrefix is the prefix for environment variable configuration
	// (e.g., GITBRIDGE_OUTPUT, GITBRIDGE_SERVER_DEFAULT_REPO_PATH).
	EnvPrefix = "GITBRIDGE"

	// LegacyRepoPathEnvVar is the unprefixed environment variable honored as a
	// fallback default repository path for compatibility with existing agent
	// harness configurations.
	LegacyRepoPathEnvVar = "REPO_PATH"
)

// Directory and file names used by gitbridge for organizing data.
const (
	// HomeDir is the hidden directory name where gitbridge stores its data.
	// This directory is created in the user's home directory.
	HomeDir = ".gitbridge"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// LogFileName is the name of the rotating log file.
	LogFileName = "gitbridge.log"

	// ConfigFileName is the name of the YAML configuration file.
	ConfigFileName = "config.yaml"
)

// Log rotation settings for the rotating file writer.
const (
	// LogMaxSizeMB is the maximum size of a log file before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age of rotated log files.
	LogMaxAgeDays = 30

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// Repository defaults.
const (
	// BaselineFileName is the marker file committed by initialize_repo when an
	// initial commit is requested on an empty repository.
	BaselineFileName = "README.md"

	// BaselineFileContent is the content written to the baseline marker file.
	BaselineFileContent = "# Project\n\nInitialized by gitbridge.\n"

	// InitialCommitMessage is the message used for the baseline commit.
	InitialCommitMessage = "Initial commit"
)

// Operation limits.
const (
	// DefaultLogLimit is the default number of commits returned by list_commits.
	DefaultLogLimit = 50

	// MaxLogLimit caps list_commits; larger requests are clamped, not rejected.
	MaxLogLimit = 500

	// ShortShaLen is the length of abbreviated commit hashes in results.
	ShortShaLen = 7

	// MessageSummaryMaxFiles is the number of file names listed in a synthesized
	// commit message before eliding with a count.
	MessageSummaryMaxFiles = 5
)
