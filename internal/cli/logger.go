package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/gitbridge/internal/config"
	"github.com/mrz1836/gitbridge/internal/constants"
)

// logFileWriter holds the log file writer for cleanup purposes.
// This is package-level to enable cleanup during shutdown.
var logFileWriter io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup

// InitLogger creates and configures a zerolog.Logger based on verbosity flags.
//
// Log levels are set as follows:
//   - verbose=true: Debug level (most detailed)
//   - quiet=true: Warn level (errors and warnings only)
//   - default: Info level (normal operation)
//
// Output format is determined by the terminal:
//   - TTY with colors enabled: Console writer with timestamps
//   - Non-TTY or NO_COLOR set: JSON output to stderr
//
// The logger also writes to ~/.gitbridge/logs/gitbridge.log with rotation
// enabled. If the log file cannot be created, the logger continues with
// console-only output. Logs never go to stdout: stdout carries protocol
// frames when the server is running.
func InitLogger(verbose, quiet bool) zerolog.Logger {
	return InitLoggerWithRotation(verbose, quiet, defaultRotation())
}

// InitLoggerWithRotation is InitLogger with explicit log rotation settings,
// used once configuration has been loaded.
func InitLoggerWithRotation(verbose, quiet bool, rotation config.LogConfig) zerolog.Logger {
	console := selectOutput()

	var writer io.Writer
	fileWriter, err := createLogFileWriter(rotation)
	if err != nil || fileWriter == nil {
		// Log file creation failed; continue with console-only output
		writer = console
	} else {
		logFileWriter = fileWriter
		writer = zerolog.MultiLevelWriter(console, fileWriter)
	}

	logger := zerolog.New(writer).Level(selectLevel(verbose, quiet)).With().Timestamp().Logger()
	setGlobalLogger(logger)
	return logger
}

// InitLoggerWithWriter creates and configures a zerolog.Logger with a custom
// writer. This is primarily intended for testing purposes.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).Level(selectLevel(verbose, quiet)).With().Timestamp().Logger()
	setGlobalLogger(logger)
	return logger
}

// setGlobalLogger configures the global zerolog logger to match our CLI
// logger config. This ensures that any code using log.Debug(), log.Info(),
// etc. from the github.com/rs/zerolog/log package uses the same formatting.
func setGlobalLogger(cliLogger zerolog.Logger) {
	log.Logger = cliLogger
}

// CloseLogFile closes the global log file writer if it was opened.
// This should be called during application shutdown for clean cleanup.
func CloseLogFile() {
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// selectLevel determines the appropriate log level based on flags.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// selectOutput determines the appropriate output writer based on
// terminal capabilities and environment settings.
func selectOutput() io.Writer {
	// Use console writer for TTY without NO_COLOR
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}

	// Default to JSON output for non-TTY or when NO_COLOR is set
	return os.Stderr
}

// defaultRotation returns the built-in rotation settings used before
// configuration has been loaded.
func defaultRotation() config.LogConfig {
	return config.LogConfig{
		MaxSizeMB:  constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAgeDays: constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}
}

// createLogFileWriter creates a rotating file writer for the global CLI log.
func createLogFileWriter(rotation config.LogConfig) (io.WriteCloser, error) {
	home, err := getHomeDir()
	if err != nil {
		return nil, err
	}

	logDir := filepath.Join(home, constants.LogsDir)
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.LogFileName),
		MaxSize:    rotation.MaxSizeMB,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
		Compress:   rotation.Compress,
	}, nil
}

// getHomeDir returns the gitbridge home directory path.
// If the GITBRIDGE_HOME environment variable is set, it uses that.
// Otherwise, it defaults to ~/.gitbridge.
func getHomeDir() (string, error) {
	if override := os.Getenv(constants.EnvPrefix + "_HOME"); override != "" {
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.HomeDir), nil
}

// LogFilePath returns the path to the global CLI log file.
// This is useful for displaying the log location to users.
func LogFilePath() (string, error) {
	home, err := getHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, constants.LogsDir, constants.LogFileName), nil
}
