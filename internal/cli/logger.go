package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/namedlock/internal/config"
	"github.com/mrz1836/namedlock/internal/constants"
	"github.com/mrz1836/namedlock/internal/logging"
)

//nolint:gochecknoglobals // log file and zerolog globals are process-wide
var (
	logFileWriter     io.WriteCloser
	logFileMu         sync.Mutex
	zerologGlobalMu   sync.Mutex
	zerologConfigOnce sync.Once
)

// configureZerologGlobals stamps entries with nanosecond timestamps so the
// logs of concurrently running workers can be ordered.
func configureZerologGlobals() {
	zerologConfigOnce.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano
	})
}

// InitLogger creates the CLI logger.
//
// Log levels:
//   - verbose=true: Debug
//   - quiet=true: Warn
//   - default: Info
//
// On a TTY without NO_COLOR the console gets human-readable output, JSON
// otherwise. When withFile is true the logger also writes to
// ~/.namedlock/logs/namedlock.log with rotation; if that file cannot be
// opened logging continues on the console only. Worker processes pass
// withFile=false because many processes rotating one file would race.
func InitLogger(verbose, quiet, withFile bool) zerolog.Logger {
	writer := selectOutput()

	if withFile {
		if fileWriter, err := createLogFileWriter(); err == nil {
			logFileMu.Lock()
			logFileWriter = fileWriter
			logFileMu.Unlock()
			writer = zerolog.MultiLevelWriter(writer, fileWriter)
		}
	}

	logger := buildLogger(selectLevel(verbose, quiet), writer)
	setGlobalLogger(logger)
	return logger
}

// InitLoggerWithWriter creates a logger writing only to w. Intended for tests.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	logger := buildLogger(selectLevel(verbose, quiet), w)
	setGlobalLogger(logger)
	return logger
}

func buildLogger(level zerolog.Level, w io.Writer) zerolog.Logger {
	configureZerologGlobals()
	return zerolog.New(w).Level(level).Hook(logging.NewProcessHook()).With().Timestamp().Logger()
}

// setGlobalLogger makes the zerolog/log package logger match the CLI logger.
func setGlobalLogger(cliLogger zerolog.Logger) {
	zerologGlobalMu.Lock()
	defer zerologGlobalMu.Unlock()
	log.Logger = cliLogger
}

// CloseLogFile closes the log file writer if one was opened.
func CloseLogFile() {
	logFileMu.Lock()
	defer logFileMu.Unlock()
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

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

func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05.000",
		}
	}
	return os.Stderr
}

// createLogFileWriter opens the rotating CLI log file.
func createLogFileWriter() (io.WriteCloser, error) {
	logPath, err := LogFilePath()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}, nil
}

// LogFilePath returns the path of the CLI log file.
func LogFilePath() (string, error) {
	home, err := config.GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, constants.LogsDir, constants.CLILogFileName), nil
}
