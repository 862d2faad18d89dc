// Package cli provides the command-line interface for namedlock.
package cli

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/namedlock/internal/errors"
	"github.com/mrz1836/namedlock/internal/telemetry"
	"github.com/mrz1836/namedlock/internal/tui"
)

// annotationNoLogFile marks commands whose logger must not write the shared
// rotating log file.
const annotationNoLogFile = "namedlock/no-log-file"

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// It is set during PersistentPreRunE and should be accessed via GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// It MUST only be called after the root command's PersistentPreRunE has run;
// before that it returns a zero-value logger that discards all output.
//
// This function is safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// newRootCmd creates the root command for the namedlock CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()
	var shutdownTracing func(context.Context) error

	cmd := &cobra.Command{
		Use:   "namedlock",
		Short: "Named locks shared between processes",
		Long: `namedlock provides machine-wide named locks backed by lock files.

Any process that opens a lock with the same name and lock directory contends
for the same lock. A holder that exits without releasing is detected, and the
next acquirer is told the lock was abandoned.

The demo command shows the effect: many worker processes overwrite one file,
with and without the lock.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			applyBoundFlags(v, flags)

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			_, noFile := cmd.Annotations[annotationNoLogFile]
			globalLoggerMu.Lock()
			globalLogger = InitLogger(flags.Verbose, flags.Quiet, !noFile)
			globalLoggerMu.Unlock()

			tui.CheckNoColor()

			if flags.Trace {
				shutdown, err := telemetry.Setup(os.Stderr)
				if err != nil {
					return fmt.Errorf("failed to set up tracing: %w", err)
				}
				shutdownTracing = shutdown
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if shutdownTracing == nil {
				return nil
			}
			err := shutdownTracing(cmd.Context())
			shutdownTracing = nil
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddHoldCommand(cmd, flags)
	AddStatusCommand(cmd, flags)
	AddDemoCommand(cmd, flags)
	AddWorkerCommand(cmd, flags)
	AddVerifyCommand(cmd, flags)
	AddConfigCommand(cmd, flags)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	return cmd.ExecuteContext(ctx)
}
