package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/namedlock/internal/demo"
	"github.com/mrz1836/namedlock/internal/errors"
	"github.com/mrz1836/namedlock/internal/signal"
	"github.com/mrz1836/namedlock/internal/tui"
)

type demoOptions struct {
	demoFlags

	workers int
	locked  bool
}

// demoResult is the JSON form of a demo run.
type demoResult struct {
	Summary      demo.Summary      `json:"summary"`
	Verification demo.Verification `json:"verification"`
}

// AddDemoCommand adds the demo command to the root command.
func AddDemoCommand(root *cobra.Command, flags *GlobalFlags) {
	opts := &demoOptions{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Race worker processes on one shared file",
		Long: `Start many worker processes that each overwrite one shared file with their
own payload, then check the file.

With --locked every worker takes the same named lock before writing, and the
file always ends up holding one complete payload. Without it the writes
interleave and the file is usually corrupted.`,
		Example: `  namedlock demo --locked
  namedlock demo --workers 20 --lines 500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd, flags, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "number of worker processes")
	cmd.Flags().BoolVar(&opts.locked, "locked", false, "serialize writers with the named lock")

	root.AddCommand(cmd)
}

func runDemo(cmd *cobra.Command, flags *GlobalFlags, opts *demoOptions) error {
	logger := GetLogger()

	overrides := opts.overrides()
	overrides.Demo.Workers = opts.workers
	cfg, err := loadConfig(cmd.Context(), logger, overrides)
	if err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "failed to locate the namedlock executable")
	}

	path := cfg.Demo.FilePath()
	extra := []string{
		"--file", path,
		"--lock-name", cfg.Demo.LockName,
		"--lines", strconv.Itoa(cfg.Demo.Lines),
		"--timeout", cfg.Demo.Timeout.String(),
		"--lock-dir=" + cfg.Lock.Dir,
	}
	switch {
	case flags.Verbose:
		extra = append(extra, "--verbose")
	case flags.Quiet:
		extra = append(extra, "--quiet")
	}

	handler := signal.NewHandler(cmd.Context())
	defer handler.Stop()

	launcher := &demo.Launcher{
		Executable: exe,
		Workers:    cfg.Demo.Workers,
		Locked:     opts.locked,
		ExtraArgs:  extra,
		Stdout:     cmd.ErrOrStderr(),
		Stderr:     cmd.ErrOrStderr(),
		Logger:     logger,
	}

	logger.Info().
		Int("workers", launcher.Workers).
		Bool("locked", launcher.Locked).
		Str("file", path).
		Msg("starting workers")

	summary, err := launcher.Run(handler.Context())
	if err != nil {
		if handler.Received() != nil {
			return errors.Wrap(errors.ErrOperationCanceled, "demo interrupted")
		}
		return errors.Wrap(err, "failed to run workers")
	}

	verification, err := demo.Verify(path, cfg.Demo.Lines)
	if err != nil {
		if summary.Failed > 0 {
			return workersFailed(summary)
		}
		return err
	}

	out := newOutput(cmd.OutOrStdout(), flags)
	if flags.Output == OutputJSON {
		if err := out.JSON(demoResult{Summary: summary, Verification: verification}); err != nil {
			return err
		}
	} else {
		out.Details("Demo", demoFields(summary, verification))
	}

	return demoVerdict(out, summary, verification)
}

// demoVerdict reports the result and returns the command error, if any.
// A corrupted file is expected without the lock and only warned about.
func demoVerdict(out tui.Output, summary demo.Summary, v demo.Verification) error {
	switch {
	case summary.Failed > 0:
		return workersFailed(summary)
	case v.Intact:
		out.Success(fmt.Sprintf("File holds the complete payload of worker %d", v.Writer))
		return nil
	case summary.Locked:
		return errors.Wrapf(errors.ErrDemoCorrupted, "%s holds lines from %d workers", v.Path, len(v.Workers))
	default:
		out.Warning(fmt.Sprintf("File is corrupted: lines from %d workers, %d malformed", len(v.Workers), v.Malformed))
		return nil
	}
}

func demoFields(summary demo.Summary, v demo.Verification) []tui.Field {
	return []tui.Field{
		{Key: "Workers", Value: strconv.Itoa(summary.Workers)},
		{Key: "Locked", Value: strconv.FormatBool(summary.Locked)},
		{Key: "Failed", Value: strconv.Itoa(summary.Failed)},
		{Key: "Elapsed", Value: summary.Elapsed.Round(time.Millisecond).String()},
		{Key: "File", Value: v.Path},
		{Key: "Lines", Value: strconv.Itoa(v.Lines)},
		{Key: "Writers", Value: strconv.Itoa(len(v.Workers))},
		{Key: "Malformed", Value: strconv.Itoa(v.Malformed)},
	}
}

func workersFailed(summary demo.Summary) error {
	return errors.Wrapf(errors.ErrWorkerFailed, "%d of %d workers failed", summary.Failed, summary.Workers)
}
