package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mrz1836/namedlock/internal/config"
	"github.com/mrz1836/namedlock/internal/constants"
	"github.com/mrz1836/namedlock/internal/demo"
	"github.com/mrz1836/namedlock/internal/errors"
	"github.com/mrz1836/namedlock/internal/metrics"
	"github.com/mrz1836/namedlock/internal/namedlock"
	"github.com/mrz1836/namedlock/internal/signal"
)

// demoFlags are the settings shared by the demo and worker commands.
type demoFlags struct {
	lockDir  string
	lockName string
	file     string
	lines    int
	timeout  time.Duration
}

func (f *demoFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.lockDir, "lock-dir", "", "directory holding lock files")
	cmd.Flags().StringVar(&f.lockName, "lock-name", "", "name of the lock serializing writers")
	cmd.Flags().StringVar(&f.file, "file", "", "shared file the workers overwrite")
	cmd.Flags().IntVar(&f.lines, "lines", 0, "lines written by each worker")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "how long a worker waits for the lock")
}

func (f *demoFlags) overrides() *config.Config {
	return &config.Config{
		Lock: config.LockConfig{Dir: f.lockDir},
		Demo: config.DemoConfig{
			LockName: f.lockName,
			File:     f.file,
			Lines:    f.lines,
			Timeout:  f.timeout,
		},
	}
}

type workerOptions struct {
	demoFlags

	index  int
	locked bool
}

// AddWorkerCommand adds the hidden worker command started by demo.
func AddWorkerCommand(root *cobra.Command, flags *GlobalFlags) {
	opts := &workerOptions{}

	cmd := &cobra.Command{
		Use:    "worker",
		Short:  "Write one worker's payload to the shared demo file",
		Hidden: true,
		Args:   cobra.NoArgs,
		Annotations: map[string]string{
			annotationNoLogFile: "true",
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWorker(cmd, flags, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVar(&opts.index, "index", 0, "worker index")
	cmd.Flags().BoolVar(&opts.locked, "locked", false, "take the named lock before writing")
	_ = cmd.MarkFlagRequired("index")

	root.AddCommand(cmd)
}

func runWorker(cmd *cobra.Command, flags *GlobalFlags, opts *workerOptions) error {
	logger := GetLogger()

	cfg, err := loadConfig(cmd.Context(), logger, opts.overrides())
	if err != nil {
		return err
	}

	handler := signal.NewHandler(cmd.Context())
	defer handler.Stop()
	ctx := handler.Context()

	var (
		registry *prometheus.Registry
		extra    []namedlock.Option
	)
	if cfg.Metrics.TextfileDir != "" {
		registry = prometheus.NewRegistry()
		extra = append(extra, namedlock.WithObserver(metrics.NewObserver(registry)))
	}

	if opts.locked {
		lock, err := namedlock.New(cfg.Demo.LockName, lockOptions(cfg, logger, extra...)...)
		if err != nil {
			return err
		}
		defer func() { _ = lock.Close() }()
		ctx = namedlock.NewContext(ctx, lock)
	}

	worker := &demo.Worker{
		Path:    cfg.Demo.FilePath(),
		Lines:   cfg.Demo.Lines,
		Timeout: cfg.Demo.Timeout,
		Logger:  logger,
	}
	report := worker.Run(ctx, opts.index, opts.locked)

	if registry != nil {
		path := filepath.Join(cfg.Metrics.TextfileDir, fmt.Sprintf(constants.WorkerTextfilePattern, opts.index))
		if err := metrics.WriteTextfile(path, registry); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("failed to write metrics textfile")
		}
	}

	if flags.Output == OutputJSON {
		if err := newOutput(cmd.OutOrStdout(), flags).JSON(report); err != nil {
			return err
		}
	}

	if opts.locked && !report.Acquired {
		if report.Err != nil {
			return report.Err
		}
		return errors.Wrapf(errors.ErrLockTimeout, "worker %d gave up after %s", opts.index, cfg.Demo.Timeout)
	}
	return nil
}
