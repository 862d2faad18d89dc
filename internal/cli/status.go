package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/namedlock/internal/config"
	"github.com/mrz1836/namedlock/internal/namedlock"
	"github.com/mrz1836/namedlock/internal/tui"
)

// AddStatusCommand adds the status command to the root command.
func AddStatusCommand(root *cobra.Command, flags *GlobalFlags) {
	var lockDir string

	cmd := &cobra.Command{
		Use:   "status <name>",
		Short: "Show who holds a named lock",
		Long: `Show whether a named lock is held, free, or stale.

A stale lock is free but its last holder never released it; the next
acquisition reports it as abandoned.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := GetLogger()
			cfg, err := loadConfig(cmd.Context(), logger, &config.Config{Lock: config.LockConfig{Dir: lockDir}})
			if err != nil {
				return err
			}

			state, err := namedlock.Inspect(args[0], lockOptions(cfg, logger)...)
			if err != nil {
				return err
			}

			out := newOutput(cmd.OutOrStdout(), flags)
			if flags.Output == OutputJSON {
				return out.JSON(state)
			}
			out.Details("Lock "+strconv.Quote(state.Name), stateFields(state))
			return nil
		},
	}

	cmd.Flags().StringVar(&lockDir, "lock-dir", "", "directory holding lock files")
	root.AddCommand(cmd)
}

func stateFields(state namedlock.State) []tui.Field {
	caser := cases.Title(language.English)
	fields := []tui.Field{
		{Key: "State", Value: caser.String(stateLabel(state))},
		{Key: "File", Value: state.Path},
	}
	if state.Owner == nil {
		return fields
	}
	return append(fields,
		tui.Field{Key: "Owner PID", Value: strconv.Itoa(state.Owner.PID)},
		tui.Field{Key: "Owner running", Value: strconv.FormatBool(state.Owner.Running())},
		tui.Field{Key: "Acquired at", Value: state.Owner.AcquiredAt.Format(time.RFC3339)},
	)
}

func stateLabel(state namedlock.State) string {
	switch {
	case state.Held:
		return "held"
	case state.Stale:
		return "stale"
	default:
		return "free"
	}
}
