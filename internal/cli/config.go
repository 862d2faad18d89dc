package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/namedlock/internal/config"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create configuration",
		Long: `Show the effective configuration or write a config file.

Configuration is read from ~/.namedlock/config.yaml, then
.namedlock/config.yaml in the working directory, then NAMEDLOCK_*
environment variables (for example NAMEDLOCK_DEMO_WORKERS).`,
	}

	cmd.AddCommand(newConfigShowCmd(flags))
	cmd.AddCommand(newConfigInitCmd(flags))
	root.AddCommand(cmd)
}

func newConfigShowCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context(), GetLogger(), nil)
			if err != nil {
				return err
			}

			if flags.Output == OutputJSON {
				return newOutput(cmd.OutOrStdout(), flags).JSON(cfg)
			}

			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigInitCmd(flags *GlobalFlags) *cobra.Command {
	var global, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.ProjectConfigPath()
			if global {
				var err error
				if path, err = config.GlobalConfigPath(); err != nil {
					return err
				}
			}

			if err := config.Save(path, config.DefaultConfig(), force); err != nil {
				return err
			}

			logger := GetLogger()
			logger.Debug().Str("path", path).Msg("config file written")

			out := newOutput(cmd.OutOrStdout(), flags)
			if flags.Output == OutputJSON {
				return out.JSON(map[string]string{"path": path})
			}
			out.Success(fmt.Sprintf("Wrote %s", path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "write ~/.namedlock/config.yaml instead of the project file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
