package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/namedlock/internal/config"
	"github.com/mrz1836/namedlock/internal/demo"
	"github.com/mrz1836/namedlock/internal/errors"
)

// AddVerifyCommand adds the verify command to the root command.
func AddVerifyCommand(root *cobra.Command, flags *GlobalFlags) {
	var (
		file  string
		lines int
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the shared demo file",
		Long: `Check that the shared demo file holds exactly one worker's complete
payload. Exits non-zero when it does not.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context(), GetLogger(), &config.Config{
				Demo: config.DemoConfig{File: file, Lines: lines},
			})
			if err != nil {
				return err
			}

			v, err := demo.Verify(cfg.Demo.FilePath(), cfg.Demo.Lines)
			if err != nil {
				return err
			}

			out := newOutput(cmd.OutOrStdout(), flags)
			if flags.Output == OutputJSON {
				if err := out.JSON(v); err != nil {
					return err
				}
			}
			if !v.Intact {
				return errors.Wrapf(errors.ErrDemoCorrupted, "%s holds lines from workers %v, %d malformed",
					v.Path, v.WorkerIndexes(), v.Malformed)
			}
			out.Success(fmt.Sprintf("%s holds the complete payload of worker %d", v.Path, v.Writer))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "shared file to check")
	cmd.Flags().IntVar(&lines, "lines", 0, "lines each worker wrote")
	root.AddCommand(cmd)
}
