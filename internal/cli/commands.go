package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shaiso/Stagehand/internal/config"
)

// NewRootCmd создаёт корневую команду stagehand.
//
// Без подкоманды выполняет run. logger == nil — логгер создаётся
// поверх stderr команды.
func NewRootCmd(version string, logger *slog.Logger) *cobra.Command {
	var opts Options

	optsFn := func() Options { return opts }

	rootCmd := &cobra.Command{
		Use:           "stagehand",
		Short:         "Stagehand — staged initialization and data pipeline runner",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, optsFn(), logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "Path to YAML configuration file")

	rootCmd.AddCommand(
		NewRunCmd(optsFn, logger),
		NewConfigCmd(optsFn),
		NewVersionCmd(version),
	)

	return rootCmd
}

// NewRunCmd создаёт команду run.
func NewRunCmd(optsFn func() Options, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Load config, initialize resources and run the pipeline once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, optsFn(), logger)
		},
	}
}

// NewConfigCmd создаёт команду config.
func NewConfigCmd(optsFn func() Options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

			cfg, err := config.NewViper(optsFn().ConfigFile).Load(cmd.Context())
			if err != nil {
				return err
			}
			return out.Config(cfg)
		},
	}
}

// NewVersionCmd создаёт команду version.
func NewVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			NewOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()).Line("stagehand %s", version)
		},
	}
}

func runOnce(cmd *cobra.Command, opts Options, logger *slog.Logger) error {
	app := NewApp(opts, logger, cmd.ErrOrStderr())
	return app.Run(cmd.Context())
}
