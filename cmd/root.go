package cmd

import (
	"aicontext/pkg/config"
	"aicontext/pkg/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd builds the base command. Invoked without a subcommand it runs
// generate.
func NewRootCmd(logger *zap.Logger) *cobra.Command {
	logger = logging.OrNop(logger)

	rootCmd := &cobra.Command{
		Use:   "aicontext [path-list-file]",
		Short: "aicontext aggregates project sources into LLM context files",
		Long: `aicontext scans the project's source tree and its vendored dependencies and
concatenates the matching files into a few fenced text documents under .ai/,
ready to be pasted into a chat with a large language model.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          generateRunE(logger),
	}

	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().String("config", "", "Config file (default <root>/.aicontext.yaml)")

	rootCmd.AddCommand(newGenerateCmd(logger))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command with the process arguments.
func Execute(logger *zap.Logger) error {
	return NewRootCmd(logger).Execute()
}
