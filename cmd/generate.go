package cmd

import (
	"fmt"

	"aicontext/pkg/combine"
	"aicontext/pkg/config"
	"aicontext/pkg/logging"
	"aicontext/pkg/report"
	"aicontext/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newGenerateCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [path-list-file]",
		Short: "Generate the context documents",
		Long: `Generate writes files-<bucket>.txt for every configured bucket and one
composer-<vendor>-<version>.txt per vendored dependency. The optional argument
names a file listing extra paths to scan, one per line.`,
		Args: cobra.MaximumNArgs(1),
		RunE: generateRunE(logger),
	}
}

func generateRunE(logger *zap.Logger) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}

		cfg, err := config.Load(config.LoadOptions{ConfigFile: configFile, Flags: cmd.Flags()})
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		runLogger := logger
		if cfg.Debug {
			debugLogger, err := logging.Setup(true, version.AppName, version.Get().Version)
			if err == nil {
				runLogger = debugLogger
				defer debugLogger.Sync() //nolint:errcheck
			}
		}

		var pathList string
		if len(args) > 0 {
			pathList = args[0]
		}

		opts, err := cfg.Options(pathList, runLogger)
		if err != nil {
			return err
		}

		result, err := combine.RunCombine(opts, runLogger)
		if err != nil {
			return err
		}

		return report.Write(cmd.OutOrStdout(), result.Primary, withTree(result))
	}
}

// withTree lists the tree document alongside the dependency documents so the
// summary reports its size without counting it as a fenced document.
func withTree(result *combine.Result) []string {
	if result.Tree == "" {
		return result.Dependencies
	}
	return append([]string{result.Tree}, result.Dependencies...)
}
