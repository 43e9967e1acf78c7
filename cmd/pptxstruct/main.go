// Package main provides the CLI entry point for pptxstruct.
package main

import (
	"fmt"
	"os"

	"github.com/flanksource/commons/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/ukaji3/pptxstruct-go/pkg/pptxstruct"
)

var (
	configPath string
	logFlags   = logger.Flags{
		Level:       "info",
		LogToStderr: true,
	}
)

// exitError carries a process exit code out of a command without printing
// anything further.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pptxstruct",
		Short: "Inventory and rewrite the text of PowerPoint files",
		Long: `pptxstruct extracts the text shapes of a .pptx file into a JSON inventory
addressed by slide-N / shape-M, and applies replacement content written
against that inventory back to the presentation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Configure(logFlags)
		},
	}

	bindLogFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file overriding the default options")

	rootCmd.AddCommand(
		newExtractCommand(),
		newApplyCommand(),
		newValidateCommand(),
		newLintCommand(),
	)
	return rootCmd
}

func bindLogFlags(flags *pflag.FlagSet) {
	flags.CountVarP(&logFlags.LevelCount, "loglevel", "v", "Increase logging level")
	flags.StringVar(&logFlags.Level, "log-level", "info", "Set the default log level")
	flags.BoolVar(&logFlags.JsonLogs, "json-logs", false, "Print logs in json format to stderr")
}

func loadOptions() (pptxstruct.Options, error) {
	return pptxstruct.LoadConfig(configPath)
}
