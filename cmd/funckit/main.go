package main

import (
	"fmt"
	"os"

	"github.com/funckit/funckit/internal/logging"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	cfgFile  string
	logLevel string
}

func main() {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "funckit",
		Short: "Build and deploy FunC smart contracts",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.SetupGlobalLevel(flags.logLevel)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.cfgFile, "config", "c", "", "The path to the config file")
	rootCmd.PersistentFlags().StringVarP(&flags.logLevel, "log-level", "l", "info", "Log level: trace|debug|info|warn|error|fatal|panic")

	rootCmd.AddCommand(
		buildCommand(flags),
		deployCommand(flags),
		addressCommand(flags),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
