package main

import (
	"github.com/funckit/funckit/internal/artifact"
	"github.com/funckit/funckit/internal/build"
	"github.com/funckit/funckit/internal/compiler"
	"github.com/funckit/funckit/internal/config"
	"github.com/funckit/funckit/internal/logging"
	"github.com/spf13/cobra"
)

func buildCommand(flags *rootFlags) *cobra.Command {
	var contractsDir, buildDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile all root contracts into artifacts",
		Long:  "Discover every root .fc source, compile it with the FunC toolchain, and persist the code as a build artifact. The first compile error aborts the run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.cfgFile)
			if err != nil {
				return err
			}
			if contractsDir != "" {
				cfg.ContractsDir = contractsDir
			}
			if buildDir != "" {
				cfg.BuildDir = buildDir
			}

			comp := compiler.NewFuncCompiler(
				compiler.CompileOptionFuncBinary(cfg.FuncBinary),
				compiler.CompileOptionFiftBinary(cfg.FiftBinary),
				compiler.CompileOptionOptLevel(cfg.OptLevel),
			)
			store := artifact.NewStore(cfg.BuildDir)
			orchestrator := build.NewOrchestrator(
				build.Config{ContractsDir: cfg.ContractsDir},
				comp,
				store,
				logging.NewLogger("builder"),
			)
			return orchestrator.Run(cmd.Context())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&contractsDir, "contracts", "", "Override the contracts directory")
	cmd.Flags().StringVar(&buildDir, "build", "", "Override the build output directory")

	return cmd
}
