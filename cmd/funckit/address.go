package main

import (
	"fmt"

	"github.com/funckit/funckit/contracts"
	"github.com/funckit/funckit/internal/artifact"
	"github.com/funckit/funckit/internal/config"
	"github.com/funckit/funckit/internal/deploy"
	"github.com/spf13/cobra"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

func addressCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address [contract]",
		Short: "Preview the on-chain address of a contract",
		Long:  "Derive the deterministic address of a compiled contract from its code and init data, without touching the network.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.cfgFile)
			if err != nil {
				return err
			}
			name := args[0]

			descriptor, ok := contracts.Default().Get(name)
			if !ok {
				return fmt.Errorf("no deploy descriptor for %q", name)
			}
			if descriptor.InitData == nil {
				return fmt.Errorf("deploy descriptor for %q must provide init data", name)
			}

			codeBytes, err := artifact.NewStore(cfg.BuildDir).Read(name)
			if err != nil {
				return fmt.Errorf("no compiled artifact for %q, run a build first: %w", name, err)
			}
			code, err := cell.FromBOC(codeBytes)
			if err != nil {
				return fmt.Errorf("artifact for %q is not a valid code container: %w", name, err)
			}
			data, err := descriptor.InitData()
			if err != nil {
				return fmt.Errorf("failed to build init data for %q: %w", name, err)
			}

			addr, err := deploy.ComputeAddress(cfg.Workchain, code, data)
			if err != nil {
				return err
			}
			fmt.Println(addr.String())
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
