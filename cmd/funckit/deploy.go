package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/funckit/funckit/contracts"
	"github.com/funckit/funckit/internal/artifact"
	"github.com/funckit/funckit/internal/config"
	"github.com/funckit/funckit/internal/deploy"
	"github.com/funckit/funckit/internal/keystore"
	"github.com/funckit/funckit/internal/logging"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

func deployCommand(flags *rootFlags) *cobra.Command {
	var testnet bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy all registered contracts",
		Long:  "Plan addresses for every registered contract, skip the ones already on chain, and submit funding+init transactions for the rest. Individual unconfirmed deployments do not fail the run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.cfgFile)
			if err != nil {
				return err
			}
			logger := logging.NewLogger("deployer")

			network := "mainnet"
			if testnet {
				network = "testnet"
			}
			logger.Info().Str(logging.FieldNetwork, network).Msg("selecting network")

			creds, err := keystore.Load(cfg.CredentialsFile)
			if err != nil {
				return err
			}
			if creds.Created {
				logger.Info().Msgf("fresh deployer credentials written to %s; fund the wallet before deploying", cfg.CredentialsFile)
			}

			chain, err := deploy.Connect(cmd.Context(), cfg.EndpointURL(testnet), creds.Mnemonic)
			if err != nil {
				return err
			}
			logger.Info().Str(logging.FieldAddress, chain.WalletAddress().String()).Msg("deployer wallet opened")

			orchestrator := deploy.NewOrchestrator(
				deploy.Config{
					Workchain:     cfg.Workchain,
					FundingAmount: cfg.FundingAmount(),
					MinBalance:    cfg.MinBalance(),
					PollInterval:  cfg.PollInterval,
					PollAttempts:  cfg.PollAttempts,
				},
				artifact.NewStore(cfg.BuildDir),
				contracts.Default(),
				chain,
				clockwork.NewRealClock(),
				logger,
			)

			results, err := orchestrator.Run(cmd.Context())
			printResults(results)
			return err
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(&testnet, "testnet", false, "Deploy to the testnet instead of the mainnet")

	return cmd
}

func printResults(results []deploy.Result) {
	for _, result := range results {
		line := fmt.Sprintf("%s\t%s\t%s", result.Name, result.Address.String(), result.Status)
		switch result.Status {
		case deploy.StatusConfirmed:
			color.Green(line)
		case deploy.StatusAlreadyDeployed:
			color.Yellow(line)
		case deploy.StatusUnconfirmed:
			color.Red("%s\t(%s)", line, result.Reason)
		}
	}
}
