// Package deploy plans and executes contract deployments: address derivation,
// funding checks, transaction submission, and bounded confirmation polling.
package deploy

import (
	"context"
	"fmt"
	"time"

	"github.com/funckit/funckit/internal/artifact"
	"github.com/funckit/funckit/internal/logging"
	"github.com/jonboulle/clockwork"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

type Status int

const (
	// StatusConfirmed: the funding transaction was accepted and the target
	// account holds code.
	StatusConfirmed Status = iota
	// StatusAlreadyDeployed: the target account held code before the run.
	StatusAlreadyDeployed
	// StatusUnconfirmed: acceptance was not observed within the polling
	// window, or the account still holds no code afterwards.
	StatusUnconfirmed
)

func (s Status) String() string {
	switch s {
	case StatusConfirmed:
		return "confirmed"
	case StatusAlreadyDeployed:
		return "already deployed"
	case StatusUnconfirmed:
		return "unconfirmed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the terminal per-contract outcome of a deployment run.
// Unconfirmed results carry the reason; they never abort the run.
type Result struct {
	Name    string
	Address *address.Address
	Status  Status
	Reason  string
}

type Config struct {
	// Workchain partitions the address space the contracts deploy into.
	Workchain int8
	// FundingAmount is transferred to every fresh contract address.
	FundingAmount tlb.Coins
	// MinBalance is the gas threshold the deployer wallet must hold.
	MinBalance tlb.Coins
	// PollInterval and PollAttempts bound the confirmation wait.
	PollInterval time.Duration
	PollAttempts int
}

func NewDefaultConfig() Config {
	return Config{
		Workchain:     0,
		FundingAmount: tlb.MustFromTON("0.05"),
		MinBalance:    tlb.MustFromTON("0.25"),
		PollInterval:  2 * time.Second,
		PollAttempts:  10,
	}
}

// Orchestrator walks the registry and deploys every described contract.
// Configuration errors (missing descriptor functions, missing artifacts) and
// the funding check are fatal; an individual contract failing to confirm is
// not. Contracts are processed strictly one at a time so the wallet's
// sequence number has a single writer.
type Orchestrator struct {
	config   Config
	store    *artifact.Store
	registry *Registry
	chain    Blockchain
	clock    clockwork.Clock
	logger   logging.Logger
}

func NewOrchestrator(
	config Config,
	store *artifact.Store,
	registry *Registry,
	chain Blockchain,
	clock clockwork.Clock,
	logger logging.Logger,
) *Orchestrator {
	return &Orchestrator{
		config:   config,
		store:    store,
		registry: registry,
		chain:    chain,
		clock:    clock,
		logger:   logger,
	}
}

// Run deploys every registered contract in registration order. The returned
// results cover the contracts processed before any fatal error.
func (o *Orchestrator) Run(ctx context.Context) ([]Result, error) {
	balance, err := o.chain.WalletBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check wallet funding: %w", err)
	}
	if balance.Nano().Cmp(o.config.MinBalance.Nano()) < 0 {
		return nil, fmt.Errorf(
			"deployer wallet holds %s TON, below the required minimum of %s TON",
			balance.String(), o.config.MinBalance.String())
	}
	o.logger.Info().Str(logging.FieldBalance, balance.String()).Msg("deployer wallet funded")

	names := o.registry.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("no deploy descriptors registered")
	}

	var results []Result
	for _, name := range names {
		result, err := o.deployOne(ctx, name)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (o *Orchestrator) deployOne(ctx context.Context, name string) (Result, error) {
	logger := o.logger.With().Str(logging.FieldContract, name).Logger()

	desc, ok := o.registry.Get(name)
	if !ok {
		return Result{}, fmt.Errorf("no deploy descriptor for %q", name)
	}
	if desc.InitData == nil || desc.InitMessage == nil {
		return Result{}, fmt.Errorf("deploy descriptor for %q must provide init data and init message", name)
	}

	codeBytes, err := o.store.Read(name)
	if err != nil {
		return Result{}, fmt.Errorf("no compiled artifact for %q, run a build first: %w", name, err)
	}
	code, err := cell.FromBOC(codeBytes)
	if err != nil {
		return Result{}, fmt.Errorf("artifact for %q is not a valid code container: %w", name, err)
	}

	data, err := desc.InitData()
	if err != nil {
		return Result{}, fmt.Errorf("failed to build init data for %q: %w", name, err)
	}
	initMsg, err := desc.InitMessage()
	if err != nil {
		return Result{}, fmt.Errorf("failed to build init message for %q: %w", name, err)
	}

	addr, err := ComputeAddress(o.config.Workchain, code, data)
	if err != nil {
		return Result{}, err
	}
	logger = logger.With().Str(logging.FieldAddress, addr.String()).Logger()

	deployed, err := o.chain.IsDeployed(ctx, addr)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check deployment state of %q: %w", name, err)
	}
	if deployed {
		logger.Info().Msg("contract already deployed, skipping submission")
		o.runVerifier(ctx, desc, addr, logger)
		return Result{Name: name, Address: addr, Status: StatusAlreadyDeployed}, nil
	}

	seqnoBefore, err := o.chain.WalletSeqno(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to snapshot wallet seqno: %w", err)
	}

	state := BuildStateInit(code, data)
	if err := o.chain.SendDeploy(ctx, addr, o.config.FundingAmount, state, initMsg); err != nil {
		return Result{}, fmt.Errorf("failed to submit deployment of %q: %w", name, err)
	}
	logger.Info().Uint64(logging.FieldSeqno, seqnoBefore).Msg("deploy transaction submitted, waiting for acceptance")

	if !o.waitAccepted(ctx, seqnoBefore, logger) {
		return Result{
			Name:    name,
			Address: addr,
			Status:  StatusUnconfirmed,
			Reason:  fmt.Sprintf("transaction not accepted within %d polls", o.config.PollAttempts),
		}, nil
	}

	// acceptance moves the seqno; whether the target went live is a
	// separate question
	deployed, err = o.chain.IsDeployed(ctx, addr)
	if err != nil || !deployed {
		return Result{
			Name:    name,
			Address: addr,
			Status:  StatusUnconfirmed,
			Reason:  "transaction accepted but the target account holds no code",
		}, nil
	}

	logger.Info().Msg("contract deployed")
	o.runVerifier(ctx, desc, addr, logger)
	return Result{Name: name, Address: addr, Status: StatusConfirmed}, nil
}

// waitAccepted polls the wallet seqno until it exceeds its pre-submission
// snapshot. Query errors during polling count as spent attempts but are
// otherwise absorbed.
func (o *Orchestrator) waitAccepted(ctx context.Context, before uint64, logger logging.Logger) bool {
	for attempt := 0; attempt < o.config.PollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return false
		case <-o.clock.After(o.config.PollInterval):
		}

		seqno, err := o.chain.WalletSeqno(ctx)
		if err != nil {
			logger.Debug().Err(err).Int("attempt", attempt+1).Msg("seqno poll failed")
			continue
		}
		if seqno > before {
			return true
		}
	}
	return false
}

// runVerifier invokes the optional post-deploy check. Its outcome is logged
// for the operator but never distinguishes the deployment result.
func (o *Orchestrator) runVerifier(ctx context.Context, desc Descriptor, addr *address.Address, logger logging.Logger) {
	if desc.PostDeploy == nil {
		return
	}
	if err := desc.PostDeploy(ctx, o.chain, addr); err != nil {
		logger.Warn().Err(err).Msg("post-deploy check reported a problem")
		return
	}
	logger.Info().Msg("post-deploy check passed")
}
