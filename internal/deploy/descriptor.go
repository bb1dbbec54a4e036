package deploy

import (
	"context"
	"fmt"
	"math/big"

	"github.com/funckit/funckit/internal/check"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// Blockchain is the network boundary of the deployer: one funded signing
// wallet plus read access to target accounts. Implementations own the
// wallet's sequence number; the orchestrator only ever snapshots it.
type Blockchain interface {
	// WalletBalance returns the current balance of the deployer wallet.
	WalletBalance(ctx context.Context) (tlb.Coins, error)
	// WalletSeqno returns the wallet's current sequence number
	// (zero for a wallet with no accepted transactions yet).
	WalletSeqno(ctx context.Context) (uint64, error)
	// IsDeployed reports whether the account at addr holds code.
	IsDeployed(ctx context.Context, addr *address.Address) (bool, error)
	// SendDeploy submits one signed transaction carrying the funding
	// transfer with the code+data bundle and optional init message attached.
	// Bounce is disabled so the funds survive delivery to the fresh account.
	SendDeploy(ctx context.Context, addr *address.Address, amount tlb.Coins, state *tlb.StateInit, body *cell.Cell) error
	// SendTransfer submits one signed plain transfer with the given body.
	SendTransfer(ctx context.Context, addr *address.Address, amount tlb.Coins, body *cell.Cell) error
	// GetMethodInt invokes a read-only contract method and returns the first
	// stack entry as an integer.
	GetMethodInt(ctx context.Context, addr *address.Address, method string) (*big.Int, error)
}

type (
	// InitDataFunc produces the initial persistent state of a contract.
	InitDataFunc func() (*cell.Cell, error)
	// InitMessageFunc produces the first message delivered on deployment,
	// or nil if the contract needs none.
	InitMessageFunc func() (*cell.Cell, error)
	// PostDeployFunc sanity-checks a live contract. It may read contract
	// state and submit test transactions; its error is reported but never
	// fails the deployment run.
	PostDeployFunc func(ctx context.Context, chain Blockchain, addr *address.Address) error
)

// Descriptor declares how one contract is deployed. InitData and InitMessage
// are required; PostDeploy is optional.
type Descriptor struct {
	Name        string
	InitData    InitDataFunc
	InitMessage InitMessageFunc
	PostDeploy  PostDeployFunc
}

// Registry maps contract names to deploy descriptors. Descriptors are
// registered explicitly; there is no discovery by filename convention.
type Registry struct {
	descriptors map[string]Descriptor
	order       []string
}

func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]Descriptor)}
}

func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("descriptor must have a name")
	}
	if _, ok := r.descriptors[d.Name]; ok {
		return fmt.Errorf("descriptor %q registered twice", d.Name)
	}
	r.descriptors[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

func (r *Registry) MustRegister(d Descriptor) {
	check.PanicIfErr(r.Register(d))
}

func (r *Registry) Get(name string) (Descriptor, bool) {
	d, ok := r.descriptors[name]
	return d, ok
}

// Names returns the registered contract names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
