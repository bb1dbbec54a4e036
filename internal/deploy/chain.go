package deploy

import (
	"context"
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/ton/wallet"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// LiteChain implements Blockchain over a lite-server connection pool with a
// V3R2 wallet as the signing identity. It assumes it is the only writer
// against that wallet for the duration of a run.
type LiteChain struct {
	api    ton.APIClientWrapped
	wallet *wallet.Wallet
}

var _ Blockchain = (*LiteChain)(nil)

// Connect resolves the network from its global config URL and opens the
// deployer wallet derived from the mnemonic on it.
func Connect(ctx context.Context, configURL string, mnemonic []string) (*LiteChain, error) {
	pool := liteclient.NewConnectionPool()
	if err := pool.AddConnectionsFromConfigUrl(ctx, configURL); err != nil {
		return nil, fmt.Errorf("failed to connect to lite servers: %w", err)
	}

	api := ton.NewAPIClient(pool).WithRetry()

	w, err := wallet.FromSeed(api, mnemonic, wallet.V3R2)
	if err != nil {
		return nil, fmt.Errorf("failed to open deployer wallet: %w", err)
	}

	return &LiteChain{api: api, wallet: w}, nil
}

// WalletAddress returns the address of the deployer wallet.
func (c *LiteChain) WalletAddress() *address.Address {
	return c.wallet.WalletAddress()
}

func (c *LiteChain) WalletBalance(ctx context.Context) (tlb.Coins, error) {
	master, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return tlb.Coins{}, fmt.Errorf("failed to resolve masterchain state: %w", err)
	}
	balance, err := c.wallet.GetBalance(ctx, master)
	if err != nil {
		return tlb.Coins{}, fmt.Errorf("failed to query wallet balance: %w", err)
	}
	return balance, nil
}

func (c *LiteChain) WalletSeqno(ctx context.Context) (uint64, error) {
	master, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve masterchain state: %w", err)
	}

	acc, err := c.api.GetAccount(ctx, master, c.wallet.WalletAddress())
	if err != nil {
		return 0, fmt.Errorf("failed to query wallet account: %w", err)
	}
	if !acc.IsActive {
		// wallet code is deployed lazily with its first transaction
		return 0, nil
	}

	res, err := c.api.RunGetMethod(ctx, master, c.wallet.WalletAddress(), "seqno")
	if err != nil {
		return 0, fmt.Errorf("failed to query wallet seqno: %w", err)
	}
	seqno, err := res.Int(0)
	if err != nil {
		return 0, fmt.Errorf("unexpected seqno result: %w", err)
	}
	return seqno.Uint64(), nil
}

func (c *LiteChain) IsDeployed(ctx context.Context, addr *address.Address) (bool, error) {
	master, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to resolve masterchain state: %w", err)
	}
	acc, err := c.api.GetAccount(ctx, master, addr)
	if err != nil {
		return false, fmt.Errorf("failed to query account %s: %w", addr.String(), err)
	}
	return acc.IsActive && acc.Code != nil, nil
}

func (c *LiteChain) SendDeploy(
	ctx context.Context,
	addr *address.Address,
	amount tlb.Coins,
	state *tlb.StateInit,
	body *cell.Cell,
) error {
	if body == nil {
		body = cell.BeginCell().EndCell()
	}
	msg := &wallet.Message{
		Mode: wallet.PayGasSeparately + wallet.IgnoreErrors,
		InternalMessage: &tlb.InternalMessage{
			IHRDisabled: true,
			Bounce:      false,
			DstAddr:     addr,
			Amount:      amount,
			StateInit:   state,
			Body:        body,
		},
	}
	if err := c.wallet.Send(ctx, msg, false); err != nil {
		return fmt.Errorf("failed to submit deploy transaction: %w", err)
	}
	return nil
}

func (c *LiteChain) SendTransfer(
	ctx context.Context,
	addr *address.Address,
	amount tlb.Coins,
	body *cell.Cell,
) error {
	if body == nil {
		body = cell.BeginCell().EndCell()
	}
	msg := wallet.SimpleMessage(addr, amount, body)
	if err := c.wallet.Send(ctx, msg, false); err != nil {
		return fmt.Errorf("failed to submit transfer: %w", err)
	}
	return nil
}

func (c *LiteChain) GetMethodInt(ctx context.Context, addr *address.Address, method string) (*big.Int, error) {
	master, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve masterchain state: %w", err)
	}
	res, err := c.api.RunGetMethod(ctx, master, addr, method)
	if err != nil {
		return nil, fmt.Errorf("failed to run get-method %q on %s: %w", method, addr.String(), err)
	}
	value, err := res.Int(0)
	if err != nil {
		return nil, fmt.Errorf("unexpected %q result: %w", method, err)
	}
	return value, nil
}
