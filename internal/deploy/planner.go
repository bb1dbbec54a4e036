package deploy

import (
	"fmt"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// BuildStateInit bundles compiled code with initial data for deployment.
func BuildStateInit(code, data *cell.Cell) *tlb.StateInit {
	return &tlb.StateInit{
		Code: code,
		Data: data,
	}
}

// ComputeAddress derives the on-chain address of a contract from its code and
// initial data within the given workchain. The address is the hash of the
// serialized state init, so identical inputs always yield the same address;
// call it before any network interaction to preview a deployment.
func ComputeAddress(workchain int8, code, data *cell.Cell) (*address.Address, error) {
	stateCell, err := tlb.ToCell(BuildStateInit(code, data))
	if err != nil {
		return nil, fmt.Errorf("failed to serialize state init: %w", err)
	}
	return address.NewAddress(0, byte(workchain), stateCell.Hash()), nil
}
