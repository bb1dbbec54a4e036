package deploy

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

func TestComputeAddressDeterminism(t *testing.T) {
	t.Parallel()

	code := cell.BeginCell().MustStoreUInt(0xC0DE, 32).EndCell()
	data := cell.BeginCell().MustStoreUInt(7, 64).EndCell()

	first, err := ComputeAddress(0, code, data)
	require.NoError(t, err)
	second, err := ComputeAddress(0, code, data)
	require.NoError(t, err)

	require.Equal(t, first.String(), second.String())
}

func TestComputeAddressSensitivity(t *testing.T) {
	t.Parallel()

	code := cell.BeginCell().MustStoreUInt(0xC0DE, 32).EndCell()
	data := cell.BeginCell().MustStoreUInt(7, 64).EndCell()
	otherData := cell.BeginCell().MustStoreUInt(8, 64).EndCell()

	base, err := ComputeAddress(0, code, data)
	require.NoError(t, err)

	changedData, err := ComputeAddress(0, code, otherData)
	require.NoError(t, err)
	require.NotEqual(t, base.String(), changedData.String())

	changedChain, err := ComputeAddress(-1, code, data)
	require.NoError(t, err)
	require.NotEqual(t, base.String(), changedChain.String())
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	noopInit := func() (*cell.Cell, error) { return nil, nil }

	require.NoError(t, registry.Register(Descriptor{Name: "beta", InitData: noopInit, InitMessage: noopInit}))
	require.NoError(t, registry.Register(Descriptor{Name: "alpha", InitData: noopInit, InitMessage: noopInit}))

	require.Error(t, registry.Register(Descriptor{Name: "alpha"}), "duplicate registration must fail")
	require.Error(t, registry.Register(Descriptor{}), "nameless registration must fail")

	// registration order, not lexical order
	require.Equal(t, []string{"beta", "alpha"}, registry.Names())

	_, ok := registry.Get("beta")
	require.True(t, ok)
	_, ok = registry.Get("ghost")
	require.False(t, ok)
}
