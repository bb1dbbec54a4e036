package counter

import (
	"os"
	"testing"

	"github.com/funckit/funckit/internal/opcode"
	"github.com/stretchr/testify/require"
)

func TestOpCodesMatchInterfaceDescription(t *testing.T) {
	t.Parallel()

	text, err := os.ReadFile("counter.tlb")
	require.NoError(t, err)

	pairs := opcode.Extract(string(text))
	require.Len(t, pairs, 2)
	require.Equal(t, opIncrement, pairs[0], "constant must stay in sync with counter.tlb")
	require.Equal(t, "counter_response", pairs[1].Name)
}

func TestDescriptorShape(t *testing.T) {
	t.Parallel()

	desc := Descriptor()
	require.Equal(t, Name, desc.Name)
	require.NotNil(t, desc.InitData)
	require.NotNil(t, desc.InitMessage)
	require.NotNil(t, desc.PostDeploy)
}

func TestInitDataIsZeroedCounter(t *testing.T) {
	t.Parallel()

	data, err := initData()
	require.NoError(t, err)

	value, err := data.BeginParse().LoadUInt(64)
	require.NoError(t, err)
	require.Zero(t, value)

	msg, err := initMessage()
	require.NoError(t, err)
	require.Nil(t, msg)

	// deterministic init data
	again, err := initData()
	require.NoError(t, err)
	require.Equal(t, data.Hash(), again.Hash())
}
