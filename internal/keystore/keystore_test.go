package keystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMintsCredentialsOnFirstUse(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deploy.env")

	creds, err := Load(path)
	require.NoError(t, err)
	require.True(t, creds.Created)
	require.Len(t, creds.Mnemonic, seedWords)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// second load returns the persisted phrase
	again, err := Load(path)
	require.NoError(t, err)
	require.False(t, again.Created)
	require.Equal(t, creds.Mnemonic, again.Mnemonic)
}

func TestLoadRejectsMissingKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deploy.env")
	require.NoError(t, os.WriteFile(path, []byte("OTHER=value\n"), 0o600))

	_, err := Load(path)
	require.ErrorContains(t, err, MnemonicKey)
}

func TestLoadRejectsShortMnemonic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deploy.env")
	require.NoError(t, os.WriteFile(path, []byte(MnemonicKey+"=\"one two three\"\n"), 0o600))

	_, err := Load(path)
	require.ErrorContains(t, err, "3-word mnemonic")
}
