// Package keystore manages the deployer wallet credentials: a mnemonic
// phrase persisted in an env-shaped file, minted on first use.
package keystore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/subosito/gotenv"
	"github.com/xssnick/tonutils-go/ton/wallet"
)

// MnemonicKey is the variable holding the seed phrase in the credential file.
const MnemonicKey = "DEPLOYER_MNEMONIC"

const seedWords = 24

// Credentials holds the deployer mnemonic. Created reports whether the
// credential file was minted by this call, in which case the wallet it
// derives is fresh and unfunded.
type Credentials struct {
	Mnemonic []string
	Created  bool
}

// Load reads the credential file, generating fresh credentials if it does
// not exist yet. The file is written 0600.
func Load(path string) (*Credentials, error) {
	env, err := gotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return create(path)
		}
		return nil, fmt.Errorf("failed to read credential file %s: %w", path, err)
	}

	phrase, ok := env[MnemonicKey]
	if !ok || strings.TrimSpace(phrase) == "" {
		return nil, fmt.Errorf("credential file %s does not define %s", path, MnemonicKey)
	}
	words := strings.Fields(phrase)
	if len(words) != seedWords {
		return nil, fmt.Errorf("credential file %s holds a %d-word mnemonic, expected %d", path, len(words), seedWords)
	}
	return &Credentials{Mnemonic: words}, nil
}

func create(path string) (*Credentials, error) {
	seed := wallet.NewSeed()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create credential directory: %w", err)
		}
	}

	content := fmt.Sprintf("%s=\"%s\"\n", MnemonicKey, strings.Join(seed, " "))
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write credential file %s: %w", path, err)
	}
	return &Credentials{Mnemonic: seed, Created: true}, nil
}
