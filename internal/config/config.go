// Package config loads tool configuration from an optional funckit.yaml and
// FUNCKIT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xssnick/tonutils-go/tlb"
)

type Config struct {
	// ContractsDir holds the root .fc sources (shared includes in imports/).
	ContractsDir string `mapstructure:"contracts_dir"`
	// BuildDir receives compiled artifacts.
	BuildDir string `mapstructure:"build_dir"`
	// CredentialsFile is the env-shaped file with the deployer mnemonic.
	CredentialsFile string `mapstructure:"credentials_file"`

	FuncBinary string `mapstructure:"func_binary"`
	FiftBinary string `mapstructure:"fift_binary"`
	OptLevel   int    `mapstructure:"opt_level"`

	Workchain     int8   `mapstructure:"workchain"`
	FundingTON    string `mapstructure:"funding_ton"`
	MinBalanceTON string `mapstructure:"min_balance_ton"`

	PollInterval time.Duration `mapstructure:"poll_interval"`
	PollAttempts int           `mapstructure:"poll_attempts"`

	MainnetConfigURL string `mapstructure:"mainnet_config_url"`
	TestnetConfigURL string `mapstructure:"testnet_config_url"`
}

func NewDefaultConfig() Config {
	return Config{
		ContractsDir:     "contracts",
		BuildDir:         "build",
		CredentialsFile:  "deploy.env",
		FuncBinary:       "func",
		FiftBinary:       "fift",
		OptLevel:         2,
		Workchain:        0,
		FundingTON:       "0.05",
		MinBalanceTON:    "0.25",
		PollInterval:     2 * time.Second,
		PollAttempts:     10,
		MainnetConfigURL: "https://ton.org/global.config.json",
		TestnetConfigURL: "https://ton-blockchain.github.io/testnet-global.config.json",
	}
}

// Load reads the config file at path, or falls back to ./funckit.yaml when
// path is empty. A missing default file is fine; a missing explicit file is
// an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := NewDefaultConfig()
	v.SetDefault("contracts_dir", defaults.ContractsDir)
	v.SetDefault("build_dir", defaults.BuildDir)
	v.SetDefault("credentials_file", defaults.CredentialsFile)
	v.SetDefault("func_binary", defaults.FuncBinary)
	v.SetDefault("fift_binary", defaults.FiftBinary)
	v.SetDefault("opt_level", defaults.OptLevel)
	v.SetDefault("workchain", defaults.Workchain)
	v.SetDefault("funding_ton", defaults.FundingTON)
	v.SetDefault("min_balance_ton", defaults.MinBalanceTON)
	v.SetDefault("poll_interval", defaults.PollInterval)
	v.SetDefault("poll_attempts", defaults.PollAttempts)
	v.SetDefault("mainnet_config_url", defaults.MainnetConfigURL)
	v.SetDefault("testnet_config_url", defaults.TestnetConfigURL)

	v.SetEnvPrefix("FUNCKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("funckit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := tlb.FromTON(c.FundingTON); err != nil {
		return fmt.Errorf("invalid funding_ton %q: %w", c.FundingTON, err)
	}
	if _, err := tlb.FromTON(c.MinBalanceTON); err != nil {
		return fmt.Errorf("invalid min_balance_ton %q: %w", c.MinBalanceTON, err)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.PollAttempts <= 0 {
		return fmt.Errorf("poll_attempts must be positive, got %d", c.PollAttempts)
	}
	return nil
}

// EndpointURL returns the global-config URL of the selected network.
func (c *Config) EndpointURL(testnet bool) string {
	if testnet {
		return c.TestnetConfigURL
	}
	return c.MainnetConfigURL
}

// FundingAmount returns funding_ton as coins. Call Validate first.
func (c *Config) FundingAmount() tlb.Coins {
	return tlb.MustFromTON(c.FundingTON)
}

// MinBalance returns min_balance_ton as coins. Call Validate first.
func (c *Config) MinBalance() tlb.Coins {
	return tlb.MustFromTON(c.MinBalanceTON)
}
