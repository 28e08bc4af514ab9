package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the process-wide settings. Everything here is fixed at
// startup and read-only afterwards.
type Config struct {
	// Ledger node
	NodeURL    string
	Address    string
	Passphrase string
	// Optional explicit encryption secret; falls back to Passphrase.
	Secret    string
	PublicKey string

	// Transaction parameters, all minor units (NQT) unless noted.
	FeeNQT            int64
	DeadlineMinutes   int
	MinBalanceNQT     int64
	MinAccountBalance int64
	Decimals          int32

	// Facade
	Port     string
	DBSource string
	Env      string
}

func Load() (*Config, error) {
	nodeURL := os.Getenv("NODE_URL")
	if nodeURL == "" {
		return nil, fmt.Errorf("NODE_URL environment variable is required")
	}

	passphrase := os.Getenv("VAULT_PASSPHRASE")
	if passphrase == "" {
		return nil, fmt.Errorf("VAULT_PASSPHRASE environment variable is required")
	}

	cfg := &Config{
		NodeURL:           nodeURL,
		Address:           os.Getenv("VAULT_ADDRESS"),
		Passphrase:        passphrase,
		Secret:            os.Getenv("VAULT_SECRET"),
		PublicKey:         os.Getenv("VAULT_PUBLIC_KEY"),
		FeeNQT:            150,
		DeadlineMinutes:   60,
		MinBalanceNQT:     50000,
		MinAccountBalance: 100000,
		Decimals:          8,
		Port:              "8080",
		DBSource:          os.Getenv("DB_SOURCE"),
		Env:               "development",
	}

	if v := os.Getenv("FEE_NQT"); v != "" {
		fee, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid FEE_NQT %q: %w", v, err)
		}
		cfg.FeeNQT = fee
	}
	if v := os.Getenv("DEADLINE_MINUTES"); v != "" {
		deadline, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DEADLINE_MINUTES %q: %w", v, err)
		}
		cfg.DeadlineMinutes = deadline
	}
	if v := os.Getenv("MIN_BALANCE_NQT"); v != "" {
		min, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MIN_BALANCE_NQT %q: %w", v, err)
		}
		cfg.MinBalanceNQT = min
	}
	if v := os.Getenv("MIN_ACCOUNT_BALANCE_NQT"); v != "" {
		min, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MIN_ACCOUNT_BALANCE_NQT %q: %w", v, err)
		}
		cfg.MinAccountBalance = min
	}
	if v := os.Getenv("DECIMALS"); v != "" {
		d, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid DECIMALS %q: %w", v, err)
		}
		cfg.Decimals = int32(d)
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		cfg.Env = v
	}

	return cfg, nil
}

// EncryptionSecret returns the secret the record cipher is keyed with:
// the explicit secret when configured, otherwise the account passphrase.
func (c *Config) EncryptionSecret() string {
	if c.Secret != "" {
		return c.Secret
	}
	return c.Passphrase
}
