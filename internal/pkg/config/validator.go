package config

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	if c.ML.ArtifactsDir == "" {
		return errors.New("ml.artifacts_dir must be set")
	}

	balance, err := decimal.NewFromString(c.Wallet.OpeningBalance)
	if err != nil {
		return errors.New("wallet.opening_balance must be a decimal number")
	}
	if balance.IsNegative() {
		return errors.New("wallet.opening_balance must not be negative")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers must be set when kafka is enabled")
	}

	return nil
}
