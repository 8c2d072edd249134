package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	RPCURL       string `envconfig:"BALANCE_RPC_URL"`
	TokenAddress string `envconfig:"BALANCE_TOKEN_ADDRESS"`

	Host     string `envconfig:"BALANCE_HOST" default:"127.0.0.1"`
	Port     int    `envconfig:"BALANCE_PORT" default:"8080"`
	LogLevel string `envconfig:"BALANCE_LOG_LEVEL" default:"info"`
	LogDir   string `envconfig:"BALANCE_LOG_DIR" default:"./logs"`

	RPCTimeout       time.Duration `envconfig:"BALANCE_RPC_TIMEOUT" default:"15s"`
	BatchConcurrency int           `envconfig:"BALANCE_BATCH_CONCURRENCY" default:"1"`
}

// Load reads configuration from .env file (if present) then from environment variables.
// Environment variables override .env values.
func Load() (*Config, error) {
	// godotenv does NOT override already-set env vars.
	envFiles := []string{".env"}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				slog.Warn("failed to load .env file", "file", f, "error", err)
			} else {
				slog.Info("loaded .env file", "file", f)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.TokenAddress = ChecksumAddress(cfg.TokenAddress)

	return &cfg, nil
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("%w: BALANCE_RPC_URL is required", ErrInvalidConfig)
	}
	if c.TokenAddress == "" {
		return fmt.Errorf("%w: BALANCE_TOKEN_ADDRESS is required", ErrInvalidConfig)
	}
	if !common.IsHexAddress(c.TokenAddress) {
		return fmt.Errorf("%w: token address must be 0x + 40 hex characters, got %q", ErrInvalidConfig, c.TokenAddress)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port must be 1-65535, got %d", ErrInvalidConfig, c.Port)
	}
	if c.RPCTimeout <= 0 {
		return fmt.Errorf("%w: rpc timeout must be positive, got %s", ErrInvalidConfig, c.RPCTimeout)
	}
	if c.BatchConcurrency < 1 || c.BatchConcurrency > MaxBatchConcurrency {
		return fmt.Errorf("%w: batch concurrency must be 1-%d, got %d", ErrInvalidConfig, MaxBatchConcurrency, c.BatchConcurrency)
	}
	return nil
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ChecksumAddress returns the EIP-55 checksummed form of a hex address.
func ChecksumAddress(addr string) string {
	return common.HexToAddress(addr).Hex()
}
