package config

import (
	"errors"
	"testing"
	"time"
)

const testToken = "0xc2132D05D31c914a87C6611C10748AEb04B58e8F"

func validConfig() *Config {
	return &Config{
		RPCURL:           "https://polygon-rpc.com",
		TokenAddress:     testToken,
		Host:             "127.0.0.1",
		Port:             8080,
		LogLevel:         "info",
		LogDir:           "./logs",
		RPCTimeout:       15 * time.Second,
		BatchConcurrency: 1,
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing rpc url", func(c *Config) { c.RPCURL = "" }},
		{"missing token", func(c *Config) { c.TokenAddress = "" }},
		{"token not hex", func(c *Config) { c.TokenAddress = "0xZZ32D05D31c914a87C6611C10748AEb04B58e8F" }},
		{"token too short", func(c *Config) { c.TokenAddress = "0xc2132D05" }},
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too high", func(c *Config) { c.Port = 65536 }},
		{"zero timeout", func(c *Config) { c.RPCTimeout = 0 }},
		{"zero concurrency", func(c *Config) { c.BatchConcurrency = 0 }},
		{"concurrency too high", func(c *Config) { c.BatchConcurrency = MaxBatchConcurrency + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidate_ValidPortBoundaries(t *testing.T) {
	for _, port := range []int{1, 3000, 65535} {
		cfg := validConfig()
		cfg.Port = port
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v for port=%d, want nil", err, port)
		}
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("BALANCE_RPC_URL", "http://localhost:8545")
	t.Setenv("BALANCE_TOKEN_ADDRESS", "0xc2132d05d31c914a87c6611c10748aeb04b58e8f")
	t.Setenv("BALANCE_PORT", "9090")
	t.Setenv("BALANCE_BATCH_CONCURRENCY", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TokenAddress != testToken {
		t.Errorf("TokenAddress = %q, want checksummed %q", cfg.TokenAddress, testToken)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.BatchConcurrency != 4 {
		t.Errorf("BatchConcurrency = %d, want 4", cfg.BatchConcurrency)
	}
	if cfg.RPCTimeout != 15*time.Second {
		t.Errorf("RPCTimeout = %s, want default 15s", cfg.RPCTimeout)
	}
	if cfg.ListenAddr() != "127.0.0.1:9090" {
		t.Errorf("ListenAddr() = %q", cfg.ListenAddr())
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("BALANCE_RPC_URL", "")
	t.Setenv("BALANCE_TOKEN_ADDRESS", "")

	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestChecksumAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0xc2132d05d31c914a87c6611c10748aeb04b58e8f", testToken},
		{"0XC2132D05D31C914A87C6611C10748AEB04B58E8F", testToken},
		{testToken, testToken},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ChecksumAddress(tt.in); got != tt.want {
				t.Errorf("ChecksumAddress(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
