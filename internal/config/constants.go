package config

import "time"

// Server
const (
	ServerReadTimeout    = 30 * time.Second
	ServerWriteTimeout   = 60 * time.Second
	ServerIdleTimeout    = 120 * time.Second
	ServerMaxHeaderBytes = 1 << 20 // 1 MB
	ShutdownTimeout      = 30 * time.Second
	MaxRequestBodyBytes  = 1 << 20
)

// Batch
const (
	MaxBatchConcurrency = 32
)

// Logging
const (
	LogFilePrefix = "balanceapi-"
	LogMaxAgeDays = 30
)

// Contract
const (
	BalanceOfMethod = "balanceOf"

	// ERC20BalanceOfABI is the subset of the ERC-20 ABI this service calls.
	ERC20BalanceOfABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`
)
