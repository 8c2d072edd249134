// Package contract performs read-only calls against the configured ERC-20 token contract.
package contract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/Fantasim/balanceapi/internal/config"
	"github.com/Fantasim/balanceapi/internal/models"
)

// Reader reads token balances via eth_call balanceOf(address).
// It is immutable after construction and safe for concurrent use.
type Reader struct {
	caller   ethereum.ContractCaller
	contract common.Address
	abi      abi.ABI
	timeout  time.Duration
}

// NewReader creates a Reader for the token contract at tokenAddress.
// Each call is bounded by timeout.
func NewReader(caller ethereum.ContractCaller, tokenAddress string, timeout time.Duration) (*Reader, error) {
	if !common.IsHexAddress(tokenAddress) {
		return nil, fmt.Errorf("%w: token address %q", config.ErrInvalidConfig, tokenAddress)
	}

	parsed, err := abi.JSON(strings.NewReader(config.ERC20BalanceOfABI))
	if err != nil {
		return nil, fmt.Errorf("parse ERC-20 ABI: %w", err)
	}

	contract := common.HexToAddress(tokenAddress)

	slog.Info("contract reader created",
		"contract", contract.Hex(),
		"timeout", timeout,
	)

	return &Reader{
		caller:   caller,
		contract: contract,
		abi:      parsed,
		timeout:  timeout,
	}, nil
}

// Contract returns the checksummed token contract address.
func (r *Reader) Contract() string {
	return r.contract.Hex()
}

// BalanceOf returns the token balance of address. The returned error wraps
// config.ErrValidation, config.ErrInvalidAddress or config.ErrTransport.
func (r *Reader) BalanceOf(ctx context.Context, address string) (models.BalanceRecord, error) {
	holder, err := ParseAddress(address)
	if err != nil {
		slog.Debug("balanceOf address rejected",
			"address", address,
			"error", err,
		)
		return models.BalanceRecord{}, err
	}

	data, err := r.abi.Pack(config.BalanceOfMethod, holder)
	if err != nil {
		return models.BalanceRecord{}, fmt.Errorf("%w: pack balanceOf: %v", config.ErrTransport, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	output, err := r.caller.CallContract(callCtx, ethereum.CallMsg{
		To:   &r.contract,
		Data: data,
	}, nil)
	if err != nil {
		slog.Warn("balanceOf call failed",
			"contract", r.contract.Hex(),
			"address", address,
			"elapsed", time.Since(start),
			"error", err,
		)
		return models.BalanceRecord{}, fmt.Errorf("%w: call contract: %w", config.ErrTransport, redactURL(err))
	}

	values, err := r.abi.Unpack(config.BalanceOfMethod, output)
	if err != nil {
		slog.Warn("balanceOf malformed response",
			"contract", r.contract.Hex(),
			"address", address,
			"outputLen", len(output),
			"error", err,
		)
		return models.BalanceRecord{}, fmt.Errorf("%w: unpack balanceOf: %v", config.ErrTransport, err)
	}

	if len(values) != 1 {
		return models.BalanceRecord{}, fmt.Errorf("%w: balanceOf returned %d values", config.ErrTransport, len(values))
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return models.BalanceRecord{}, fmt.Errorf("%w: unexpected balanceOf output %T", config.ErrTransport, values[0])
	}

	slog.Debug("balanceOf fetched",
		"address", address,
		"balance", balance.String(),
		"elapsed", time.Since(start),
	)

	return models.BalanceRecord{Address: address, Balance: balance}, nil
}

// ParseAddress checks address the way the remote client library does before
// submitting a call. Only EIP-55 checksummed, 0x-prefixed addresses pass.
// A string that is not 20-byte hex, or mixed-case hex whose checksum does not
// match, wraps config.ErrValidation. Well-formed hex that is not checksummed
// (no 0x prefix, all lowercase, all uppercase) wraps config.ErrInvalidAddress.
func ParseAddress(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("%w: %q is not a 20-byte hex address", config.ErrValidation, address)
	}

	parsed := common.HexToAddress(address)
	if parsed.Hex() == address {
		return parsed, nil
	}

	if strings.HasPrefix(address, "0x") && isMixedCase(address[2:]) {
		return common.Address{}, fmt.Errorf("%w: %q has an invalid EIP-55 checksum", config.ErrValidation, address)
	}

	return common.Address{}, fmt.Errorf("%w: %q is not checksummed, use %s", config.ErrInvalidAddress, address, parsed.Hex())
}

func isMixedCase(s string) bool {
	return strings.ToLower(s) != s && strings.ToUpper(s) != s
}

// redactURL drops the request URL from transport errors. Node URLs often
// carry an API key in the path.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request failed: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
