package models

import "math/big"

// ErrorKind is the machine-readable failure class returned in error envelopes.
type ErrorKind string

const (
	ErrorKindBadRequest            ErrorKind = "BadRequest"
	ErrorKindValidationFailure     ErrorKind = "ValidationFailure"
	ErrorKindInvalidAddressFailure ErrorKind = "InvalidAddressFailure"
	ErrorKindInternal              ErrorKind = "InternalError"
)

// IsClientError reports whether the kind maps to a 4xx response.
func (k ErrorKind) IsClientError() bool {
	switch k {
	case ErrorKindBadRequest, ErrorKindValidationFailure, ErrorKindInvalidAddressFailure:
		return true
	default:
		return false
	}
}

// BalanceRecord is the token balance of one address. Balance is encoded as a
// JSON integer.
type BalanceRecord struct {
	Address string   `json:"address"`
	Balance *big.Int `json:"balance"`
}

// BatchRequest is the body of a batch balance lookup.
type BatchRequest struct {
	Addresses []string `json:"addresses"`
}

// APIResponse is the success envelope.
type APIResponse struct {
	Data interface{} `json:"data"`
}

// ErrorEnvelope is returned instead of data on failure.
type ErrorEnvelope struct {
	Error   ErrorKind `json:"error"`
	Message string    `json:"message"`
}

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	Status           string `json:"status"`
	Version          string `json:"version"`
	TokenAddress     string `json:"tokenAddress"`
	BatchConcurrency int    `json:"batchConcurrency"`
}
