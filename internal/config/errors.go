package config

import "errors"

// Sentinel errors for internal use.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrBadRequest    = errors.New("bad request")

	// Contract reader failure classes. Every error returned by the reader
	// wraps exactly one of these.
	ErrValidation     = errors.New("address failed validation")
	ErrInvalidAddress = errors.New("invalid address")
	ErrTransport      = errors.New("remote call failed")
)

// Messages for request shape errors.
const (
	MsgMissingAddresses    = "Required parameter is missing: addresses"
	MsgAddressesNotList    = "Parameter addresses must be list"
	MsgAddressesNotStrings = "Parameter addresses must be list of strings"
	MsgInvalidJSONBody     = "Request body must be a JSON object"
)
