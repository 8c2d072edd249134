package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Fantasim/balanceapi/internal/config"
	"github.com/Fantasim/balanceapi/internal/logging"
	"github.com/Fantasim/balanceapi/internal/models"
)

// BalanceService is the lookup surface the balance handlers depend on.
type BalanceService interface {
	GetBalance(ctx context.Context, address string) (models.BalanceRecord, error)
	GetBalanceBatch(ctx context.Context, addresses []string) ([]models.BalanceRecord, error)
}

// badRequestError is a malformed request detected before any remote call.
type badRequestError struct {
	message string
}

func (e *badRequestError) Error() string { return e.message }
func (e *badRequestError) Unwrap() error { return config.ErrBadRequest }

// GetBalance handles GET /get_balance/{address}
func GetBalance(svc BalanceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logging.FromContext(r.Context())
		address := chi.URLParam(r, "address")

		log.Info("balance requested",
			"address", address,
			"remoteAddr", r.RemoteAddr,
		)

		rec, err := svc.GetBalance(r.Context(), address)
		if err != nil {
			kind := writeFailure(w, err)
			log.Warn("balance lookup failed",
				"address", address,
				"kind", kind,
				"error", err,
			)
			return
		}

		log.Info("balance fetched",
			"address", address,
			"balance", rec.Balance.String(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)

		writeJSON(w, http.StatusOK, rec)
	}
}

// GetBalanceBatch handles POST /get_balance_batch
func GetBalanceBatch(svc BalanceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logging.FromContext(r.Context())

		addresses, err := decodeBatchRequest(w, r)
		if err != nil {
			log.Warn("invalid batch request",
				"remoteAddr", r.RemoteAddr,
				"error", err,
			)
			writeFailure(w, err)
			return
		}

		log.Info("batch balance requested",
			"count", len(addresses),
			"remoteAddr", r.RemoteAddr,
		)

		records, err := svc.GetBalanceBatch(r.Context(), addresses)
		if err != nil {
			kind := writeFailure(w, err)
			log.Warn("batch balance lookup failed",
				"count", len(addresses),
				"kind", kind,
				"error", err,
			)
			return
		}

		log.Info("batch balances fetched",
			"count", len(records),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)

		writeJSON(w, http.StatusOK, records)
	}
}

// decodeBatchRequest extracts the addresses list. The field is decoded in
// two steps so a missing field, a null and a non-list value are told apart.
func decodeBatchRequest(w http.ResponseWriter, r *http.Request) ([]string, error) {
	body := http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&fields); err != nil {
		return nil, &badRequestError{message: config.MsgInvalidJSONBody}
	}

	raw, ok := fields["addresses"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, &badRequestError{message: config.MsgMissingAddresses}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &badRequestError{message: config.MsgAddressesNotList}
	}

	req := models.BatchRequest{Addresses: make([]string, 0, len(items))}
	for _, item := range items {
		var addr string
		if err := json.Unmarshal(item, &addr); err != nil {
			return nil, &badRequestError{message: config.MsgAddressesNotStrings}
		}
		req.Addresses = append(req.Addresses, addr)
	}

	return req.Addresses, nil
}
