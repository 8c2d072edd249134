package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Fantasim/balanceapi/internal/api"
	"github.com/Fantasim/balanceapi/internal/config"
	"github.com/Fantasim/balanceapi/internal/contract"
	"github.com/Fantasim/balanceapi/internal/logging"
	"github.com/Fantasim/balanceapi/internal/models"
	"github.com/Fantasim/balanceapi/internal/service"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	case "check":
		if err := runCheck(); err != nil {
			slog.Error("check error", "error", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("balanceapi %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: balanceapi <command>

Commands:
  serve     Start the HTTP server
  check     Look up balances for the given addresses and print them as JSON
  version   Print version information
`)
}

// setupService loads config, dials the node and builds the balance service.
// The returned client must be closed by the caller.
func setupService(cfg *config.Config) (*service.BalanceService, *contract.Reader, *ethclient.Client, error) {
	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dial RPC: %w", err)
	}

	reader, err := contract.NewReader(client, cfg.TokenAddress, cfg.RPCTimeout)
	if err != nil {
		client.Close()
		return nil, nil, nil, fmt.Errorf("create contract reader: %w", err)
	}

	return service.NewBalanceService(reader, cfg.BatchConcurrency), reader, client, nil
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logCloser.Close()

	slog.Info("starting balanceapi",
		"version", version,
		"addr", cfg.ListenAddr(),
		"tokenAddress", cfg.TokenAddress,
		"rpcTimeout", cfg.RPCTimeout,
		"batchConcurrency", cfg.BatchConcurrency,
		"logLevel", cfg.LogLevel,
	)

	svc, reader, client, err := setupService(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	api.Version = version
	router := api.NewRouter(svc, api.Options{
		TokenAddress:     reader.Contract(),
		BatchConcurrency: svc.Concurrency(),
	})

	srv := &http.Server{
		Addr:           cfg.ListenAddr(),
		Handler:        router,
		ReadTimeout:    config.ServerReadTimeout,
		WriteTimeout:   config.ServerWriteTimeout,
		IdleTimeout:    config.ServerIdleTimeout,
		MaxHeaderBytes: config.ServerMaxHeaderBytes,
	}

	slog.Info("server configured",
		"readTimeout", config.ServerReadTimeout,
		"writeTimeout", config.ServerWriteTimeout,
		"idleTimeout", config.ServerIdleTimeout,
		"maxHeaderBytes", config.ServerMaxHeaderBytes,
	)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server listen error: %w", err)
	case <-done:
	}

	slog.Info("initiating graceful shutdown", "timeout", config.ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

func runCheck() error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	concurrency := fs.Int("concurrency", 0, "Parallel lookups (default: from BALANCE_BATCH_CONCURRENCY)")
	fs.Parse(os.Args[2:])

	addresses := fs.Args()
	if len(addresses) == 0 {
		return fmt.Errorf("at least one address is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *concurrency > 0 {
		cfg.BatchConcurrency = *concurrency
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	svc, _, client, err := setupService(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	records, err := svc.GetBalanceBatch(context.Background(), addresses)
	return printCheckResult(os.Stdout, records, err)
}

// printCheckResult writes the lookup outcome to w in the API's JSON envelopes.
// A failed lookup is returned as an error after its envelope is written.
func printCheckResult(w io.Writer, records []models.BalanceRecord, lookupErr error) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if lookupErr != nil {
		if err := enc.Encode(models.ErrorEnvelope{
			Error:   service.Classify(lookupErr),
			Message: lookupErr.Error(),
		}); err != nil {
			slog.Error("failed to write check output", "error", err)
			return fmt.Errorf("lookup failed: %w (writing output: %v)", lookupErr, err)
		}
		return fmt.Errorf("lookup failed: %w", lookupErr)
	}

	if err := enc.Encode(models.APIResponse{Data: records}); err != nil {
		return fmt.Errorf("write check output: %w", err)
	}
	return nil
}
