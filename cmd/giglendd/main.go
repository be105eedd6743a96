package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"giglend/config"
	"giglend/core"
	"giglend/crypto"
	"giglend/observability/logging"
	"giglend/rpc"
	"giglend/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("GIGLEND_ENV"))
	logger := logging.Setup("giglendd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "ledger"))
	if err != nil {
		logger.Error("Failed to open ledger database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	node := core.NewNode(db)

	initialized, err := node.Initialized()
	if err != nil {
		logger.Error("Failed to read ledger state", slog.Any("error", err))
		os.Exit(1)
	}
	if !initialized {
		admin, err := resolveAdmin(cfg)
		if err != nil {
			logger.Error("Failed to resolve admin identity", slog.Any("error", err))
			os.Exit(1)
		}
		if err := node.Initialize(admin); err != nil && !errors.Is(err, core.ErrAlreadyInitialized) {
			logger.Error("Failed to initialise ledger", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Ledger initialised", slog.String("admin", admin.String()))
	}

	logger.Info("Node ready",
		slog.String("network", cfg.NetworkName),
		slog.String("rpc", cfg.RPCAddress),
	)

	server := rpc.NewServer(node)
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("RPC server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// resolveAdmin takes the configured admin identity or generates a fresh one
// for local networks, printing the key so the operator can keep it.
func resolveAdmin(cfg *config.Config) (crypto.Address, error) {
	if admin := strings.TrimSpace(cfg.AdminAddress); admin != "" {
		return crypto.DecodeAddress(admin)
	}
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return crypto.Address{}, err
	}
	addr := key.PubKey().Address()
	slog.Warn("No AdminAddress configured; generated a throwaway admin key",
		slog.String("admin", addr.String()),
		slog.String("privateKeyHex", fmt.Sprintf("%x", key.Bytes())),
	)
	return addr, nil
}
