// Package main is the entry point for the InvoxAI invoice console.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/invoxai/invoice-console/internal/api"
	"github.com/invoxai/invoice-console/internal/config"
	"github.com/invoxai/invoice-console/internal/logger"
	"github.com/invoxai/invoice-console/internal/web"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("invoice-console %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		logger.SetJSON()
	}
	logger.InitHashSalt()

	backend := api.New(cfg.BackendBaseURL, cfg.HTTPTimeout)
	viewURLs := api.NewViewURLCache(backend, cfg.ViewURLTTL)

	server, err := web.NewServer(cfg, backend, viewURLs)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create server")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")
		cancel()
	}()

	logger.Log.Info().Str("backend", cfg.BackendBaseURL).Msg("Invoice console starting")
	if err := server.Start(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server error")
	}
}
