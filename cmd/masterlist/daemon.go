package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-vh/masterlist/internal/audit"
	"github.com/noah-vh/masterlist/internal/capture"
	"github.com/noah-vh/masterlist/internal/config"
	"github.com/noah-vh/masterlist/internal/llm"
	"github.com/noah-vh/masterlist/internal/server"
	"github.com/noah-vh/masterlist/internal/taskstore"
)

var (
	listenAddr string
	configPath string
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Start the MasterList daemon",
	Long:  `Starts the MasterList daemon which provides the HTTP API for capture and faceted task queries.`,
	RunE:  runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address for the API server (overrides config)")
	daemonCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log.Println("Starting masterlist daemon...")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}

	// The language-model transport is pluggable. With a scripted config
	// the daemon answers captures on its own; otherwise captures must
	// supply their own raw object.
	var client llm.Client
	if len(cfg.LLMScript) > 0 {
		client = llm.NewStatic(cfg.LLMScript...)
		log.Printf("Using scripted language-model client (%d responses)", len(cfg.LLMScript))
	} else {
		client = llm.ClientFunc(func(ctx context.Context, req llm.Request) (string, error) {
			return "", errors.New("no language-model client configured")
		})
	}

	svc := capture.New(client)
	store := taskstore.New()
	recorder := audit.NewRecorder()

	srv := server.New(svc, store, recorder, cfg.DefaultScreen, cfg.Listen)

	// Graceful shutdown on SIGINT/SIGTERM.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-done:
		log.Printf("Received %s, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("Daemon stopped")
	return nil
}
