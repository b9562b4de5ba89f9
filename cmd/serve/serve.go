package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avirtanen/agentlab/internal/api"
	"github.com/avirtanen/agentlab/internal/conf"
	"github.com/avirtanen/agentlab/internal/datastore"
	"github.com/avirtanen/agentlab/internal/extract"
	"github.com/avirtanen/agentlab/internal/logging"
	"github.com/avirtanen/agentlab/internal/observability"
)

// shutdownTimeout bounds how long in-flight requests may take to drain.
const shutdownTimeout = 10 * time.Second

// Command creates the serve command which runs the action-item HTTP service.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the action-item extraction HTTP service",
		Long:  "Start the HTTP server exposing note storage and heuristic/LLM action-item extraction.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.WebServer.Host, "host", viper.GetString("webserver.host"), "Address to listen on")
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Port to listen on")
	cmd.Flags().StringVar(&settings.Output.SQLite.Path, "db", viper.GetString("output.sqlite.path"), "Path to the SQLite database file")
	cmd.Flags().StringVar(&settings.Ollama.BaseURL, "ollama-url", viper.GetString("ollama.baseurl"), "Base URL of the local Ollama server")
	cmd.Flags().StringVar(&settings.Ollama.Model, "ollama-model", viper.GetString("ollama.model"), "Model used for LLM extraction")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

// runServer wires the datastore, extractors and HTTP controller together and
// blocks until the process receives an interrupt.
func runServer(settings *conf.Settings) error {
	if err := conf.ValidateSettings(settings); err != nil {
		return err
	}

	logger := logging.ForService("serve")
	if settings.Main.Log.Enabled {
		fileLogger, closeLog, err := logging.NewFileLogger(
			settings.Main.Log.Path, "serve", logging.ParseLevel(settings.Main.Log.Level))
		if err != nil {
			logger.Warn("failed to set up file logger, logging to stderr only",
				"path", settings.Main.Log.Path, "error", err)
		} else {
			logger = fileLogger
			defer func() {
				if err := closeLog(); err != nil {
					fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
				}
			}()
		}
	}

	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logger.Error("failed to close datastore", "error", err)
		}
	}()

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	controller := api.New(settings, ds,
		extract.NewHeuristicExtractor(),
		extract.NewLLMExtractor(settings),
		metrics)

	errCh := make(chan error, 1)
	go func() {
		if err := controller.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := controller.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
