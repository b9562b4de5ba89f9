package mcpcrypto

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avirtanen/agentlab/internal/buildinfo"
	"github.com/avirtanen/agentlab/internal/coingecko"
	"github.com/avirtanen/agentlab/internal/conf"
	"github.com/avirtanen/agentlab/internal/logging"
	"github.com/avirtanen/agentlab/internal/mcp"
)

// Command creates the mcp-crypto command which serves the crypto price tools
// over stdio.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-crypto",
		Short: "Serve crypto price tools over MCP stdio",
		Long:  "Run an MCP server on stdin/stdout exposing CoinGecko price and trending lookups as tools.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}
}

func runServer(settings *conf.Settings) error {
	if err := conf.ValidateSettings(settings); err != nil {
		return err
	}

	// Stdout carries the MCP protocol, so anything human-readable goes to
	// the logger on stderr.
	logger := logging.ForService("mcp-crypto")
	logger.Info("starting MCP server", "name", mcp.ServerName, "version", buildinfo.Version)

	srv := mcp.NewToolServer(coingecko.NewClient(settings), buildinfo.Version)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
