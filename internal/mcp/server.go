// Package mcp exposes the crypto market data as Model Context Protocol
// tools over stdio.
package mcp

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/avirtanen/agentlab/internal/coingecko"
	"github.com/avirtanen/agentlab/internal/errors"
	"github.com/avirtanen/agentlab/internal/logging"
)

// ServerName is the implementation name announced during MCP initialization.
const ServerName = "crypto-finance-mcp"

// ToolServer registers the crypto tools and serves them over stdio.
type ToolServer struct {
	prices *coingecko.Client
	srv    *server.MCPServer
	logger *slog.Logger
}

// NewToolServer creates the MCP server and registers both tools.
func NewToolServer(prices *coingecko.Client, version string) *ToolServer {
	ts := &ToolServer{
		prices: prices,
		logger: logging.ForService("mcp"),
	}

	srv := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	priceTool := mcp.NewTool("get_crypto_price",
		mcp.WithDescription("Get current price for a cryptocurrency in USD"),
		mcp.WithString("coin_id",
			mcp.Required(),
			mcp.Description("Cryptocurrency ID (e.g. 'bitcoin', 'ethereum', 'solana')"),
		),
	)
	srv.AddTool(priceTool, ts.handleGetPrice)

	trendingTool := mcp.NewTool("get_trending_cryptos",
		mcp.WithDescription("Get top trending cryptocurrencies with prices"),
	)
	srv.AddTool(trendingTool, ts.handleGetTrending)

	ts.srv = srv
	return ts
}

// ServeStdio blocks serving MCP requests on stdin/stdout until the client
// disconnects. All logging goes to stderr; stdout carries the protocol.
func (ts *ToolServer) ServeStdio() error {
	ts.logger.Info("serving MCP tools on stdio")
	return server.ServeStdio(ts.srv)
}

// handleGetPrice fetches and formats the price summary for one coin.
// Upstream failures become tool error results, not protocol errors.
func (ts *ToolServer) handleGetPrice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	coinID := strings.ToLower(strings.TrimSpace(request.GetString("coin_id", "")))
	if coinID == "" {
		return mcp.NewToolResultError("coin_id is required"), nil
	}

	ts.logger.Info("fetching price", "coin_id", coinID)

	info, err := ts.prices.GetPrice(ctx, coinID)
	if err != nil {
		ts.logger.Error("price lookup failed", "coin_id", coinID, "error", err)
		return mcp.NewToolResultError(userMessage(err, coinID)), nil
	}

	return mcp.NewToolResultText(FormatPrice(info)), nil
}

// handleGetTrending fetches and formats the trending ranking.
func (ts *ToolServer) handleGetTrending(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts.logger.Info("fetching trending cryptocurrencies")

	infos, err := ts.prices.GetTrending(ctx)
	if err != nil {
		ts.logger.Error("trending lookup failed", "error", err)
		return mcp.NewToolResultError(userMessage(err, "")), nil
	}
	if len(infos) == 0 {
		return mcp.NewToolResultError("No trending data available"), nil
	}

	return mcp.NewToolResultText(FormatTrending(infos)), nil
}

// userMessage translates an error category into the short text shown to the
// calling model.
func userMessage(err error, coinID string) string {
	switch errors.CategoryOf(err) {
	case errors.CategoryNotFound:
		return "No data found for '" + coinID + "'. Check the coin ID is correct."
	case errors.CategoryRateLimit:
		return "Rate limit exceeded. Please wait a minute and try again."
	case errors.CategoryTimeout:
		return "Request timed out. Please try again."
	default:
		return "Failed to fetch data: " + err.Error()
	}
}
