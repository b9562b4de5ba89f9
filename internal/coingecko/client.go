// Package coingecko provides a read-only client for the CoinGecko market
// data API.
package coingecko

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avirtanen/agentlab/internal/conf"
	"github.com/avirtanen/agentlab/internal/errors"
	"github.com/avirtanen/agentlab/internal/logging"
)

const (
	// UserAgent identifies this client to the upstream API.
	UserAgent = "agentlab/1.0"

	// TrendingLimit caps how many trending coins are returned.
	TrendingLimit = 7
)

// PriceInfo holds the market data for a single coin, freshly fetched on
// every call. Priced is false when the batched price lookup had no entry
// for the coin.
type PriceInfo struct {
	CoinID    string
	Name      string
	Price     float64
	MarketCap float64
	Change24h float64
	Priced    bool
}

// Client issues bounded-timeout GET requests against the CoinGecko API.
// It performs no caching and no retries.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a price client from the application settings.
func NewClient(settings *conf.Settings) *Client {
	return &Client{
		baseURL: strings.TrimRight(settings.CoinGecko.BaseURL, "/"),
		timeout: settings.CoinGecko.Timeout,
		httpClient: &http.Client{
			Timeout: settings.CoinGecko.Timeout,
		},
		logger: logging.ForService("coingecko"),
	}
}

// simplePriceResponse maps coin id to its vs-currency fields, e.g.
// {"bitcoin": {"usd": 97000.12, "usd_market_cap": ...}}
type simplePriceResponse map[string]map[string]float64

type trendingResponse struct {
	Coins []struct {
		Item struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"item"`
	} `json:"coins"`
}

// GetPrice fetches the current USD price, market cap and 24h change for a
// single coin. An unknown coin id yields a not-found error, never an empty
// success.
func (c *Client) GetPrice(ctx context.Context, coinID string) (*PriceInfo, error) {
	coinID = strings.ToLower(strings.TrimSpace(coinID))
	if coinID == "" {
		return nil, errors.Newf("coin_id is required").
			Component("coingecko").
			Category(errors.CategoryValidation).
			Build()
	}

	params := url.Values{}
	params.Set("ids", coinID)
	params.Set("vs_currencies", "usd")
	params.Set("include_market_cap", "true")
	params.Set("include_24hr_change", "true")

	var data simplePriceResponse
	if err := c.get(ctx, "/simple/price", params, &data); err != nil {
		return nil, err
	}

	entry, ok := data[coinID]
	if !ok {
		return nil, errors.Newf("no data found for %q, check the coin id is correct", coinID).
			Component("coingecko").
			Category(errors.CategoryNotFound).
			Context("coin_id", coinID).
			Build()
	}

	return &PriceInfo{
		CoinID:    coinID,
		Price:     entry["usd"],
		MarketCap: entry["usd_market_cap"],
		Change24h: entry["usd_24h_change"],
		Priced:    true,
	}, nil
}

// GetTrending fetches the upstream trending ranking and then the prices for
// the ranked coins in a single batched call. The upstream ranking order is
// preserved; fewer than TrendingLimit coins is not an error.
func (c *Client) GetTrending(ctx context.Context) ([]PriceInfo, error) {
	var trending trendingResponse
	if err := c.get(ctx, "/search/trending", nil, &trending); err != nil {
		return nil, err
	}

	coins := trending.Coins
	if len(coins) > TrendingLimit {
		coins = coins[:TrendingLimit]
	}
	if len(coins) == 0 {
		return []PriceInfo{}, nil
	}

	ids := make([]string, 0, len(coins))
	for _, coin := range coins {
		ids = append(ids, coin.Item.ID)
	}

	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	params.Set("vs_currencies", "usd")
	params.Set("include_market_cap", "true")

	var prices simplePriceResponse
	if err := c.get(ctx, "/simple/price", params, &prices); err != nil {
		return nil, err
	}

	infos := make([]PriceInfo, 0, len(coins))
	for _, coin := range coins {
		info := PriceInfo{
			CoinID: coin.Item.ID,
			Name:   coin.Item.Name,
		}
		if entry, ok := prices[coin.Item.ID]; ok {
			info.Price = entry["usd"]
			info.MarketCap = entry["usd_market_cap"]
			info.Priced = true
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// get performs a single GET round trip and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return errors.New(err).
			Component("coingecko").
			Category(errors.CategoryGeneric).
			Build()
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("request timed out", "path", path, "timeout", c.timeout)
			return errors.Newf("request timed out after %s", c.timeout).
				Component("coingecko").
				Category(errors.CategoryTimeout).
				Context("path", path).
				Build()
		}
		c.logger.Error("request failed", "path", path, "error", err)
		return errors.Newf("failed to fetch data: %v", err).
			Component("coingecko").
			Category(errors.CategoryUpstream).
			Context("path", path).
			Build()
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.Newf("rate limit exceeded").
			Component("coingecko").
			Category(errors.CategoryRateLimit).
			Context("path", path).
			Build()
	case resp.StatusCode != http.StatusOK:
		return errors.Newf("API error: %d", resp.StatusCode).
			Component("coingecko").
			Category(errors.CategoryUpstream).
			Context("path", path).
			Context("status_code", resp.StatusCode).
			Build()
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Newf("decoding response: %v", err).
			Component("coingecko").
			Category(errors.CategoryUpstream).
			Context("path", path).
			Build()
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
