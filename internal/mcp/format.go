package mcp

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/avirtanen/agentlab/internal/coingecko"
)

// printer adds thousands separators to dollar amounts.
var printer = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders the single-coin summary as plain text.
func FormatPrice(info *coingecko.PriceInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Price Information:\n", strings.ToUpper(info.CoinID))
	b.WriteString(printer.Sprintf("Current Price: $%.2f\n", info.Price))
	b.WriteString(printer.Sprintf("Market Cap: $%.0f\n", info.MarketCap))
	b.WriteString(printer.Sprintf("24h Change: %+.2f%%\n", info.Change24h))
	return b.String()
}

// FormatTrending renders the ranked trending list as plain text. Coins the
// price lookup knew nothing about are listed without a price line.
func FormatTrending(infos []coingecko.PriceInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d Trending Cryptocurrencies:\n\n", len(infos))
	for i, info := range infos {
		name := info.Name
		if name == "" {
			name = info.CoinID
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, name, info.CoinID)
		if info.Priced {
			b.WriteString(printer.Sprintf("   Price: $%.2f\n", info.Price))
		}
		b.WriteString("\n")
	}
	return b.String()
}
