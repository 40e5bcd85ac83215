package sentiment

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// signalMarker precedes the speedometer verdict text on the technicals page.
const signalMarker = "speedometerSignal"

// TradingViewSource scrapes the aggregate analyst verdict ("Buy", "Strong
// Sell", ...) from the TradingView technicals page for a pair.
type TradingViewSource struct {
	Client    *http.Client
	SymbolMap map[string]string // maps "EUR/USD" to "FX-EURUSD"
}

// NewTradingViewSource creates the scraper with the default pair mapping.
func NewTradingViewSource() *TradingViewSource {
	return &TradingViewSource{
		Client: &http.Client{Timeout: 10 * time.Second},
		SymbolMap: map[string]string{
			"EUR/USD": "FX-EURUSD",
			"GBP/USD": "FX-GBPUSD",
			"USD/JPY": "FX-USDJPY",
		},
	}
}

func (t *TradingViewSource) Name() string { return "tradingview" }

func (t *TradingViewSource) Fetch(ctx context.Context, pair string) string {
	symbol, ok := t.SymbolMap[pair]
	if !ok {
		symbol = "FX-" + strings.ReplaceAll(pair, "/", "")
	}
	u := fmt.Sprintf("https://www.tradingview.com/symbols/%s/technicals/", symbol)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return Unavailable
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := t.Client.Do(req)
	if err != nil {
		log.Printf("[WARN] tradingview sentiment for %s: %v", pair, err)
		return Unavailable
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[WARN] tradingview sentiment for %s: status %d", pair, resp.StatusCode)
		return Unavailable
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return Unavailable
	}
	if verdict := extractSignal(string(body)); verdict != "" {
		return verdict
	}
	return Unavailable
}

// extractSignal pulls the text of the first element whose class contains the
// speedometer signal marker. The page markup is not stable; a miss is fine.
func extractSignal(html string) string {
	idx := strings.Index(html, signalMarker)
	if idx < 0 {
		return ""
	}
	// Skip to the end of the opening tag, then read up to the closing one.
	rest := html[idx:]
	open := strings.Index(rest, ">")
	if open < 0 {
		return ""
	}
	rest = rest[open+1:]
	end := strings.Index(rest, "<")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
