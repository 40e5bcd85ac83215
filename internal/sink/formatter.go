package sink

import (
	"fmt"
	"strings"

	"ForexPulse/internal/model"
)

// FormatAlert formats the record into the Telegram alert message.
func FormatAlert(rec *model.AlertRecord) string {
	ind := rec.Indicators
	sig := rec.Signal

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚨 <b>%s %s</b>\n", rec.Pair, sig.Trend))
	b.WriteString(fmt.Sprintf("🕒 %s\n", rec.Timestamp.UTC().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Price: %.5f | RSI: %s\n", rec.Close, optStr(ind.RSI, 2)))
	b.WriteString(fmt.Sprintf("EMA10: %.5f | EMA50: %.5f\n", ind.EMA10, ind.EMA50))

	if sig.Crossover == model.CrossNone {
		b.WriteString(fmt.Sprintf("%s | ATR: %s\n", separationLine(sig), optStr(ind.ATR, 4)))
	} else {
		b.WriteString(fmt.Sprintf("%s | ATR: %s\n", sig.Crossover, optStr(ind.ATR, 4)))
	}

	b.WriteString(fmt.Sprintf("Support: %s | Resistance: %s\n", optStr(ind.Support, 4), optStr(ind.Resistance, 4)))
	b.WriteString(fmt.Sprintf("Sentiment: %s | News: %s", rec.Sentiment, rec.News))

	if sig.ReversalRisk {
		b.WriteString(fmt.Sprintf("\n⚠️ Reversal risk: %s with RSI %s", sig.Crossover, optStr(ind.RSI, 0)))
	} else if sig.Overbought {
		b.WriteString(fmt.Sprintf("\nOverbought (RSI %s)", optStr(ind.RSI, 0)))
	} else if sig.Oversold {
		b.WriteString(fmt.Sprintf("\nOversold (RSI %s)", optStr(ind.RSI, 0)))
	}

	return b.String()
}

// separationLine renders the EMA separation with its bias direction, e.g.
// "+0.18% bullish bias", so a no-crossover alert still carries magnitude.
func separationLine(sig model.SignalState) string {
	bias := "bullish"
	if sig.SeparationPct < 0 {
		bias = "bearish"
	}
	return fmt.Sprintf("%+.2f%% %s bias", sig.SeparationPct, bias)
}

func optStr(f model.Float, prec int) string {
	if !f.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", prec, f.Value)
}
