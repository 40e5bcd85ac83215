package model

import (
	"fmt"
	"time"
)

// Trend is the EMA-ordering trend direction.
type Trend string

const (
	TrendUp      Trend = "Uptrend"
	TrendDown    Trend = "Downtrend"
	TrendNeutral Trend = "Neutral"
)

// Crossover marks an EMA ordering change between two consecutive snapshots.
type Crossover string

const (
	CrossBullish Crossover = "Bullish Crossover"
	CrossBearish Crossover = "Bearish Crossover"
	CrossNone    Crossover = "No Crossover"
)

// SignalState is the classifier output for one pair at one instant.
type SignalState struct {
	Trend     Trend
	Crossover Crossover

	// SeparationPct is the signed EMA10/EMA50 separation as a percentage of
	// EMA50, giving situational context when no crossover occurred.
	SeparationPct float64

	Overbought   bool // RSI > 70
	Oversold     bool // RSI < 30
	ReversalRisk bool // oscillator extreme against a fresh crossover
}

// AlertRecord is the finished per-pair record fanned out to all sinks.
// Never mutated after creation.
type AlertRecord struct {
	Pair      string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64

	Indicators IndicatorSnapshot
	Signal     SignalState

	Sentiment string
	News      string
}

// Fields returns the record as ordered strings. The order is the stable
// contract shared by the spreadsheet and database sinks: timestamp, pair,
// open, high, low, close, ema10, ema50, rsi, atr, support, resistance,
// trend, crossover, sentiment, news.
func (r *AlertRecord) Fields() []string {
	ind := r.Indicators
	return []string{
		r.Timestamp.UTC().Format("2006-01-02 15:04:05"),
		r.Pair,
		fmt.Sprintf("%.5f", r.Open),
		fmt.Sprintf("%.5f", r.High),
		fmt.Sprintf("%.5f", r.Low),
		fmt.Sprintf("%.5f", r.Close),
		fmt.Sprintf("%.5f", ind.EMA10),
		fmt.Sprintf("%.5f", ind.EMA50),
		formatOpt(ind.RSI, 2),
		formatOpt(ind.ATR, 4),
		formatOpt(ind.Support, 4),
		formatOpt(ind.Resistance, 4),
		string(r.Signal.Trend),
		string(r.Signal.Crossover),
		r.Sentiment,
		r.News,
	}
}

func formatOpt(f Float, prec int) string {
	if !f.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", prec, f.Value)
}
