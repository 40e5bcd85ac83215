package model

import "time"

// RawBar is a single bar as returned by the quote provider, before any
// cleaning. Twelve Data serialises every numeric field as a string.
type RawBar struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
}

// PriceBar represents a single validated OHLC bar.
type PriceBar struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Series holds normalized price data for one pair: ascending by time,
// unique timestamps, OHLC sanity checked.
type Series struct {
	Pair string
	Bars []PriceBar
}

// Latest returns the most recent bar. The normalizer guarantees at least
// two bars, so callers may rely on a non-empty series.
func (s *Series) Latest() PriceBar {
	return s.Bars[len(s.Bars)-1]
}
