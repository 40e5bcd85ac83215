package calculator

import "ForexPulse/internal/model"

// Standard indicator windows. The support/resistance window is the only
// configurable one (10 or 20 bars).
const (
	SpanFast  = 10
	SpanSlow  = 50
	RSIPeriod = 14
	ATRPeriod = 14
)

// Snapshots derives one IndicatorSnapshot per bar from a normalized series.
// All rolling windows operate strictly on already-elapsed bars; indicators
// whose window is not yet full are carried as undefined, never zero-filled.
func Snapshots(bars []model.PriceBar, srWindow int) []model.IndicatorSnapshot {
	if len(bars) == 0 {
		return nil
	}
	closes := extractCloses(bars)
	ema10 := EMASeries(closes, SpanFast)
	ema50 := EMASeries(closes, SpanSlow)
	rsi := RSISeries(closes, RSIPeriod)
	atr := ATRSeries(bars, ATRPeriod)

	snaps := make([]model.IndicatorSnapshot, len(bars))
	for i := range bars {
		sup, res := SupportResistance(bars, srWindow, i)
		snaps[i] = model.IndicatorSnapshot{
			EMA10:      ema10[i],
			EMA50:      ema50[i],
			RSI:        rsi[i],
			ATR:        atr[i],
			Support:    sup,
			Resistance: res,
		}
	}
	return snaps
}
