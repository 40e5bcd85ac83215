package strategy

import (
	"errors"

	"ForexPulse/internal/model"
)

// ErrInsufficientHistory is returned when no prior snapshot exists yet for a
// pair. Callers treat it as "no crossover available yet", not as a failure.
var ErrInsufficientHistory = errors.New("insufficient history: need two indicator snapshots")

// RSI thresholds for the overbought/oversold qualifiers.
const (
	OverboughtRSI = 70.0
	OversoldRSI   = 30.0
)

// Classify derives the trend and crossover state from two consecutive
// indicator snapshots. Deterministic: no state beyond the two inputs.
//
// Trend ties (ema10 == ema50) resolve to Downtrend. When no crossover
// occurred the signed EMA separation is reported so alerts can show the
// bias magnitude instead of a bare "No Crossover".
//
// ReversalRisk flags an oscillator extreme working against a fresh
// crossover: overbought with a bullish cross, or oversold with a bearish
// cross. The confirming combinations (overbought+bearish, oversold+bullish)
// do not trigger it.
func Classify(prev, curr *model.IndicatorSnapshot) (model.SignalState, error) {
	if curr == nil {
		return model.SignalState{Trend: model.TrendNeutral, Crossover: model.CrossNone}, ErrInsufficientHistory
	}
	if prev == nil {
		return model.SignalState{Trend: model.TrendNeutral, Crossover: model.CrossNone}, ErrInsufficientHistory
	}

	state := model.SignalState{Crossover: model.CrossNone}

	if curr.EMA10 > curr.EMA50 {
		state.Trend = model.TrendUp
	} else {
		state.Trend = model.TrendDown
	}

	switch {
	case prev.EMA10 <= prev.EMA50 && curr.EMA10 > curr.EMA50:
		state.Crossover = model.CrossBullish
	case prev.EMA10 >= prev.EMA50 && curr.EMA10 < curr.EMA50:
		state.Crossover = model.CrossBearish
	}

	if curr.EMA50 != 0 {
		state.SeparationPct = (curr.EMA10 - curr.EMA50) / curr.EMA50 * 100
	}

	if curr.RSI.Valid {
		state.Overbought = curr.RSI.Value > OverboughtRSI
		state.Oversold = curr.RSI.Value < OversoldRSI
	}
	state.ReversalRisk = (state.Overbought && state.Crossover == model.CrossBullish) ||
		(state.Oversold && state.Crossover == model.CrossBearish)

	return state, nil
}
