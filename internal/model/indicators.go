package model

// Float is an optional float64. Indicators that have not yet accumulated a
// full window are carried as invalid rather than as zero or NaN.
type Float struct {
	Value float64
	Valid bool
}

// FloatFrom returns a valid Float holding v.
func FloatFrom(v float64) Float {
	return Float{Value: v, Valid: true}
}

// IndicatorSnapshot holds the derived indicators for one bar. Immutable once
// computed.
type IndicatorSnapshot struct {
	EMA10      float64
	EMA50      float64
	RSI        Float // undefined until 14 deltas exist
	ATR        Float // undefined until the true-range window is full
	Support    Float // undefined until the rolling window is full
	Resistance Float
}
