package calculator

import (
	"math"
	"testing"
	"time"

	"ForexPulse/internal/model"
)

func mkBar(i int, o, h, l, c float64) model.PriceBar {
	return model.PriceBar{
		Time: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(i) * 15 * time.Minute),
		Open: o, High: h, Low: l, Close: c,
	}
}

func TestTrueRange_FirstBarUsesHighLowOnly(t *testing.T) {
	bar := mkBar(0, 1.10, 1.15, 1.05, 1.12)
	if tr := TrueRange(bar, 0, false); tr != 0.10 {
		t.Errorf("expected first-bar TR 0.10, got %v", tr)
	}
}

func TestTrueRange_GapDominates(t *testing.T) {
	// Previous close far below the bar: |high - prevClose| wins.
	bar := mkBar(1, 1.20, 1.22, 1.19, 1.21)
	tr := TrueRange(bar, 1.10, true)
	if math.Abs(tr-0.12) > 1e-12 {
		t.Errorf("expected TR 0.12 from the gap, got %v", tr)
	}
	// Previous close far above: |low - prevClose| wins.
	bar = mkBar(2, 1.00, 1.02, 0.99, 1.01)
	tr = TrueRange(bar, 1.10, true)
	if math.Abs(tr-0.11) > 1e-12 {
		t.Errorf("expected TR 0.11 from the gap down, got %v", tr)
	}
}

func TestATRSeries_UndefinedDuringWarmup(t *testing.T) {
	bars := make([]model.PriceBar, 20)
	for i := range bars {
		bars[i] = mkBar(i, 1.10, 1.11, 1.09, 1.105)
	}
	atr := ATRSeries(bars, 14)
	for i := 0; i < 13; i++ {
		if atr[i].Valid {
			t.Errorf("atr[%d] should be undefined before the window fills", i)
		}
	}
	if !atr[13].Valid {
		t.Error("atr[13] should be defined with 14 true ranges")
	}
}

func TestATRSeries_ConstantRange(t *testing.T) {
	// Identical bars: every TR is high-low = 0.02, so ATR is 0.02 exactly.
	bars := make([]model.PriceBar, 20)
	for i := range bars {
		bars[i] = mkBar(i, 1.10, 1.11, 1.09, 1.105)
	}
	atr := ATRSeries(bars, 14)
	last := atr[len(atr)-1]
	if !last.Valid || math.Abs(last.Value-0.02) > 1e-12 {
		t.Errorf("expected ATR 0.02, got %+v", last)
	}
}

func TestATRSeries_NonNegative(t *testing.T) {
	bars := []model.PriceBar{
		mkBar(0, 1.1000, 1.1050, 1.0950, 1.1020),
		mkBar(1, 1.1020, 1.1100, 1.1010, 1.1090),
		mkBar(2, 1.1090, 1.1095, 1.0900, 1.0910),
		mkBar(3, 1.0910, 1.1200, 1.0905, 1.1150),
		mkBar(4, 1.1150, 1.1160, 1.1100, 1.1120),
	}
	atr := ATRSeries(bars, 3)
	for i, v := range atr {
		if v.Valid && v.Value < 0 {
			t.Errorf("atr[%d] negative: %v", i, v.Value)
		}
	}
}
