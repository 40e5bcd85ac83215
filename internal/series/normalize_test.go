package series

import (
	"errors"
	"testing"

	"ForexPulse/internal/model"
)

func rawBar(ts, o, h, l, c string) model.RawBar {
	return model.RawBar{Datetime: ts, Open: o, High: h, Low: l, Close: c}
}

func TestNormalize_SortsProviderOrder(t *testing.T) {
	// Twelve Data returns newest first.
	raw := []model.RawBar{
		rawBar("2024-03-01 10:30:00", "1.1010", "1.1030", "1.1000", "1.1020"),
		rawBar("2024-03-01 10:15:00", "1.1000", "1.1020", "1.0990", "1.1010"),
		rawBar("2024-03-01 10:00:00", "1.0990", "1.1010", "1.0980", "1.1000"),
	}
	ser, err := Normalize("EUR/USD", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ser.Bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(ser.Bars))
	}
	for i := 1; i < len(ser.Bars); i++ {
		if !ser.Bars[i].Time.After(ser.Bars[i-1].Time) {
			t.Errorf("bars not strictly ascending at index %d", i)
		}
	}
	if ser.Latest().Close != 1.1020 {
		t.Errorf("expected latest close 1.1020, got %v", ser.Latest().Close)
	}
}

func TestNormalize_DuplicateTimestampLastWins(t *testing.T) {
	raw := []model.RawBar{
		rawBar("2024-03-01 10:00:00", "1.1000", "1.1020", "1.0990", "1.1010"),
		rawBar("2024-03-01 10:15:00", "1.1010", "1.1030", "1.1000", "1.1020"),
		rawBar("2024-03-01 10:15:00", "1.1010", "1.1040", "1.1000", "1.1030"), // revision
	}
	ser, err := Normalize("EUR/USD", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ser.Bars) != 2 {
		t.Fatalf("expected 2 bars after dedup, got %d", len(ser.Bars))
	}
	if ser.Latest().Close != 1.1030 {
		t.Errorf("expected the revised bar to win, got close %v", ser.Latest().Close)
	}
}

func TestNormalize_DropsUnparseableRows(t *testing.T) {
	raw := []model.RawBar{
		rawBar("2024-03-01 10:00:00", "1.1000", "1.1020", "1.0990", "1.1010"),
		rawBar("2024-03-01 10:15:00", "not-a-number", "1.1030", "1.1000", "1.1020"),
		rawBar("garbage", "1.1010", "1.1030", "1.1000", "1.1020"),
		rawBar("2024-03-01 10:45:00", "1.1020", "1.1040", "1.1010", "1.1030"),
	}
	ser, err := Normalize("EUR/USD", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ser.Bars) != 2 {
		t.Fatalf("expected 2 parseable bars, got %d", len(ser.Bars))
	}
}

func TestNormalize_DropsInconsistentOHLC(t *testing.T) {
	raw := []model.RawBar{
		rawBar("2024-03-01 10:00:00", "1.1000", "1.1020", "1.0990", "1.1010"),
		rawBar("2024-03-01 10:15:00", "1.1010", "1.1005", "1.1000", "1.1020"), // high < close
		rawBar("2024-03-01 10:30:00", "1.1010", "1.1030", "1.1015", "1.1020"), // low > open
		rawBar("2024-03-01 10:45:00", "-1.0", "1.1040", "1.1010", "1.1030"),   // negative
		rawBar("2024-03-01 11:00:00", "1.1020", "1.1040", "1.1010", "1.1030"),
	}
	ser, err := Normalize("EUR/USD", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ser.Bars) != 2 {
		t.Fatalf("expected 2 sane bars, got %d", len(ser.Bars))
	}
	for _, b := range ser.Bars {
		if b.High < b.Open || b.High < b.Close || b.Low > b.Open || b.Low > b.Close {
			t.Errorf("inconsistent bar survived: %+v", b)
		}
	}
}

func TestNormalize_FailsWhenTooFewBarsRemain(t *testing.T) {
	raw := []model.RawBar{
		rawBar("2024-03-01 10:00:00", "1.1000", "1.1020", "1.0990", "1.1010"),
		rawBar("2024-03-01 10:15:00", "x", "y", "z", "w"),
	}
	_, err := Normalize("EUR/USD", raw)
	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataError, got %v", err)
	}
	if dataErr.Pair != "EUR/USD" {
		t.Errorf("expected pair in error, got %q", dataErr.Pair)
	}

	if _, err := Normalize("GBP/USD", nil); err == nil {
		t.Error("expected DataError for empty input")
	}
}
