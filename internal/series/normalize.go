package series

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"ForexPulse/internal/model"
)

// DataError reports a series that could not be normalized into usable input.
// It is local to one pair and must not abort other pairs.
type DataError struct {
	Pair   string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("bad series for %s: %s", e.Pair, e.Reason)
}

// timeLayouts accepted from the provider, most specific first.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Normalize turns a raw provider response into an ordered, gap-checked OHLC
// series. Unparseable rows and rows violating OHLC sanity are dropped; on a
// duplicate timestamp the last row in input order wins. Returns a DataError
// if fewer than 2 bars survive cleaning.
func Normalize(pair string, raw []model.RawBar) (*model.Series, error) {
	if len(raw) == 0 {
		return nil, &DataError{Pair: pair, Reason: "empty provider response"}
	}

	byTime := make(map[time.Time]model.PriceBar, len(raw))
	dropped := 0
	for _, rb := range raw {
		bar, ok := coerce(rb)
		if !ok {
			dropped++
			continue
		}
		byTime[bar.Time] = bar // last write wins
	}

	bars := make([]model.PriceBar, 0, len(byTime))
	for _, b := range byTime {
		bars = append(bars, b)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	if len(bars) < 2 {
		return nil, &DataError{
			Pair:   pair,
			Reason: fmt.Sprintf("only %d usable bars after cleaning (%d dropped)", len(bars), dropped),
		}
	}
	return &model.Series{Pair: pair, Bars: bars}, nil
}

// coerce parses one raw bar and checks OHLC sanity. Returns false when any
// field fails to parse or the bar is internally inconsistent.
func coerce(rb model.RawBar) (model.PriceBar, bool) {
	ts, err := parseTime(rb.Datetime)
	if err != nil {
		return model.PriceBar{}, false
	}
	o, err1 := strconv.ParseFloat(rb.Open, 64)
	h, err2 := strconv.ParseFloat(rb.High, 64)
	l, err3 := strconv.ParseFloat(rb.Low, 64)
	c, err4 := strconv.ParseFloat(rb.Close, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return model.PriceBar{}, false
	}
	if o <= 0 || h <= 0 || l <= 0 || c <= 0 {
		return model.PriceBar{}, false
	}
	if h < o || h < c || l > o || l > c {
		return model.PriceBar{}, false
	}
	return model.PriceBar{Time: ts, Open: o, High: h, Low: l, Close: c}, true
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
