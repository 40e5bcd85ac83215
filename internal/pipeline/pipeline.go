package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ForexPulse/internal/calculator"
	"ForexPulse/internal/fetcher"
	"ForexPulse/internal/model"
	"ForexPulse/internal/sentiment"
	"ForexPulse/internal/series"
	"ForexPulse/internal/sink"
	"ForexPulse/internal/strategy"
	"ForexPulse/internal/throttle"
)

// ErrAllPairsFailed is returned when every configured pair failed before
// classification. Sink failures alone never produce it.
var ErrAllPairsFailed = errors.New("all pairs failed at the indicator/classification stage")

// PairResult is the outcome of one pair within one run.
type PairResult struct {
	Pair      string
	Processed bool // normalization + indicators + classification succeeded
	Alerted   bool // dispatched to at least one sink
	Throttled bool // suppressed by the cooldown
	SinkErrs  map[string]error
	Err       error
}

// Pipeline sequences fetch, normalize, indicators, classification, throttle
// and fan-out for every configured pair. Pairs are independent and run
// concurrently; the throttle is the only shared mutable state.
type Pipeline struct {
	Pairs      []string
	Interval   string
	OutputSize int
	SRWindow   int

	Fetcher    fetcher.Fetcher
	Sentiment  sentiment.Source
	News       sentiment.Source
	Throttle   *throttle.Throttle
	Dispatcher *sink.Dispatcher

	Now func() time.Time
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now().UTC()
}

// Run processes all configured pairs once. A cancelled or expired ctx aborts
// unprocessed pairs; state already written by completed pairs stands. The
// returned error is non-nil only when every pair failed before
// classification.
func (p *Pipeline) Run(ctx context.Context) ([]PairResult, error) {
	runID := uuid.NewString()[:8]
	log.Printf("[INFO] run %s: processing %d pairs", runID, len(p.Pairs))
	start := time.Now()

	results := make([]PairResult, len(p.Pairs))
	var wg sync.WaitGroup
	for i, pair := range p.Pairs {
		wg.Add(1)
		go func(i int, pair string) {
			defer wg.Done()
			results[i] = p.runPair(ctx, runID, pair)
		}(i, pair)
	}
	wg.Wait()

	processed := 0
	for _, r := range results {
		if r.Processed {
			processed++
		}
	}
	log.Printf("[INFO] run %s: %d/%d pairs processed in %v", runID, processed, len(p.Pairs), time.Since(start).Round(time.Millisecond))

	if processed == 0 {
		return results, ErrAllPairsFailed
	}
	return results, nil
}

func (p *Pipeline) runPair(ctx context.Context, runID, pair string) PairResult {
	res := PairResult{Pair: pair}

	if err := ctx.Err(); err != nil {
		res.Err = fmt.Errorf("run aborted before %s: %w", pair, err)
		log.Printf("[WARN] run %s: %v", runID, res.Err)
		return res
	}

	raw, err := p.Fetcher.FetchSeries(ctx, pair, p.Interval, p.OutputSize)
	if err != nil {
		res.Err = fmt.Errorf("fetch %s: %w", pair, err)
		log.Printf("[ERROR] run %s: %v", runID, res.Err)
		return res
	}

	ser, err := series.Normalize(pair, raw)
	if err != nil {
		res.Err = err
		log.Printf("[ERROR] run %s: %v", runID, err)
		return res
	}

	snaps := calculator.Snapshots(ser.Bars, p.SRWindow)
	if len(snaps) < 2 {
		// The normalizer guarantees two bars, so this is first-run territory
		// only when the provider changes behaviour underneath us.
		res.Err = strategy.ErrInsufficientHistory
		res.Processed = true
		log.Printf("[WARN] run %s: %s: %v, no crossover available yet", runID, pair, res.Err)
		return res
	}

	prev, curr := &snaps[len(snaps)-2], &snaps[len(snaps)-1]
	state, err := strategy.Classify(prev, curr)
	if err != nil {
		res.Err = fmt.Errorf("classify %s: %w", pair, err)
		log.Printf("[ERROR] run %s: %v", runID, res.Err)
		return res
	}
	res.Processed = true

	latest := ser.Latest()
	rec := &model.AlertRecord{
		Pair:       pair,
		Timestamp:  p.now(),
		Open:       latest.Open,
		High:       latest.High,
		Low:        latest.Low,
		Close:      latest.Close,
		Indicators: *curr,
		Signal:     state,
		Sentiment:  p.fetchContext(ctx, p.Sentiment, pair),
		News:       p.fetchContext(ctx, p.News, pair),
	}

	direction := string(state.Trend)
	now := p.now()
	if !p.Throttle.ShouldSend(pair, direction, now) {
		res.Throttled = true
		log.Printf("[INFO] run %s: %s %s suppressed by cooldown", runID, pair, direction)
		return res
	}

	res.SinkErrs = p.Dispatcher.Dispatch(ctx, rec)
	if sink.AnySucceeded(res.SinkErrs) {
		res.Alerted = true
		// Arm the cooldown only after an accepted delivery so a dispatch
		// that failed everywhere is retried on the next run.
		if err := p.Throttle.Record(pair, direction, now); err != nil {
			log.Printf("[WARN] run %s: persist throttle entry for %s: %v", runID, pair, err)
		}
	} else if len(res.SinkErrs) > 0 {
		log.Printf("[WARN] run %s: %s: all sinks failed, cooldown not armed", runID, pair)
	}
	return res
}

// fetchContext resolves an optional sentiment/news source, collapsing nil
// sources and failures to Unavailable.
func (p *Pipeline) fetchContext(ctx context.Context, src sentiment.Source, pair string) string {
	if src == nil {
		return sentiment.Unavailable
	}
	return src.Fetch(ctx, pair)
}

// Summary renders a one-run report for logs and the /status command.
func Summary(results []PairResult) string {
	var b strings.Builder
	for _, r := range results {
		switch {
		case !r.Processed:
			fmt.Fprintf(&b, "%s: failed (%v)\n", r.Pair, r.Err)
		case r.Throttled:
			fmt.Fprintf(&b, "%s: processed, alert suppressed by cooldown\n", r.Pair)
		case r.Alerted:
			failed := 0
			for _, err := range r.SinkErrs {
				if err != nil {
					failed++
				}
			}
			if failed == 0 {
				fmt.Fprintf(&b, "%s: alerted, all sinks ok\n", r.Pair)
			} else {
				fmt.Fprintf(&b, "%s: alerted, %d/%d sinks failed\n", r.Pair, failed, len(r.SinkErrs))
			}
		default:
			fmt.Fprintf(&b, "%s: processed, no delivery\n", r.Pair)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
