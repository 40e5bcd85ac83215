package sentiment

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ForexFactorySource scrapes today's high-impact calendar events mentioning
// either currency of the pair. At most three headlines are reported.
type ForexFactorySource struct {
	Client *http.Client
	URL    string
	Now    func() time.Time // injectable for tests
}

// NewForexFactorySource creates the calendar scraper.
func NewForexFactorySource() *ForexFactorySource {
	return &ForexFactorySource{
		Client: &http.Client{Timeout: 10 * time.Second},
		URL:    "https://www.forexfactory.com/calendar",
		Now:    time.Now,
	}
}

func (f *ForexFactorySource) Name() string { return "forexfactory" }

func (f *ForexFactorySource) Fetch(ctx context.Context, pair string) string {
	now := f.Now().UTC()
	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return "Weekend: No scheduled news."
	}

	req, err := http.NewRequestWithContext(ctx, "GET", f.URL, nil)
	if err != nil {
		return Unavailable
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		log.Printf("[WARN] forexfactory news for %s: %v", pair, err)
		return Unavailable
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[WARN] forexfactory news for %s: status %d", pair, resp.StatusCode)
		return Unavailable
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Unavailable
	}

	headlines := extractHeadlines(string(body), pair)
	if len(headlines) == 0 {
		return "No major news"
	}
	return strings.Join(headlines, ", ")
}

// extractHeadlines scans calendar rows for high-impact events tagged with
// either currency of the pair. The markup is scraped, not an API, so the
// parse is tolerant: anything unexpected yields no headlines.
func extractHeadlines(html, pair string) []string {
	base, quote, ok := strings.Cut(pair, "/")
	if !ok {
		return nil
	}

	var headlines []string
	rows := strings.Split(html, "calendar__row")
	for _, row := range rows[1:] {
		if len(headlines) >= 3 {
			break
		}
		if !strings.Contains(row, "impact--high") && !strings.Contains(row, `impact">high`) {
			continue
		}
		if !strings.Contains(row, base) && !strings.Contains(row, quote) {
			continue
		}
		title := extractCell(row, "calendar__event-title")
		if title != "" {
			headlines = append(headlines, title)
		}
	}
	return headlines
}

func extractCell(row, class string) string {
	idx := strings.Index(row, class)
	if idx < 0 {
		return ""
	}
	rest := row[idx:]
	open := strings.Index(rest, ">")
	if open < 0 {
		return ""
	}
	rest = rest[open+1:]
	end := strings.Index(rest, "<")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
