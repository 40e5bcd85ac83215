// Package sentiment wraps the scraped market-context sources. These are
// best-effort collaborators: any failure, timeout, or empty result becomes
// the literal value Unavailable and never aborts the pipeline.
package sentiment

import "context"

// Unavailable is reported when a source fails or returns nothing.
const Unavailable = "Unavailable"

// Source fetches a short human-readable summary for a pair. Implementations
// never return an error; failures collapse to Unavailable at this boundary.
type Source interface {
	Fetch(ctx context.Context, pair string) string
	Name() string
}

// StaticSource returns a fixed value, for tests and for running without the
// scraped sources configured.
type StaticSource struct {
	Value string
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Fetch(_ context.Context, _ string) string {
	if s.Value == "" {
		return Unavailable
	}
	return s.Value
}
