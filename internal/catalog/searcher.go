package catalog

import (
	"context"
	"sync"
)

// SearchFunc is the query primitive the Searcher sequences. Satisfied by
// (*Client).Search.
type SearchFunc func(ctx context.Context, query string, limit int) ([]Result, error)

// Searcher serialises search-as-you-type queries deterministically: every
// issued query carries a monotonically increasing generation, and a
// response is applied only if it belongs to the latest generation issued.
// A slow response for an abandoned query is discarded instead of
// overwriting the results pane.
type Searcher struct {
	search SearchFunc

	mu      sync.Mutex
	issued  uint64
	applied uint64
	results []Result
}

func NewSearcher(search SearchFunc) *Searcher {
	return &Searcher{search: search}
}

// Search issues a query tagged with the next generation. It returns the
// fetched results and whether they were applied as the current result set;
// applied is false when a newer query was issued while this one was in
// flight.
func (s *Searcher) Search(ctx context.Context, query string, limit int) (results []Result, applied bool, err error) {
	s.mu.Lock()
	s.issued++
	gen := s.issued
	s.mu.Unlock()

	results, err = s.search(ctx, query, limit)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.issued || gen <= s.applied {
		// Superseded while in flight; keep the newer results.
		return results, false, nil
	}
	s.applied = gen
	s.results = results
	return results, true, nil
}

// Results returns the latest applied result set.
func (s *Searcher) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}
