package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchAppliesLatestGeneration(t *testing.T) {
	searcher := NewSearcher(func(ctx context.Context, query string, limit int) ([]Result, error) {
		return []Result{{Title: query}}, nil
	})

	_, applied, err := searcher.Search(context.Background(), "dune", 5)
	require.NoError(t, err)
	assert.True(t, applied)

	_, applied, err = searcher.Search(context.Background(), "dune messiah", 5)
	require.NoError(t, err)
	assert.True(t, applied)

	results := searcher.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "dune messiah", results[0].Title)
}

func TestStaleResponseDiscarded(t *testing.T) {
	// The first query stalls until released; the second completes
	// immediately. The first response must not be applied when it
	// eventually arrives.
	block := make(chan struct{})
	entered := make(chan struct{}, 1)

	searcher := NewSearcher(func(ctx context.Context, query string, limit int) ([]Result, error) {
		if query == "du" {
			entered <- struct{}{}
			<-block
		}
		return []Result{{Title: query}}, nil
	})

	type outcome struct {
		applied bool
		err     error
	}
	firstDone := make(chan outcome, 1)
	go func() {
		_, applied, err := searcher.Search(context.Background(), "du", 5)
		firstDone <- outcome{applied, err}
	}()
	<-entered

	_, applied, err := searcher.Search(context.Background(), "dune", 5)
	require.NoError(t, err)
	assert.True(t, applied)

	close(block)
	first := <-firstDone
	require.NoError(t, first.err)
	assert.False(t, first.applied)

	results := searcher.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "dune", results[0].Title)
}

func TestSearchErrorLeavesResultsIntact(t *testing.T) {
	calls := 0
	searcher := NewSearcher(func(ctx context.Context, query string, limit int) ([]Result, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("upstream unreachable")
		}
		return []Result{{Title: query}}, nil
	})

	_, _, err := searcher.Search(context.Background(), "dune", 5)
	require.NoError(t, err)

	_, applied, err := searcher.Search(context.Background(), "dune messiah", 5)
	require.Error(t, err)
	assert.False(t, applied)

	// Last-known-good results survive the failed query.
	results := searcher.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "dune", results[0].Title)
}
