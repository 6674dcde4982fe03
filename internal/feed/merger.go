// Package feed maintains a per-user social activity feed merged from a
// point-in-time fetch and a live push stream.
package feed

import (
	"sort"
	"sync"

	"shelfmate/internal/models"
)

// DefaultLimit caps how many events a feed retains. Eviction is from the
// tail, so the feed always holds the newest events.
const DefaultLimit = 10

// Merger holds an ordered, deduplicated sequence of activity events. It is
// seeded from an initial fetch and extended by realtime pushes; merging is
// idempotent with respect to event id, so a fetch/push race never produces
// a duplicate entry. Events are ordered by created_at descending; on equal
// timestamps a pushed event ranks above a previously present one, since
// seeding happens before the subscription is opened.
type Merger struct {
	mu     sync.Mutex
	events []models.Activity
	limit  int
}

func NewMerger(limit int) *Merger {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Merger{limit: limit}
}

// Seed establishes the initial feed from fetched rows, replacing whatever
// was present. Input order does not matter; events are sorted newest-first.
func (m *Merger) Seed(events []models.Activity) {
	sorted := make([]models.Activity, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > m.limit {
		sorted = sorted[:m.limit]
	}

	m.mu.Lock()
	m.events = sorted
	m.mu.Unlock()
}

// Push merges one live event into the feed. An event whose id is already
// present leaves the feed untouched.
func (m *Merger) Push(event models.Activity) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.events {
		if e.ID == event.ID {
			return
		}
	}

	// Insert before the first event that is not newer than the push, so a
	// pushed event outranks an equal-timestamp seeded one.
	idx := len(m.events)
	for i, e := range m.events {
		if !e.CreatedAt.After(event.CreatedAt) {
			idx = i
			break
		}
	}

	m.events = append(m.events, models.Activity{})
	copy(m.events[idx+1:], m.events[idx:])
	m.events[idx] = event

	if len(m.events) > m.limit {
		m.events = m.events[:m.limit]
	}
}

// Snapshot returns a copy of the current feed, newest first.
func (m *Merger) Snapshot() []models.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Activity, len(m.events))
	copy(out, m.events)
	return out
}

// Len reports the current feed length.
func (m *Merger) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}
