package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfmate/internal/models"
)

func event(id string, createdAt time.Time) models.Activity {
	return models.Activity{
		ID:        id,
		UserID:    "user-1",
		ActorID:   "actor-1",
		Type:      models.ActivityFinishedBook,
		BookTitle: "Dune",
		CreatedAt: createdAt,
	}
}

func assertSortedDesc(t *testing.T, events []models.Activity) {
	t.Helper()
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].CreatedAt.After(events[i-1].CreatedAt),
			"feed out of order at index %d", i)
	}
}

func TestSeedOrdersNewestFirst(t *testing.T) {
	base := time.Now()
	m := NewMerger(DefaultLimit)

	m.Seed([]models.Activity{
		event("a", base.Add(-2*time.Hour)),
		event("b", base),
		event("c", base.Add(-1*time.Hour)),
	})

	snap := m.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "b", snap[0].ID)
	assert.Equal(t, "c", snap[1].ID)
	assert.Equal(t, "a", snap[2].ID)
}

func TestPushIsIdempotent(t *testing.T) {
	base := time.Now()
	m := NewMerger(DefaultLimit)
	m.Seed([]models.Activity{
		event("a", base.Add(-1*time.Hour)),
		event("b", base),
	})

	before := m.Snapshot()

	// Same id arriving over the push stream after the seed fetch already
	// included it must not duplicate the entry or disturb the order.
	m.Push(event("b", base))

	after := m.Snapshot()
	assert.Equal(t, before, after)
}

func TestPushInsertsInOrder(t *testing.T) {
	base := time.Now()
	m := NewMerger(DefaultLimit)
	m.Seed([]models.Activity{
		event("a", base.Add(-2*time.Hour)),
		event("b", base),
	})

	m.Push(event("mid", base.Add(-1*time.Hour)))

	snap := m.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []string{snap[0].ID, snap[1].ID, snap[2].ID}, []string{"b", "mid", "a"})
	assertSortedDesc(t, snap)
}

func TestPushTieBeatsSeededEvent(t *testing.T) {
	base := time.Now()
	m := NewMerger(DefaultLimit)
	m.Seed([]models.Activity{event("seeded", base)})

	m.Push(event("pushed", base))

	snap := m.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "pushed", snap[0].ID)
	assert.Equal(t, "seeded", snap[1].ID)
}

func TestBoundedRetention(t *testing.T) {
	base := time.Now()
	m := NewMerger(DefaultLimit)

	for i := 0; i < 25; i++ {
		m.Push(event(fmt.Sprintf("e%d", i), base.Add(time.Duration(i)*time.Minute)))
	}

	snap := m.Snapshot()
	require.Len(t, snap, DefaultLimit)
	assertSortedDesc(t, snap)

	// The 10 newest survive; everything older was evicted from the tail.
	assert.Equal(t, "e24", snap[0].ID)
	assert.Equal(t, "e15", snap[len(snap)-1].ID)
}

func TestSeedTruncatesToLimit(t *testing.T) {
	base := time.Now()
	m := NewMerger(3)

	var events []models.Activity
	for i := 0; i < 8; i++ {
		events = append(events, event(fmt.Sprintf("e%d", i), base.Add(time.Duration(i)*time.Minute)))
	}
	m.Seed(events)

	snap := m.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "e7", snap[0].ID)
	assert.Equal(t, "e5", snap[2].ID)
}

func TestOrderingInvariantUnderMixedMerge(t *testing.T) {
	base := time.Now()
	m := NewMerger(DefaultLimit)

	m.Seed([]models.Activity{
		event("s1", base.Add(-3*time.Hour)),
		event("s2", base.Add(-1*time.Hour)),
	})

	pushes := []models.Activity{
		event("p1", base.Add(-2*time.Hour)),
		event("p2", base),
		event("s2", base.Add(-1*time.Hour)), // duplicate
		event("p3", base.Add(-4*time.Hour)),
	}
	for _, p := range pushes {
		m.Push(p)
		assertSortedDesc(t, m.Snapshot())
	}

	assert.Equal(t, 5, m.Len())
}
