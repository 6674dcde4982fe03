package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shelfmate/internal/models"
)

func intPtr(i int) *int { return &i }

func finishedBook(pages int, rating *int) models.UserBook {
	return models.UserBook{
		Status: models.StatusFinished,
		Rating: rating,
		Book:   &models.Book{TotalPages: pages},
	}
}

func TestProgressPercent(t *testing.T) {
	t.Run("ZeroTotalPages", func(t *testing.T) {
		assert.Equal(t, 0, ProgressPercent(0, 0))
		assert.Equal(t, 0, ProgressPercent(150, 0))
	})

	t.Run("Complete", func(t *testing.T) {
		assert.Equal(t, 100, ProgressPercent(200, 200))
	})

	t.Run("Quarter", func(t *testing.T) {
		assert.Equal(t, 25, ProgressPercent(50, 200))
	})

	t.Run("ClampedAbove100", func(t *testing.T) {
		assert.Equal(t, 100, ProgressPercent(250, 200))
	})

	t.Run("Rounding", func(t *testing.T) {
		// 1/3 of 300 pages rounds to 33
		assert.Equal(t, 33, ProgressPercent(100, 300))
	})
}

func TestTotalPagesRead(t *testing.T) {
	books := []models.UserBook{
		finishedBook(412, nil),
		finishedBook(200, intPtr(4)),
		{Status: models.StatusReading, CurrentPage: 99, Book: &models.Book{TotalPages: 300}},
	}

	// Only finished books count, at their full page count.
	assert.Equal(t, 612, TotalPagesRead(books))
}

func TestAverageRating(t *testing.T) {
	t.Run("NoRatings", func(t *testing.T) {
		books := []models.UserBook{
			finishedBook(100, nil),
			{Status: models.StatusReading, Rating: intPtr(5)},
		}
		assert.Equal(t, 0.0, AverageRating(books))
	})

	t.Run("MeanOverRatedFinished", func(t *testing.T) {
		books := []models.UserBook{
			finishedBook(100, intPtr(3)),
			finishedBook(100, intPtr(5)),
			finishedBook(100, nil),
		}
		assert.Equal(t, 4.0, AverageRating(books))
	})
}

func TestRatingDistribution(t *testing.T) {
	books := []models.UserBook{
		finishedBook(100, intPtr(5)),
		finishedBook(100, intPtr(5)),
		finishedBook(100, intPtr(3)),
		finishedBook(100, intPtr(1)),
		finishedBook(100, nil),                            // unrated, ignored
		{Status: models.StatusReading, Rating: intPtr(4)}, // not finished, ignored
	}

	dist := RatingDistribution(books)

	assert.Equal(t, 1, dist[0].Count)
	assert.Equal(t, 0, dist[1].Count)
	assert.Equal(t, 1, dist[2].Count)
	assert.Equal(t, 0, dist[3].Count)
	assert.Equal(t, 2, dist[4].Count)

	assert.Equal(t, 5, dist[4].Stars)
	assert.InDelta(t, 50.0, dist[4].Percent, 0.001)
	assert.InDelta(t, 25.0, dist[0].Percent, 0.001)
}

func TestRatingDistributionEmpty(t *testing.T) {
	dist := RatingDistribution(nil)
	for i, bucket := range dist {
		assert.Equal(t, i+1, bucket.Stars)
		assert.Equal(t, 0, bucket.Count)
		assert.Equal(t, 0.0, bucket.Percent)
	}
}

func TestChallengePacing(t *testing.T) {
	// Half a year in on a 50-book target with 30 finished.
	pacing := ChallengePacing(50, 30, 182)

	assert.Equal(t, 25, pacing.Expected)
	assert.Equal(t, 5, pacing.AheadBy)
	assert.Equal(t, 60, pacing.Percent)
}

func TestChallengePacingBehindSchedule(t *testing.T) {
	pacing := ChallengePacing(50, 10, 182)

	assert.Equal(t, 25, pacing.Expected)
	assert.Equal(t, -15, pacing.AheadBy)
	assert.Equal(t, 20, pacing.Percent)
}

func TestChallengePacingPercentCapped(t *testing.T) {
	pacing := ChallengePacing(10, 25, 300)

	assert.Equal(t, 100, pacing.Percent)
}

func TestFinishedCount(t *testing.T) {
	books := []models.UserBook{
		finishedBook(100, nil),
		finishedBook(100, nil),
		{Status: models.StatusToRead},
		{Status: models.StatusReading},
	}
	assert.Equal(t, 2, FinishedCount(books))
}
