// Package stats computes derived reading statistics from a snapshot of a
// user's tracked books. Every function is pure; nothing here holds state,
// so results are recomputed on each snapshot change and can never drift
// from the rows they were derived from.
package stats

import (
	"math"

	"shelfmate/internal/models"
)

// ProgressPercent returns the rounded percentage of a book read, clamped
// to [0, 100]. A zero page count is a defined edge case and yields 0.
func ProgressPercent(currentPage, totalPages int) int {
	if totalPages <= 0 {
		return 0
	}
	percent := int(math.Round(100 * float64(currentPage) / float64(totalPages)))
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// TotalPagesRead sums the full page count of every finished book. The full
// count stands in for pages actually read; partial progress on unfinished
// books is not counted.
func TotalPagesRead(books []models.UserBook) int {
	total := 0
	for _, b := range books {
		if b.Status == models.StatusFinished && b.Book != nil {
			total += b.Book.TotalPages
		}
	}
	return total
}

// AverageRating returns the mean rating over finished books that carry a
// rating, or 0 when none do.
func AverageRating(books []models.UserBook) float64 {
	sum, count := 0, 0
	for _, b := range books {
		if b.Status == models.StatusFinished && b.Rating != nil {
			sum += *b.Rating
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// StarCount is one bucket of a rating histogram.
type StarCount struct {
	Stars   int     `json:"stars"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// RatingDistribution buckets finished, rated books by star value 1-5 and
// expresses each bucket as a percentage of all rated books.
func RatingDistribution(books []models.UserBook) [5]StarCount {
	var dist [5]StarCount
	total := 0
	for _, b := range books {
		if b.Status == models.StatusFinished && b.Rating != nil {
			stars := *b.Rating
			if stars >= 1 && stars <= 5 {
				dist[stars-1].Count++
				total++
			}
		}
	}
	for i := range dist {
		dist[i].Stars = i + 1
		if total > 0 {
			dist[i].Percent = 100 * float64(dist[i].Count) / float64(total)
		}
	}
	return dist
}

// Pacing describes where a reader stands against a yearly challenge.
type Pacing struct {
	Expected int `json:"expected"`
	AheadBy  int `json:"ahead_by"`
	Percent  int `json:"percent"`
}

// ChallengePacing compares finished count against the schedule implied by
// the yearly target. The target is user-supplied and constrained to >= 1
// upstream; callers must not pass zero.
func ChallengePacing(target, finishedCount, dayOfYear int) Pacing {
	expected := int(math.Round(float64(target) * float64(dayOfYear) / 365))
	percent := int(math.Round(100 * float64(finishedCount) / float64(target)))
	if percent > 100 {
		percent = 100
	}
	return Pacing{
		Expected: expected,
		AheadBy:  finishedCount - expected,
		Percent:  percent,
	}
}

// FinishedCount counts completed books in the snapshot.
func FinishedCount(books []models.UserBook) int {
	count := 0
	for _, b := range books {
		if b.Status == models.StatusFinished {
			count++
		}
	}
	return count
}
