package progress

import (
	"time"

	"github.com/google/uuid"

	"keenpages/internal/models"
)

// BuildSnapshot aggregates the weighted contributions of books toward
// topicID into a new snapshot. Books with zero weight are still recorded
// so the historical entry list is complete. Given the same books and
// endorsement counts the resulting status and entries are identical;
// only the id and timestamp differ between calls.
func BuildSnapshot(topicID int64, books []*models.Book, now time.Time) models.Snapshot {
	entries := make([]models.BookEntry, 0, len(books))
	var status float64
	for _, book := range books {
		weight := TopicWeight(book, topicID)
		status += weight
		entries = append(entries, models.BookEntry{BookID: book.ID, TopicWeight: weight})
	}
	return models.Snapshot{
		ID:      uuid.New().String(),
		Created: now,
		Status:  status,
		Books:   entries,
	}
}

// Completed reports whether a skill with the given goal is complete at
// the given status. A non-positive goal never completes.
func Completed(goal, status float64) bool {
	return goal > 0 && status >= goal
}
