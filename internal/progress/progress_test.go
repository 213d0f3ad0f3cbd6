package progress

import (
	"math"
	"testing"
	"time"

	"keenpages/internal/models"
)

func bookWithEndorsers(id, topicID int64, endorsers int) *models.Book {
	agreed := make([]int64, endorsers)
	for i := range agreed {
		agreed[i] = int64(i + 100)
	}
	return &models.Book{
		ID:     id,
		Title:  "book",
		Topics: []models.TopicAssociation{{TopicID: topicID, Agreed: agreed}},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTopicWeight(t *testing.T) {
	tests := []struct {
		name      string
		book      *models.Book
		topicID   int64
		expected  float64
	}{
		{
			name:     "no association returns zero",
			book:     bookWithEndorsers(1, 7, 5),
			topicID:  9,
			expected: 0,
		},
		{
			name:     "no endorsers returns zero",
			book:     bookWithEndorsers(1, 7, 0),
			topicID:  7,
			expected: 0,
		},
		{
			name:     "one endorser",
			book:     bookWithEndorsers(1, 7, 1),
			topicID:  7,
			expected: 0.1,
		},
		{
			name:     "five endorsers",
			book:     bookWithEndorsers(1, 7, 5),
			topicID:  7,
			expected: 0.5,
		},
		{
			name:     "ten endorsers caps at one",
			book:     bookWithEndorsers(1, 7, 10),
			topicID:  7,
			expected: 1,
		},
		{
			name:     "more than ten endorsers still caps at one",
			book:     bookWithEndorsers(1, 7, 25),
			topicID:  7,
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopicWeight(tt.book, tt.topicID)
			if !almostEqual(got, tt.expected) {
				t.Errorf("TopicWeight() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildSnapshotSumsWeights(t *testing.T) {
	now := time.Now()

	// Ten books each endorsed by a single user: weight 0.1 per book.
	books := make([]*models.Book, 10)
	for i := range books {
		books[i] = bookWithEndorsers(int64(i+1), 7, 1)
	}

	snap := BuildSnapshot(7, books, now)

	if !almostEqual(snap.Status, 1.0) {
		t.Errorf("status = %v, want 1.0", snap.Status)
	}
	if len(snap.Books) != 10 {
		t.Errorf("entries = %d, want 10", len(snap.Books))
	}
	if !snap.Created.Equal(now) {
		t.Errorf("created = %v, want %v", snap.Created, now)
	}
	if snap.ID == "" {
		t.Error("snapshot id not assigned")
	}
}

func TestBuildSnapshotKeepsZeroWeightEntries(t *testing.T) {
	books := []*models.Book{
		bookWithEndorsers(1, 7, 3),
		bookWithEndorsers(2, 7, 0),
	}

	snap := BuildSnapshot(7, books, time.Now())

	if len(snap.Books) != 2 {
		t.Fatalf("entries = %d, want 2 (zero-weight entries kept)", len(snap.Books))
	}
	if !almostEqual(snap.Books[1].TopicWeight, 0) {
		t.Errorf("second entry weight = %v, want 0", snap.Books[1].TopicWeight)
	}
	if !almostEqual(snap.Status, 0.3) {
		t.Errorf("status = %v, want 0.3", snap.Status)
	}
}

func TestBuildSnapshotEmptyBooks(t *testing.T) {
	snap := BuildSnapshot(7, nil, time.Now())
	if snap.Status != 0 {
		t.Errorf("status = %v, want 0", snap.Status)
	}
	if len(snap.Books) != 0 {
		t.Errorf("entries = %d, want 0", len(snap.Books))
	}
}

func TestCompleted(t *testing.T) {
	tests := []struct {
		name     string
		goal     float64
		status   float64
		expected bool
	}{
		{"status below goal", 3, 1, false},
		{"status at goal", 3, 3, true},
		{"status above goal", 3, 5, true},
		{"zero goal never completes", 0, 5, false},
		{"negative goal never completes", -1, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Completed(tt.goal, tt.status); got != tt.expected {
				t.Errorf("Completed(%v, %v) = %v, want %v", tt.goal, tt.status, got, tt.expected)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	figures := []models.Skill{
		{ID: "no-due-date", TopicID: 1},
		{ID: "due-in-past", TopicID: 2, DueDate: &past},
		{ID: "due-now", TopicID: 3, DueDate: &now},
		{ID: "due-in-future", TopicID: 4, DueDate: &future},
		{ID: "corrupt-no-topic", DueDate: &past},
	}

	ready, notReady := Partition(figures, now)

	readyIDs := make(map[string]bool)
	for _, figure := range ready {
		readyIDs[figure.ID] = true
	}
	if len(ready) != 3 || !readyIDs["no-due-date"] || !readyIDs["due-in-past"] || !readyIDs["due-now"] {
		t.Errorf("ready = %v, want no-due-date, due-in-past, due-now", ready)
	}

	if len(notReady) != 1 || notReady[0].ID != "due-in-future" {
		t.Errorf("notReady = %v, want only due-in-future", notReady)
	}
}

func TestPartitionEmpty(t *testing.T) {
	ready, notReady := Partition(nil, time.Now())
	if len(ready) != 0 || len(notReady) != 0 {
		t.Errorf("expected empty partitions, got %v / %v", ready, notReady)
	}
}
