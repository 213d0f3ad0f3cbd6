package models

import "time"

// BookEntry records one book's weighted contribution inside a snapshot.
type BookEntry struct {
	BookID      int64   `json:"book"`
	TopicWeight float64 `json:"topicWeight"`
}

// Snapshot is an immutable record of a skill's computed progress at one
// point in time. Once appended to a skill it is never mutated or removed.
type Snapshot struct {
	ID      string      `json:"id"`
	Created time.Time   `json:"created"`
	Status  float64     `json:"status"`
	Books   []BookEntry `json:"books"`
}

// Skill is a user-declared learning goal tied to one topic. CurrentStatus
// always equals the status of the most recently appended snapshot, and
// Completed is only ever recomputed together with it.
type Skill struct {
	ID            string     `json:"id"`
	TopicID       int64      `json:"topic"`
	Topic         *Topic     `json:"topicInfo,omitempty"`
	Description   string     `json:"description,omitempty"`
	Goal          float64    `json:"goal"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	CurrentStatus float64    `json:"currentStatus"`
	Completed     bool       `json:"completed"`
	Created       time.Time  `json:"created"`
	Updated       time.Time  `json:"updated"`
	Snapshots     []Snapshot `json:"snapShots"`
}

// Stat is the per-user container of skills. It is created lazily on
// first access and persisted as a whole document: all skill updates in
// one recompute are committed in a single write.
type Stat struct {
	ID      int64     `json:"id"`
	OwnerID int64     `json:"owner"`
	Figures []Skill   `json:"figures"`
	Updated time.Time `json:"updated"`
}
