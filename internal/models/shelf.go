package models

import "time"

// Shelf is a user-curated list of books. Private shelves are visible
// only to their owner and followers.
type Shelf struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Public      bool      `json:"public"`
	Books       []int64   `json:"books"`
	Followers   []int64   `json:"followers"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

// VisibleTo reports whether userID may read the shelf. Pass 0 for an
// anonymous caller.
func (s *Shelf) VisibleTo(userID int64) bool {
	if s.Public {
		return true
	}
	if userID == 0 {
		return false
	}
	if s.OwnerID == userID {
		return true
	}
	for _, follower := range s.Followers {
		if follower == userID {
			return true
		}
	}
	return false
}
