package models

import "testing"

func TestShelfVisibleTo(t *testing.T) {
	shelf := &Shelf{
		ID:        1,
		OwnerID:   7,
		Public:    false,
		Followers: []int64{20, 21},
	}

	tests := []struct {
		name   string
		public bool
		viewer int64
		want   bool
	}{
		{"public shelf, anonymous", true, 0, true},
		{"public shelf, stranger", true, 99, true},
		{"private shelf, anonymous", false, 0, false},
		{"private shelf, stranger", false, 99, false},
		{"private shelf, owner", false, 7, true},
		{"private shelf, follower", false, 21, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shelf.Public = tt.public
			if got := shelf.VisibleTo(tt.viewer); got != tt.want {
				t.Errorf("VisibleTo(%d) = %v, want %v", tt.viewer, got, tt.want)
			}
		})
	}
}
