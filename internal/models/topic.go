package models

// Topic is a skill area books can be tagged with. Names are lowercased
// and unique; Similar holds ids of related topics.
type Topic struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Active      bool    `json:"active"`
	Similar     []int64 `json:"similar,omitempty"`
}
