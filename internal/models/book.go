package models

import "time"

// TopicAssociation ties a book to a topic together with the users who
// have endorsed the association. The endorsement count drives the
// topic weight used by progress snapshots.
type TopicAssociation struct {
	TopicID int64     `json:"topic"`
	Topic   *Topic    `json:"topicInfo,omitempty"`
	Agreed  []int64   `json:"agreed"`
	Created time.Time `json:"created"`
}

// Book is a catalogued title. Topics carries the book's topic
// associations with their endorsements; Likes holds ids of users who
// liked the book.
type Book struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Subtitle    string             `json:"subtitle,omitempty"`
	Description string             `json:"description,omitempty"`
	Publisher   string             `json:"publisher,omitempty"`
	PublishDate string             `json:"publish_date,omitempty"`
	ISBN10      string             `json:"isbn10,omitempty"`
	ISBN13      string             `json:"isbn13,omitempty"`
	AmazonLink  string             `json:"amazon_link,omitempty"`
	Views       int                `json:"views"`
	Active      bool               `json:"active"`
	CreatedBy   int64              `json:"createdBy"`
	Created     time.Time          `json:"created"`
	Topics      []TopicAssociation `json:"topics"`
	Likes       []int64            `json:"likes"`
}
