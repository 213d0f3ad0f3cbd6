package repository

import (
	"database/sql"

	"keenpages/internal/database"
	"keenpages/internal/models"
)

// BookRepository handles book database operations
type BookRepository struct {
	db *database.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *database.DB) *BookRepository {
	return &BookRepository{db: db}
}

const bookColumns = "id, title, subtitle, description, publisher, publish_date, isbn10, isbn13, amazon_link, views, active, created_by, created"

// CreateBook inserts a new book with its initial topic associations in
// one transaction. The creating user endorses every association they
// added.
func (r *BookRepository) CreateBook(book *models.Book) (*models.Book, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO books (title, subtitle, description, publisher, publish_date, isbn10, isbn13, amazon_link, active, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	id, err := tx.ExecReturningID(query,
		book.Title, book.Subtitle, book.Description, book.Publisher, book.PublishDate,
		book.ISBN10, book.ISBN13, book.AmazonLink, book.Active, book.CreatedBy)
	if err != nil {
		return nil, err
	}

	for _, assoc := range book.Topics {
		if err := addTopicAssociation(tx, id, assoc.TopicID, book.CreatedBy); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetBookByID(id)
}

// GetBookByID retrieves one book with its topic associations, endorsements
// and likes loaded.
func (r *BookRepository) GetBookByID(id int64) (*models.Book, error) {
	books, err := r.queryBooks("SELECT "+bookColumns+" FROM books WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, nil
	}
	return books[0], nil
}

// GetBooksByIDs retrieves the books whose ids are in the given set
func (r *BookRepository) GetBooksByIDs(ids []int64) ([]*models.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT " + bookColumns + " FROM books WHERE id IN (" + inClause(len(ids)) + ")"
	return r.queryBooks(query, int64Args(ids)...)
}

// GetBooksByIDsWithTopic retrieves the books that are both in the given
// id set and associated with the given topic.
func (r *BookRepository) GetBooksByIDsWithTopic(ids []int64, topicID int64) ([]*models.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + bookColumns + ` FROM books
		WHERE id IN (` + inClause(len(ids)) + `)
		AND id IN (SELECT book_id FROM book_topics WHERE topic_id = ?)
	`
	args := append(int64Args(ids), topicID)
	return r.queryBooks(query, args...)
}

// GetBooksByTopic retrieves books associated with a topic
func (r *BookRepository) GetBooksByTopic(topicID int64, limit, offset int) ([]*models.Book, error) {
	query := `
		SELECT ` + bookColumns + ` FROM books
		WHERE id IN (SELECT book_id FROM book_topics WHERE topic_id = ?)
		ORDER BY created DESC
		LIMIT ? OFFSET ?
	`
	return r.queryBooks(query, topicID, limit, offset)
}

// GetAllBooks retrieves active books, newest first
func (r *BookRepository) GetAllBooks(limit, offset int) ([]*models.Book, error) {
	query := "SELECT " + bookColumns + " FROM books WHERE active = ? ORDER BY created DESC LIMIT ? OFFSET ?"
	return r.queryBooks(query, true, limit, offset)
}

// SearchBooks finds books whose title contains the given term
func (r *BookRepository) SearchBooks(term string, limit int) ([]*models.Book, error) {
	query := "SELECT " + bookColumns + " FROM books WHERE LOWER(title) LIKE ? ORDER BY views DESC LIMIT ?"
	return r.queryBooks(query, "%"+term+"%", limit)
}

// IncrementViews bumps a book's view counter
func (r *BookRepository) IncrementViews(id int64) error {
	_, err := r.db.Exec("UPDATE books SET views = views + 1 WHERE id = ?", id)
	return err
}

// HasTopicAssociation reports whether the book is associated with the topic
func (r *BookRepository) HasTopicAssociation(bookID, topicID int64) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM book_topics WHERE book_id = ? AND topic_id = ?", bookID, topicID).Scan(&count)
	return count > 0, err
}

// AddTopicAssociation associates a topic with a book. The adding user
// becomes the association's first endorser.
func (r *BookRepository) AddTopicAssociation(bookID, topicID, userID int64) error {
	return addTopicAssociation(r.db, bookID, topicID, userID)
}

func addTopicAssociation(db database.DBTX, bookID, topicID, userID int64) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM book_topics WHERE book_id = ? AND topic_id = ?", bookID, topicID).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		if _, err := db.Exec("INSERT INTO book_topics (book_id, topic_id) VALUES (?, ?)", bookID, topicID); err != nil {
			return err
		}
	}
	_, err := db.Exec("INSERT INTO book_topic_agreements (book_id, topic_id, user_id) VALUES (?, ?, ?)", bookID, topicID, userID)
	return err
}

// ToggleAgreement endorses a book-topic association for the user, or
// withdraws the endorsement if already present. Returns true if the user
// endorses the association afterwards.
func (r *BookRepository) ToggleAgreement(bookID, topicID, userID int64) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM book_topic_agreements WHERE book_id = ? AND topic_id = ? AND user_id = ?",
		bookID, topicID, userID).Scan(&count)
	if err != nil {
		return false, err
	}

	if count > 0 {
		_, err = r.db.Exec("DELETE FROM book_topic_agreements WHERE book_id = ? AND topic_id = ? AND user_id = ?",
			bookID, topicID, userID)
		return false, err
	}

	_, err = r.db.Exec("INSERT INTO book_topic_agreements (book_id, topic_id, user_id) VALUES (?, ?, ?)",
		bookID, topicID, userID)
	return true, err
}

// ToggleLike likes a book for the user, or unlikes it if already liked.
// Returns true if the user likes the book afterwards.
func (r *BookRepository) ToggleLike(bookID, userID int64) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM book_likes WHERE book_id = ? AND user_id = ?", bookID, userID).Scan(&count)
	if err != nil {
		return false, err
	}

	if count > 0 {
		_, err = r.db.Exec("DELETE FROM book_likes WHERE book_id = ? AND user_id = ?", bookID, userID)
		return false, err
	}

	_, err = r.db.Exec("INSERT INTO book_likes (book_id, user_id) VALUES (?, ?)", bookID, userID)
	return true, err
}

func (r *BookRepository) queryBooks(query string, args ...interface{}) ([]*models.Book, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book := &models.Book{}
		var subtitle, description, publisher, publishDate, isbn10, isbn13, amazonLink sql.NullString
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&subtitle,
			&description,
			&publisher,
			&publishDate,
			&isbn10,
			&isbn13,
			&amazonLink,
			&book.Views,
			&book.Active,
			&book.CreatedBy,
			&book.Created,
		)
		if err != nil {
			return nil, err
		}
		book.Subtitle = subtitle.String
		book.Description = description.String
		book.Publisher = publisher.String
		book.PublishDate = publishDate.String
		book.ISBN10 = isbn10.String
		book.ISBN13 = isbn13.String
		book.AmazonLink = amazonLink.String
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadAssociations(books); err != nil {
		return nil, err
	}
	if err := r.loadLikes(books); err != nil {
		return nil, err
	}
	return books, nil
}

// loadAssociations fills in topic associations and their endorsing users
// for the given books in two queries, avoiding per-book expansion.
func (r *BookRepository) loadAssociations(books []*models.Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]int64, len(books))
	byID := make(map[int64]*models.Book, len(books))
	for i, book := range books {
		ids[i] = book.ID
		byID[book.ID] = book
	}

	rows, err := r.db.Query(
		"SELECT book_id, topic_id, created FROM book_topics WHERE book_id IN ("+inClause(len(ids))+") ORDER BY created",
		int64Args(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var bookID int64
		var assoc models.TopicAssociation
		if err := rows.Scan(&bookID, &assoc.TopicID, &assoc.Created); err != nil {
			return err
		}
		assoc.Agreed = []int64{}
		book := byID[bookID]
		book.Topics = append(book.Topics, assoc)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	agreementRows, err := r.db.Query(
		"SELECT book_id, topic_id, user_id FROM book_topic_agreements WHERE book_id IN ("+inClause(len(ids))+")",
		int64Args(ids)...)
	if err != nil {
		return err
	}
	defer agreementRows.Close()

	for agreementRows.Next() {
		var bookID, topicID, userID int64
		if err := agreementRows.Scan(&bookID, &topicID, &userID); err != nil {
			return err
		}
		book := byID[bookID]
		for i := range book.Topics {
			if book.Topics[i].TopicID == topicID {
				book.Topics[i].Agreed = append(book.Topics[i].Agreed, userID)
				break
			}
		}
	}
	return agreementRows.Err()
}

func (r *BookRepository) loadLikes(books []*models.Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]int64, len(books))
	byID := make(map[int64]*models.Book, len(books))
	for i, book := range books {
		ids[i] = book.ID
		byID[book.ID] = book
		book.Likes = []int64{}
	}

	rows, err := r.db.Query(
		"SELECT book_id, user_id FROM book_likes WHERE book_id IN ("+inClause(len(ids))+")",
		int64Args(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var bookID, userID int64
		if err := rows.Scan(&bookID, &userID); err != nil {
			return err
		}
		byID[bookID].Likes = append(byID[bookID].Likes, userID)
	}
	return rows.Err()
}
