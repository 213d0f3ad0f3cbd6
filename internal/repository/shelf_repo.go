package repository

import (
	"database/sql"
	"time"

	"keenpages/internal/database"
	"keenpages/internal/models"
)

// ShelfRepository handles shelf database operations
type ShelfRepository struct {
	db *database.DB
}

// NewShelfRepository creates a new shelf repository
func NewShelfRepository(db *database.DB) *ShelfRepository {
	return &ShelfRepository{db: db}
}

// CreateShelf inserts a new shelf with its initial book list in one
// transaction
func (r *ShelfRepository) CreateShelf(shelf *models.Shelf) (*models.Shelf, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := "INSERT INTO shelves (owner_id, name, description, public, updated) VALUES (?, ?, ?, ?, ?)"
	id, err := tx.ExecReturningID(query, shelf.OwnerID, shelf.Name, shelf.Description, shelf.Public, time.Now())
	if err != nil {
		return nil, err
	}

	for _, bookID := range shelf.Books {
		if _, err := tx.Exec("INSERT INTO shelf_books (shelf_id, book_id) VALUES (?, ?)", id, bookID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a shelf with its book and follower lists
func (r *ShelfRepository) GetByID(id int64) (*models.Shelf, error) {
	shelf := &models.Shelf{}
	var description sql.NullString
	err := r.db.QueryRow("SELECT id, owner_id, name, description, public, created, updated FROM shelves WHERE id = ?", id).
		Scan(&shelf.ID, &shelf.OwnerID, &shelf.Name, &description, &shelf.Public, &shelf.Created, &shelf.Updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	shelf.Description = description.String

	if shelf.Books, err = r.idList("SELECT book_id FROM shelf_books WHERE shelf_id = ? ORDER BY book_id", id); err != nil {
		return nil, err
	}
	if shelf.Followers, err = r.idList("SELECT user_id FROM shelf_followers WHERE shelf_id = ?", id); err != nil {
		return nil, err
	}
	return shelf, nil
}

// GetByOwner retrieves all shelves owned by a user
func (r *ShelfRepository) GetByOwner(ownerID int64) ([]*models.Shelf, error) {
	rows, err := r.db.Query("SELECT id FROM shelves WHERE owner_id = ? ORDER BY created", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	shelves := make([]*models.Shelf, 0, len(ids))
	for _, id := range ids {
		shelf, err := r.GetByID(id)
		if err != nil {
			return nil, err
		}
		shelves = append(shelves, shelf)
	}
	return shelves, nil
}

// Update writes a shelf's editable fields
func (r *ShelfRepository) Update(shelf *models.Shelf) error {
	_, err := r.db.Exec("UPDATE shelves SET name = ?, description = ?, public = ?, updated = ? WHERE id = ?",
		shelf.Name, shelf.Description, shelf.Public, time.Now(), shelf.ID)
	return err
}

// Delete removes a shelf and its book/follower lists in one transaction
func (r *ShelfRepository) Delete(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM shelf_books WHERE shelf_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM shelf_followers WHERE shelf_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM shelves WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// AddBook puts a book on the shelf if not already present
func (r *ShelfRepository) AddBook(shelfID, bookID int64) error {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM shelf_books WHERE shelf_id = ? AND book_id = ?", shelfID, bookID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := r.db.Exec("INSERT INTO shelf_books (shelf_id, book_id) VALUES (?, ?)", shelfID, bookID)
	return err
}

// RemoveBook takes a book off the shelf
func (r *ShelfRepository) RemoveBook(shelfID, bookID int64) error {
	_, err := r.db.Exec("DELETE FROM shelf_books WHERE shelf_id = ? AND book_id = ?", shelfID, bookID)
	return err
}

// AddFollower subscribes a user to the shelf
func (r *ShelfRepository) AddFollower(shelfID, userID int64) error {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM shelf_followers WHERE shelf_id = ? AND user_id = ?", shelfID, userID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := r.db.Exec("INSERT INTO shelf_followers (shelf_id, user_id) VALUES (?, ?)", shelfID, userID)
	return err
}

// RemoveFollower unsubscribes a user from the shelf
func (r *ShelfRepository) RemoveFollower(shelfID, userID int64) error {
	_, err := r.db.Exec("DELETE FROM shelf_followers WHERE shelf_id = ? AND user_id = ?", shelfID, userID)
	return err
}

func (r *ShelfRepository) idList(query string, args ...interface{}) ([]int64, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
