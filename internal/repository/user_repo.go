package repository

import (
	"database/sql"
	"time"

	"keenpages/internal/database"
	"keenpages/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user account
func (r *UserRepository) CreateUser(email, passwordHash, username, firstName, lastName string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, username, first_name, last_name, role)
		VALUES (?, ?, ?, ?, ?, 'user')
	`

	id, err := r.db.ExecReturningID(query, email, passwordHash, username, firstName, lastName)
	if err != nil {
		return nil, err
	}

	return r.GetUserByID(id)
}

// GetUserByID retrieves a user by ID, including read/saved book id lists
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	return r.getUser("SELECT id, email, username, password_hash, first_name, last_name, role, created FROM users WHERE id = ?", id)
}

// GetUserByEmail retrieves a user by email address
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	return r.getUser("SELECT id, email, username, password_hash, first_name, last_name, role, created FROM users WHERE email = ?", email)
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	return r.getUser("SELECT id, email, username, password_hash, first_name, last_name, role, created FROM users WHERE username = ?", username)
}

// GetUserByOAuth retrieves a user by linked OAuth identity
func (r *UserRepository) GetUserByOAuth(provider, subject string) (*models.User, error) {
	query := `
		SELECT u.id, u.email, u.username, u.password_hash, u.first_name, u.last_name, u.role, u.created
		FROM users u
		JOIN oauth_identities o ON o.user_id = u.id
		WHERE o.provider = ? AND o.subject = ?
	`
	return r.getUser(query, provider, subject)
}

// LinkOAuthProvider links an OAuth identity to an existing user
func (r *UserRepository) LinkOAuthProvider(userID int64, provider, subject string) error {
	query := "INSERT INTO oauth_identities (user_id, provider, subject) VALUES (?, ?, ?)"
	_, err := r.db.Exec(query, userID, provider, subject)
	return err
}

func (r *UserRepository) getUser(query string, args ...interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.Created,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if user.ReadBooks, err = r.bookList("read_books", user.ID); err != nil {
		return nil, err
	}
	if user.SavedBooks, err = r.bookList("saved_books", user.ID); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) bookList(table string, userID int64) ([]int64, error) {
	rows, err := r.db.Query("SELECT book_id FROM "+table+" WHERE user_id = ? ORDER BY book_id", userID)
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
	return ids, rows.Err()
}

// GetReadBookIDs returns the ids of the books a user has marked as read
func (r *UserRepository) GetReadBookIDs(userID int64) ([]int64, error) {
	return r.bookList("read_books", userID)
}

// ToggleReadBook adds the book to the user's read list, or removes it if
// already present. Returns true if the book is on the list afterwards.
func (r *UserRepository) ToggleReadBook(userID, bookID int64) (bool, error) {
	return r.toggleBookList("read_books", userID, bookID)
}

// ToggleSavedBook adds the book to the user's saved list, or removes it
// if already present. Returns true if the book is on the list afterwards.
func (r *UserRepository) ToggleSavedBook(userID, bookID int64) (bool, error) {
	return r.toggleBookList("saved_books", userID, bookID)
}

func (r *UserRepository) toggleBookList(table string, userID, bookID int64) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE user_id = ? AND book_id = ?", userID, bookID).Scan(&count)
	if err != nil {
		return false, err
	}

	if count > 0 {
		_, err = r.db.Exec("DELETE FROM "+table+" WHERE user_id = ? AND book_id = ?", userID, bookID)
		return false, err
	}

	_, err = r.db.Exec("INSERT INTO "+table+" (user_id, book_id) VALUES (?, ?)", userID, bookID)
	return true, err
}

// UpdatePassword updates a user's password hash
func (r *UserRepository) UpdatePassword(userID int64, passwordHash string) error {
	_, err := r.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, userID)
	return err
}

// CreatePasswordResetToken stores a new password reset token
func (r *UserRepository) CreatePasswordResetToken(token string, userID int64, expiresAt time.Time) error {
	query := "INSERT INTO password_reset_tokens (token, user_id, expires_at, used) VALUES (?, ?, ?, ?)"
	_, err := r.db.Exec(query, token, userID, expiresAt, false)
	return err
}

// GetPasswordResetToken retrieves a password reset token
func (r *UserRepository) GetPasswordResetToken(token string) (*models.PasswordResetToken, error) {
	query := "SELECT token, user_id, expires_at, used, created_at FROM password_reset_tokens WHERE token = ?"

	resetToken := &models.PasswordResetToken{}
	err := r.db.QueryRow(query, token).Scan(
		&resetToken.Token,
		&resetToken.UserID,
		&resetToken.ExpiresAt,
		&resetToken.Used,
		&resetToken.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return resetToken, nil
}

// MarkPasswordResetTokenAsUsed marks a reset token as consumed
func (r *UserRepository) MarkPasswordResetTokenAsUsed(token string) error {
	_, err := r.db.Exec("UPDATE password_reset_tokens SET used = ? WHERE token = ?", true, token)
	return err
}

// DeleteUserPasswordResetTokens removes all reset tokens for a user
func (r *UserRepository) DeleteUserPasswordResetTokens(userID int64) error {
	_, err := r.db.Exec("DELETE FROM password_reset_tokens WHERE user_id = ?", userID)
	return err
}

// DeleteExpiredPasswordResetTokens removes expired reset tokens
func (r *UserRepository) DeleteExpiredPasswordResetTokens() error {
	_, err := r.db.Exec("DELETE FROM password_reset_tokens WHERE expires_at < ?", time.Now())
	return err
}
