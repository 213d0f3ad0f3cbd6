package service

import (
	"keenpages/internal/apperr"
	"keenpages/internal/models"
	"keenpages/internal/repository"
)

// UserService handles user profile and reading list operations
type UserService struct {
	userRepo *repository.UserRepository
	bookRepo *repository.BookRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository, bookRepo *repository.BookRepository) *UserService {
	return &UserService{userRepo: userRepo, bookRepo: bookRepo}
}

// GetDetails returns a user's profile with their reading lists.
func (s *UserService) GetDetails(id int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving this user.", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "User not found.")
	}
	return user, nil
}

// ToggleReadBook marks a book as read for the user, or unmarks it if
// already read. Returns true if the book is read afterwards.
func (s *UserService) ToggleReadBook(user *models.User, bookID int64) (bool, error) {
	if err := s.requireBook(bookID); err != nil {
		return false, err
	}
	read, err := s.userRepo.ToggleReadBook(user.ID, bookID)
	if err != nil {
		return false, apperr.Wrap(apperr.Dependency, "Server error updating your read books.", err)
	}
	return read, nil
}

// ToggleSavedBook saves a book for the user, or unsaves it if already
// saved. Returns true if the book is saved afterwards.
func (s *UserService) ToggleSavedBook(user *models.User, bookID int64) (bool, error) {
	if err := s.requireBook(bookID); err != nil {
		return false, err
	}
	saved, err := s.userRepo.ToggleSavedBook(user.ID, bookID)
	if err != nil {
		return false, apperr.Wrap(apperr.Dependency, "Server error updating your saved books.", err)
	}
	return saved, nil
}

// GetReadBooks returns the full book records of a user's read list.
func (s *UserService) GetReadBooks(userID int64) ([]*models.Book, error) {
	ids, err := s.userRepo.GetReadBookIDs(userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving your read books.", err)
	}
	books, err := s.bookRepo.GetBooksByIDs(ids)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving your read books.", err)
	}
	return books, nil
}

func (s *UserService) requireBook(bookID int64) error {
	book, err := s.bookRepo.GetBookByID(bookID)
	if err != nil {
		return apperr.Wrap(apperr.Dependency, "Server error retrieving this book.", err)
	}
	if book == nil {
		return apperr.New(apperr.NotFound, "Book not found.")
	}
	return nil
}
