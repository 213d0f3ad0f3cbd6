package service

import (
	"strings"

	"keenpages/internal/apperr"
	"keenpages/internal/models"
	"keenpages/internal/repository"
)

// ShelfService handles book shelf operations. Private shelves are
// visible only to their owner and followers.
type ShelfService struct {
	shelfRepo *repository.ShelfRepository
	bookRepo  *repository.BookRepository
}

// NewShelfService creates a new shelf service
func NewShelfService(shelfRepo *repository.ShelfRepository, bookRepo *repository.BookRepository) *ShelfService {
	return &ShelfService{shelfRepo: shelfRepo, bookRepo: bookRepo}
}

// CreateShelf creates a shelf for the user with an optional initial
// book list.
func (s *ShelfService) CreateShelf(user *models.User, name, description string, public bool, bookIDs []int64) (*models.Shelf, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.Validation, "Please give your shelf a name.")
	}

	seen := make(map[int64]bool, len(bookIDs))
	books := make([]int64, 0, len(bookIDs))
	for _, bookID := range bookIDs {
		if seen[bookID] {
			continue
		}
		seen[bookID] = true
		if err := s.requireBook(bookID); err != nil {
			return nil, err
		}
		books = append(books, bookID)
	}
	bookIDs = books

	shelf := &models.Shelf{
		OwnerID:     user.ID,
		Name:        name,
		Description: description,
		Public:      public,
		Books:       bookIDs,
	}
	created, err := s.shelfRepo.CreateShelf(shelf)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error creating your shelf.", err)
	}
	return created, nil
}

// GetShelf returns a shelf if it is visible to the viewer. Pass viewer
// id 0 for anonymous requests.
func (s *ShelfService) GetShelf(id, viewerID int64) (*models.Shelf, error) {
	shelf, err := s.loadShelf(id)
	if err != nil {
		return nil, err
	}
	if !shelf.VisibleTo(viewerID) {
		return nil, apperr.New(apperr.Authorization, "You are not authorized to view this shelf.")
	}
	return shelf, nil
}

// GetShelvesByOwner returns a user's shelves, filtered to those the
// viewer may see.
func (s *ShelfService) GetShelvesByOwner(ownerID, viewerID int64) ([]*models.Shelf, error) {
	shelves, err := s.shelfRepo.GetByOwner(ownerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving shelves.", err)
	}

	visible := make([]*models.Shelf, 0, len(shelves))
	for _, shelf := range shelves {
		if shelf.VisibleTo(viewerID) {
			visible = append(visible, shelf)
		}
	}
	return visible, nil
}

// UpdateShelf edits a shelf's name, description or visibility.
func (s *ShelfService) UpdateShelf(user *models.User, id int64, name, description *string, public *bool) (*models.Shelf, error) {
	shelf, err := s.loadOwnedShelf(user, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperr.New(apperr.Validation, "Please give your shelf a name.")
		}
		shelf.Name = trimmed
	}
	if description != nil {
		shelf.Description = *description
	}
	if public != nil {
		shelf.Public = *public
	}

	if err := s.shelfRepo.Update(shelf); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error updating your shelf.", err)
	}
	return s.loadShelf(id)
}

// DeleteShelf removes a shelf and its book and follower lists.
func (s *ShelfService) DeleteShelf(user *models.User, id int64) error {
	if _, err := s.loadOwnedShelf(user, id); err != nil {
		return err
	}
	if err := s.shelfRepo.Delete(id); err != nil {
		return apperr.Wrap(apperr.Dependency, "Server error deleting your shelf.", err)
	}
	return nil
}

// AddBook puts a book on the user's shelf.
func (s *ShelfService) AddBook(user *models.User, shelfID, bookID int64) (*models.Shelf, error) {
	if _, err := s.loadOwnedShelf(user, shelfID); err != nil {
		return nil, err
	}
	if err := s.requireBook(bookID); err != nil {
		return nil, err
	}
	if err := s.shelfRepo.AddBook(shelfID, bookID); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error updating your shelf.", err)
	}
	return s.loadShelf(shelfID)
}

// RemoveBook takes a book off the user's shelf.
func (s *ShelfService) RemoveBook(user *models.User, shelfID, bookID int64) (*models.Shelf, error) {
	if _, err := s.loadOwnedShelf(user, shelfID); err != nil {
		return nil, err
	}
	if err := s.shelfRepo.RemoveBook(shelfID, bookID); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error updating your shelf.", err)
	}
	return s.loadShelf(shelfID)
}

// Follow subscribes the user to a shelf they can see.
func (s *ShelfService) Follow(user *models.User, shelfID int64) (*models.Shelf, error) {
	shelf, err := s.loadShelf(shelfID)
	if err != nil {
		return nil, err
	}
	if !shelf.VisibleTo(user.ID) {
		return nil, apperr.New(apperr.Authorization, "You are not authorized to view this shelf.")
	}
	if shelf.OwnerID == user.ID {
		return nil, apperr.New(apperr.Validation, "You cannot follow your own shelf.")
	}
	if err := s.shelfRepo.AddFollower(shelfID, user.ID); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error following this shelf.", err)
	}
	return s.loadShelf(shelfID)
}

// Unfollow unsubscribes the user from a shelf.
func (s *ShelfService) Unfollow(user *models.User, shelfID int64) (*models.Shelf, error) {
	if _, err := s.loadShelf(shelfID); err != nil {
		return nil, err
	}
	if err := s.shelfRepo.RemoveFollower(shelfID, user.ID); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error unfollowing this shelf.", err)
	}
	return s.loadShelf(shelfID)
}

func (s *ShelfService) loadShelf(id int64) (*models.Shelf, error) {
	shelf, err := s.shelfRepo.GetByID(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving this shelf.", err)
	}
	if shelf == nil {
		return nil, apperr.New(apperr.NotFound, "Shelf not found.")
	}
	return shelf, nil
}

func (s *ShelfService) loadOwnedShelf(user *models.User, id int64) (*models.Shelf, error) {
	shelf, err := s.loadShelf(id)
	if err != nil {
		return nil, err
	}
	if shelf.OwnerID != user.ID && !user.IsAdmin() {
		return nil, apperr.New(apperr.Authorization, "You are not authorized to edit this shelf.")
	}
	return shelf, nil
}

func (s *ShelfService) requireBook(bookID int64) error {
	book, err := s.bookRepo.GetBookByID(bookID)
	if err != nil {
		return apperr.Wrap(apperr.Dependency, "Server error retrieving this book.", err)
	}
	if book == nil {
		return apperr.New(apperr.NotFound, "Book not found.")
	}
	return nil
}
