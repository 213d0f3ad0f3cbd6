package service

import (
	"log"
	"strings"
	"time"

	"keenpages/internal/apperr"
	"keenpages/internal/models"
	"keenpages/internal/repository"
	"keenpages/internal/validation"
)

// BookService handles book catalog operations
type BookService struct {
	bookRepo  *repository.BookRepository
	topicRepo *repository.TopicRepository
}

// NewBookService creates a new book service
func NewBookService(bookRepo *repository.BookRepository, topicRepo *repository.TopicRepository) *BookService {
	return &BookService{bookRepo: bookRepo, topicRepo: topicRepo}
}

// CreateBookInput is the validated request body for adding a book.
// Topics may be referenced by id or by name; unknown names create new
// topics.
type CreateBookInput struct {
	Title       string
	Subtitle    string
	Description string
	Publisher   string
	PublishDate string
	ISBN10      string
	ISBN13      string
	AmazonLink  string
	TopicIDs    []int64
	TopicNames  []string
}

// CreateBook adds a book to the catalog. The creating user endorses
// every topic association they supplied.
func (s *BookService) CreateBook(user *models.User, in CreateBookInput) (*models.Book, error) {
	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, apperr.Wrap(apperr.Validation, err.Error(), err)
	}

	topicIDs, err := s.resolveTopics(in.TopicIDs, in.TopicNames)
	if err != nil {
		return nil, err
	}

	book := &models.Book{
		Title:       strings.TrimSpace(in.Title),
		Subtitle:    strings.TrimSpace(in.Subtitle),
		Description: in.Description,
		Publisher:   in.Publisher,
		PublishDate: in.PublishDate,
		ISBN10:      in.ISBN10,
		ISBN13:      in.ISBN13,
		AmazonLink:  in.AmazonLink,
		Active:      true,
		CreatedBy:   user.ID,
	}
	for _, id := range topicIDs {
		book.Topics = append(book.Topics, models.TopicAssociation{TopicID: id, Created: time.Now()})
	}

	created, err := s.bookRepo.CreateBook(book)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error adding this book.", err)
	}

	s.populateTopics([]*models.Book{created})
	return created, nil
}

// GetBook returns a book by id and counts the view.
func (s *BookService) GetBook(id int64) (*models.Book, error) {
	book, err := s.bookRepo.GetBookByID(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving this book.", err)
	}
	if book == nil {
		return nil, apperr.New(apperr.NotFound, "Book not found.")
	}

	if err := s.bookRepo.IncrementViews(id); err != nil {
		log.Printf("Warning: could not count view for book %d: %v", id, err)
	} else {
		book.Views++
	}

	s.populateTopics([]*models.Book{book})
	return book, nil
}

// ListBooks returns active books, newest first.
func (s *BookService) ListBooks(limit, offset int) ([]*models.Book, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}
	books, err := s.bookRepo.GetAllBooks(limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving books.", err)
	}
	s.populateTopics(books)
	return books, nil
}

// BooksByTopic returns books associated with a topic.
func (s *BookService) BooksByTopic(topicID int64, limit, offset int) ([]*models.Book, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}
	books, err := s.bookRepo.GetBooksByTopic(topicID, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving books.", err)
	}
	s.populateTopics(books)
	return books, nil
}

// SearchBooks finds books whose title contains the search term.
func (s *BookService) SearchBooks(term string, limit int) ([]*models.Book, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, apperr.New(apperr.Validation, "Please provide a search term.")
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	books, err := s.bookRepo.SearchBooks(term, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error searching books.", err)
	}
	s.populateTopics(books)
	return books, nil
}

// AddTopic associates a topic with a book, endorsed by the user. The
// topic may be referenced by id or by name; an unknown name creates a
// new topic.
func (s *BookService) AddTopic(user *models.User, bookID, topicID int64, topicName string) (*models.Book, error) {
	book, err := s.bookRepo.GetBookByID(bookID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving this book.", err)
	}
	if book == nil {
		return nil, apperr.New(apperr.NotFound, "Book not found.")
	}

	ids, err := s.resolveTopics(compactIDs(topicID), compactNames(topicName))
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, apperr.New(apperr.Validation, "Please provide a topic for this book.")
	}

	if err := s.bookRepo.AddTopicAssociation(bookID, ids[0], user.ID); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error adding the topic to this book.", err)
	}
	return s.reload(bookID)
}

// ToggleAgree endorses a book's topic association for the user, or
// withdraws the endorsement. Returns the updated book.
func (s *BookService) ToggleAgree(user *models.User, bookID, topicID int64) (*models.Book, bool, error) {
	exists, err := s.bookRepo.HasTopicAssociation(bookID, topicID)
	if err != nil {
		return nil, false, apperr.Wrap(apperr.Dependency, "Server error updating your agreement.", err)
	}
	if !exists {
		return nil, false, apperr.New(apperr.NotFound, "This book is not associated with that topic.")
	}

	agreed, err := s.bookRepo.ToggleAgreement(bookID, topicID, user.ID)
	if err != nil {
		return nil, false, apperr.Wrap(apperr.Dependency, "Server error updating your agreement.", err)
	}

	book, err := s.reload(bookID)
	if err != nil {
		return nil, false, err
	}
	return book, agreed, nil
}

// ToggleLike likes or unlikes a book for the user.
func (s *BookService) ToggleLike(user *models.User, bookID int64) (*models.Book, bool, error) {
	book, err := s.bookRepo.GetBookByID(bookID)
	if err != nil {
		return nil, false, apperr.Wrap(apperr.Dependency, "Server error updating your like.", err)
	}
	if book == nil {
		return nil, false, apperr.New(apperr.NotFound, "Book not found.")
	}

	liked, err := s.bookRepo.ToggleLike(bookID, user.ID)
	if err != nil {
		return nil, false, apperr.Wrap(apperr.Dependency, "Server error updating your like.", err)
	}

	book, err = s.reload(bookID)
	if err != nil {
		return nil, false, err
	}
	return book, liked, nil
}

func (s *BookService) reload(bookID int64) (*models.Book, error) {
	book, err := s.bookRepo.GetBookByID(bookID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving this book.", err)
	}
	if book == nil {
		return nil, apperr.New(apperr.NotFound, "Book not found.")
	}
	s.populateTopics([]*models.Book{book})
	return book, nil
}

// resolveTopics maps topic ids and names to existing topics, creating
// topics for names that don't exist yet. Names are lowercased so the
// catalog stays free of case duplicates.
func (s *BookService) resolveTopics(ids []int64, names []string) ([]int64, error) {
	resolved := make([]int64, 0, len(ids)+len(names))
	seen := make(map[int64]bool)

	for _, id := range ids {
		topic, err := s.topicRepo.GetByID(id)
		if err != nil {
			return nil, apperr.Wrap(apperr.Dependency, "Server error resolving topics.", err)
		}
		if topic == nil {
			return nil, apperr.New(apperr.NotFound, "Topic not found.")
		}
		if !seen[topic.ID] {
			seen[topic.ID] = true
			resolved = append(resolved, topic.ID)
		}
	}

	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if err := validation.ValidateTopicName(name); err != nil {
			return nil, apperr.Wrap(apperr.Validation, err.Error(), err)
		}
		topic, err := s.topicRepo.GetByName(name)
		if err != nil {
			return nil, apperr.Wrap(apperr.Dependency, "Server error resolving topics.", err)
		}
		if topic == nil {
			if topic, err = s.topicRepo.CreateTopic(name, "", true); err != nil {
				return nil, apperr.Wrap(apperr.Dependency, "Server error creating a topic.", err)
			}
		}
		if !seen[topic.ID] {
			seen[topic.ID] = true
			resolved = append(resolved, topic.ID)
		}
	}

	return resolved, nil
}

// populateTopics attaches topic details to book associations. A lookup
// failure leaves the books unpopulated instead of failing the call.
func (s *BookService) populateTopics(books []*models.Book) {
	ids := make([]int64, 0)
	seen := make(map[int64]bool)
	for _, book := range books {
		for _, assoc := range book.Topics {
			if !seen[assoc.TopicID] {
				seen[assoc.TopicID] = true
				ids = append(ids, assoc.TopicID)
			}
		}
	}
	if len(ids) == 0 {
		return
	}

	topics, err := s.topicRepo.GetByIDs(ids)
	if err != nil {
		log.Printf("Warning: could not populate topics for books: %v", err)
		return
	}

	byID := make(map[int64]*models.Topic, len(topics))
	for _, topic := range topics {
		byID[topic.ID] = topic
	}
	for _, book := range books {
		for i := range book.Topics {
			book.Topics[i].Topic = byID[book.Topics[i].TopicID]
		}
	}
}

func compactIDs(ids ...int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != 0 {
			out = append(out, id)
		}
	}
	return out
}

func compactNames(names ...string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) != "" {
			out = append(out, name)
		}
	}
	return out
}
