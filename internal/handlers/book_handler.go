package handlers

import (
	"net/http"
	"strconv"

	"keenpages/internal/apperr"
	"keenpages/internal/service"
)

// BookHandler serves the book catalog endpoints
type BookHandler struct {
	bookService *service.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

func queryInt(r *http.Request, name, fallback string) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		value = fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

// Create adds a book to the catalog.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	book, err := h.bookService.CreateBook(user, service.CreateBookInput{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Publisher:   req.Publisher,
		PublishDate: req.PublishDate,
		ISBN10:      req.ISBN10,
		ISBN13:      req.ISBN13,
		AmazonLink:  req.AmazonLink,
		TopicIDs:    req.Topics,
		TopicNames:  req.TopicNames,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Book added.", book)
}

// Get returns one book and counts the view.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	book, err := h.bookService.GetBook(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Book retrieved.", book)
}

// List returns active books, newest first.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookService.ListBooks(queryInt(r, "limit", "25"), queryInt(r, "offset", "0"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Books retrieved.", books)
}

// ByTopic returns books associated with a topic.
func (h *BookHandler) ByTopic(w http.ResponseWriter, r *http.Request) {
	topicID, err := pathID(r, "topicId")
	if err != nil {
		respondError(w, err)
		return
	}

	books, err := h.bookService.BooksByTopic(topicID, queryInt(r, "limit", "25"), queryInt(r, "offset", "0"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Books retrieved.", books)
}

// Search finds books by title.
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookService.SearchBooks(r.URL.Query().Get("q"), queryInt(r, "limit", "25"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Books retrieved.", books)
}

// AddTopic associates a topic with a book, endorsed by the signed-in
// user.
func (h *BookHandler) AddTopic(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req addBookTopicRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	book, err := h.bookService.AddTopic(user, bookID, req.Topic, req.TopicName)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Topic added to this book.", book)
}

// ToggleAgree endorses or withdraws endorsement of a book's topic
// association.
func (h *BookHandler) ToggleAgree(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req agreeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Topic <= 0 {
		respondError(w, apperr.New(apperr.Validation, "Please try your request again, invalid request."))
		return
	}

	user := GetUserFromContext(r.Context())
	book, agreed, err := h.bookService.ToggleAgree(user, bookID, req.Topic)
	if err != nil {
		respondError(w, err)
		return
	}

	message := "Agreement withdrawn."
	if agreed {
		message = "Agreement recorded."
	}
	respond(w, http.StatusOK, message, toggleResponse{Active: agreed, Item: book})
}

// ToggleLike likes or unlikes a book.
func (h *BookHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	book, liked, err := h.bookService.ToggleLike(user, bookID)
	if err != nil {
		respondError(w, err)
		return
	}

	message := "Like removed."
	if liked {
		message = "Book liked."
	}
	respond(w, http.StatusOK, message, toggleResponse{Active: liked, Item: book})
}
