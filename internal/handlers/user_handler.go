package handlers

import (
	"net/http"

	"keenpages/internal/service"
)

// UserHandler serves user profile and reading list endpoints
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Details returns a user's profile with their reading lists.
func (h *UserHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.userService.GetDetails(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "User retrieved.", user)
}

// Me returns the signed-in user's own profile.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	respond(w, http.StatusOK, "User retrieved.", user)
}

// ToggleReadBook marks or unmarks a book as read for the signed-in
// user.
func (h *UserHandler) ToggleReadBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookId")
	if err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	read, err := h.userService.ToggleReadBook(user, bookID)
	if err != nil {
		respondError(w, err)
		return
	}

	message := "Book removed from your read books."
	if read {
		message = "Book added to your read books."
	}
	respond(w, http.StatusOK, message, toggleResponse{Active: read})
}

// ToggleSavedBook saves or unsaves a book for the signed-in user.
func (h *UserHandler) ToggleSavedBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookId")
	if err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	saved, err := h.userService.ToggleSavedBook(user, bookID)
	if err != nil {
		respondError(w, err)
		return
	}

	message := "Book removed from your saved books."
	if saved {
		message = "Book added to your saved books."
	}
	respond(w, http.StatusOK, message, toggleResponse{Active: saved})
}

// ReadBooks returns the full book records of the signed-in user's read
// list.
func (h *UserHandler) ReadBooks(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	books, err := h.userService.GetReadBooks(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Read books retrieved.", books)
}
