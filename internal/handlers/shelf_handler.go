package handlers

import (
	"net/http"

	"keenpages/internal/service"
)

// ShelfHandler serves the book shelf endpoints
type ShelfHandler struct {
	shelfService *service.ShelfService
}

// NewShelfHandler creates a new shelf handler
func NewShelfHandler(shelfService *service.ShelfService) *ShelfHandler {
	return &ShelfHandler{shelfService: shelfService}
}

// Create creates a shelf for the signed-in user.
func (h *ShelfHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createShelfRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	shelf, err := h.shelfService.CreateShelf(user, req.Name, req.Description, req.Public, req.Books)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Shelf created.", shelf)
}

// Get returns a shelf if it is visible to the viewer.
func (h *ShelfHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	shelf, err := h.shelfService.GetShelf(id, ViewerID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Shelf retrieved.", shelf)
}

// ByOwner returns a user's shelves, filtered to those the viewer may
// see.
func (h *ShelfHandler) ByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := pathID(r, "userId")
	if err != nil {
		respondError(w, err)
		return
	}

	shelves, err := h.shelfService.GetShelvesByOwner(ownerID, ViewerID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Shelves retrieved.", shelves)
}

// Update edits a shelf's name, description or visibility.
func (h *ShelfHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req updateShelfRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	shelf, err := h.shelfService.UpdateShelf(user, id, req.Name, req.Description, req.Public)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Shelf updated.", shelf)
}

// Delete removes a shelf.
func (h *ShelfHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	if err := h.shelfService.DeleteShelf(user, id); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Shelf deleted.", nil)
}

// AddBook puts a book on the shelf.
func (h *ShelfHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	shelfID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	bookID, err := pathID(r, "bookId")
	if err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	shelf, err := h.shelfService.AddBook(user, shelfID, bookID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Book added to your shelf.", shelf)
}

// RemoveBook takes a book off the shelf.
func (h *ShelfHandler) RemoveBook(w http.ResponseWriter, r *http.Request) {
	shelfID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	bookID, err := pathID(r, "bookId")
	if err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	shelf, err := h.shelfService.RemoveBook(user, shelfID, bookID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Book removed from your shelf.", shelf)
}

// Follow subscribes the signed-in user to a shelf.
func (h *ShelfHandler) Follow(w http.ResponseWriter, r *http.Request) {
	shelfID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	shelf, err := h.shelfService.Follow(user, shelfID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "You are now following this shelf.", shelf)
}

// Unfollow unsubscribes the signed-in user from a shelf.
func (h *ShelfHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	shelfID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	shelf, err := h.shelfService.Unfollow(user, shelfID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "You are no longer following this shelf.", shelf)
}
