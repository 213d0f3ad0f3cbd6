package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"keenpages/internal/apperr"
)

// envelope is the JSON shape of every response body.
type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// respond writes a success envelope.
func respond(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Status: status, Message: message, Data: data}); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondError maps a service error to its HTTP status and writes the
// error envelope. The wrapped cause is logged, never sent to clients.
func respondError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := kind.HTTPStatus()
	message := apperr.MessageOf(err)

	if kind == apperr.Internal || kind == apperr.Dependency {
		log.Printf("Request failed (%d): %v", status, err)
	}

	respond(w, status, message, nil)
}

// NotFound writes the 404 envelope for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusNotFound, "Not found.", nil)
}

// decodeJSON parses a request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.Validation, "Please try your request again, invalid request.", err)
	}
	return nil
}
