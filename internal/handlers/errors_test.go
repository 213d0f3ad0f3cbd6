package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"keenpages/internal/apperr"
)

func TestRespondErrorWritesStatusAndEnvelope(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondError(recorder, apperr.New(apperr.NotFound, "Book not found."))

	if recorder.Code != 404 {
		t.Fatalf("expected status 404, got %d", recorder.Code)
	}

	var body envelope
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body.Status != 404 {
		t.Errorf("expected envelope status 404, got %d", body.Status)
	}
	if body.Message != "Book not found." {
		t.Errorf("expected message 'Book not found.', got %q", body.Message)
	}
	if body.Data != nil {
		t.Errorf("expected nil data, got %v", body.Data)
	}
}

func TestRespondErrorHidesUncategorizedCause(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondError(recorder, errors.New("pq: connection refused"))

	if recorder.Code != 500 {
		t.Fatalf("expected status 500, got %d", recorder.Code)
	}

	var body envelope
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body.Message == "" || body.Message == "pq: connection refused" {
		t.Errorf("raw cause must not reach the client, got %q", body.Message)
	}
}

func TestRespondErrorKindMapping(t *testing.T) {
	tests := []struct {
		name   string
		kind   apperr.Kind
		status int
	}{
		{"validation", apperr.Validation, 400},
		{"authorization", apperr.Authorization, 403},
		{"not found", apperr.NotFound, 404},
		{"dependency", apperr.Dependency, 501},
		{"internal", apperr.Internal, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondError(recorder, apperr.New(tt.kind, "nope"))
			if recorder.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, recorder.Code)
			}
		})
	}
}
