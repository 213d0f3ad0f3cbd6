package handlers

import (
	"net/http"

	"keenpages/internal/service"
)

// TopicHandler serves the topic catalog endpoints
type TopicHandler struct {
	topicService *service.TopicService
}

// NewTopicHandler creates a new topic handler
func NewTopicHandler(topicService *service.TopicService) *TopicHandler {
	return &TopicHandler{topicService: topicService}
}

// Create adds a topic to the catalog.
func (h *TopicHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTopicRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	topic, err := h.topicService.CreateTopic(req.Name, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Topic created.", topic)
}

// Get returns one topic.
func (h *TopicHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	topic, err := h.topicService.GetTopic(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Topic retrieved.", topic)
}

// List returns all topics ordered by name.
func (h *TopicHandler) List(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topicService.ListTopics()
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Topics retrieved.", topics)
}

// Search finds topics by name prefix.
func (h *TopicHandler) Search(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topicService.SearchTopics(r.URL.Query().Get("q"), queryInt(r, "limit", "25"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Topics retrieved.", topics)
}

// LinkSimilar marks two topics as similar to each other.
func (h *TopicHandler) LinkSimilar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req similarTopicRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	topic, err := h.topicService.LinkSimilar(id, req.SimilarID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Topics linked.", topic)
}
