package service

import (
	"strings"

	"keenpages/internal/apperr"
	"keenpages/internal/models"
	"keenpages/internal/repository"
	"keenpages/internal/validation"
)

// TopicService handles topic catalog operations. Topic names are
// lowercased and unique.
type TopicService struct {
	topicRepo *repository.TopicRepository
}

// NewTopicService creates a new topic service
func NewTopicService(topicRepo *repository.TopicRepository) *TopicService {
	return &TopicService{topicRepo: topicRepo}
}

// CreateTopic adds a topic to the catalog.
func (s *TopicService) CreateTopic(name, description string) (*models.Topic, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if err := validation.ValidateTopicName(name); err != nil {
		return nil, apperr.Wrap(apperr.Validation, err.Error(), err)
	}

	existing, err := s.topicRepo.GetByName(name)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error creating this topic.", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.Validation, "A topic with this name already exists.")
	}

	topic, err := s.topicRepo.CreateTopic(name, description, true)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error creating this topic.", err)
	}
	return topic, nil
}

// GetTopic returns a topic by id.
func (s *TopicService) GetTopic(id int64) (*models.Topic, error) {
	topic, err := s.topicRepo.GetByID(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving this topic.", err)
	}
	if topic == nil {
		return nil, apperr.New(apperr.NotFound, "Topic not found.")
	}
	return topic, nil
}

// ListTopics returns all topics ordered by name.
func (s *TopicService) ListTopics() ([]*models.Topic, error) {
	topics, err := s.topicRepo.GetAll()
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving topics.", err)
	}
	return topics, nil
}

// SearchTopics finds topics whose name starts with the given prefix.
func (s *TopicService) SearchTopics(prefix string, limit int) ([]*models.Topic, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, apperr.New(apperr.Validation, "Please provide a search term.")
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	topics, err := s.topicRepo.Search(prefix, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error searching topics.", err)
	}
	return topics, nil
}

// LinkSimilar marks two topics as similar to each other.
func (s *TopicService) LinkSimilar(topicID, similarID int64) (*models.Topic, error) {
	if topicID == similarID {
		return nil, apperr.New(apperr.Validation, "A topic cannot be similar to itself.")
	}

	topic, err := s.topicRepo.GetByID(topicID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error linking these topics.", err)
	}
	if topic == nil {
		return nil, apperr.New(apperr.NotFound, "Topic not found.")
	}
	other, err := s.topicRepo.GetByID(similarID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error linking these topics.", err)
	}
	if other == nil {
		return nil, apperr.New(apperr.NotFound, "Topic not found.")
	}

	for _, id := range topic.Similar {
		if id == similarID {
			return topic, nil
		}
	}

	if err := s.topicRepo.AddSimilar(topicID, similarID); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error linking these topics.", err)
	}
	return s.GetTopic(topicID)
}
