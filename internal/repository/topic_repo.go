package repository

import (
	"database/sql"

	"keenpages/internal/database"
	"keenpages/internal/models"
)

// TopicRepository handles topic database operations
type TopicRepository struct {
	db *database.DB
}

// NewTopicRepository creates a new topic repository
func NewTopicRepository(db *database.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// CreateTopic inserts a new topic
func (r *TopicRepository) CreateTopic(name, description string, active bool) (*models.Topic, error) {
	query := "INSERT INTO topics (name, description, active) VALUES (?, ?, ?)"
	id, err := r.db.ExecReturningID(query, name, description, active)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByID retrieves a topic by id
func (r *TopicRepository) GetByID(id int64) (*models.Topic, error) {
	return r.getTopic("SELECT id, name, description, active FROM topics WHERE id = ?", id)
}

// GetByName retrieves a topic by its (lowercased, unique) name
func (r *TopicRepository) GetByName(name string) (*models.Topic, error) {
	return r.getTopic("SELECT id, name, description, active FROM topics WHERE name = ?", name)
}

func (r *TopicRepository) getTopic(query string, args ...interface{}) (*models.Topic, error) {
	topic := &models.Topic{}
	var description sql.NullString
	err := r.db.QueryRow(query, args...).Scan(&topic.ID, &topic.Name, &description, &topic.Active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	topic.Description = description.String

	if topic.Similar, err = r.similarIDs(topic.ID); err != nil {
		return nil, err
	}
	return topic, nil
}

// GetByIDs retrieves the topics whose ids are in the given set
func (r *TopicRepository) GetByIDs(ids []int64) ([]*models.Topic, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT id, name, description, active FROM topics WHERE id IN (" + inClause(len(ids)) + ")"
	return r.queryTopics(query, int64Args(ids)...)
}

// GetAll retrieves all topics ordered by name
func (r *TopicRepository) GetAll() ([]*models.Topic, error) {
	return r.queryTopics("SELECT id, name, description, active FROM topics ORDER BY name")
}

// Search finds topics whose name starts with the given prefix
func (r *TopicRepository) Search(prefix string, limit int) ([]*models.Topic, error) {
	return r.queryTopics("SELECT id, name, description, active FROM topics WHERE name LIKE ? ORDER BY name LIMIT ?", prefix+"%", limit)
}

// AddSimilar links two topics as similar, in both directions
func (r *TopicRepository) AddSimilar(topicID, similarID int64) error {
	if _, err := r.db.Exec("INSERT INTO topic_similar (topic_id, similar_id) VALUES (?, ?)", topicID, similarID); err != nil {
		return err
	}
	_, err := r.db.Exec("INSERT INTO topic_similar (topic_id, similar_id) VALUES (?, ?)", similarID, topicID)
	return err
}

func (r *TopicRepository) similarIDs(topicID int64) ([]int64, error) {
	rows, err := r.db.Query("SELECT similar_id FROM topic_similar WHERE topic_id = ?", topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *TopicRepository) queryTopics(query string, args ...interface{}) ([]*models.Topic, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []*models.Topic
	for rows.Next() {
		topic := &models.Topic{}
		var description sql.NullString
		if err := rows.Scan(&topic.ID, &topic.Name, &description, &topic.Active); err != nil {
			return nil, err
		}
		topic.Description = description.String
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}
