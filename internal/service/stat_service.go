package service

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"keenpages/internal/apperr"
	"keenpages/internal/models"
	"keenpages/internal/progress"
)

// StatStore persists per-user stats as whole documents.
type StatStore interface {
	GetByID(id int64) (*models.Stat, error)
	GetByOwner(ownerID int64) (*models.Stat, error)
	Create(ownerID int64) (*models.Stat, error)
	Save(stat *models.Stat) error
}

// ReadBookSource supplies a user's completed-book id list.
type ReadBookSource interface {
	GetReadBookIDs(userID int64) ([]int64, error)
}

// TopicBookSource supplies books filtered by id set and topic association.
type TopicBookSource interface {
	GetBooksByIDsWithTopic(ids []int64, topicID int64) ([]*models.Book, error)
}

// TopicSource supplies and creates topics.
type TopicSource interface {
	GetByID(id int64) (*models.Topic, error)
	GetByIDs(ids []int64) ([]*models.Topic, error)
	GetByName(name string) (*models.Topic, error)
	CreateTopic(name, description string, active bool) (*models.Topic, error)
}

// StatService coordinates the skill progress pipelines: loading a user's
// read books, filtering skills by readiness, building snapshots and
// persisting the stat document in one write.
type StatService struct {
	stats  StatStore
	reads  ReadBookSource
	books  TopicBookSource
	topics TopicSource
	now    func() time.Time
}

// NewStatService creates a new stat service
func NewStatService(stats StatStore, reads ReadBookSource, books TopicBookSource, topics TopicSource) *StatService {
	return &StatService{
		stats:  stats,
		reads:  reads,
		books:  books,
		topics: topics,
		now:    time.Now,
	}
}

// AddSkillInput is the validated request body for adding a skill. Either
// TopicID or TopicName must be set; a missing goal defaults to 3.
type AddSkillInput struct {
	StatID      int64
	TopicID     int64
	TopicName   string
	Description string
	Goal        *float64
	DueDate     *time.Time
}

// SkillEdits are the editable fields of a skill. Snapshots are
// append-only and cannot be edited.
type SkillEdits struct {
	Description  *string
	Goal         *float64
	DueDate      *time.Time
	ClearDueDate bool
}

const defaultGoal = 3

// GetOrCreate returns the stat owned by ownerID, creating an empty one
// on first access.
func (s *StatService) GetOrCreate(ownerID int64) (*models.Stat, error) {
	stat, err := s.stats.GetByOwner(ownerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving your stat.", err)
	}
	if stat == nil {
		if stat, err = s.stats.Create(ownerID); err != nil {
			return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving your stat.", err)
		}
	}
	s.populateTopics(stat)
	return stat, nil
}

// Recompute rebuilds the progress of every due skill in the stat from
// the requesting user's read books and appends one snapshot per due
// skill. The whole document is persisted in a single write; skills that
// are not yet due are left untouched and returned so the caller can
// display them. A failure before the persist step leaves the stored
// stat unchanged; a persist failure discards the in-memory computation.
func (s *StatService) Recompute(user *models.User, statID int64) (*models.Stat, []models.Skill, error) {
	readBooks, err := s.reads.GetReadBookIDs(user.ID)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Dependency, "Server error retrieving your read books.", err)
	}

	stat, err := s.stats.GetByID(statID)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Dependency, "Server error retrieving your stats to update.", err)
	}
	if stat == nil {
		return nil, nil, apperr.New(apperr.NotFound, "Stats not found. Please try again later.")
	}
	if stat.OwnerID != user.ID && !user.IsAdmin() {
		return nil, nil, apperr.New(apperr.Authorization, "You are unauthorized to make this request.")
	}

	now := s.now()
	ready, notReady := progress.Partition(stat.Figures, now)
	readyIDs := make(map[string]bool, len(ready))
	for _, figure := range ready {
		readyIDs[figure.ID] = true
	}

	// Corrupt figures without a topic reference are dropped from the
	// document here, the same way the readiness filter skips them.
	figures := make([]models.Skill, 0, len(stat.Figures))
	for _, figure := range stat.Figures {
		if figure.TopicID == 0 {
			continue
		}
		if readyIDs[figure.ID] {
			books, err := s.topicBooks(readBooks, figure.TopicID)
			if err != nil {
				return nil, nil, apperr.Wrap(apperr.Dependency, "Server error generating your latest stats.", err)
			}
			snap := progress.BuildSnapshot(figure.TopicID, books, now)
			figure.Snapshots = append(figure.Snapshots, snap)
			figure.CurrentStatus = snap.Status
			figure.Completed = progress.Completed(figure.Goal, snap.Status)
			figure.Updated = now
		}
		figures = append(figures, figure)
	}
	stat.Figures = figures
	stat.Updated = now

	if err := s.stats.Save(stat); err != nil {
		return nil, nil, apperr.Wrap(apperr.Dependency, "Error updating your new stats.", err)
	}

	s.populateTopics(stat)
	return stat, notReady, nil
}

// AddSkill validates the input, resolves (or creates) the topic, builds
// the skill's initial snapshot from the user's current read books and
// appends the skill to the stat.
func (s *StatService) AddSkill(user *models.User, in AddSkillInput) (*models.Stat, error) {
	if in.StatID == 0 || (in.TopicID == 0 && strings.TrimSpace(in.TopicName) == "") {
		return nil, apperr.New(apperr.Validation, "Please try your request again, invalid request.")
	}
	goal := float64(defaultGoal)
	if in.Goal != nil {
		goal = *in.Goal
	}

	topic, err := s.resolveTopic(in.TopicID, in.TopicName)
	if err != nil {
		return nil, err
	}

	readBooks, err := s.reads.GetReadBookIDs(user.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving your current books.", err)
	}
	books, err := s.topicBooks(readBooks, topic.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving your current books.", err)
	}

	now := s.now()
	snap := progress.BuildSnapshot(topic.ID, books, now)
	skill := models.Skill{
		ID:            uuid.New().String(),
		TopicID:       topic.ID,
		Description:   in.Description,
		Goal:          goal,
		DueDate:       in.DueDate,
		CurrentStatus: snap.Status,
		Completed:     progress.Completed(goal, snap.Status),
		Created:       now,
		Updated:       now,
		Snapshots:     []models.Snapshot{snap},
	}

	stat, err := s.stats.GetByID(in.StatID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error updating your stats.", err)
	}
	if stat == nil {
		return nil, apperr.New(apperr.NotFound, "Stats not found. Please try again later.")
	}

	stat.Figures = append(stat.Figures, skill)
	stat.Updated = now
	if err := s.stats.Save(stat); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error updating your stats.", err)
	}

	s.populateTopics(stat)
	return stat, nil
}

// EditSkill applies field edits to one skill. Changing the goal
// recomputes completion against the current status; snapshots are never
// touched.
func (s *StatService) EditSkill(user *models.User, statID int64, skillID string, edits SkillEdits) (*models.Stat, error) {
	stat, err := s.loadOwnedStat(user, statID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	found := false
	for i := range stat.Figures {
		if stat.Figures[i].ID != skillID {
			continue
		}
		found = true
		figure := &stat.Figures[i]
		if edits.Description != nil {
			figure.Description = *edits.Description
		}
		if edits.Goal != nil {
			figure.Goal = *edits.Goal
			figure.Completed = progress.Completed(figure.Goal, figure.CurrentStatus)
		}
		if edits.ClearDueDate {
			figure.DueDate = nil
		} else if edits.DueDate != nil {
			figure.DueDate = edits.DueDate
		}
		figure.Updated = now
	}
	if !found {
		return nil, apperr.New(apperr.NotFound, "Skill not found in your stats.")
	}

	stat.Updated = now
	if err := s.stats.Save(stat); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Error saving your stats.", err)
	}

	s.populateTopics(stat)
	return stat, nil
}

// RemoveSkill deletes one skill from the stat.
func (s *StatService) RemoveSkill(user *models.User, statID int64, skillID string) (*models.Stat, error) {
	stat, err := s.loadOwnedStat(user, statID)
	if err != nil {
		return nil, err
	}

	figures := make([]models.Skill, 0, len(stat.Figures))
	found := false
	for _, figure := range stat.Figures {
		if figure.ID == skillID {
			found = true
			continue
		}
		figures = append(figures, figure)
	}
	if !found {
		return nil, apperr.New(apperr.NotFound, "Skill not found in your stats.")
	}

	stat.Figures = figures
	stat.Updated = s.now()
	if err := s.stats.Save(stat); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Could not remove this skill from your stats.", err)
	}

	s.populateTopics(stat)
	return stat, nil
}

func (s *StatService) loadOwnedStat(user *models.User, statID int64) (*models.Stat, error) {
	stat, err := s.stats.GetByID(statID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving your stats.", err)
	}
	if stat == nil {
		return nil, apperr.New(apperr.NotFound, "Stats not found. Please try again later.")
	}
	if stat.OwnerID != user.ID && !user.IsAdmin() {
		return nil, apperr.New(apperr.Authorization, "You are not authorized to make this edit.")
	}
	return stat, nil
}

func (s *StatService) resolveTopic(topicID int64, topicName string) (*models.Topic, error) {
	if topicID != 0 {
		topic, err := s.topics.GetByID(topicID)
		if err != nil {
			return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving the topic for your skill.", err)
		}
		if topic == nil {
			return nil, apperr.New(apperr.NotFound, "Topic not found.")
		}
		return topic, nil
	}

	name := strings.ToLower(strings.TrimSpace(topicName))
	topic, err := s.topics.GetByName(name)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error retrieving the topic for your skill.", err)
	}
	if topic != nil {
		return topic, nil
	}

	topic, err = s.topics.CreateTopic(name, "", true)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Error creating new topic for your stats.", err)
	}
	return topic, nil
}

func (s *StatService) topicBooks(readBooks []int64, topicID int64) ([]*models.Book, error) {
	if len(readBooks) == 0 {
		return nil, nil
	}
	return s.books.GetBooksByIDsWithTopic(readBooks, topicID)
}

// populateTopics attaches topic details to every figure. A lookup
// failure leaves the stat unpopulated instead of failing the call.
func (s *StatService) populateTopics(stat *models.Stat) {
	ids := make([]int64, 0, len(stat.Figures))
	seen := make(map[int64]bool)
	for _, figure := range stat.Figures {
		if figure.TopicID != 0 && !seen[figure.TopicID] {
			seen[figure.TopicID] = true
			ids = append(ids, figure.TopicID)
		}
	}
	if len(ids) == 0 {
		return
	}

	topics, err := s.topics.GetByIDs(ids)
	if err != nil {
		log.Printf("Warning: could not populate topics for stat %d: %v", stat.ID, err)
		return
	}

	byID := make(map[int64]*models.Topic, len(topics))
	for _, topic := range topics {
		byID[topic.ID] = topic
	}
	for i := range stat.Figures {
		stat.Figures[i].Topic = byID[stat.Figures[i].TopicID]
	}
}
