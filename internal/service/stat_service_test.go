package service

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"keenpages/internal/apperr"
	"keenpages/internal/models"
)

type fakeStatStore struct {
	stats   map[int64]*models.Stat
	nextID  int64
	saveErr error
	saves   int
}

func newFakeStatStore() *fakeStatStore {
	return &fakeStatStore{stats: make(map[int64]*models.Stat), nextID: 1}
}

func cloneStat(stat *models.Stat) *models.Stat {
	data, _ := json.Marshal(stat)
	out := &models.Stat{}
	json.Unmarshal(data, out)
	return out
}

func (f *fakeStatStore) GetByID(id int64) (*models.Stat, error) {
	stat, ok := f.stats[id]
	if !ok {
		return nil, nil
	}
	return cloneStat(stat), nil
}

func (f *fakeStatStore) GetByOwner(ownerID int64) (*models.Stat, error) {
	for _, stat := range f.stats {
		if stat.OwnerID == ownerID {
			return cloneStat(stat), nil
		}
	}
	return nil, nil
}

func (f *fakeStatStore) Create(ownerID int64) (*models.Stat, error) {
	stat := &models.Stat{ID: f.nextID, OwnerID: ownerID, Updated: time.Now()}
	f.nextID++
	f.stats[stat.ID] = stat
	return cloneStat(stat), nil
}

func (f *fakeStatStore) Save(stat *models.Stat) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.stats[stat.ID] = cloneStat(stat)
	return nil
}

type fakeReads struct {
	byUser map[int64][]int64
	err    error
}

func (f *fakeReads) GetReadBookIDs(userID int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

type fakeBooks struct {
	books []*models.Book
}

func (f *fakeBooks) GetBooksByIDsWithTopic(ids []int64, topicID int64) ([]*models.Book, error) {
	inSet := make(map[int64]bool, len(ids))
	for _, id := range ids {
		inSet[id] = true
	}
	var out []*models.Book
	for _, book := range f.books {
		if !inSet[book.ID] {
			continue
		}
		for _, assoc := range book.Topics {
			if assoc.TopicID == topicID {
				out = append(out, book)
				break
			}
		}
	}
	return out, nil
}

type fakeTopics struct {
	byID   map[int64]*models.Topic
	nextID int64
}

func newFakeTopics(topics ...*models.Topic) *fakeTopics {
	f := &fakeTopics{byID: make(map[int64]*models.Topic), nextID: 100}
	for _, topic := range topics {
		f.byID[topic.ID] = topic
	}
	return f
}

func (f *fakeTopics) GetByID(id int64) (*models.Topic, error) {
	return f.byID[id], nil
}

func (f *fakeTopics) GetByIDs(ids []int64) ([]*models.Topic, error) {
	var out []*models.Topic
	for _, id := range ids {
		if topic, ok := f.byID[id]; ok {
			out = append(out, topic)
		}
	}
	return out, nil
}

func (f *fakeTopics) GetByName(name string) (*models.Topic, error) {
	for _, topic := range f.byID {
		if topic.Name == name {
			return topic, nil
		}
	}
	return nil, nil
}

func (f *fakeTopics) CreateTopic(name, description string, active bool) (*models.Topic, error) {
	topic := &models.Topic{ID: f.nextID, Name: name, Description: description, Active: active}
	f.nextID++
	f.byID[topic.ID] = topic
	return topic, nil
}

func bookWithEndorsers(id, topicID int64, endorsers ...int64) *models.Book {
	return &models.Book{
		ID:     id,
		Title:  "book",
		Topics: []models.TopicAssociation{{TopicID: topicID, Agreed: endorsers}},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testService(store *fakeStatStore, reads *fakeReads, books *fakeBooks, topics *fakeTopics) *StatService {
	svc := NewStatService(store, reads, books, topics)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestRecomputeNoReadBooks(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{
		ID:      1,
		OwnerID: 7,
		Figures: []models.Skill{{ID: "s1", TopicID: 3, Goal: 3}},
	}
	svc := testService(store, &fakeReads{byUser: map[int64][]int64{}}, &fakeBooks{}, newFakeTopics(&models.Topic{ID: 3, Name: "history"}))

	user := &models.User{ID: 7, Role: models.RoleUser}
	stat, notReady, err := svc.Recompute(user, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notReady) != 0 {
		t.Errorf("expected no deferred skills, got %d", len(notReady))
	}
	figure := stat.Figures[0]
	if figure.CurrentStatus != 0 {
		t.Errorf("expected status 0, got %f", figure.CurrentStatus)
	}
	if figure.Completed {
		t.Error("skill should not be completed with no read books")
	}
	if len(figure.Snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(figure.Snapshots))
	}
	if len(figure.Snapshots[0].Books) != 0 {
		t.Errorf("snapshot should have no book entries, got %d", len(figure.Snapshots[0].Books))
	}
}

func TestRecomputeWeightedSum(t *testing.T) {
	// Ten read books each endorsed by a single user contribute 0.1 each.
	var books []*models.Book
	var readIDs []int64
	for i := int64(1); i <= 10; i++ {
		books = append(books, bookWithEndorsers(i, 3, 42))
		readIDs = append(readIDs, i)
	}

	store := newFakeStatStore()
	store.stats[1] = &models.Stat{
		ID:      1,
		OwnerID: 7,
		Figures: []models.Skill{{ID: "s1", TopicID: 3, Goal: 2}},
	}
	svc := testService(store,
		&fakeReads{byUser: map[int64][]int64{7: readIDs}},
		&fakeBooks{books: books},
		newFakeTopics(&models.Topic{ID: 3, Name: "history"}))

	user := &models.User{ID: 7, Role: models.RoleUser}
	stat, _, err := svc.Recompute(user, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	figure := stat.Figures[0]
	if !almostEqual(figure.CurrentStatus, 1.0) {
		t.Errorf("expected status 1.0, got %f", figure.CurrentStatus)
	}
	if figure.Completed {
		t.Error("status 1.0 should not complete a goal of 2")
	}
	if len(figure.Snapshots[0].Books) != 10 {
		t.Errorf("expected 10 book entries, got %d", len(figure.Snapshots[0].Books))
	}
}

func TestRecomputeSkipsFutureDueDates(t *testing.T) {
	future := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{
		ID:      1,
		OwnerID: 7,
		Figures: []models.Skill{
			{ID: "due", TopicID: 3, Goal: 3},
			{ID: "later", TopicID: 4, Goal: 3, DueDate: &future},
		},
	}
	svc := testService(store,
		&fakeReads{byUser: map[int64][]int64{7: {1}}},
		&fakeBooks{books: []*models.Book{bookWithEndorsers(1, 3, 10, 11)}},
		newFakeTopics(&models.Topic{ID: 3, Name: "history"}, &models.Topic{ID: 4, Name: "poetry"}))

	user := &models.User{ID: 7, Role: models.RoleUser}
	stat, notReady, err := svc.Recompute(user, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notReady) != 1 || notReady[0].ID != "later" {
		t.Fatalf("expected the future-dated skill deferred, got %+v", notReady)
	}
	for _, figure := range stat.Figures {
		switch figure.ID {
		case "due":
			if len(figure.Snapshots) != 1 {
				t.Errorf("due skill should have a new snapshot, got %d", len(figure.Snapshots))
			}
		case "later":
			if len(figure.Snapshots) != 0 {
				t.Errorf("future-dated skill should be untouched, got %d snapshots", len(figure.Snapshots))
			}
		}
	}
}

func TestRecomputeIndependentSkillsSameTopic(t *testing.T) {
	future := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{
		ID:      1,
		OwnerID: 7,
		Figures: []models.Skill{
			{ID: "a", TopicID: 3, Goal: 1},
			{ID: "b", TopicID: 3, Goal: 1, DueDate: &future},
		},
	}
	svc := testService(store,
		&fakeReads{byUser: map[int64][]int64{7: {1}}},
		&fakeBooks{books: []*models.Book{bookWithEndorsers(1, 3, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19)}},
		newFakeTopics(&models.Topic{ID: 3, Name: "history"}))

	user := &models.User{ID: 7, Role: models.RoleUser}
	stat, _, err := svc.Recompute(user, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(stat.Figures[0].Snapshots); n != 1 {
		t.Errorf("due skill should gain a snapshot, got %d", n)
	}
	if !almostEqual(stat.Figures[0].CurrentStatus, 1.0) {
		t.Errorf("expected status 1.0 from a fully endorsed book, got %f", stat.Figures[0].CurrentStatus)
	}
	if !stat.Figures[0].Completed {
		t.Error("goal of 1 should be completed at status 1.0")
	}
	if n := len(stat.Figures[1].Snapshots); n != 0 {
		t.Errorf("deferred skill sharing the topic should be untouched, got %d snapshots", n)
	}
}

func TestRecomputeAppendsSnapshots(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{
		ID:      1,
		OwnerID: 7,
		Figures: []models.Skill{{
			ID:      "s1",
			TopicID: 3,
			Goal:    3,
			Snapshots: []models.Snapshot{
				{ID: "old", Status: 0.5, Created: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			},
		}},
	}
	svc := testService(store,
		&fakeReads{byUser: map[int64][]int64{7: {1}}},
		&fakeBooks{books: []*models.Book{bookWithEndorsers(1, 3, 10)}},
		newFakeTopics(&models.Topic{ID: 3, Name: "history"}))

	user := &models.User{ID: 7, Role: models.RoleUser}
	stat, _, err := svc.Recompute(user, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps := stat.Figures[0].Snapshots
	if len(snaps) != 2 {
		t.Fatalf("expected history to grow to 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].ID != "old" {
		t.Error("existing snapshot should be preserved in order")
	}
	if !almostEqual(stat.Figures[0].CurrentStatus, 0.1) {
		t.Errorf("expected status 0.1, got %f", stat.Figures[0].CurrentStatus)
	}
}

func TestRecomputeUnauthorized(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{
		ID:      1,
		OwnerID: 7,
		Figures: []models.Skill{{ID: "s1", TopicID: 3, Goal: 3}},
	}
	svc := testService(store,
		&fakeReads{byUser: map[int64][]int64{8: {1}}},
		&fakeBooks{books: []*models.Book{bookWithEndorsers(1, 3, 10)}},
		newFakeTopics(&models.Topic{ID: 3, Name: "history"}))

	stranger := &models.User{ID: 8, Role: models.RoleUser}
	_, _, err := svc.Recompute(stranger, 1)
	if apperr.KindOf(err) != apperr.Authorization {
		t.Fatalf("expected authorization error, got %v", err)
	}
	if store.saves != 0 {
		t.Error("stat must not be written on an unauthorized request")
	}
	if len(store.stats[1].Figures[0].Snapshots) != 0 {
		t.Error("stored stat must be unchanged")
	}
}

func TestRecomputeAdminAllowed(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{ID: 1, OwnerID: 7}
	svc := testService(store, &fakeReads{byUser: map[int64][]int64{}}, &fakeBooks{}, newFakeTopics())

	admin := &models.User{ID: 99, Role: models.RoleAdmin}
	if _, _, err := svc.Recompute(admin, 1); err != nil {
		t.Fatalf("admin should be allowed: %v", err)
	}
}

func TestRecomputeStatNotFound(t *testing.T) {
	svc := testService(newFakeStatStore(), &fakeReads{byUser: map[int64][]int64{}}, &fakeBooks{}, newFakeTopics())
	user := &models.User{ID: 7, Role: models.RoleUser}
	_, _, err := svc.Recompute(user, 42)
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRecomputeSaveFailureDiscardsWork(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{
		ID:      1,
		OwnerID: 7,
		Figures: []models.Skill{{ID: "s1", TopicID: 3, Goal: 3}},
	}
	store.saveErr = errors.New("disk full")
	svc := testService(store,
		&fakeReads{byUser: map[int64][]int64{7: {1}}},
		&fakeBooks{books: []*models.Book{bookWithEndorsers(1, 3, 10)}},
		newFakeTopics(&models.Topic{ID: 3, Name: "history"}))

	user := &models.User{ID: 7, Role: models.RoleUser}
	_, _, err := svc.Recompute(user, 1)
	if apperr.KindOf(err) != apperr.Dependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(store.stats[1].Figures[0].Snapshots) != 0 {
		t.Error("stored stat must be unchanged after a failed save")
	}
}

func TestRecomputeIdempotentStatus(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{
		ID:      1,
		OwnerID: 7,
		Figures: []models.Skill{{ID: "s1", TopicID: 3, Goal: 3}},
	}
	svc := testService(store,
		&fakeReads{byUser: map[int64][]int64{7: {1, 2}}},
		&fakeBooks{books: []*models.Book{
			bookWithEndorsers(1, 3, 10, 11, 12),
			bookWithEndorsers(2, 3, 10),
		}},
		newFakeTopics(&models.Topic{ID: 3, Name: "history"}))

	user := &models.User{ID: 7, Role: models.RoleUser}
	first, _, err := svc.Recompute(user, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := svc.Recompute(user, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(first.Figures[0].CurrentStatus, second.Figures[0].CurrentStatus) {
		t.Errorf("status should be stable across recomputes: %f vs %f",
			first.Figures[0].CurrentStatus, second.Figures[0].CurrentStatus)
	}
	snaps := second.Figures[0].Snapshots
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots after two recomputes, got %d", len(snaps))
	}
	if !almostEqual(snaps[0].Status, snaps[1].Status) {
		t.Errorf("snapshot statuses should match with unchanged inputs: %f vs %f", snaps[0].Status, snaps[1].Status)
	}
}

func TestRecomputeDropsCorruptFigures(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{
		ID:      1,
		OwnerID: 7,
		Figures: []models.Skill{
			{ID: "good", TopicID: 3, Goal: 3},
			{ID: "corrupt", TopicID: 0, Goal: 3},
		},
	}
	svc := testService(store, &fakeReads{byUser: map[int64][]int64{}}, &fakeBooks{}, newFakeTopics(&models.Topic{ID: 3, Name: "history"}))

	user := &models.User{ID: 7, Role: models.RoleUser}
	stat, _, err := svc.Recompute(user, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stat.Figures) != 1 || stat.Figures[0].ID != "good" {
		t.Errorf("figure without a topic should be dropped, got %+v", stat.Figures)
	}
	if len(store.stats[1].Figures) != 1 {
		t.Error("dropped figure should be removed from the stored document")
	}
}

func TestAddSkillDefaults(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{ID: 1, OwnerID: 7}
	topics := newFakeTopics(&models.Topic{ID: 3, Name: "history"})
	svc := testService(store,
		&fakeReads{byUser: map[int64][]int64{7: {1}}},
		&fakeBooks{books: []*models.Book{bookWithEndorsers(1, 3, 10, 11, 12, 13, 14)}},
		topics)

	user := &models.User{ID: 7, Role: models.RoleUser}
	stat, err := svc.AddSkill(user, AddSkillInput{StatID: 1, TopicID: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stat.Figures) != 1 {
		t.Fatalf("expected 1 figure, got %d", len(stat.Figures))
	}
	figure := stat.Figures[0]
	if figure.Goal != 3 {
		t.Errorf("expected default goal 3, got %f", figure.Goal)
	}
	if figure.ID == "" {
		t.Error("skill should be assigned an id")
	}
	if len(figure.Snapshots) != 1 {
		t.Fatalf("expected an initial snapshot, got %d", len(figure.Snapshots))
	}
	if !almostEqual(figure.CurrentStatus, 0.5) {
		t.Errorf("5 endorsers on one book should score 0.5, got %f", figure.CurrentStatus)
	}
}

func TestAddSkillCreatesTopicByName(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{ID: 1, OwnerID: 7}
	topics := newFakeTopics()
	svc := testService(store, &fakeReads{byUser: map[int64][]int64{}}, &fakeBooks{}, topics)

	user := &models.User{ID: 7, Role: models.RoleUser}
	stat, err := svc.AddSkill(user, AddSkillInput{StatID: 1, TopicName: "  Ancient History "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	created, _ := topics.GetByName("ancient history")
	if created == nil {
		t.Fatal("topic should be created with a lowercased name")
	}
	if stat.Figures[0].TopicID != created.ID {
		t.Errorf("figure should reference the created topic, got %d", stat.Figures[0].TopicID)
	}
}

func TestAddSkillInvalidInput(t *testing.T) {
	svc := testService(newFakeStatStore(), &fakeReads{byUser: map[int64][]int64{}}, &fakeBooks{}, newFakeTopics())
	user := &models.User{ID: 7, Role: models.RoleUser}

	tests := []struct {
		name string
		in   AddSkillInput
	}{
		{"missing stat id", AddSkillInput{TopicID: 3}},
		{"missing topic", AddSkillInput{StatID: 1}},
		{"blank topic name", AddSkillInput{StatID: 1, TopicName: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AddSkill(user, tt.in); apperr.KindOf(err) != apperr.Validation {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAddSkillZeroGoalNeverCompletes(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{ID: 1, OwnerID: 7}
	zero := 0.0
	svc := testService(store,
		&fakeReads{byUser: map[int64][]int64{7: {1}}},
		&fakeBooks{books: []*models.Book{bookWithEndorsers(1, 3, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19)}},
		newFakeTopics(&models.Topic{ID: 3, Name: "history"}))

	user := &models.User{ID: 7, Role: models.RoleUser}
	stat, err := svc.AddSkill(user, AddSkillInput{StatID: 1, TopicID: 3, Goal: &zero})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	figure := stat.Figures[0]
	if !almostEqual(figure.CurrentStatus, 1.0) {
		t.Errorf("expected status 1.0, got %f", figure.CurrentStatus)
	}
	if figure.Completed {
		t.Error("a non-positive goal should never be completed")
	}
}

func TestEditSkillGoalRecomputesCompletion(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{
		ID:      1,
		OwnerID: 7,
		Figures: []models.Skill{{ID: "s1", TopicID: 3, Goal: 5, CurrentStatus: 2.5}},
	}
	svc := testService(store, &fakeReads{byUser: map[int64][]int64{}}, &fakeBooks{}, newFakeTopics(&models.Topic{ID: 3, Name: "history"}))

	user := &models.User{ID: 7, Role: models.RoleUser}
	goal := 2.0
	stat, err := svc.EditSkill(user, 1, "s1", SkillEdits{Goal: &goal})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	figure := stat.Figures[0]
	if figure.Goal != 2.0 {
		t.Errorf("expected goal 2.0, got %f", figure.Goal)
	}
	if !figure.Completed {
		t.Error("lowering the goal below the current status should complete the skill")
	}
	if len(figure.Snapshots) != 0 {
		t.Error("editing must not create snapshots")
	}
}

func TestEditSkillClearDueDate(t *testing.T) {
	due := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{
		ID:      1,
		OwnerID: 7,
		Figures: []models.Skill{{ID: "s1", TopicID: 3, Goal: 3, DueDate: &due}},
	}
	svc := testService(store, &fakeReads{byUser: map[int64][]int64{}}, &fakeBooks{}, newFakeTopics(&models.Topic{ID: 3, Name: "history"}))

	user := &models.User{ID: 7, Role: models.RoleUser}
	stat, err := svc.EditSkill(user, 1, "s1", SkillEdits{ClearDueDate: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.Figures[0].DueDate != nil {
		t.Error("due date should be cleared")
	}
}

func TestEditSkillUnauthorized(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{
		ID:      1,
		OwnerID: 7,
		Figures: []models.Skill{{ID: "s1", TopicID: 3, Goal: 3}},
	}
	svc := testService(store, &fakeReads{byUser: map[int64][]int64{}}, &fakeBooks{}, newFakeTopics())

	stranger := &models.User{ID: 8, Role: models.RoleUser}
	desc := "mine now"
	_, err := svc.EditSkill(stranger, 1, "s1", SkillEdits{Description: &desc})
	if apperr.KindOf(err) != apperr.Authorization {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestEditSkillNotFound(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{ID: 1, OwnerID: 7}
	svc := testService(store, &fakeReads{byUser: map[int64][]int64{}}, &fakeBooks{}, newFakeTopics())

	user := &models.User{ID: 7, Role: models.RoleUser}
	desc := "x"
	_, err := svc.EditSkill(user, 1, "missing", SkillEdits{Description: &desc})
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRemoveSkill(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{
		ID:      1,
		OwnerID: 7,
		Figures: []models.Skill{
			{ID: "keep", TopicID: 3, Goal: 3},
			{ID: "drop", TopicID: 4, Goal: 3},
		},
	}
	svc := testService(store, &fakeReads{byUser: map[int64][]int64{}}, &fakeBooks{}, newFakeTopics(&models.Topic{ID: 3, Name: "history"}))

	user := &models.User{ID: 7, Role: models.RoleUser}
	stat, err := svc.RemoveSkill(user, 1, "drop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stat.Figures) != 1 || stat.Figures[0].ID != "keep" {
		t.Errorf("expected only the kept figure, got %+v", stat.Figures)
	}

	if _, err := svc.RemoveSkill(user, 1, "drop"); apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("removing a missing skill should be not-found, got %v", err)
	}
}

func TestGetOrCreate(t *testing.T) {
	store := newFakeStatStore()
	svc := testService(store, &fakeReads{byUser: map[int64][]int64{}}, &fakeBooks{}, newFakeTopics())

	stat, err := svc.GetOrCreate(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.OwnerID != 7 {
		t.Errorf("expected owner 7, got %d", stat.OwnerID)
	}
	if len(stat.Figures) != 0 {
		t.Errorf("new stat should be empty, got %d figures", len(stat.Figures))
	}

	again, err := svc.GetOrCreate(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != stat.ID {
		t.Errorf("second call should return the same stat, got %d and %d", stat.ID, again.ID)
	}
}

func TestRecomputePopulatesTopics(t *testing.T) {
	store := newFakeStatStore()
	store.stats[1] = &models.Stat{
		ID:      1,
		OwnerID: 7,
		Figures: []models.Skill{{ID: "s1", TopicID: 3, Goal: 3}},
	}
	svc := testService(store, &fakeReads{byUser: map[int64][]int64{}}, &fakeBooks{}, newFakeTopics(&models.Topic{ID: 3, Name: "history"}))

	user := &models.User{ID: 7, Role: models.RoleUser}
	stat, _, err := svc.Recompute(user, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.Figures[0].Topic == nil || stat.Figures[0].Topic.Name != "history" {
		t.Errorf("figure topic should be populated, got %+v", stat.Figures[0].Topic)
	}
}
