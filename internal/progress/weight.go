package progress

import "keenpages/internal/models"

// endorsementsForFullWeight is the number of distinct endorsers at which
// a book counts fully toward a topic.
const endorsementsForFullWeight = 10

// TopicWeight returns the [0,1] contribution of book toward topicID:
// min(1, endorsers/10). A book with no association for the topic
// contributes 0.
func TopicWeight(book *models.Book, topicID int64) float64 {
	for _, assoc := range book.Topics {
		if assoc.TopicID != topicID {
			continue
		}
		weight := float64(len(assoc.Agreed)) / endorsementsForFullWeight
		if weight > 1 {
			return 1
		}
		return weight
	}
	return 0
}
