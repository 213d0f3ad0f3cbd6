package progress

import (
	"time"

	"keenpages/internal/models"
)

// Partition splits figures into those due for recomputation (no due
// date, or due on or before now) and those not yet due. Figures with no
// topic reference are corrupt records: they are dropped from both
// partitions rather than failing the batch.
func Partition(figures []models.Skill, now time.Time) (ready, notReady []models.Skill) {
	for _, figure := range figures {
		if figure.TopicID == 0 {
			continue
		}
		if figure.DueDate != nil && figure.DueDate.After(now) {
			notReady = append(notReady, figure)
			continue
		}
		ready = append(ready, figure)
	}
	return ready, notReady
}
