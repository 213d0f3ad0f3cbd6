package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"keenpages/internal/database"
	"keenpages/internal/models"
)

// StatRepository persists stats as whole documents: the figures list is
// serialized to a JSON column and every save rewrites it in full.
// Concurrent saves of the same stat are last-writer-wins.
type StatRepository struct {
	db *database.DB
}

// NewStatRepository creates a new stat repository
func NewStatRepository(db *database.DB) *StatRepository {
	return &StatRepository{db: db}
}

// GetByID retrieves a stat by id
func (r *StatRepository) GetByID(id int64) (*models.Stat, error) {
	return r.getStat("SELECT id, owner_id, figures, updated FROM stats WHERE id = ?", id)
}

// GetByOwner retrieves the stat owned by a user
func (r *StatRepository) GetByOwner(ownerID int64) (*models.Stat, error) {
	return r.getStat("SELECT id, owner_id, figures, updated FROM stats WHERE owner_id = ?", ownerID)
}

func (r *StatRepository) getStat(query string, args ...interface{}) (*models.Stat, error) {
	stat := &models.Stat{}
	var figures []byte
	err := r.db.QueryRow(query, args...).Scan(&stat.ID, &stat.OwnerID, &figures, &stat.Updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(figures) > 0 {
		if err := json.Unmarshal(figures, &stat.Figures); err != nil {
			return nil, fmt.Errorf("failed to decode stat figures: %w", err)
		}
	}
	return stat, nil
}

// Create inserts an empty stat for the owner
func (r *StatRepository) Create(ownerID int64) (*models.Stat, error) {
	id, err := r.db.ExecReturningID("INSERT INTO stats (owner_id, figures, updated) VALUES (?, ?, ?)",
		ownerID, "[]", time.Now())
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// Save rewrites the stat document in one write. All figure updates from
// a recompute are committed together.
func (r *StatRepository) Save(stat *models.Stat) error {
	figures, err := json.Marshal(stat.Figures)
	if err != nil {
		return fmt.Errorf("failed to encode stat figures: %w", err)
	}

	_, err = r.db.Exec("UPDATE stats SET figures = ?, updated = ? WHERE id = ?",
		string(figures), stat.Updated, stat.ID)
	return err
}
