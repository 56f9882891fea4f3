package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/StutiiiG/readai/internal/model"
)

type TurnEventRepository struct {
	db *gorm.DB
}

func NewTurnEventRepository(db *gorm.DB) *TurnEventRepository {
	return &TurnEventRepository{db: db}
}

func (r *TurnEventRepository) Create(event *model.TurnEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("create turn event failed: %w", err)
	}
	return nil
}

func (r *TurnEventRepository) ListBySessionID(sessionID string, limit int) ([]model.TurnEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var events []model.TurnEvent
	if err := r.db.Where("session_id = ?", sessionID).Order("created_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list turn events failed: %w", err)
	}
	return events, nil
}
