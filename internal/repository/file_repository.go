package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/StutiiiG/readai/internal/model"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(file *model.StoredFile) error {
	if err := r.db.Create(file).Error; err != nil {
		return fmt.Errorf("create file failed: %w", err)
	}
	return nil
}

// ListBySessionID returns a session's files in upload order.
func (r *FileRepository) ListBySessionID(sessionID string) ([]model.StoredFile, error) {
	var files []model.StoredFile
	if err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list files failed: %w", err)
	}
	return files, nil
}

func (r *FileRepository) GetByIDAndUserID(fileID, userID string) (*model.StoredFile, error) {
	var file model.StoredFile
	if err := r.db.Where("id = ? AND user_id = ?", fileID, userID).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get file failed: %w", err)
	}
	return &file, nil
}

func (r *FileRepository) DeleteByID(fileID string) error {
	if err := r.db.Where("id = ?", fileID).Delete(&model.StoredFile{}).Error; err != nil {
		return fmt.Errorf("delete file failed: %w", err)
	}
	return nil
}

func (r *FileRepository) DeleteBySessionID(sessionID string) error {
	if err := r.db.Where("session_id = ?", sessionID).Delete(&model.StoredFile{}).Error; err != nil {
		return fmt.Errorf("delete files by session failed: %w", err)
	}
	return nil
}
