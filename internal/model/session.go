package model

import (
	"encoding/json"
	"time"
)

type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	Title     string    `gorm:"size:256;not null" json:"title"`
	FileIDs   string    `gorm:"type:text" json:"-"` // JSON array of file ids, upload order
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileIDList returns the attached file ids in upload order; empty on parse error.
func (s *Session) FileIDList() []string {
	if s.FileIDs == "" {
		return nil
	}
	var ids []string
	_ = json.Unmarshal([]byte(s.FileIDs), &ids)
	return ids
}

// SetFileIDList stores the file id list as JSON.
func (s *Session) SetFileIDList(ids []string) {
	if len(ids) == 0 {
		s.FileIDs = "[]"
		return
	}
	b, _ := json.Marshal(ids)
	s.FileIDs = string(b)
}
