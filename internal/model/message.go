package model

import (
	"encoding/json"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Citation is one resolved [n] marker in an assistant reply. Markers resolve
// to whole sources, so Page stays unset for now.
type Citation struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
	Source string `json:"source"`
	Page   *int   `json:"page,omitempty"`
}

type Message struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	SessionID string    `gorm:"size:36;not null;index" json:"session_id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Citations string    `gorm:"type:text" json:"-"` // JSON array of Citation
	CreatedAt time.Time `json:"created_at"`
}

// CitationList returns the parsed citations; empty on parse error.
func (m *Message) CitationList() []Citation {
	if m.Citations == "" {
		return nil
	}
	var list []Citation
	_ = json.Unmarshal([]byte(m.Citations), &list)
	return list
}

// SetCitationList stores the citations as JSON.
func (m *Message) SetCitationList(list []Citation) {
	if len(list) == 0 {
		m.Citations = "[]"
		return
	}
	b, _ := json.Marshal(list)
	m.Citations = string(b)
}
