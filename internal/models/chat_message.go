package models

import "time"

// MaxChatMessageLen bounds the length of a chat message body.
const MaxChatMessageLen = 300

// ChatMessage is a persisted group-chat message. Display order is ascending
// by creation time; when history is capped, the most recent window is taken
// descending and re-presented ascending. Messages disappear with their group
// or author.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
