package models

import "time"

// Follow is a directed edge from a follower to an author. Both invariants
// live in the schema: the composite unique index rejects duplicate edges and
// the check constraint rejects self-follows, even if application checks are
// bypassed.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_author;check:chk_no_self_follow,follower_id <> author_id" json:"follower_id"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID   uint      `gorm:"not null;uniqueIndex:idx_follower_author" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	CreatedAt  time.Time `json:"created_at"`
}
